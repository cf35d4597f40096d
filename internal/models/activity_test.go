package models

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestActivityJSONMatchesStoredLayout(t *testing.T) {
	a := Activity{
		ID:        "a1",
		UserID:    "u1",
		GroupID:   "g1",
		Timestamp: time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC),
		Data:      CompletionData{HabitName: "Read", Coins: 12, Streak: 3},
	}

	b, err := json.Marshal(a)
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}

	var raw map[string]any
	if err := json.Unmarshal(b, &raw); err != nil {
		t.Fatalf("Unmarshal(raw) error: %v", err)
	}
	if raw["type"] != "completion" {
		t.Errorf("type = %v, want completion", raw["type"])
	}
	if _, ok := raw["targetUserId"]; ok {
		t.Error("targetUserId should be omitted when empty")
	}
	data, ok := raw["data"].(map[string]any)
	if !ok {
		t.Fatalf("data is %T, want object", raw["data"])
	}
	if data["habitName"] != "Read" || data["coins"] != float64(12) || data["streak"] != float64(3) {
		t.Errorf("unexpected data payload: %v", data)
	}
	if _, ok := data["sabotageType"]; ok {
		t.Error("completion payload should not carry sabotageType")
	}
}

func TestActivityDecodesEachKind(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want ActivityData
	}{
		{
			name: "sabotage",
			in:   `{"id":"1","type":"sabotage","userId":"u","targetUserId":"t","groupId":"","timestamp":"2026-03-10T08:00:00.000Z","data":{"sabotageType":"jam","coins":50}}`,
			want: SabotageData{SabotageType: SabotageJam, Coins: 50},
		},
		{
			name: "streak",
			in:   `{"id":"2","type":"streak","userId":"u","groupId":"g","timestamp":"2026-03-10T08:00:00.000Z","data":{"streak":5}}`,
			want: StreakData{Streak: 5},
		},
		{
			name: "audit",
			in:   `{"id":"3","type":"audit","userId":"u","groupId":"g","timestamp":"2026-03-10T08:00:00.000Z","data":{"auditResult":"failed"}}`,
			want: AuditData{Result: AuditFailed},
		},
		{
			name: "blackout",
			in:   `{"id":"4","type":"blackout","userId":"u","groupId":"g","timestamp":"2026-03-10T08:00:00.000Z","data":{}}`,
			want: BlackoutData{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var a Activity
			if err := json.Unmarshal([]byte(tt.in), &a); err != nil {
				t.Fatalf("Unmarshal() error: %v", err)
			}
			if a.Data != tt.want {
				t.Errorf("Data = %#v, want %#v", a.Data, tt.want)
			}
			if a.Type() != tt.want.Kind() {
				t.Errorf("Type() = %s, want %s", a.Type(), tt.want.Kind())
			}
		})
	}
}

func TestActivityRejectsUnknownType(t *testing.T) {
	var a Activity
	err := json.Unmarshal([]byte(`{"id":"1","type":"party","data":{}}`), &a)
	if err == nil || !strings.Contains(err.Error(), "party") {
		t.Errorf("expected unknown type error, got %v", err)
	}
}

func TestActivityWithoutDataFailsToMarshal(t *testing.T) {
	if _, err := json.Marshal(Activity{ID: "x"}); err == nil {
		t.Error("expected error marshaling activity without data")
	}
}
