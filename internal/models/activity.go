package models

import (
	"encoding/json"
	"fmt"
	"time"
)

type ActivityType string

const (
	ActivityCompletion ActivityType = "completion"
	ActivitySabotage   ActivityType = "sabotage"
	ActivityAudit      ActivityType = "audit"
	ActivityStreak     ActivityType = "streak"
	ActivityBlackout   ActivityType = "blackout"
)

type AuditResult string

const (
	AuditSuccess AuditResult = "success"
	AuditFailed  AuditResult = "failed"
)

// ActivityData is the kind-specific payload of an Activity. The set of
// implementations is closed: CompletionData, SabotageData, StreakData,
// AuditData and BlackoutData.
type ActivityData interface {
	Kind() ActivityType
}

type CompletionData struct {
	HabitName string
	Coins     int
	Streak    int
}

type SabotageData struct {
	SabotageType SabotageType
	Coins        int
}

type StreakData struct {
	Streak int
}

type AuditData struct {
	Result AuditResult
}

type BlackoutData struct{}

func (CompletionData) Kind() ActivityType { return ActivityCompletion }
func (SabotageData) Kind() ActivityType   { return ActivitySabotage }
func (StreakData) Kind() ActivityType     { return ActivityStreak }
func (AuditData) Kind() ActivityType      { return ActivityAudit }
func (BlackoutData) Kind() ActivityType   { return ActivityBlackout }

// Activity is an immutable feed entry. Its type is determined by Data.
type Activity struct {
	ID           string
	UserID       string
	TargetUserID string
	GroupID      string
	Timestamp    time.Time
	Data         ActivityData
}

func (a Activity) Type() ActivityType {
	if a.Data == nil {
		return ""
	}
	return a.Data.Kind()
}

// activityPayload is the flat "data" object of the persisted form.
type activityPayload struct {
	HabitName    string       `json:"habitName,omitempty"`
	Coins        *int         `json:"coins,omitempty"`
	SabotageType SabotageType `json:"sabotageType,omitempty"`
	Streak       *int         `json:"streak,omitempty"`
	AuditResult  AuditResult  `json:"auditResult,omitempty"`
}

type activityRecord struct {
	ID           string          `json:"id"`
	Type         ActivityType    `json:"type"`
	UserID       string          `json:"userId"`
	TargetUserID string          `json:"targetUserId,omitempty"`
	GroupID      string          `json:"groupId"`
	Timestamp    time.Time       `json:"timestamp"`
	Data         activityPayload `json:"data"`
}

func (a Activity) MarshalJSON() ([]byte, error) {
	if a.Data == nil {
		return nil, fmt.Errorf("activity %s has no data", a.ID)
	}
	rec := activityRecord{
		ID:           a.ID,
		Type:         a.Data.Kind(),
		UserID:       a.UserID,
		TargetUserID: a.TargetUserID,
		GroupID:      a.GroupID,
		Timestamp:    a.Timestamp,
	}
	switch d := a.Data.(type) {
	case CompletionData:
		rec.Data = activityPayload{HabitName: d.HabitName, Coins: &d.Coins, Streak: &d.Streak}
	case SabotageData:
		rec.Data = activityPayload{SabotageType: d.SabotageType, Coins: &d.Coins}
	case StreakData:
		rec.Data = activityPayload{Streak: &d.Streak}
	case AuditData:
		rec.Data = activityPayload{AuditResult: d.Result}
	case BlackoutData:
	default:
		return nil, fmt.Errorf("activity %s has unsupported data %T", a.ID, a.Data)
	}
	return json.Marshal(rec)
}

func (a *Activity) UnmarshalJSON(b []byte) error {
	var rec activityRecord
	if err := json.Unmarshal(b, &rec); err != nil {
		return err
	}

	deref := func(p *int) int {
		if p == nil {
			return 0
		}
		return *p
	}

	var data ActivityData
	switch rec.Type {
	case ActivityCompletion:
		data = CompletionData{HabitName: rec.Data.HabitName, Coins: deref(rec.Data.Coins), Streak: deref(rec.Data.Streak)}
	case ActivitySabotage:
		data = SabotageData{SabotageType: rec.Data.SabotageType, Coins: deref(rec.Data.Coins)}
	case ActivityStreak:
		data = StreakData{Streak: deref(rec.Data.Streak)}
	case ActivityAudit:
		data = AuditData{Result: rec.Data.AuditResult}
	case ActivityBlackout:
		data = BlackoutData{}
	default:
		return fmt.Errorf("unknown activity type %q", rec.Type)
	}

	*a = Activity{
		ID:           rec.ID,
		UserID:       rec.UserID,
		TargetUserID: rec.TargetUserID,
		GroupID:      rec.GroupID,
		Timestamp:    rec.Timestamp,
		Data:         data,
	}
	return nil
}
