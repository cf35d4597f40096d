package models

import (
	"fmt"
	"slices"
	"time"

	"github.com/julianstephens/streakwars/internal/constants"
)

type Habit struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Icon           string   `json:"icon"`
	UserID         string   `json:"userId"`
	IsShared       bool     `json:"isShared"`
	Streak         int      `json:"streak"`
	Multiplier     float64  `json:"multiplier"`
	LastCompleted  *string  `json:"lastCompleted"`
	CompletedDates []string `json:"completedDates"`
}

// CompletedOn reports whether the habit already has a completion for day.
func (h Habit) CompletedOn(day string) bool {
	return slices.Contains(h.CompletedDates, day)
}

func (h Habit) Validate() error {
	if err := ValidateName("habit", h.Name); err != nil {
		return err
	}
	if h.UserID == "" {
		return fmt.Errorf("habit %q has no owner", h.Name)
	}
	if h.Streak < 0 {
		return fmt.Errorf("habit %q has negative streak %d", h.Name, h.Streak)
	}
	seen := make(map[string]struct{}, len(h.CompletedDates))
	for _, day := range h.CompletedDates {
		if _, err := time.Parse(constants.DateFormat, day); err != nil {
			return fmt.Errorf("habit %q has invalid completion date %q", h.Name, day)
		}
		if _, dup := seen[day]; dup {
			return fmt.Errorf("habit %q completed twice on %s", h.Name, day)
		}
		seen[day] = struct{}{}
	}
	return nil
}

// HabitLog records one successful completion.
type HabitLog struct {
	ID              string          `json:"id"`
	HabitID         string          `json:"habitId"`
	UserID          string          `json:"userId"`
	Date            string          `json:"date"`
	Verified        bool            `json:"verified"`
	ProofURL        string          `json:"proofUrl,omitempty"`
	ChallengedBy    string          `json:"challengedBy,omitempty"`
	ChallengeResult ChallengeResult `json:"challengeResult,omitempty"`
}

// ChallengeResult is reserved for proof-challenge resolution.
type ChallengeResult string

const (
	ChallengePending ChallengeResult = "pending"
	ChallengeSuccess ChallengeResult = "success"
	ChallengeFailed  ChallengeResult = "failed"
)
