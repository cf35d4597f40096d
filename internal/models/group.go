package models

import (
	"fmt"
	"slices"
	"time"
)

type ChallengeType string

const (
	ChallengeWeekly  ChallengeType = "weekly"
	ChallengeMonthly ChallengeType = "monthly"
)

func (c ChallengeType) Valid() bool {
	return c == ChallengeWeekly || c == ChallengeMonthly
}

func ParseChallengeType(s string) (ChallengeType, error) {
	c := ChallengeType(s)
	if !c.Valid() {
		return "", fmt.Errorf("invalid challenge type %q (expected weekly or monthly)", s)
	}
	return c, nil
}

type Group struct {
	ID            string        `json:"id"`
	Name          string        `json:"name"`
	MemberIDs     []string      `json:"memberIds"`
	CreatedAt     time.Time     `json:"createdAt"`
	ChallengeType ChallengeType `json:"challengeType"`
}

func (g Group) HasMember(userID string) bool {
	return slices.Contains(g.MemberIDs, userID)
}
