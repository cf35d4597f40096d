package models

import (
	"fmt"
	"time"

	"github.com/julianstephens/streakwars/internal/constants"
)

type SabotageType string

const (
	SabotageDelay SabotageType = "delay"
	SabotageProof SabotageType = "proof"
	SabotageJam   SabotageType = "jam"
)

// SabotageOffer describes an entry in the sabotage shop.
type SabotageOffer struct {
	Type        SabotageType
	Name        string
	Description string
	Cost        int
}

// SabotageCatalog lists every purchasable sabotage in shop order.
var SabotageCatalog = []SabotageOffer{
	{
		Type:        SabotageDelay,
		Name:        "Time Delay",
		Description: "Target cannot log habits until 9 PM",
		Cost:        constants.SabotageCostDelay,
	},
	{
		Type:        SabotageProof,
		Name:        "Proof Challenge",
		Description: "Target must upload photo proof",
		Cost:        constants.SabotageCostProof,
	},
	{
		Type:        SabotageJam,
		Name:        "Multiplier Jam",
		Description: "Halves target streak bonus for 24h",
		Cost:        constants.SabotageCostJam,
	},
}

func (t SabotageType) Valid() bool {
	_, ok := t.Offer()
	return ok
}

// Offer returns the catalog entry for t.
func (t SabotageType) Offer() (SabotageOffer, bool) {
	for _, o := range SabotageCatalog {
		if o.Type == t {
			return o, true
		}
	}
	return SabotageOffer{}, false
}

// SabotageCost returns the coin price of a sabotage type.
func SabotageCost(t SabotageType) (int, error) {
	o, ok := t.Offer()
	if !ok {
		return 0, fmt.Errorf("unknown sabotage type %q", t)
	}
	return o.Cost, nil
}

func ParseSabotageType(s string) (SabotageType, error) {
	t := SabotageType(s)
	if !t.Valid() {
		return "", fmt.Errorf("unknown sabotage type %q (expected delay, proof or jam)", s)
	}
	return t, nil
}

// Sabotage is a timed debuff one player buys against another. Active is never
// cleared once set; expiry is derived from ExpiresAt at read time.
type Sabotage struct {
	ID         string       `json:"id"`
	Type       SabotageType `json:"type"`
	FromUserID string       `json:"fromUserId"`
	ToUserID   string       `json:"toUserId"`
	GroupID    string       `json:"groupId"`
	Timestamp  time.Time    `json:"timestamp"`
	ExpiresAt  time.Time    `json:"expiresAt"`
	Active     bool         `json:"active"`
}

// IsActiveAt reports whether the sabotage is in effect at now, i.e. now lies
// in [Timestamp, ExpiresAt).
func (s Sabotage) IsActiveAt(now time.Time) bool {
	return s.Active && !now.Before(s.Timestamp) && now.Before(s.ExpiresAt)
}

// Remaining returns how long the sabotage stays in effect after now.
func (s Sabotage) Remaining(now time.Time) time.Duration {
	if !s.IsActiveAt(now) {
		return 0
	}
	return s.ExpiresAt.Sub(now)
}
