// Package views derives presentation data from engine snapshots. Nothing
// here mutates state.
package views

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/julianstephens/streakwars/internal/constants"
	"github.com/julianstephens/streakwars/internal/engine"
	"github.com/julianstephens/streakwars/internal/models"
)

// LeaderboardEntry is one ranked group member. Only the local player has
// real numbers; other members show placeholders until their devices sync.
type LeaderboardEntry struct {
	UserID     string
	Name       string
	Coins      int
	BestStreak int
	TrustScore float64
	IsYou      bool
}

// Leaderboard ranks the members of the player's current group by coins,
// highest first. Ties keep group membership order.
func Leaderboard(snap engine.Snapshot) []LeaderboardEntry {
	group, ok := snap.CurrentGroup()
	if !ok {
		return nil
	}

	entries := make([]LeaderboardEntry, 0, len(group.MemberIDs))
	for _, id := range group.MemberIDs {
		entry := LeaderboardEntry{
			UserID:     id,
			Name:       PlaceholderName(id),
			Coins:      constants.PlaceholderCoins,
			BestStreak: bestStreak(snap.Habits, id),
			TrustScore: constants.PlaceholderTrustScore,
		}
		if snap.User != nil && id == snap.User.ID {
			entry.IsYou = true
			entry.Name = cmp.Or(snap.User.Name, "You")
			entry.Coins = snap.User.Coins
			entry.TrustScore = cmp.Or(snap.User.TrustScore, constants.StartingTrustScore)
		}
		entries = append(entries, entry)
	}

	slices.SortStableFunc(entries, func(a, b LeaderboardEntry) int {
		return cmp.Compare(b.Coins, a.Coins)
	})
	return entries
}

// Rank returns the player's 1-based position, or 0 when absent.
func Rank(entries []LeaderboardEntry) int {
	for i, e := range entries {
		if e.IsYou {
			return i + 1
		}
	}
	return 0
}

// RankBadge returns the medal for the top three positions (0-based index)
// and "#n" below that.
func RankBadge(index int) string {
	switch index {
	case 0:
		return "🥇"
	case 1:
		return "🥈"
	case 2:
		return "🥉"
	default:
		return fmt.Sprintf("#%d", index+1)
	}
}

// PlaceholderName labels a member whose profile is not on this device.
func PlaceholderName(userID string) string {
	if len(userID) > 4 {
		userID = userID[len(userID)-4:]
	}
	return "Player " + userID
}

func bestStreak(habits []models.Habit, userID string) int {
	best := 0
	for _, h := range habits {
		if h.UserID == userID {
			best = max(best, h.Streak)
		}
	}
	return best
}

// TimeAgo renders the age of ts relative to now in whole units.
func TimeAgo(ts, now time.Time) string {
	d := now.Sub(ts)
	switch {
	case d < time.Minute:
		return "Just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d/time.Minute))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d/time.Hour))
	default:
		return fmt.Sprintf("%dd ago", int(d/(24*time.Hour)))
	}
}

// ActivityText describes an activity from the point of view of
// currentUserID.
func ActivityText(a models.Activity, currentUserID string) string {
	who := "Someone"
	if currentUserID != "" && a.UserID == currentUserID {
		who = "You"
	}

	switch d := a.Data.(type) {
	case models.CompletionData:
		return fmt.Sprintf("%s completed %s (+%d 🪙)", who, d.HabitName, d.Coins)
	case models.SabotageData:
		return fmt.Sprintf("%s used %s sabotage (-%d 🪙)", who, d.SabotageType, d.Coins)
	case models.StreakData:
		return fmt.Sprintf("%s reached a %d-day streak! 🔥", who, d.Streak)
	case models.AuditData:
		verb := "failed"
		if d.Result == models.AuditSuccess {
			verb = "passed"
		}
		return fmt.Sprintf("%s %s an audit", who, verb)
	default:
		return who + " performed an action"
	}
}

func ActivityIcon(t models.ActivityType) string {
	switch t {
	case models.ActivityCompletion:
		return "🎯"
	case models.ActivitySabotage:
		return "⚡"
	case models.ActivityStreak:
		return "🔥"
	case models.ActivityAudit:
		return "🛡️"
	default:
		return "📈"
	}
}

// GroupFeed returns the activities that belong to the player's current
// group, most recent first. An ungrouped player sees their ungrouped
// activities.
func GroupFeed(snap engine.Snapshot) []models.Activity {
	groupID := ""
	if snap.User != nil {
		groupID = snap.User.CurrentGroupID()
	}

	var feed []models.Activity
	for _, a := range snap.Activities {
		if a.GroupID == groupID {
			feed = append(feed, a)
		}
	}
	slices.SortStableFunc(feed, func(a, b models.Activity) int {
		return b.Timestamp.Compare(a.Timestamp)
	})
	return feed
}

// SabotageTargets lists the other members of the player's group.
func SabotageTargets(snap engine.Snapshot) []string {
	group, ok := snap.CurrentGroup()
	if !ok {
		return nil
	}
	var targets []string
	for _, id := range group.MemberIDs {
		if snap.User != nil && id == snap.User.ID {
			continue
		}
		targets = append(targets, id)
	}
	return targets
}

// HomeStats is the summary row of the home screen.
type HomeStats struct {
	TotalHabits    int
	CompletedToday int
	BestStreak     int
	Coins          int
	TrustPercent   int
}

// PlayerHabits returns the habits owned by the current player.
func PlayerHabits(snap engine.Snapshot) []models.Habit {
	if snap.User == nil {
		return nil
	}
	var own []models.Habit
	for _, h := range snap.Habits {
		if h.UserID == snap.User.ID {
			own = append(own, h)
		}
	}
	return own
}

// Stats summarizes the player's own habits for day.
func Stats(snap engine.Snapshot, day string) HomeStats {
	var s HomeStats
	if snap.User == nil {
		return s
	}
	for _, h := range PlayerHabits(snap) {
		s.TotalHabits++
		if h.CompletedOn(day) {
			s.CompletedToday++
		}
		s.BestStreak = max(s.BestStreak, h.Streak)
	}
	s.Coins = snap.User.Coins
	s.TrustPercent = int(math.Round(cmp.Or(snap.User.TrustScore, constants.StartingTrustScore) * 100))
	return s
}

// FormatCoins renders a coin amount with thousands separators.
func FormatCoins(n int) string {
	return humanize.Comma(int64(n)) + " 🪙"
}
