package models

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/julianstephens/streakwars/internal/constants"
)

// StreakMultiplier returns the coin multiplier earned by a streak length.
func StreakMultiplier(streak int) float64 {
	if streak >= constants.StreakBonusThreshold {
		return constants.StreakBonusMultiplier
	}
	return constants.BaseMultiplier
}

// CoinReward returns the coins paid for one completion at multiplier.
func CoinReward(multiplier float64) int {
	return int(math.Floor(constants.BaseCompletionCoins * multiplier))
}

// NextStreak returns the streak a habit reaches when completed on the day
// after yesterday. Any gap restarts the streak at 1.
func NextStreak(h Habit, yesterday string) int {
	if h.LastCompleted != nil && *h.LastCompleted == yesterday {
		return h.Streak + 1
	}
	return 1
}

// CalendarDay returns the YYYY-MM-DD day containing t in loc. A nil loc
// means the system local zone.
func CalendarDay(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format(constants.DateFormat)
}

// PreviousDay returns the calendar day before day.
func PreviousDay(day string) (string, error) {
	d, err := time.Parse(constants.DateFormat, day)
	if err != nil {
		return "", fmt.Errorf("invalid day %q: %w", day, err)
	}
	return d.AddDate(0, 0, -1).Format(constants.DateFormat), nil
}

// ValidateName rejects blank names for the named entity kind.
func ValidateName(kind, name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%s name cannot be empty", kind)
	}
	return nil
}
