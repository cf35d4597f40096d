package constants

// Storage keys, one per persisted collection. The values match the keys the
// mobile client used so exported records stay interchangeable.
const (
	KeyUser       = "streak_wars_user"
	KeyHabits     = "streak_wars_habits"
	KeyGroups     = "streak_wars_groups"
	KeyLogs       = "streak_wars_logs"
	KeySabotages  = "streak_wars_sabotages"
	KeyActivities = "streak_wars_activities"
)

// AllKeys lists every collection key in load order.
var AllKeys = []string{
	KeyUser,
	KeyHabits,
	KeyGroups,
	KeyLogs,
	KeySabotages,
	KeyActivities,
}
