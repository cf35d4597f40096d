package constants

import "time"

const (
	// Economy
	StartingCoins       = 100
	StartingTrustScore  = 1.0
	BaseCompletionCoins = 10

	// Streak multiplier tiers
	StreakBonusThreshold  = 3
	BaseMultiplier        = 1.0
	StreakBonusMultiplier = 1.2

	// Sabotage costs
	SabotageCostDelay = 25
	SabotageCostProof = 40
	SabotageCostJam   = 50
	SabotageDuration  = 24 * time.Hour

	AvatarURLPrefix = "https://api.dicebear.com/7.x/avataaars/svg?seed="

	// Leaderboard placeholders for members whose state lives on another device
	PlaceholderCoins      = 50
	PlaceholderTrustScore = 0.95
)

// HabitIcons is the palette offered when adding a habit. The first entry is
// the default icon.
var HabitIcons = []string{"💪", "📚", "🏃", "🧘", "💧", "🥗", "😴", "🎯", "📝", "🎨"}
