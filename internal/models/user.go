package models

import (
	"net/url"

	"github.com/julianstephens/streakwars/internal/constants"
)

// User is the player profile owned by this device.
type User struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Avatar     string  `json:"avatar"`
	Coins      int     `json:"coins"`
	TrustScore float64 `json:"trustScore"`
	GroupID    *string `json:"groupId"`
}

// InGroup reports whether the user currently belongs to groupID.
func (u User) InGroup(groupID string) bool {
	return u.GroupID != nil && *u.GroupID == groupID
}

// CurrentGroupID returns the user's group id or "" when ungrouped.
func (u User) CurrentGroupID() string {
	if u.GroupID == nil {
		return ""
	}
	return *u.GroupID
}

// AvatarURL returns the generated avatar for a player name. The same name
// always produces the same avatar.
func AvatarURL(name string) string {
	return constants.AvatarURLPrefix + url.QueryEscape(name)
}
