// Package enforcer implements the primary-role enforcement engine: the
// reactive handler for member updates, the bulk sweep, and the pure
// classification rules both share.
package enforcer

import (
	"context"

	"github.com/disgoorg/snowflake/v2"
)

// Member is a point-in-time snapshot of one guild member's roles and bot
// status. Snapshots are produced fresh from the API for each decision and
// never cached, since role state can change between reads.
type Member struct {
	UserID  snowflake.ID
	RoleIDs []snowflake.ID
	IsBot   bool
}

// HasRole reports whether the snapshot contains the given role.
func (m Member) HasRole(roleID snowflake.ID) bool {
	for _, id := range m.RoleIDs {
		if id == roleID {
			return true
		}
	}

	return false
}

// GuildAPI abstracts the Discord REST operations the enforcement engine
// needs. The concrete implementation lives in the bot layer.
type GuildAPI interface {
	// MemberCount returns the guild's approximate member count.
	MemberCount(ctx context.Context, guildID snowflake.ID) (int, error)
	// Members returns one page of members ordered by ascending user ID,
	// starting after the given user ID.
	Members(ctx context.Context, guildID snowflake.ID, limit int, after snowflake.ID) ([]Member, error)
	// Member returns the live member record for a single user.
	Member(ctx context.Context, guildID, userID snowflake.ID) (Member, error)
	// RemoveRoles removes the given roles from a member. Removal is
	// idempotent at the Discord API.
	RemoveRoles(ctx context.Context, guildID, userID snowflake.ID, roleIDs []snowflake.ID) error
	// SendDirectMessage sends a DM to a user. Best effort; the user may
	// have direct messages disabled.
	SendDirectMessage(ctx context.Context, userID snowflake.ID, content string) error
}

// ConfigStore abstracts the per-guild settings storage. Reads return
// conservative defaults instead of errors; see the database models.
type ConfigStore interface {
	Register(ctx context.Context, guildID uint64) error
	SetPrimaryRole(ctx context.Context, guildID, roleID uint64) error
	GetPrimaryRole(ctx context.Context, guildID uint64) uint64
	SetAutoScan(ctx context.Context, guildID uint64, enabled bool) error
	GetAutoScan(ctx context.Context, guildID uint64) bool
}

// SweepGuard grants at most one in-flight sweep per guild.
type SweepGuard interface {
	// TryAcquire attempts to mark a sweep as running for the guild.
	// It returns false when another sweep already holds the guard.
	TryAcquire(ctx context.Context, guildID snowflake.ID) bool
	// Release clears the guild's sweep marker.
	Release(ctx context.Context, guildID snowflake.ID)
}
