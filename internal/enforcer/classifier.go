package enforcer

import "github.com/disgoorg/snowflake/v2"

// Classification is the outcome of evaluating one member against a guild's
// primary role.
type Classification int

const (
	// Compliant means the member needs no action: either the guild has no
	// primary role configured or the member holds it.
	Compliant Classification = iota
	// ExemptBot means the member is a bot. Bots are never auto-granted the
	// primary role, so they are never stripped.
	ExemptBot
	// NoRolesHeld means the member holds no roles, so there is nothing to
	// revoke.
	NoRolesHeld
	// MustRevokeAll means the member lacks the primary role and every role
	// they hold must be removed.
	MustRevokeAll
)

// String returns a human-readable name for the classification.
func (c Classification) String() string {
	switch c {
	case Compliant:
		return "compliant"
	case ExemptBot:
		return "exempt_bot"
	case NoRolesHeld:
		return "no_roles_held"
	case MustRevokeAll:
		return "must_revoke_all"
	default:
		return "unknown"
	}
}

// Classify decides whether enforcement action is required for a member.
// The rules are evaluated in order; the bot exemption and the empty-role
// short-circuit come before the revoke decision so no mutation call is
// wasted on members that have nothing to lose.
func Classify(member Member, primaryRole snowflake.ID) Classification {
	if primaryRole == 0 {
		return Compliant
	}

	if member.HasRole(primaryRole) {
		return Compliant
	}

	if member.IsBot {
		return ExemptBot
	}

	if len(member.RoleIDs) == 0 {
		return NoRolesHeld
	}

	return MustRevokeAll
}
