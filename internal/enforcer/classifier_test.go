package enforcer_test

import (
	"testing"

	"github.com/disgoorg/snowflake/v2"
	"github.com/rolewarden/rolewarden/internal/enforcer"
	"github.com/stretchr/testify/assert"
)

const (
	primaryRole snowflake.ID = 100
	otherRoleA  snowflake.ID = 200
	otherRoleB  snowflake.ID = 300
)

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		member      enforcer.Member
		primaryRole snowflake.ID
		expected    enforcer.Classification
	}{
		{
			name:        "no primary role configured",
			member:      enforcer.Member{UserID: 1, RoleIDs: []snowflake.ID{otherRoleA}},
			primaryRole: 0,
			expected:    enforcer.Compliant,
		},
		{
			name:        "no primary role configured and no roles held",
			member:      enforcer.Member{UserID: 1},
			primaryRole: 0,
			expected:    enforcer.Compliant,
		},
		{
			name:        "bot without roles is still compliant when nothing is configured",
			member:      enforcer.Member{UserID: 1, IsBot: true},
			primaryRole: 0,
			expected:    enforcer.Compliant,
		},
		{
			name:        "member holds the primary role",
			member:      enforcer.Member{UserID: 1, RoleIDs: []snowflake.ID{primaryRole, otherRoleA}},
			primaryRole: primaryRole,
			expected:    enforcer.Compliant,
		},
		{
			name:        "member holds only the primary role",
			member:      enforcer.Member{UserID: 1, RoleIDs: []snowflake.ID{primaryRole}},
			primaryRole: primaryRole,
			expected:    enforcer.Compliant,
		},
		{
			name:        "bot holding the primary role is compliant before exempt",
			member:      enforcer.Member{UserID: 1, IsBot: true, RoleIDs: []snowflake.ID{primaryRole}},
			primaryRole: primaryRole,
			expected:    enforcer.Compliant,
		},
		{
			name:        "bot lacking the primary role is exempt",
			member:      enforcer.Member{UserID: 1, IsBot: true, RoleIDs: []snowflake.ID{otherRoleA}},
			primaryRole: primaryRole,
			expected:    enforcer.ExemptBot,
		},
		{
			name:        "bot without any roles is exempt before the empty check",
			member:      enforcer.Member{UserID: 1, IsBot: true},
			primaryRole: primaryRole,
			expected:    enforcer.ExemptBot,
		},
		{
			name:        "member without any roles has nothing to revoke",
			member:      enforcer.Member{UserID: 1},
			primaryRole: primaryRole,
			expected:    enforcer.NoRolesHeld,
		},
		{
			name:        "member lacking the primary role must lose everything",
			member:      enforcer.Member{UserID: 1, RoleIDs: []snowflake.ID{otherRoleA, otherRoleB}},
			primaryRole: primaryRole,
			expected:    enforcer.MustRevokeAll,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			result := enforcer.Classify(tt.member, tt.primaryRole)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestClassificationString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "compliant", enforcer.Compliant.String())
	assert.Equal(t, "exempt_bot", enforcer.ExemptBot.String())
	assert.Equal(t, "no_roles_held", enforcer.NoRolesHeld.String())
	assert.Equal(t, "must_revoke_all", enforcer.MustRevokeAll.String())
}
