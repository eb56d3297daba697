package bot

import (
	"context"
	"fmt"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/rest"
	"github.com/disgoorg/snowflake/v2"
	"github.com/rolewarden/rolewarden/internal/enforcer"
	"go.uber.org/zap"
)

// guildClient adapts the disgo REST client to the enforcer.GuildAPI
// contract. Rate-limit handling beyond the enforcement engine's own pacing
// is left to disgo's transport.
type guildClient struct {
	rest   rest.Rest
	logger *zap.Logger
}

func newGuildClient(rest rest.Rest, logger *zap.Logger) *guildClient {
	return &guildClient{
		rest:   rest,
		logger: logger.Named("guild_client"),
	}
}

// toMember converts a disgo member payload into the enforcement engine's
// member snapshot.
func toMember(member discord.Member) enforcer.Member {
	return enforcer.Member{
		UserID:  member.User.ID,
		RoleIDs: member.RoleIDs,
		IsBot:   member.User.Bot,
	}
}

func (c *guildClient) MemberCount(ctx context.Context, guildID snowflake.ID) (int, error) {
	guild, err := c.rest.GetGuild(guildID, true, rest.WithCtx(ctx))
	if err != nil {
		return 0, fmt.Errorf("failed to get guild %d: %w", uint64(guildID), err)
	}

	return guild.ApproximateMemberCount, nil
}

func (c *guildClient) Members(ctx context.Context, guildID snowflake.ID, limit int, after snowflake.ID) ([]enforcer.Member, error) {
	chunk, err := c.rest.GetMembers(guildID, limit, after, rest.WithCtx(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to get members of guild %d: %w", uint64(guildID), err)
	}

	members := make([]enforcer.Member, len(chunk))
	for i, member := range chunk {
		members[i] = toMember(member)
	}

	return members, nil
}

func (c *guildClient) Member(ctx context.Context, guildID, userID snowflake.ID) (enforcer.Member, error) {
	member, err := c.rest.GetMember(guildID, userID, rest.WithCtx(ctx))
	if err != nil {
		return enforcer.Member{}, fmt.Errorf("failed to get member %d: %w", uint64(userID), err)
	}

	return toMember(*member), nil
}

// RemoveRoles strips the given roles in a single member update. The
// enforcement engine only ever revokes a member's full role set, so the
// update replaces it with the empty set rather than issuing one removal
// call per role.
func (c *guildClient) RemoveRoles(ctx context.Context, guildID, userID snowflake.ID, roleIDs []snowflake.ID) error {
	_, err := c.rest.UpdateMember(guildID, userID, discord.MemberUpdate{
		Roles: &[]snowflake.ID{},
	}, rest.WithCtx(ctx))
	if err != nil {
		return fmt.Errorf("failed to remove %d roles from member %d: %w",
			len(roleIDs), uint64(userID), err)
	}

	return nil
}

func (c *guildClient) SendDirectMessage(ctx context.Context, userID snowflake.ID, content string) error {
	channel, err := c.rest.CreateDMChannel(userID, rest.WithCtx(ctx))
	if err != nil {
		return fmt.Errorf("failed to create DM channel for user %d: %w", uint64(userID), err)
	}

	_, err = c.rest.CreateMessage(channel.ID(),
		discord.NewMessageCreateBuilder().SetContent(content).Build(),
		rest.WithCtx(ctx))
	if err != nil {
		return fmt.Errorf("failed to send DM to user %d: %w", uint64(userID), err)
	}

	return nil
}
