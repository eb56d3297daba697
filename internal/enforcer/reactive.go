package enforcer

import (
	"context"

	"github.com/disgoorg/snowflake/v2"
	"github.com/rolewarden/rolewarden/internal/discord/rate"
	"go.uber.org/zap"
)

// Reactive evaluates single member-update events and strips roles from
// members that lost the primary role. Invocations for different members
// may overlap; overlapping events for the same member are harmless because
// role removal is idempotent.
type Reactive struct {
	api     GuildAPI
	store   ConfigStore
	limiter *rate.Limiter
	logger  *zap.Logger
}

// NewReactive creates a reactive enforcer. The limiter is shared with the
// sweeper so all role mutations are paced together.
func NewReactive(api GuildAPI, store ConfigStore, limiter *rate.Limiter, logger *zap.Logger) *Reactive {
	return &Reactive{
		api:     api,
		store:   store,
		limiter: limiter,
		logger:  logger.Named("reactive"),
	}
}

// HandleMemberUpdate processes one member-update event. The event's role
// snapshot only decides whether a re-check is needed; the mutation itself
// targets the live member record fetched afterwards, so a stale event can
// never strip roles the member has since regained.
func (r *Reactive) HandleMemberUpdate(ctx context.Context, guildID snowflake.ID, member Member) {
	gid := uint64(guildID)

	if !r.store.GetAutoScan(ctx, gid) {
		return
	}

	primaryRole := snowflake.ID(r.store.GetPrimaryRole(ctx, gid))
	if primaryRole == 0 {
		return
	}

	if Classify(member, primaryRole) != MustRevokeAll {
		return
	}

	live, err := r.api.Member(ctx, guildID, member.UserID)
	if err != nil {
		r.logger.Error("Failed to fetch member",
			zap.Uint64("guildID", gid),
			zap.Uint64("userID", uint64(member.UserID)),
			zap.Error(err))

		return
	}

	// The live record is the source of truth at mutation time.
	if Classify(live, primaryRole) != MustRevokeAll {
		return
	}

	if err := r.limiter.WaitForNextSlot(ctx); err != nil {
		return
	}

	if err := r.api.RemoveRoles(ctx, guildID, live.UserID, live.RoleIDs); err != nil {
		// No retry; a future event for the same member re-triggers evaluation.
		r.logger.Error("Failed to remove roles",
			zap.Uint64("guildID", gid),
			zap.Uint64("userID", uint64(live.UserID)),
			zap.Error(err))

		return
	}

	r.logger.Info("Removed roles from member",
		zap.Uint64("guildID", gid),
		zap.Uint64("userID", uint64(live.UserID)),
		zap.Int("role_count", len(live.RoleIDs)))
}
