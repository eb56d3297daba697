package enforcer

import (
	"context"
	"fmt"

	"github.com/disgoorg/snowflake/v2"
	"github.com/rolewarden/rolewarden/internal/discord/rate"
	"go.uber.org/zap"
)

// Sweeper runs one-shot bulk scans over a guild's full membership and
// strips roles from every member that lacks the primary role.
type Sweeper struct {
	api      GuildAPI
	store    ConfigStore
	guard    SweepGuard
	mutate   *rate.Limiter
	paginate *rate.Limiter
	pageSize int
	logger   *zap.Logger
}

// NewSweeper creates a bulk sweeper. The mutate limiter is shared with the
// reactive enforcer; the paginate limiter paces member list fetches.
func NewSweeper(
	api GuildAPI,
	store ConfigStore,
	guard SweepGuard,
	mutate, paginate *rate.Limiter,
	pageSize int,
	logger *zap.Logger,
) *Sweeper {
	return &Sweeper{
		api:      api,
		store:    store,
		guard:    guard,
		mutate:   mutate,
		paginate: paginate,
		pageSize: pageSize,
		logger:   logger.Named("sweeper"),
	}
}

// Start validates the preconditions for a sweep and, when they hold, kicks
// off the scan in the background. The returned string is the immediate
// acknowledgment for the invoking user; the final summary arrives later as
// a direct message. The primary role is read once here and frozen for the
// whole run, so a mid-sweep configuration change does not alter an
// in-flight sweep.
func (s *Sweeper) Start(ctx context.Context, guildID, invokerID snowflake.ID) string {
	if !s.guard.TryAcquire(ctx, guildID) {
		return "A sweep is already running in this server"
	}

	memberCount, err := s.api.MemberCount(ctx, guildID)
	if err != nil {
		s.guard.Release(ctx, guildID)
		s.logger.Error("Failed to get member count",
			zap.Uint64("guildID", uint64(guildID)),
			zap.Error(err))

		return "Failed to get the member count for this server"
	}

	if memberCount == 0 {
		s.guard.Release(ctx, guildID)
		return "No members found in this server"
	}

	primaryRole := snowflake.ID(s.store.GetPrimaryRole(ctx, uint64(guildID)))
	if primaryRole == 0 {
		s.guard.Release(ctx, guildID)
		return "Failed to determine the primary role for this server"
	}

	s.logger.Info("Starting sweep",
		zap.Uint64("guildID", uint64(guildID)),
		zap.Int("member_count", memberCount))

	// The interaction's context dies with the response; the sweep outlives it.
	go s.run(context.Background(), guildID, invokerID, primaryRole)

	return fmt.Sprintf("Sweeping through %d members", memberCount)
}

// run paginates the guild's membership, classifies every member, and
// strips roles from each one classified MustRevokeAll. One member's
// mutation failure never aborts the sweep; a page fetch failure ends it
// with whatever was processed up to that point.
func (s *Sweeper) run(ctx context.Context, guildID, invokerID, primaryRole snowflake.ID) {
	defer s.guard.Release(ctx, guildID)

	var (
		seen    int
		revoked int
		after   snowflake.ID
	)

	for {
		if err := s.paginate.WaitForNextSlot(ctx); err != nil {
			return
		}

		page, err := s.api.Members(ctx, guildID, s.pageSize, after)
		if err != nil {
			s.logger.Error("Failed to fetch member page",
				zap.Uint64("guildID", uint64(guildID)),
				zap.Uint64("after", uint64(after)),
				zap.Error(err))

			break
		}

		for _, member := range page {
			seen++

			if Classify(member, primaryRole) != MustRevokeAll {
				continue
			}

			if err := s.mutate.WaitForNextSlot(ctx); err != nil {
				return
			}

			if err := s.api.RemoveRoles(ctx, guildID, member.UserID, member.RoleIDs); err != nil {
				s.logger.Error("Failed to remove roles",
					zap.Uint64("guildID", uint64(guildID)),
					zap.Uint64("userID", uint64(member.UserID)),
					zap.Error(err))

				continue
			}

			revoked++
		}

		// A short page or an empty page is the last page.
		if len(page) < s.pageSize {
			break
		}

		after = page[len(page)-1].UserID
	}

	summary := fmt.Sprintf("Completed sweeping through %d members, removed roles from %d members", seen, revoked)

	if err := s.api.SendDirectMessage(ctx, invokerID, summary); err != nil {
		// The invoker may have direct messages disabled.
		s.logger.Debug("Failed to send sweep summary",
			zap.Uint64("userID", uint64(invokerID)),
			zap.Error(err))
	}

	s.logger.Info("Sweep completed",
		zap.Uint64("guildID", uint64(guildID)),
		zap.Int("members_seen", seen),
		zap.Int("members_revoked", revoked))
}
