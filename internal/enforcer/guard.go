package enforcer

import (
	"context"
	"fmt"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/redis/rueidis"
	"go.uber.org/zap"
)

// sweepGuardKeyPrefix namespaces the per-guild sweep markers in Redis.
const sweepGuardKeyPrefix = "sweep_guard:"

// RedisSweepGuard implements SweepGuard with a SET NX marker per guild.
// The TTL is a liveness backstop: if the process dies mid-sweep the marker
// expires on its own instead of blocking the guild forever.
type RedisSweepGuard struct {
	client rueidis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedisSweepGuard creates a sweep guard backed by the given Redis client.
func NewRedisSweepGuard(client rueidis.Client, ttl time.Duration, logger *zap.Logger) *RedisSweepGuard {
	return &RedisSweepGuard{
		client: client,
		ttl:    ttl,
		logger: logger.Named("sweep_guard"),
	}
}

// TryAcquire attempts to mark a sweep as running for the guild. It returns
// false when another sweep already holds the marker. A Redis failure lets
// the sweep proceed, since the guard is a hardening layer and a Redis
// outage should not block all sweeps.
func (g *RedisSweepGuard) TryAcquire(ctx context.Context, guildID snowflake.ID) bool {
	key := guardKey(guildID)

	err := g.client.Do(ctx,
		g.client.B().Set().Key(key).Value("1").Nx().Ex(g.ttl).Build(),
	).Error()
	if err != nil {
		if rueidis.IsRedisNil(err) {
			return false
		}

		g.logger.Warn("Sweep guard unavailable, proceeding without it",
			zap.Uint64("guildID", uint64(guildID)),
			zap.Error(err))
	}

	return true
}

// Release clears the guild's sweep marker.
func (g *RedisSweepGuard) Release(ctx context.Context, guildID snowflake.ID) {
	key := guardKey(guildID)

	err := g.client.Do(ctx, g.client.B().Del().Key(key).Build()).Error()
	if err != nil {
		g.logger.Warn("Failed to release sweep guard",
			zap.Uint64("guildID", uint64(guildID)),
			zap.Error(err))
	}
}

func guardKey(guildID snowflake.ID) string {
	return fmt.Sprintf("%s%d", sweepGuardKeyPrefix, uint64(guildID))
}
