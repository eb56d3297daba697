package models

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rolewarden/rolewarden/internal/database/dbretry"
	"github.com/rolewarden/rolewarden/internal/database/types"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// GuildConfigModel handles database operations for per-guild enforcement settings.
//
// Write operations surface storage failures to the caller. Read operations
// collapse any failure into the conservative default (zero role, scanning
// off) so that a persistence hiccup can never trigger false enforcement or
// crash the event path.
type GuildConfigModel struct {
	db     *bun.DB
	logger *zap.Logger
}

// NewGuildConfig creates a new guild config model instance.
func NewGuildConfig(db *bun.DB, logger *zap.Logger) *GuildConfigModel {
	return &GuildConfigModel{
		db:     db,
		logger: logger.Named("db_guild_config"),
	}
}

// Register inserts a settings row for a guild with auto scanning enabled.
// Registering an already known guild is a no-op, not an error.
func (m *GuildConfigModel) Register(ctx context.Context, guildID uint64) error {
	err := dbretry.NoResult(ctx, func(ctx context.Context) error {
		cfg := &types.GuildConfig{GuildID: guildID, AutoScan: true}

		_, err := m.db.NewInsert().
			Model(cfg).
			On("CONFLICT (guild_id) DO NOTHING").
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to register guild: %w", err)
		}

		return nil
	})
	if err != nil {
		return err
	}

	m.logger.Debug("Registered guild", zap.Uint64("guildID", guildID))

	return nil
}

// SetPrimaryRole updates the primary role for a guild.
// Guilds without a settings row are left untouched.
func (m *GuildConfigModel) SetPrimaryRole(ctx context.Context, guildID, roleID uint64) error {
	err := dbretry.NoResult(ctx, func(ctx context.Context) error {
		_, err := m.db.NewUpdate().
			Model((*types.GuildConfig)(nil)).
			Set("primary_role_id = ?", roleID).
			Where("guild_id = ?", guildID).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to update primary role: %w", err)
		}

		return nil
	})
	if err != nil {
		return err
	}

	m.logger.Debug("Updated primary role",
		zap.Uint64("guildID", guildID),
		zap.Uint64("roleID", roleID))

	return nil
}

// GetPrimaryRole returns the primary role configured for a guild.
// Zero means no role is configured, whether because the guild has no row,
// the stored value is NULL or zero, or the read failed.
func (m *GuildConfigModel) GetPrimaryRole(ctx context.Context, guildID uint64) uint64 {
	var cfg types.GuildConfig

	err := m.db.NewSelect().
		Model(&cfg).
		Column("primary_role_id").
		Where("guild_id = ?", guildID).
		Scan(ctx)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			m.logger.Error("Failed to read primary role",
				zap.Uint64("guildID", guildID),
				zap.Error(err))
		}

		return 0
	}

	return cfg.PrimaryRoleID
}

// SetAutoScan toggles automatic scanning for a guild.
// Guilds without a settings row are left untouched.
func (m *GuildConfigModel) SetAutoScan(ctx context.Context, guildID uint64, enabled bool) error {
	err := dbretry.NoResult(ctx, func(ctx context.Context) error {
		_, err := m.db.NewUpdate().
			Model((*types.GuildConfig)(nil)).
			Set("auto_scan = ?", enabled).
			Where("guild_id = ?", guildID).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to update auto scan: %w", err)
		}

		return nil
	})
	if err != nil {
		return err
	}

	m.logger.Debug("Updated auto scan",
		zap.Uint64("guildID", guildID),
		zap.Bool("enabled", enabled))

	return nil
}

// GetAutoScan reports whether automatic scanning is enabled for a guild.
// Guilds without a row and failed reads both report false so enforcement
// stays off unless it was explicitly configured on.
func (m *GuildConfigModel) GetAutoScan(ctx context.Context, guildID uint64) bool {
	var cfg types.GuildConfig

	err := m.db.NewSelect().
		Model(&cfg).
		Column("auto_scan").
		Where("guild_id = ?", guildID).
		Scan(ctx)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			m.logger.Error("Failed to read auto scan",
				zap.Uint64("guildID", guildID),
				zap.Error(err))
		}

		return false
	}

	return cfg.AutoScan
}
