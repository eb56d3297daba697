package database

import (
	"github.com/rolewarden/rolewarden/internal/database/models"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// Repository provides access to all database models.
type Repository struct {
	guildConfig *models.GuildConfigModel
}

// NewRepository creates a new repository instance with all models.
func NewRepository(db *bun.DB, logger *zap.Logger) *Repository {
	return &Repository{
		guildConfig: models.NewGuildConfig(db, logger),
	}
}

// GuildConfig returns the guild config model repository.
func (r *Repository) GuildConfig() *models.GuildConfigModel {
	return r.guildConfig
}
