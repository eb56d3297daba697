package types

import "github.com/uptrace/bun"

// GuildConfig holds the per-guild enforcement settings.
//
// PrimaryRoleID uses nullzero so an unset role is stored as NULL and a
// NULL or zero value reads back as the zero sentinel, which every caller
// treats as "no primary role configured".
type GuildConfig struct {
	bun.BaseModel `bun:"table:guild_configs"`

	GuildID       uint64 `bun:"guild_id,pk"`
	PrimaryRoleID uint64 `bun:"primary_role_id,nullzero"`
	AutoScan      bool   `bun:"auto_scan,default:true"`
}
