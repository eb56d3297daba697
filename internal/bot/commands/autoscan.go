package commands

import (
	"context"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/json"
	"github.com/rolewarden/rolewarden/internal/enforcer"
)

// Enable turns the automatic role scanner on for a guild.
type Enable struct {
	store enforcer.ConfigStore
}

// NewEnable creates the enable command.
func NewEnable(store enforcer.ConfigStore) *Enable {
	return &Enable{store: store}
}

func (c *Enable) Name() string { return "enable" }

func (c *Enable) Create() discord.ApplicationCommandCreate {
	return discord.SlashCommandCreate{
		Name:                     c.Name(),
		Description:              "Enables the automatic role scanner",
		DefaultMemberPermissions: json.NewNullablePtr(discord.PermissionAdministrator),
	}
}

func (c *Enable) Handle(ctx context.Context, event *events.ApplicationCommandInteractionCreate) string {
	guildID := event.GuildID()
	if guildID == nil {
		return "No server ID found, unable to enable auto scanning"
	}

	if err := c.store.SetAutoScan(ctx, uint64(*guildID), true); err != nil {
		return "Failed updating the database, unable to enable auto scanning"
	}

	return "Automatic role scanning is now active"
}

// Disable turns the automatic role scanner off for a guild.
type Disable struct {
	store enforcer.ConfigStore
}

// NewDisable creates the disable command.
func NewDisable(store enforcer.ConfigStore) *Disable {
	return &Disable{store: store}
}

func (c *Disable) Name() string { return "disable" }

func (c *Disable) Create() discord.ApplicationCommandCreate {
	return discord.SlashCommandCreate{
		Name:                     c.Name(),
		Description:              "Disables the automatic role scanner",
		DefaultMemberPermissions: json.NewNullablePtr(discord.PermissionAdministrator),
	}
}

func (c *Disable) Handle(ctx context.Context, event *events.ApplicationCommandInteractionCreate) string {
	guildID := event.GuildID()
	if guildID == nil {
		return "No server ID given, unable to disable auto scanning"
	}

	if err := c.store.SetAutoScan(ctx, uint64(*guildID), false); err != nil {
		return "A database error occurred, unable to disable auto scanning"
	}

	return "Automatic Role Scanning is no longer active"
}

// Status reports whether the automatic role scanner is enabled.
type Status struct {
	store enforcer.ConfigStore
}

// NewStatus creates the status command.
func NewStatus(store enforcer.ConfigStore) *Status {
	return &Status{store: store}
}

func (c *Status) Name() string { return "status" }

func (c *Status) Create() discord.ApplicationCommandCreate {
	return discord.SlashCommandCreate{
		Name:                     c.Name(),
		Description:              "Check if the automatic role scanner is enabled or disabled",
		DefaultMemberPermissions: json.NewNullablePtr(discord.PermissionAdministrator),
	}
}

func (c *Status) Handle(ctx context.Context, event *events.ApplicationCommandInteractionCreate) string {
	guildID := event.GuildID()
	if guildID == nil {
		return "No server ID found, unable to check status"
	}

	if c.store.GetAutoScan(ctx, uint64(*guildID)) {
		return "Automatic role scanning is currently enabled"
	}

	return "Automatic role scanning is currently disabled"
}
