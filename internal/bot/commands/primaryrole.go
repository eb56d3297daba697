package commands

import (
	"context"
	"fmt"
	"slices"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/json"
	"github.com/disgoorg/snowflake/v2"
	"github.com/rolewarden/rolewarden/internal/enforcer"
)

// PrimaryRole manages the role every member must hold: "set" designates a
// new primary role, "get" shows the current one.
type PrimaryRole struct {
	store enforcer.ConfigStore
}

// NewPrimaryRole creates the primaryrole command.
func NewPrimaryRole(store enforcer.ConfigStore) *PrimaryRole {
	return &PrimaryRole{store: store}
}

func (c *PrimaryRole) Name() string { return "primaryrole" }

func (c *PrimaryRole) Create() discord.ApplicationCommandCreate {
	return discord.SlashCommandCreate{
		Name:                     c.Name(),
		Description:              "Commands to manage the primary role for this server",
		DefaultMemberPermissions: json.NewNullablePtr(discord.PermissionAdministrator),
		Options: []discord.ApplicationCommandOption{
			discord.ApplicationCommandOptionSubCommand{
				Name:        "set",
				Description: "Set the primary role for this server",
				Options: []discord.ApplicationCommandOption{
					discord.ApplicationCommandOptionRole{
						Name:        "role",
						Description: "Role to become the new primary role",
						Required:    true,
					},
				},
			},
			discord.ApplicationCommandOptionSubCommand{
				Name:        "get",
				Description: "Get the current primary role for this server",
			},
		},
	}
}

func (c *PrimaryRole) Handle(ctx context.Context, event *events.ApplicationCommandInteractionCreate) string {
	guildID := event.GuildID()
	if guildID == nil {
		return "No server ID found"
	}

	data := event.SlashCommandInteractionData()

	subcommand := data.SubCommandName
	if subcommand == nil {
		return "No subcommand given"
	}

	switch *subcommand {
	case "set":
		return c.set(ctx, event, *guildID)
	case "get":
		return c.get(ctx, *guildID)
	default:
		return "Unknown subcommand"
	}
}

func (c *PrimaryRole) set(ctx context.Context, event *events.ApplicationCommandInteractionCreate, guildID snowflake.ID) string {
	roleID, ok := event.SlashCommandInteractionData().OptSnowflake("role")
	if !ok {
		return "No role ID given"
	}

	// Validate the role exists before persisting it
	roles, err := event.Client().Rest().GetRoles(guildID)
	if err != nil {
		return "Failed to get list of roles from the server"
	}

	if !slices.ContainsFunc(roles, func(role discord.Role) bool { return role.ID == roleID }) {
		return "Given role is not in this server"
	}

	if err := c.store.SetPrimaryRole(ctx, uint64(guildID), uint64(roleID)); err != nil {
		return "Failed to update primary role in the database"
	}

	return fmt.Sprintf("Updated primary role to %d", uint64(roleID))
}

func (c *PrimaryRole) get(ctx context.Context, guildID snowflake.ID) string {
	primaryRole := c.store.GetPrimaryRole(ctx, uint64(guildID))
	if primaryRole == 0 {
		return "No primary role set for this server"
	}

	return fmt.Sprintf("The primary role for this server is %d", primaryRole)
}
