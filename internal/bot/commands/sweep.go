package commands

import (
	"context"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/json"
	"github.com/rolewarden/rolewarden/internal/enforcer"
)

// Sweep scans the whole server and removes roles from members without the
// primary role. The heavy lifting happens in the background; the handler
// only returns the acknowledgment.
type Sweep struct {
	sweeper *enforcer.Sweeper
}

// NewSweep creates the sweep command.
func NewSweep(sweeper *enforcer.Sweeper) *Sweep {
	return &Sweep{sweeper: sweeper}
}

func (c *Sweep) Name() string { return "sweep" }

func (c *Sweep) Create() discord.ApplicationCommandCreate {
	return discord.SlashCommandCreate{
		Name:                     c.Name(),
		Description:              "Sweep the current server and remove roles from members without the mandatory role",
		DefaultMemberPermissions: json.NewNullablePtr(discord.PermissionAdministrator),
	}
}

func (c *Sweep) Handle(ctx context.Context, event *events.ApplicationCommandInteractionCreate) string {
	guildID := event.GuildID()
	if guildID == nil {
		return "No server ID was given"
	}

	return c.sweeper.Start(ctx, *guildID, event.User().ID)
}
