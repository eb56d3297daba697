// Package commands holds the slash commands exposed to guild
// administrators. Every command resolves to a short user-facing string;
// no recognized failure path escapes without a response.
package commands

import (
	"context"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
)

// Command is one slash command: its Discord registration payload and its
// handler. Handlers return the text shown to the invoking user.
type Command interface {
	Name() string
	Create() discord.ApplicationCommandCreate
	Handle(ctx context.Context, event *events.ApplicationCommandInteractionCreate) string
}

// Registry maps command names to their handlers.
type Registry struct {
	commands map[string]Command
}

// NewRegistry builds a registry from the given commands.
func NewRegistry(cmds ...Command) *Registry {
	commands := make(map[string]Command, len(cmds))
	for _, cmd := range cmds {
		commands[cmd.Name()] = cmd
	}

	return &Registry{commands: commands}
}

// Get returns the command registered under the given name.
func (r *Registry) Get(name string) (Command, bool) {
	cmd, ok := r.commands[name]
	return cmd, ok
}

// Creates returns the registration payloads for every command.
func (r *Registry) Creates() []discord.ApplicationCommandCreate {
	creates := make([]discord.ApplicationCommandCreate, 0, len(r.commands))
	for _, cmd := range r.commands {
		creates = append(creates, cmd.Create())
	}

	return creates
}
