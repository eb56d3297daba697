// Package bot wires the Discord gateway to the enforcement engine: slash
// command dispatch, member-update events, and per-guild setup.
package bot

import (
	"context"
	"fmt"
	"time"

	"github.com/disgoorg/disgo"
	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/disgo/gateway"
	"github.com/disgoorg/snowflake/v2"
	"github.com/rolewarden/rolewarden/internal/bot/commands"
	"github.com/rolewarden/rolewarden/internal/database"
	"github.com/rolewarden/rolewarden/internal/discord/rate"
	"github.com/rolewarden/rolewarden/internal/enforcer"
	"github.com/rolewarden/rolewarden/internal/redis"
	"github.com/rolewarden/rolewarden/internal/setup"
	"go.uber.org/zap"
)

// Bot holds the Discord client and the enforcement engine behind it.
type Bot struct {
	client   bot.Client
	db       database.Client
	registry *commands.Registry
	reactive *enforcer.Reactive
	logger   *zap.Logger
}

// New builds the bot: rate limiters, sweep guard, enforcement engine,
// command registry, and the Discord client with its gateway intents and
// event listeners.
func New(app *setup.App) (*Bot, error) {
	b := &Bot{
		db:     app.DB,
		logger: app.Logger.Named("bot"),
	}

	client, err := disgo.New(app.Config.Discord.Token,
		bot.WithGatewayConfigOpts(
			gateway.WithIntents(
				gateway.IntentGuilds,
				gateway.IntentGuildMembers,
			),
		),
		bot.WithEventListeners(&events.ListenerAdapter{
			OnApplicationCommandInteraction: b.handleApplicationCommandInteraction,
			OnGuildMemberUpdate:             b.handleGuildMemberUpdate,
			OnGuildReady:                    b.handleGuildReady,
			OnGuildJoin:                     b.handleGuildJoin,
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create Discord client: %w", err)
	}

	b.client = client

	enforcement := app.Config.Enforcement
	jitter := time.Duration(enforcement.Jitter) * time.Millisecond
	mutate := rate.New(time.Duration(enforcement.MutationDelay)*time.Millisecond, jitter)
	paginate := rate.New(time.Duration(enforcement.PaginationDelay)*time.Millisecond, jitter)

	redisClient, err := app.RedisManager.GetClient(redis.SweepGuardDBIndex)
	if err != nil {
		return nil, fmt.Errorf("failed to get Redis client: %w", err)
	}

	guard := enforcer.NewRedisSweepGuard(
		redisClient,
		time.Duration(enforcement.SweepGuardTTL)*time.Second,
		app.Logger,
	)

	api := newGuildClient(client.Rest(), app.Logger)
	store := app.DB.Model().GuildConfig()

	b.reactive = enforcer.NewReactive(api, store, mutate, app.Logger)
	sweeper := enforcer.NewSweeper(api, store, guard, mutate, paginate, enforcement.PageSize, app.Logger)

	b.registry = commands.NewRegistry(
		commands.NewEnable(store),
		commands.NewDisable(store),
		commands.NewStatus(store),
		commands.NewPrimaryRole(store),
		commands.NewSweep(sweeper),
	)

	return b, nil
}

// Start opens the gateway connection. Commands are registered per guild as
// guilds become available.
func (b *Bot) Start(ctx context.Context) error {
	b.logger.Info("Starting bot")
	return b.client.OpenGateway(ctx)
}

// Close gracefully shuts down the Discord gateway connection.
func (b *Bot) Close(ctx context.Context) {
	b.logger.Info("Closing bot")
	b.client.Close(ctx)
}

// handleApplicationCommandInteraction processes slash commands by first
// deferring the response, then dispatching to the registered handler in a
// goroutine so slow handlers never block the gateway reader.
func (b *Bot) handleApplicationCommandInteraction(event *events.ApplicationCommandInteractionCreate) {
	go func() {
		// Defer response to prevent Discord timeout while processing
		if err := event.DeferCreateMessage(true); err != nil {
			b.logger.Error("Failed to defer create message", zap.Error(err))
			return
		}

		name := event.SlashCommandInteractionData().CommandName()
		start := time.Now()

		defer func() {
			if r := recover(); r != nil {
				b.logger.Error("Panic in application command handler",
					zap.String("command", name),
					zap.Any("panic", r))
				b.respond(event, "Internal error. Please report this to an administrator.")
			}

			b.logger.Debug("Application command interaction handled",
				zap.String("command", name),
				zap.Duration("duration", time.Since(start)))
		}()

		command, ok := b.registry.Get(name)
		if !ok {
			b.respond(event, "This command is not available.")
			return
		}

		b.respond(event, command.Handle(context.Background(), event))
	}()
}

// respond replaces the deferred interaction response with the handler's
// result text.
func (b *Bot) respond(event *events.ApplicationCommandInteractionCreate, content string) {
	_, err := event.Client().Rest().UpdateInteractionResponse(
		event.ApplicationID(),
		event.Token(),
		discord.NewMessageUpdateBuilder().SetContent(content).Build(),
	)
	if err != nil {
		b.logger.Error("Failed to send command response",
			zap.String("command", event.SlashCommandInteractionData().CommandName()),
			zap.Error(err))
	}
}

// handleGuildMemberUpdate hands each member update to the reactive
// enforcer on its own goroutine; updates for different members may be
// processed concurrently.
func (b *Bot) handleGuildMemberUpdate(event *events.GuildMemberUpdate) {
	member := enforcer.Member{
		UserID:  event.Member.User.ID,
		RoleIDs: event.Member.RoleIDs,
		IsBot:   event.Member.User.Bot,
	}

	go b.reactive.HandleMemberUpdate(context.Background(), event.GuildID, member)
}

// handleGuildReady runs guild setup for every guild present at startup.
func (b *Bot) handleGuildReady(event *events.GuildReady) {
	b.setupGuild(event.Client(), event.GuildID)
}

// handleGuildJoin runs guild setup when the bot is added to a new guild.
func (b *Bot) handleGuildJoin(event *events.GuildJoin) {
	b.logger.Info("Joined new guild",
		zap.Uint64("guildID", uint64(event.GuildID)),
		zap.String("guild_name", event.Guild.Name))

	b.setupGuild(event.Client(), event.GuildID)
}

// setupGuild registers the slash commands for a guild and ensures the
// guild has a settings row. Registration is idempotent, so repeated ready
// events are harmless.
func (b *Bot) setupGuild(client bot.Client, guildID snowflake.ID) {
	ctx := context.Background()

	_, err := client.Rest().SetGuildCommands(client.ApplicationID(), guildID, b.registry.Creates())
	if err != nil {
		b.logger.Error("Failed to register guild commands",
			zap.Uint64("guildID", uint64(guildID)),
			zap.Error(err))
	} else {
		b.logger.Debug("Registered guild commands",
			zap.Uint64("guildID", uint64(guildID)))
	}

	if err := b.db.Model().GuildConfig().Register(ctx, uint64(guildID)); err != nil {
		b.logger.Error("Failed to register guild in the database",
			zap.Uint64("guildID", uint64(guildID)),
			zap.Error(err))
	}
}
