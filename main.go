package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/handler"
	"github.com/disgoorg/snowflake/v2"
	flag "github.com/spf13/pflag"

	"github.com/ruthless-bot/ruthless/internal/domain/claims"
	"github.com/ruthless-bot/ruthless/internal/domain/inventory"
	"github.com/ruthless-bot/ruthless/internal/domain/ledger"
	"github.com/ruthless-bot/ruthless/internal/domain/settings"
	"github.com/ruthless-bot/ruthless/internal/gateways/discord"
	"github.com/ruthless-bot/ruthless/internal/gateways/workink"
	"github.com/ruthless-bot/ruthless/internal/web"
	"github.com/ruthless-bot/ruthless/stockbot"
	"github.com/ruthless-bot/ruthless/stockbot/commands"
	"github.com/ruthless-bot/ruthless/stockbot/config"
	"github.com/ruthless-bot/ruthless/stockbot/logger"
	"github.com/ruthless-bot/ruthless/stockbot/utils"
)

var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	shouldSyncCommands := flag.Bool("sync-commands", false, "Whether to sync commands to discord")
	path := flag.StringP("config", "c", "config.toml", "path to config")
	flag.Parse()

	logger.Setup("info")

	cfg, err := stockbot.LoadConfig(*path)
	if err != nil {
		slog.Error("Failed to load configuration", slog.Any("error", err))
		os.Exit(-1)
	}
	logger.Setup(cfg.Log.Level)

	slog.Info("Starting "+cfg.Bot.Name,
		slog.String("type", "sys"),
		slog.String("version", version),
		slog.String("commit", commit))

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	storeStartTime := time.Now()
	backend, closeBackend, err := stockbot.OpenBackend(ctx, cfg.Stock.Backend, cfg.Stock)
	cancel()
	if err != nil {
		slog.Error("Failed to open stock backend",
			slog.String("type", "db"),
			slog.String("backend", cfg.Stock.Backend),
			slog.Any("error", err))
		os.Exit(-1)
	}
	defer closeBackend()
	slog.Info("Stock backend ready",
		slog.String("type", "db"),
		slog.String("backend", cfg.Stock.Backend),
		slog.Duration("took", time.Since(storeStartTime)))

	b := stockbot.New(*cfg, version, commit)
	b.Inventory = inventory.NewStore(backend)
	b.Settings = settings.NewRegistry(cfg.SettingDefaults())
	b.Ledger = ledger.New(func(scope snowflake.ID) int {
		return b.Settings.Get(scope, settings.MaxRecent)
	})

	verifier := workink.New(workink.Config{
		BaseURL:     cfg.Workink.BaseURL,
		APIKey:      cfg.Workink.APIKey,
		BotName:     cfg.Bot.Name,
		DeliveryURL: cfg.Workink.PublicURL,
		Domain:      cfg.Workink.Domain,
		Timeout:     time.Duration(cfg.Workink.Timeout) * time.Second,
	})
	b.Claims = claims.NewManager(b.Inventory, b.Settings, verifier,
		claims.WithLinkTimeout(time.Duration(cfg.Workink.Timeout)*time.Second))

	h := handler.New()
	commands.Register(h, b)

	if err = b.SetupBot(h, bot.NewListenerFunc(b.OnReady)); err != nil {
		slog.Error("Failed to setup bot",
			slog.String("type", "sys"),
			slog.Any("error", err),
			slog.String("error_details", fmt.Sprintf("%+v", err)),
			slog.String("component", "bot_setup"),
			slog.String("status", "failed"),
		)
		os.Exit(-1)
	}

	notifier := discord.NewNotifier(b.Client.Rest(), cfg.Bot.Name)
	directory, err := discord.NewDirectory(b.Client.Rest(), b.GuildName, 0)
	if err != nil {
		logger.LogError("Failed to create name directory", err)
		os.Exit(-1)
	}
	b.Links = notifier
	b.Reconciler = claims.NewReconciler(b.Claims, notifier, b.Ledger, directory, claims.ReconcilerConfig{
		Interval:     time.Duration(cfg.Reconciler.Interval) * time.Second,
		CheckTimeout: time.Duration(cfg.Reconciler.CheckTimeout) * time.Second,
		Concurrency:  cfg.Reconciler.Concurrency,
	})

	processes := utils.NewBackgroundProcessManager(context.Background())
	processes.StartProcess("reconciler", "Delivers items for completed verification links", b.Reconciler.Run)
	if cfg.Web.Enabled {
		server := web.NewServer(cfg.Web.Addr, cfg.Bot.Name, b.Claims, b.Ledger)
		processes.StartProcess("web", "Serves the delivery landing page", server.Run)
	}

	defer func() {
		if err := processes.Shutdown(config.ShutdownTimeout); err != nil {
			logger.LogError("Background processes did not stop cleanly", err)
		}
		ctx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
		defer cancel()
		b.Client.Close(ctx)
	}()

	if *shouldSyncCommands {
		slog.Info("Syncing commands",
			slog.String("type", "sys"),
			slog.Any("guild_ids", cfg.Bot.DevGuilds),
		)
		if err = handler.SyncCommands(b.Client, commands.Commands, cfg.Bot.DevGuilds); err != nil {
			slog.Error("Failed to sync commands",
				slog.String("type", "sys"),
				slog.Any("error", err),
				slog.String("component", "command_sync"),
				slog.String("status", "failed"),
			)
		}
	}

	ctx, cancel = context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err = b.Client.OpenGateway(ctx); err != nil {
		slog.Error("Failed to open gateway",
			slog.String("type", "sys"),
			slog.Any("error", err),
			slog.String("component", "gateway"),
			slog.String("status", "failed"),
		)
		os.Exit(-1)
	}

	logger.LogSystem("Bot is running. Press CTRL-C to exit.")
	s := make(chan os.Signal, 1)
	signal.Notify(s, syscall.SIGINT, syscall.SIGTERM)
	<-s
	logger.LogSystem("Shutting down bot...")
}
