// Command migrate copies stock between inventory backends, e.g. from the
// flat-file layout into postgres.
package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/disgoorg/snowflake/v2"
	flag "github.com/spf13/pflag"

	"github.com/ruthless-bot/ruthless/internal/domain/inventory"
	"github.com/ruthless-bot/ruthless/stockbot"
	"github.com/ruthless-bot/ruthless/stockbot/logger"
)

func main() {
	path := flag.StringP("config", "c", "config.toml", "path to config")
	from := flag.String("from", stockbot.BackendFile, "source backend (file, postgres, s3, mongo)")
	to := flag.String("to", stockbot.BackendPostgres, "destination backend (file, postgres, s3, mongo)")
	guilds := flag.StringSlice("guild", nil, "guild id to copy, repeatable")
	flag.Parse()

	logger.Setup("info")

	if *from == *to {
		slog.Error("Source and destination must differ", slog.String("backend", *from))
		os.Exit(2)
	}
	if len(*guilds) == 0 {
		slog.Error("At least one --guild is required")
		os.Exit(2)
	}

	scopes := make([]snowflake.ID, 0, len(*guilds))
	for _, g := range *guilds {
		id, err := snowflake.Parse(g)
		if err != nil {
			slog.Error("Invalid guild id", slog.String("guild", g), slog.Any("error", err))
			os.Exit(2)
		}
		scopes = append(scopes, id)
	}

	cfg, err := stockbot.LoadConfig(*path)
	if err != nil {
		slog.Error("Failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	src, closeSrc, err := stockbot.OpenBackend(ctx, *from, cfg.Stock)
	if err != nil {
		slog.Error("Failed to open source backend", slog.String("type", "db"), slog.Any("error", err))
		os.Exit(1)
	}
	defer closeSrc()

	dst, closeDst, err := stockbot.OpenBackend(ctx, *to, cfg.Stock)
	if err != nil {
		slog.Error("Failed to open destination backend", slog.String("type", "db"), slog.Any("error", err))
		closeSrc()
		os.Exit(1)
	}
	defer closeDst()

	start := time.Now()
	var modules, items int
	for _, scope := range scopes {
		report, err := inventory.Copy(ctx, src, dst, scope)
		if err != nil {
			slog.Error("Migration failed",
				slog.String("type", "db"),
				slog.String("guild", scope.String()),
				slog.Any("error", err))
			closeDst()
			closeSrc()
			os.Exit(1)
		}
		modules += report.Modules
		items += report.Items
		slog.Info("Guild migrated",
			slog.String("type", "db"),
			slog.String("guild", scope.String()),
			slog.Int("modules", report.Modules),
			slog.Int("items", report.Items))
	}

	slog.Info("Migration completed successfully!",
		slog.String("type", "db"),
		slog.String("from", *from),
		slog.String("to", *to),
		slog.Int("modules", modules),
		slog.Int("items", items),
		slog.Duration("took", time.Since(start)))
}
