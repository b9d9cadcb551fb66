package stockbot

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ruthless-bot/ruthless/internal/domain/inventory"
	"github.com/ruthless-bot/ruthless/internal/gateways/database"
	"github.com/ruthless-bot/ruthless/internal/gateways/database/repositories"
	"github.com/ruthless-bot/ruthless/internal/gateways/filestore"
	"github.com/ruthless-bot/ruthless/internal/gateways/mongostore"
	"github.com/ruthless-bot/ruthless/internal/gateways/objectstore"
)

// OpenBackend connects the inventory backend named by kind using the
// matching [stock] section. The returned close func is never nil.
func OpenBackend(ctx context.Context, kind string, cfg StockConfig) (inventory.Backend, func(), error) {
	noop := func() {}

	switch kind {
	case BackendMemory:
		return inventory.NewMemoryBackend(), noop, nil

	case BackendFile:
		backend, err := filestore.New(cfg.Dir)
		if err != nil {
			return nil, noop, fmt.Errorf("failed to open stock directory: %w", err)
		}
		return backend, noop, nil

	case BackendPostgres:
		db, err := database.New(ctx, cfg.Postgres)
		if err != nil {
			return nil, noop, err
		}
		if err = db.InitializeSchema(ctx); err != nil {
			db.Close()
			return nil, noop, fmt.Errorf("failed to initialize schema: %w", err)
		}
		return repositories.NewStockRepository(db.BunDB()), db.Close, nil

	case BackendS3:
		client, err := objectstore.NewClient(ctx, cfg.S3)
		if err != nil {
			return nil, noop, err
		}
		return objectstore.New(client, cfg.S3.Bucket, cfg.S3.Prefix), noop, nil

	case BackendMongo:
		client, err := mongostore.Connect(ctx, cfg.Mongo)
		if err != nil {
			return nil, noop, err
		}
		closeFn := func() {
			if err := client.Disconnect(context.Background()); err != nil {
				slog.Error("Failed to disconnect mongo",
					slog.String("type", "db"),
					slog.Any("error", err))
			}
		}
		backend := mongostore.New(client.Database(cfg.Mongo.Database))
		if err = backend.EnsureIndexes(ctx); err != nil {
			closeFn()
			return nil, noop, fmt.Errorf("failed to create mongo indexes: %w", err)
		}
		return backend, closeFn, nil

	default:
		return nil, noop, fmt.Errorf("unknown stock backend %q", kind)
	}
}
