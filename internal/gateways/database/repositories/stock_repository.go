package repositories

import (
	"context"
	"fmt"
	"strings"

	"github.com/disgoorg/snowflake/v2"
	"github.com/uptrace/bun"

	"github.com/ruthless-bot/ruthless/internal/domain/inventory"
	"github.com/ruthless-bot/ruthless/internal/domain/logger"
	"github.com/ruthless-bot/ruthless/internal/gateways/database/models"
)

// StockRepository is an inventory.Backend on PostgreSQL.
type StockRepository struct {
	db *bun.DB
}

func NewStockRepository(db *bun.DB) *StockRepository {
	return &StockRepository{db: db}
}

func (r *StockRepository) List(ctx context.Context, scope snowflake.ID) (names []string, err error) {
	q := logger.NewQueryLogger("postgres", "list", scope, "")
	defer func() { q.Log(err, len(names)) }()

	names = []string{}
	err = r.db.NewSelect().
		Model((*models.StockModule)(nil)).
		Column("name").
		Where("guild_id = ?", scope.String()).
		Order("name ASC").
		Scan(ctx, &names)
	return names, err
}

func (r *StockRepository) Read(ctx context.Context, scope snowflake.ID, module string) (items []string, err error) {
	q := logger.NewQueryLogger("postgres", "read", scope, module)
	defer func() { q.Log(err, len(items)) }()

	items = []string{}
	err = r.db.NewSelect().
		Model((*models.StockItem)(nil)).
		Column("value").
		Where("guild_id = ? AND module = ?", scope.String(), module).
		Order("position ASC").
		Scan(ctx, &items)
	return items, err
}

// Write replaces the module's items inside one transaction.
func (r *StockRepository) Write(ctx context.Context, scope snowflake.ID, module string, items []string) (err error) {
	q := logger.NewQueryLogger("postgres", "write", scope, module)
	defer func() { q.Log(err, len(items)) }()

	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.NewDelete().
			Model((*models.StockItem)(nil)).
			Where("guild_id = ? AND module = ?", scope.String(), module).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to clear stock: %w", err)
		}
		if len(items) == 0 {
			return nil
		}

		rows := make([]*models.StockItem, len(items))
		for i, item := range items {
			rows[i] = &models.StockItem{
				GuildID:  scope.String(),
				Module:   module,
				Position: i,
				Value:    item,
			}
		}
		if _, err = tx.NewInsert().Model(&rows).Exec(ctx); err != nil {
			return fmt.Errorf("failed to insert stock: %w", err)
		}
		return nil
	})
}

func (r *StockRepository) Exists(ctx context.Context, scope snowflake.ID, module string) (bool, error) {
	return r.db.NewSelect().
		Model((*models.StockModule)(nil)).
		Where("guild_id = ? AND name = ?", scope.String(), module).
		Exists(ctx)
}

func (r *StockRepository) Create(ctx context.Context, scope snowflake.ID, module string) (err error) {
	q := logger.NewQueryLogger("postgres", "create", scope, module)
	defer func() { q.Log(err, 0) }()

	_, err = r.db.NewInsert().
		Model(&models.StockModule{GuildID: scope.String(), Name: module}).
		Exec(ctx)
	if err != nil && strings.Contains(err.Error(), "23505") {
		return inventory.ErrModuleExists
	}
	return err
}

func (r *StockRepository) Delete(ctx context.Context, scope snowflake.ID, module string) (err error) {
	q := logger.NewQueryLogger("postgres", "delete", scope, module)
	defer func() { q.Log(err, 0) }()

	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		res, err := tx.NewDelete().
			Model((*models.StockModule)(nil)).
			Where("guild_id = ? AND name = ?", scope.String(), module).
			Exec(ctx)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return inventory.ErrModuleNotFound
		}
		_, err = tx.NewDelete().
			Model((*models.StockItem)(nil)).
			Where("guild_id = ? AND module = ?", scope.String(), module).
			Exec(ctx)
		return err
	})
}
