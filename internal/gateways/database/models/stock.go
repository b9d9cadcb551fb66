package models

import (
	"time"

	"github.com/uptrace/bun"
)

type StockModule struct {
	bun.BaseModel `bun:"table:stock_modules,alias:sm"`

	ID        int64     `bun:"id,pk,autoincrement"`
	GuildID   string    `bun:"guild_id,notnull"`
	Name      string    `bun:"name,notnull"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
}

// StockItem is one available item; Position keeps insertion order.
type StockItem struct {
	bun.BaseModel `bun:"table:stock_items,alias:si"`

	ID       int64  `bun:"id,pk,autoincrement"`
	GuildID  string `bun:"guild_id,notnull"`
	Module   string `bun:"module,notnull"`
	Position int    `bun:"position,notnull"`
	Value    string `bun:"value,notnull"`
}
