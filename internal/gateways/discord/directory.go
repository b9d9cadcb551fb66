package discord

import (
	"context"
	"log/slog"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/rest"
	"github.com/disgoorg/snowflake/v2"
	lru "github.com/hashicorp/golang-lru"
)

const (
	unknownName      = "Unknown"
	defaultCacheSize = 512
)

type UserFetcher interface {
	GetUser(userID snowflake.ID, opts ...rest.RequestOpt) (*discord.User, error)
}

// GuildLookup returns a guild's name from the gateway cache.
type GuildLookup func(id snowflake.ID) (string, bool)

// Directory resolves user and guild display names, caching hits.
type Directory struct {
	users  UserFetcher
	guilds GuildLookup
	cache  *lru.Cache
}

func NewDirectory(users UserFetcher, guilds GuildLookup, size int) (*Directory, error) {
	if size <= 0 {
		size = defaultCacheSize
	}
	cache, err := lru.New(size)
	if err != nil {
		return nil, err
	}
	return &Directory{users: users, guilds: guilds, cache: cache}, nil
}

func (d *Directory) UserName(ctx context.Context, id snowflake.ID) string {
	key := "user:" + id.String()
	if name, ok := d.cache.Get(key); ok {
		return name.(string)
	}

	user, err := d.users.GetUser(id, rest.WithCtx(ctx))
	if err != nil || user == nil {
		slog.Warn("Failed to resolve user name",
			slog.String("type", "claim"),
			slog.String("user_id", id.String()),
			slog.Any("error", err))
		return id.String()
	}

	d.cache.Add(key, user.Username)
	return user.Username
}

func (d *Directory) ScopeName(_ context.Context, id snowflake.ID) string {
	key := "guild:" + id.String()
	if name, ok := d.cache.Get(key); ok {
		return name.(string)
	}

	name, ok := d.guilds(id)
	if !ok {
		return unknownName
	}
	d.cache.Add(key, name)
	return name
}
