package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ruthless-bot/ruthless/internal/domain/inventory"
	"github.com/ruthless-bot/ruthless/internal/domain/logger"
)

const collectionName = "stock_modules"

type Config struct {
	URI      string `toml:"uri"`
	Database string `toml:"database"`
}

// moduleDocument holds one module and its items in order.
type moduleDocument struct {
	GuildID   string    `bson:"guild_id"`
	Name      string    `bson:"name"`
	Items     []string  `bson:"items"`
	UpdatedAt time.Time `bson:"updated_at"`
}

type Backend struct {
	coll *mongo.Collection
}

func Connect(ctx context.Context, cfg Config) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}
	if err = client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("mongo unreachable: %w", err)
	}
	return client, nil
}

func New(db *mongo.Database) *Backend {
	return &Backend{coll: db.Collection(collectionName)}
}

// EnsureIndexes creates the unique (guild_id, name) index Create relies on.
func (b *Backend) EnsureIndexes(ctx context.Context) error {
	_, err := b.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "guild_id", Value: 1}, {Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("guild_name_unique"),
	})
	return err
}

func filter(scope snowflake.ID, module string) bson.D {
	return bson.D{{Key: "guild_id", Value: scope.String()}, {Key: "name", Value: module}}
}

func (b *Backend) List(ctx context.Context, scope snowflake.ID) (names []string, err error) {
	q := logger.NewQueryLogger("mongo", "list", scope, "")
	defer func() { q.Log(err, len(names)) }()

	cur, err := b.coll.Find(ctx,
		bson.D{{Key: "guild_id", Value: scope.String()}},
		options.Find().SetProjection(bson.D{{Key: "name", Value: 1}}).SetSort(bson.D{{Key: "name", Value: 1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	names = []string{}
	for cur.Next(ctx) {
		var doc moduleDocument
		if err = cur.Decode(&doc); err != nil {
			return nil, err
		}
		names = append(names, doc.Name)
	}
	return names, cur.Err()
}

func (b *Backend) Read(ctx context.Context, scope snowflake.ID, module string) (items []string, err error) {
	q := logger.NewQueryLogger("mongo", "read", scope, module)
	defer func() { q.Log(err, len(items)) }()

	var doc moduleDocument
	err = b.coll.FindOne(ctx, filter(scope, module)).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return []string{}, nil
	}
	if err != nil {
		return nil, err
	}
	if doc.Items == nil {
		return []string{}, nil
	}
	return doc.Items, nil
}

func (b *Backend) Write(ctx context.Context, scope snowflake.ID, module string, items []string) (err error) {
	q := logger.NewQueryLogger("mongo", "write", scope, module)
	defer func() { q.Log(err, len(items)) }()

	if items == nil {
		items = []string{}
	}
	_, err = b.coll.UpdateOne(ctx,
		filter(scope, module),
		bson.D{{Key: "$set", Value: bson.D{
			{Key: "items", Value: items},
			{Key: "updated_at", Value: time.Now()},
		}}},
		options.Update().SetUpsert(true),
	)
	return err
}

func (b *Backend) Exists(ctx context.Context, scope snowflake.ID, module string) (bool, error) {
	n, err := b.coll.CountDocuments(ctx, filter(scope, module), options.Count().SetLimit(1))
	return n > 0, err
}

func (b *Backend) Create(ctx context.Context, scope snowflake.ID, module string) (err error) {
	q := logger.NewQueryLogger("mongo", "create", scope, module)
	defer func() { q.Log(err, 0) }()

	_, err = b.coll.InsertOne(ctx, moduleDocument{
		GuildID:   scope.String(),
		Name:      module,
		Items:     []string{},
		UpdatedAt: time.Now(),
	})
	if mongo.IsDuplicateKeyError(err) {
		return inventory.ErrModuleExists
	}
	return err
}

func (b *Backend) Delete(ctx context.Context, scope snowflake.ID, module string) (err error) {
	q := logger.NewQueryLogger("mongo", "delete", scope, module)
	defer func() { q.Log(err, 0) }()

	res, err := b.coll.DeleteOne(ctx, filter(scope, module))
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return inventory.ErrModuleNotFound
	}
	return nil
}
