package stockbot

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"github.com/ruthless-bot/ruthless/internal/domain/settings"
	"github.com/ruthless-bot/ruthless/internal/gateways/database"
	"github.com/ruthless-bot/ruthless/internal/gateways/mongostore"
	"github.com/ruthless-bot/ruthless/internal/gateways/objectstore"
)

// Environment variables that override secrets from the config file.
const (
	EnvBotToken   = "RUTHLESS_BOT_TOKEN"
	EnvWorkinkKey = "WORKINK_API_KEY"
	EnvDBPassword = "RUTHLESS_DB_PASSWORD"
	EnvS3Secret   = "RUTHLESS_S3_SECRET"
	EnvMongoURI   = "RUTHLESS_MONGO_URI"
)

// Stock backends selectable through [stock] backend.
const (
	BackendFile     = "file"
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendS3       = "s3"
	BackendMongo    = "mongo"
)

// LoadConfig reads the TOML file at path, applies .env and environment
// overrides, then fills defaults. A missing .env file is not an error.
func LoadConfig(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config: %w", err)
	}
	defer file.Close()

	var cfg Config
	if err = toml.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err = godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}
	cfg.applyEnv()
	cfg.applyDefaults()

	if err = cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type Config struct {
	Log        LogConfig        `toml:"log"`
	Bot        BotConfig        `toml:"bot"`
	Workink    WorkinkConfig    `toml:"workink"`
	Stock      StockConfig      `toml:"stock"`
	Reconciler ReconcilerConfig `toml:"reconciler"`
	Web        WebConfig        `toml:"web"`
	Defaults   map[string]int   `toml:"defaults"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

type BotConfig struct {
	Name           string         `toml:"name"`
	Token          string         `toml:"token"`
	OwnerID        snowflake.ID   `toml:"owner_id"`
	DevGuilds      []snowflake.ID `toml:"dev_guilds"`
	CommandTimeout int            `toml:"command_timeout"`
}

type WorkinkConfig struct {
	APIKey    string `toml:"api_key"`
	BaseURL   string `toml:"base_url"`
	PublicURL string `toml:"public_url"`
	Domain    string `toml:"domain"`
	Timeout   int    `toml:"timeout"`
}

type StockConfig struct {
	Backend  string             `toml:"backend"`
	Dir      string             `toml:"dir"`
	Postgres database.DBConfig  `toml:"postgres"`
	S3       objectstore.Config `toml:"s3"`
	Mongo    mongostore.Config  `toml:"mongo"`
}

type ReconcilerConfig struct {
	Interval     int `toml:"interval"`
	CheckTimeout int `toml:"check_timeout"`
	Concurrency  int `toml:"concurrency"`
}

type WebConfig struct {
	Enabled bool   `toml:"enabled"`
	Addr    string `toml:"addr"`
}

func (c *Config) applyEnv() {
	override := func(dst *string, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	override(&c.Bot.Token, EnvBotToken)
	override(&c.Workink.APIKey, EnvWorkinkKey)
	override(&c.Stock.Postgres.Password, EnvDBPassword)
	override(&c.Stock.S3.Secret, EnvS3Secret)
	override(&c.Stock.Mongo.URI, EnvMongoURI)
}

func (c *Config) applyDefaults() {
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Bot.Name == "" {
		c.Bot.Name = "Ruthless"
	}
	if c.Bot.CommandTimeout <= 0 {
		c.Bot.CommandTimeout = 60
	}
	if c.Stock.Backend == "" {
		c.Stock.Backend = BackendFile
	}
	if c.Stock.Dir == "" {
		c.Stock.Dir = "stock"
	}
	if c.Stock.Mongo.Database == "" {
		c.Stock.Mongo.Database = "ruthless"
	}
	if c.Reconciler.Interval <= 0 {
		c.Reconciler.Interval = 10
	}
	if c.Reconciler.CheckTimeout <= 0 {
		c.Reconciler.CheckTimeout = 5
	}
	if c.Reconciler.Concurrency <= 0 {
		c.Reconciler.Concurrency = 4
	}
	if c.Web.Addr == "" {
		c.Web.Addr = ":8080"
	}
}

// Validate checks fields that have no sensible default.
func (c *Config) Validate() error {
	if c.Bot.Token == "" {
		return fmt.Errorf("bot token missing: set [bot] token or %s", EnvBotToken)
	}
	switch c.Stock.Backend {
	case BackendFile, BackendMemory, BackendPostgres, BackendS3, BackendMongo:
	default:
		return fmt.Errorf("unknown stock backend %q", c.Stock.Backend)
	}
	for name, v := range c.Defaults {
		if _, ok := settings.ParseKey(name); !ok {
			return fmt.Errorf("unknown setting %q in [defaults]", name)
		}
		if v < 0 {
			return fmt.Errorf("setting %q in [defaults] must not be negative", name)
		}
	}
	return nil
}

// SettingDefaults converts the [defaults] table into registry defaults.
func (c *Config) SettingDefaults() map[settings.Key]int {
	out := make(map[settings.Key]int, len(c.Defaults))
	for name, v := range c.Defaults {
		if key, ok := settings.ParseKey(name); ok {
			out[key] = v
		}
	}
	return out
}

func (c *Config) CommandTimeout() time.Duration {
	return time.Duration(c.Bot.CommandTimeout) * time.Second
}
