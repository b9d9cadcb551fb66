package stockbot

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ruthless-bot/ruthless/internal/domain/settings"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
[bot]
token = "file-token"
owner_id = 123456789012345678

[stock]
backend = "postgres"

[stock.postgres]
host = "localhost"
port = 5432
password = "from-file"

[defaults]
claim_cooldown = 60
max_recent = 5
`)
	t.Setenv(EnvDBPassword, "from-env")
	t.Setenv(EnvBotToken, "")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "file-token", cfg.Bot.Token)
	assert.Equal(t, snowflake.ID(123456789012345678), cfg.Bot.OwnerID)
	assert.Equal(t, "from-env", cfg.Stock.Postgres.Password)
	assert.Equal(t, BackendPostgres, cfg.Stock.Backend)

	assert.Equal(t, "Ruthless", cfg.Bot.Name)
	assert.Equal(t, 10, cfg.Reconciler.Interval)
	assert.Equal(t, ":8080", cfg.Web.Addr)
	assert.Equal(t, 60*time.Second, cfg.CommandTimeout())
	assert.Equal(t, map[settings.Key]int{
		settings.ClaimCooldown: 60,
		settings.MaxRecent:     5,
	}, cfg.SettingDefaults())
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing token", `[stock]
backend = "file"`},
		{"unknown backend", `[bot]
token = "x"
[stock]
backend = "redis"`},
		{"unknown setting", `[bot]
token = "x"
[defaults]
warp_speed = 9`},
		{"negative setting", `[bot]
token = "x"
[defaults]
claim_cooldown = -1`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(EnvBotToken, "")
			_, err := LoadConfig(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}
}

func TestLoadConfig_TokenFromEnv(t *testing.T) {
	t.Setenv(EnvBotToken, "env-token")

	cfg, err := LoadConfig(writeConfig(t, "[log]\nlevel = \"debug\"\n"))
	require.NoError(t, err)
	assert.Equal(t, "env-token", cfg.Bot.Token)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, BackendFile, cfg.Stock.Backend)
}
