package commands

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ruthless-bot/ruthless/internal/domain/ledger"
	"github.com/ruthless-bot/ruthless/internal/domain/settings"
)

func TestCommandsAreUnique(t *testing.T) {
	seen := make(map[string]bool, len(Commands))
	for _, c := range Commands {
		name := c.CommandName()
		assert.False(t, seen[name], "duplicate command %s", name)
		seen[name] = true
	}
	assert.Len(t, seen, 9)
}

func TestPageCount(t *testing.T) {
	assert.Equal(t, 1, pageCount(0, 10))
	assert.Equal(t, 1, pageCount(10, 10))
	assert.Equal(t, 2, pageCount(11, 10))
}

func TestHelpFields(t *testing.T) {
	assert.Len(t, helpFields(false), len(userHelp))
	assert.Len(t, helpFields(true), len(userHelp)+len(ownerHelp))
	// owner listing must not leak into the shared slice
	assert.Len(t, userHelp, 3)
}

func TestRecentField(t *testing.T) {
	name, value := recentField(ledger.Entry{
		RequesterName: "alice",
		ScopeName:     "Unknown",
		Module:        "netflix",
		Item:          "a@b.c:pw",
		DeliveredAt:   time.Unix(1700000000, 0),
	})
	assert.Equal(t, "alice (Unknown)", name)
	assert.Equal(t, "netflix - a@b.c:pw\n<t:1700000000:R>", value)
}

func TestFormatSettings(t *testing.T) {
	got := formatSettings(settings.Defaults)
	assert.Equal(t, "**claim_cooldown:** 300\n"+
		"**reminder_interval:** 180\n"+
		"**progress_duration:** 12\n"+
		"**progress_speed:** 1\n"+
		"**max_recent:** 20", got)
}

func TestSettingChoicesCoverEveryKey(t *testing.T) {
	choices := settingChoices()
	assert.Len(t, choices, len(settings.Keys))
	for i, k := range settings.Keys {
		assert.Equal(t, string(k), choices[i].Value)
	}
}
