package settings

import (
	"testing"

	"github.com/disgoorg/snowflake/v2"
	"github.com/stretchr/testify/assert"
)

func TestRegistry_GetSet(t *testing.T) {
	scopeA := snowflake.ID(1)
	scopeB := snowflake.ID(2)
	r := NewRegistry(map[Key]int{MaxRecent: 5})

	assert.Equal(t, 300, r.Get(scopeA, ClaimCooldown))
	assert.Equal(t, 5, r.Get(scopeA, MaxRecent))

	r.Set(scopeA, ClaimCooldown, 0)
	assert.Equal(t, 0, r.Get(scopeA, ClaimCooldown))
	assert.Equal(t, 180, r.Get(scopeA, ReminderInterval))
	assert.Equal(t, 5, r.Get(scopeA, MaxRecent))

	assert.Equal(t, 300, r.Get(scopeB, ClaimCooldown))
}

func TestRegistry_Snapshot(t *testing.T) {
	r := NewRegistry(nil)
	r.Set(snowflake.ID(1), ProgressSpeed, 3)

	got := r.Snapshot(snowflake.ID(1))
	assert.Len(t, got, len(Keys))
	assert.Equal(t, 3, got[ProgressSpeed])
	assert.Equal(t, 12, got[ProgressDuration])
}

func TestParseKey(t *testing.T) {
	k, ok := ParseKey("reminder_interval")
	assert.True(t, ok)
	assert.Equal(t, ReminderInterval, k)

	_, ok = ParseKey("volume")
	assert.False(t, ok)
}
