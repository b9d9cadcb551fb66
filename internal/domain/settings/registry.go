package settings

import (
	"sync"

	"github.com/disgoorg/snowflake/v2"
)

type Key string

const (
	ClaimCooldown    Key = "claim_cooldown"
	ReminderInterval Key = "reminder_interval"
	ProgressDuration Key = "progress_duration"
	ProgressSpeed    Key = "progress_speed"
	MaxRecent        Key = "max_recent"
)

// Keys lists every tunable in display order.
var Keys = []Key{ClaimCooldown, ReminderInterval, ProgressDuration, ProgressSpeed, MaxRecent}

// Defaults are the global values used when a scope has no override.
var Defaults = map[Key]int{
	ClaimCooldown:    300,
	ReminderInterval: 180,
	ProgressDuration: 12,
	ProgressSpeed:    1,
	MaxRecent:        20,
}

func ParseKey(s string) (Key, bool) {
	for _, k := range Keys {
		if string(k) == s {
			return k, true
		}
	}
	return "", false
}

// Registry holds per-scope overrides on top of a default set.
type Registry struct {
	mu        sync.RWMutex
	defaults  map[Key]int
	overrides map[snowflake.ID]map[Key]int
}

// NewRegistry builds a registry. Keys missing from defaults fall back
// to the package Defaults.
func NewRegistry(defaults map[Key]int) *Registry {
	merged := make(map[Key]int, len(Defaults))
	for k, v := range Defaults {
		merged[k] = v
	}
	for k, v := range defaults {
		merged[k] = v
	}
	return &Registry{
		defaults:  merged,
		overrides: make(map[snowflake.ID]map[Key]int),
	}
}

func (r *Registry) Get(scope snowflake.ID, key Key) int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if values, ok := r.overrides[scope]; ok {
		if v, ok := values[key]; ok {
			return v
		}
	}
	return r.defaults[key]
}

// Set overrides one key. The first write for a scope copies the full
// default set so later default changes do not leak into it.
func (r *Registry) Set(scope snowflake.ID, key Key, value int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	values, ok := r.overrides[scope]
	if !ok {
		values = make(map[Key]int, len(r.defaults))
		for k, v := range r.defaults {
			values[k] = v
		}
		r.overrides[scope] = values
	}
	values[key] = value
}

// Snapshot returns the effective values for a scope.
func (r *Registry) Snapshot(scope snowflake.ID) map[Key]int {
	out := make(map[Key]int, len(Keys))
	for _, k := range Keys {
		out[k] = r.Get(scope, k)
	}
	return out
}
