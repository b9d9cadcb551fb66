package inventory

import (
	"context"
	"sync"

	"github.com/disgoorg/snowflake/v2"
)

// MemoryBackend keeps stock in process memory. Nothing survives a restart.
type MemoryBackend struct {
	mu      sync.RWMutex
	modules map[snowflake.ID]map[string][]string
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{modules: make(map[snowflake.ID]map[string][]string)}
}

func (b *MemoryBackend) List(_ context.Context, scope snowflake.ID) ([]string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	names := make([]string, 0, len(b.modules[scope]))
	for name := range b.modules[scope] {
		names = append(names, name)
	}
	return names, nil
}

func (b *MemoryBackend) Read(_ context.Context, scope snowflake.ID, module string) ([]string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	items := b.modules[scope][module]
	out := make([]string, len(items))
	copy(out, items)
	return out, nil
}

func (b *MemoryBackend) Write(_ context.Context, scope snowflake.ID, module string, items []string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.modules[scope] == nil {
		b.modules[scope] = make(map[string][]string)
	}
	stored := make([]string, len(items))
	copy(stored, items)
	b.modules[scope][module] = stored
	return nil
}

func (b *MemoryBackend) Exists(_ context.Context, scope snowflake.ID, module string) (bool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	_, ok := b.modules[scope][module]
	return ok, nil
}

func (b *MemoryBackend) Create(_ context.Context, scope snowflake.ID, module string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.modules[scope] == nil {
		b.modules[scope] = make(map[string][]string)
	}
	if _, ok := b.modules[scope][module]; ok {
		return ErrModuleExists
	}
	b.modules[scope][module] = []string{}
	return nil
}

func (b *MemoryBackend) Delete(_ context.Context, scope snowflake.ID, module string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.modules[scope][module]; !ok {
		return ErrModuleNotFound
	}
	delete(b.modules[scope], module)
	return nil
}
