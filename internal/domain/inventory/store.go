package inventory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/disgoorg/snowflake/v2"
)

// Store is the per-scope, per-module inventory of deliverable items.
type Store struct {
	mu      sync.Mutex
	backend Backend
}

func NewStore(backend Backend) *Store {
	return &Store{backend: backend}
}

// ListModules returns the names of every module in the scope, sorted.
func (s *Store) ListModules(ctx context.Context, scope snowflake.ID) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	names, err := s.backend.List(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("failed to list modules: %w", err)
	}
	sort.Strings(names)
	return names, nil
}

func (s *Store) CreateModule(ctx context.Context, scope snowflake.ID, name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrInvalidModuleName
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	exists, err := s.backend.Exists(ctx, scope, name)
	if err != nil {
		return fmt.Errorf("failed to check module %q: %w", name, err)
	}
	if exists {
		return ErrModuleExists
	}
	return s.backend.Create(ctx, scope, name)
}

// DeleteModule removes the module and all of its items.
func (s *Store) DeleteModule(ctx context.Context, scope snowflake.ID, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireLocked(ctx, scope, name); err != nil {
		return err
	}
	return s.backend.Delete(ctx, scope, name)
}

// ListItems returns the module's items in insertion order. A module
// without stock yields an empty slice.
func (s *Store) ListItems(ctx context.Context, scope snowflake.ID, name string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.backend.Read(ctx, scope, name)
	if err != nil {
		return nil, fmt.Errorf("failed to read module %q: %w", name, err)
	}
	if items == nil {
		items = []string{}
	}
	return items, nil
}

// AddItems appends items verbatim, duplicates included.
func (s *Store) AddItems(ctx context.Context, scope snowflake.ID, name string, items []string) error {
	for _, item := range items {
		if strings.ContainsAny(item, "\r\n") {
			return ErrInvalidItem
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireLocked(ctx, scope, name); err != nil {
		return err
	}
	current, err := s.backend.Read(ctx, scope, name)
	if err != nil {
		return fmt.Errorf("failed to read module %q: %w", name, err)
	}
	return s.backend.Write(ctx, scope, name, append(current, items...))
}

// RemoveItems drops every occurrence of every given value and reports
// how many entries were removed.
func (s *Store) RemoveItems(ctx context.Context, scope snowflake.ID, name string, items []string) (int, error) {
	drop := make(map[string]struct{}, len(items))
	for _, item := range items {
		drop[item] = struct{}{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireLocked(ctx, scope, name); err != nil {
		return 0, err
	}
	current, err := s.backend.Read(ctx, scope, name)
	if err != nil {
		return 0, fmt.Errorf("failed to read module %q: %w", name, err)
	}

	kept := make([]string, 0, len(current))
	for _, item := range current {
		if _, ok := drop[item]; !ok {
			kept = append(kept, item)
		}
	}
	removed := len(current) - len(kept)
	if removed == 0 {
		return 0, nil
	}
	if err = s.backend.Write(ctx, scope, name, kept); err != nil {
		return 0, err
	}
	return removed, nil
}

// PeekFirst returns the oldest item without consuming it.
func (s *Store) PeekFirst(ctx context.Context, scope snowflake.ID, name string) (string, bool, error) {
	items, err := s.ListItems(ctx, scope, name)
	if err != nil || len(items) == 0 {
		return "", false, err
	}
	return items[0], true, nil
}

// RemoveOne removes a single occurrence of item. It reports whether
// anything was removed; a missing item or module is not an error.
func (s *Store) RemoveOne(ctx context.Context, scope snowflake.ID, name string, item string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.backend.Read(ctx, scope, name)
	if err != nil {
		return false, fmt.Errorf("failed to read module %q: %w", name, err)
	}
	for i, v := range current {
		if v != item {
			continue
		}
		next := make([]string, 0, len(current)-1)
		next = append(next, current[:i]...)
		next = append(next, current[i+1:]...)
		if err = s.backend.Write(ctx, scope, name, next); err != nil {
			return false, err
		}
		return true, nil
	}
	return false, nil
}

func (s *Store) requireLocked(ctx context.Context, scope snowflake.ID, name string) error {
	exists, err := s.backend.Exists(ctx, scope, name)
	if err != nil {
		return fmt.Errorf("failed to check module %q: %w", name, err)
	}
	if !exists {
		return ErrModuleNotFound
	}
	return nil
}
