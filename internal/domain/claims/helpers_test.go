package claims_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/stretchr/testify/require"

	"github.com/ruthless-bot/ruthless/internal/domain/claims"
	"github.com/ruthless-bot/ruthless/internal/domain/inventory"
	"github.com/ruthless-bot/ruthless/internal/domain/ledger"
	"github.com/ruthless-bot/ruthless/internal/domain/settings"
)

const (
	scopeS = snowflake.ID(900)
	userU  = snowflake.ID(100)
	userV  = snowflake.ID(200)
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 1, 2, 15, 4, 5, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type fakeVerifier struct {
	mu        sync.Mutex
	issued    int
	completed map[string]bool
}

func newFakeVerifier() *fakeVerifier {
	return &fakeVerifier{completed: make(map[string]bool)}
}

func (f *fakeVerifier) CreateLink(_ context.Context, _ snowflake.ID, _ string, _ string) (claims.Link, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.issued++
	id := fmt.Sprintf("L%d", f.issued)
	return claims.Link{ID: id, URL: "https://w.ink/" + id}, nil
}

func (f *fakeVerifier) IsComplete(_ context.Context, linkID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.completed[linkID], nil
}

func (f *fakeVerifier) Complete(linkID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.completed[linkID] = true
}

type fakeNotifier struct {
	mu        sync.Mutex
	delivered []claims.Claim
	reminded  []claims.Claim
}

func (n *fakeNotifier) DeliverItem(_ context.Context, c claims.Claim) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.delivered = append(n.delivered, c)
	return nil
}

func (n *fakeNotifier) RemindPending(_ context.Context, c claims.Claim) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.reminded = append(n.reminded, c)
	return nil
}

type stubDirectory struct{}

func (stubDirectory) UserName(_ context.Context, id snowflake.ID) string {
	return "user-" + id.String()
}

func (stubDirectory) ScopeName(_ context.Context, id snowflake.ID) string {
	return "guild-" + id.String()
}

type fixture struct {
	store      *inventory.Store
	settings   *settings.Registry
	clock      *fakeClock
	ledger     *ledger.Ledger
	manager    *claims.Manager
	reconciler *claims.Reconciler
}

func newFixture(t *testing.T, verifier claims.Verifier, notifier claims.Notifier) *fixture {
	t.Helper()
	ctx := context.Background()

	store := inventory.NewStore(inventory.NewMemoryBackend())
	require.NoError(t, store.CreateModule(ctx, scopeS, "netflix"))
	require.NoError(t, store.AddItems(ctx, scopeS, "netflix", []string{"a1", "a2"}))
	require.NoError(t, store.CreateModule(ctx, scopeS, "empty"))

	registry := settings.NewRegistry(nil)
	registry.Set(scopeS, settings.ClaimCooldown, 0)

	clock := newFakeClock()
	l := ledger.New(func(scope snowflake.ID) int { return registry.Get(scope, settings.MaxRecent) })
	manager := claims.NewManager(store, registry, verifier, claims.WithClock(clock.Now))
	reconciler := claims.NewReconciler(manager, notifier, l, stubDirectory{}, claims.ReconcilerConfig{
		Interval:     20 * time.Millisecond,
		CheckTimeout: time.Second,
		Concurrency:  2,
	})

	return &fixture{
		store:      store,
		settings:   registry,
		clock:      clock,
		ledger:     l,
		manager:    manager,
		reconciler: reconciler,
	}
}

func (f *fixture) stock(t *testing.T, module string) []string {
	t.Helper()
	items, err := f.store.ListItems(context.Background(), scopeS, module)
	require.NoError(t, err)
	return items
}
