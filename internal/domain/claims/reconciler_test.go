package claims_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/ruthless-bot/ruthless/internal/domain/claims"
	"github.com/ruthless-bot/ruthless/internal/domain/claims/mock"
	"github.com/ruthless-bot/ruthless/internal/domain/inventory"
	"github.com/ruthless-bot/ruthless/internal/domain/ledger"
	"github.com/ruthless-bot/ruthless/internal/domain/settings"
)

func TestReconciler_NetflixScenario(t *testing.T) {
	verifier := newFakeVerifier()
	notifier := &fakeNotifier{}
	f := newFixture(t, verifier, notifier)
	ctx := context.Background()

	c, err := f.manager.Reserve(ctx, scopeS, userU, "netflix")
	require.NoError(t, err)
	assert.Equal(t, "a1", c.Item)
	assert.Equal(t, "L1", c.LinkID)

	_, err = f.manager.Reserve(ctx, scopeS, userU, "netflix")
	assert.ErrorIs(t, err, claims.ErrClaimAlreadyPending)

	report := f.reconciler.Tick(ctx)
	assert.Equal(t, 1, report.Checked)
	assert.Zero(t, report.Delivered)

	verifier.Complete("L1")
	report = f.reconciler.Tick(ctx)
	assert.Equal(t, 1, report.Delivered)

	assert.Zero(t, f.manager.Count())
	assert.Equal(t, []string{"a2"}, f.stock(t, "netflix"))

	entries := f.ledger.List()
	require.Len(t, entries, 1)
	assert.Equal(t, "user-100", entries[0].RequesterName)
	assert.Equal(t, "netflix", entries[0].Module)
	assert.Equal(t, "a1", entries[0].Item)
	assert.Equal(t, "guild-900", entries[0].ScopeName)

	require.Len(t, notifier.delivered, 1)
	assert.Equal(t, claims.StateCompleted, notifier.delivered[0].State)

	c, err = f.manager.Reserve(ctx, scopeS, userU, "netflix")
	require.NoError(t, err)
	assert.Equal(t, "a2", c.Item)
}

func TestReconciler_NoDoubleRemoval(t *testing.T) {
	ctrl := gomock.NewController(t)
	verifier := mock.NewMockVerifier(ctrl)
	notifier := mock.NewMockNotifier(ctrl)
	f := newFixture(t, verifier, notifier)
	ctx := context.Background()
	require.NoError(t, f.store.AddItems(ctx, scopeS, "netflix", []string{"a1"}))

	verifier.EXPECT().CreateLink(gomock.Any(), userU, "netflix", "a1").
		Return(claims.Link{ID: "L1", URL: "https://w.ink/L1"}, nil)
	verifier.EXPECT().IsComplete(gomock.Any(), "L1").Return(true, nil).Times(1)
	notifier.EXPECT().DeliverItem(gomock.Any(), gomock.Any()).Return(nil).Times(1)

	_, err := f.manager.Reserve(ctx, scopeS, userU, "netflix")
	require.NoError(t, err)

	assert.Equal(t, 1, f.reconciler.Tick(ctx).Delivered)
	assert.Zero(t, f.reconciler.Tick(ctx).Checked)

	assert.Equal(t, []string{"a2", "a1"}, f.stock(t, "netflix"))
	assert.Equal(t, 1, f.ledger.Len())
}

func TestReconciler_ReminderSentOnce(t *testing.T) {
	ctrl := gomock.NewController(t)
	notifier := mock.NewMockNotifier(ctrl)
	f := newFixture(t, newFakeVerifier(), notifier)
	f.settings.Set(scopeS, settings.ReminderInterval, 180)
	ctx := context.Background()

	_, err := f.manager.Reserve(ctx, scopeS, userU, "netflix")
	require.NoError(t, err)

	f.clock.Advance(180 * time.Second)
	assert.Zero(t, f.reconciler.Tick(ctx).Reminded)

	notifier.EXPECT().
		RemindPending(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, c claims.Claim) error {
			assert.True(t, c.ReminderSent)
			return errors.New("cannot send messages to this user")
		}).
		Times(1)

	f.clock.Advance(time.Second)
	assert.Equal(t, 1, f.reconciler.Tick(ctx).Reminded)

	f.clock.Advance(time.Hour)
	assert.Zero(t, f.reconciler.Tick(ctx).Reminded)

	c, ok := f.manager.Pending(userU)
	require.True(t, ok)
	assert.True(t, c.ReminderSent)
}

func TestReconciler_CompletionBeatsReminder(t *testing.T) {
	verifier := newFakeVerifier()
	notifier := &fakeNotifier{}
	f := newFixture(t, verifier, notifier)
	ctx := context.Background()

	c, err := f.manager.Reserve(ctx, scopeS, userU, "netflix")
	require.NoError(t, err)

	f.clock.Advance(time.Hour)
	verifier.Complete(c.LinkID)

	report := f.reconciler.Tick(ctx)
	assert.Equal(t, 1, report.Delivered)
	assert.Zero(t, report.Reminded)
	assert.Empty(t, notifier.reminded)
}

func TestReconciler_StatusErrorMeansPending(t *testing.T) {
	ctrl := gomock.NewController(t)
	verifier := mock.NewMockVerifier(ctrl)
	f := newFixture(t, verifier, &fakeNotifier{})
	ctx := context.Background()

	verifier.EXPECT().CreateLink(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(claims.Link{ID: "L1", URL: "https://w.ink/L1"}, nil)
	verifier.EXPECT().IsComplete(gomock.Any(), "L1").
		Return(false, context.DeadlineExceeded).Times(2)

	_, err := f.manager.Reserve(ctx, scopeS, userU, "netflix")
	require.NoError(t, err)

	f.reconciler.Tick(ctx)
	f.reconciler.Tick(ctx)

	assert.Equal(t, 1, f.manager.Count())
	assert.Equal(t, []string{"a1", "a2"}, f.stock(t, "netflix"))
}

func TestReconciler_NotificationFailureStillDelivers(t *testing.T) {
	ctrl := gomock.NewController(t)
	notifier := mock.NewMockNotifier(ctrl)
	verifier := newFakeVerifier()
	f := newFixture(t, verifier, notifier)
	ctx := context.Background()

	notifier.EXPECT().DeliverItem(gomock.Any(), gomock.Any()).
		Return(errors.New("dm closed"))

	c, err := f.manager.Reserve(ctx, scopeS, userU, "netflix")
	require.NoError(t, err)
	verifier.Complete(c.LinkID)

	assert.Equal(t, 1, f.reconciler.Tick(ctx).Delivered)
	assert.Equal(t, []string{"a2"}, f.stock(t, "netflix"))
	assert.Equal(t, 1, f.ledger.Len())
	assert.Zero(t, f.manager.Count())
}

func TestReconciler_MaxRecentOne(t *testing.T) {
	verifier := newFakeVerifier()
	f := newFixture(t, verifier, &fakeNotifier{})
	f.settings.Set(scopeS, settings.MaxRecent, 1)
	ctx := context.Background()

	for _, requester := range []snowflake.ID{userU, userV} {
		c, err := f.manager.Reserve(ctx, scopeS, requester, "netflix")
		require.NoError(t, err)
		verifier.Complete(c.LinkID)
		require.Equal(t, 1, f.reconciler.Tick(ctx).Delivered)
	}

	entries := f.ledger.List()
	require.Len(t, entries, 1)
	assert.Equal(t, userV, entries[0].Requester)
	assert.Equal(t, "a2", entries[0].Item)
}

func TestReconciler_CancelledClaimNotDelivered(t *testing.T) {
	verifier := newFakeVerifier()
	notifier := &fakeNotifier{}
	f := newFixture(t, verifier, notifier)
	ctx := context.Background()

	c, err := f.manager.Reserve(ctx, scopeS, userU, "netflix")
	require.NoError(t, err)
	verifier.Complete(c.LinkID)
	f.manager.Cancel(userU)

	assert.Zero(t, f.reconciler.Tick(ctx).Delivered)
	assert.Empty(t, notifier.delivered)
	assert.Equal(t, []string{"a1", "a2"}, f.stock(t, "netflix"))
}

type blockingVerifier struct {
	*fakeVerifier
	entered chan struct{}
	release chan struct{}
}

func (b *blockingVerifier) IsComplete(ctx context.Context, linkID string) (bool, error) {
	b.entered <- struct{}{}
	<-b.release
	return b.fakeVerifier.IsComplete(ctx, linkID)
}

func TestReconciler_TicksDoNotOverlap(t *testing.T) {
	verifier := &blockingVerifier{
		fakeVerifier: newFakeVerifier(),
		entered:      make(chan struct{}, 1),
		release:      make(chan struct{}),
	}
	f := newFixture(t, verifier, &fakeNotifier{})
	ctx := context.Background()

	_, err := f.manager.Reserve(ctx, scopeS, userU, "netflix")
	require.NoError(t, err)

	done := make(chan claims.TickReport)
	go func() { done <- f.reconciler.Tick(ctx) }()

	<-verifier.entered
	assert.True(t, f.reconciler.Tick(ctx).Skipped)

	close(verifier.release)
	assert.False(t, (<-done).Skipped)
}

func TestReconciler_Run(t *testing.T) {
	verifier := newFakeVerifier()
	notifier := &fakeNotifier{}
	f := newFixture(t, verifier, notifier)

	c, err := f.manager.Reserve(context.Background(), scopeS, userU, "netflix")
	require.NoError(t, err)
	verifier.Complete(c.LinkID)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- f.reconciler.Run(ctx) }()

	require.Eventually(t, func() bool {
		return f.manager.Count() == 0
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	require.NoError(t, <-errCh)
	assert.Equal(t, []string{"a2"}, f.stock(t, "netflix"))
}

// blockingStock stalls RemoveOne until released.
type blockingStock struct {
	*inventory.Store
	entered chan struct{}
	release chan struct{}
}

func (b *blockingStock) RemoveOne(ctx context.Context, scope snowflake.ID, module string, item string) (bool, error) {
	b.entered <- struct{}{}
	<-b.release
	return b.Store.RemoveOne(ctx, scope, module, item)
}

func TestReconciler_DeliveredItemStaysHeldUntilRemoved(t *testing.T) {
	ctx := context.Background()
	store := inventory.NewStore(inventory.NewMemoryBackend())
	require.NoError(t, store.CreateModule(ctx, scopeS, "netflix"))
	require.NoError(t, store.AddItems(ctx, scopeS, "netflix", []string{"a1", "a2"}))

	registry := settings.NewRegistry(nil)
	registry.Set(scopeS, settings.ClaimCooldown, 0)

	stock := &blockingStock{Store: store, entered: make(chan struct{}, 1), release: make(chan struct{})}
	verifier := newFakeVerifier()
	notifier := &fakeNotifier{}
	l := ledger.New(func(scope snowflake.ID) int { return registry.Get(scope, settings.MaxRecent) })
	manager := claims.NewManager(stock, registry, verifier)
	reconciler := claims.NewReconciler(manager, notifier, l, stubDirectory{}, claims.ReconcilerConfig{
		Interval:     time.Second,
		CheckTimeout: time.Second,
	})

	u, err := manager.Reserve(ctx, scopeS, userU, "netflix")
	require.NoError(t, err)
	require.Equal(t, "a1", u.Item)
	verifier.Complete(u.LinkID)

	done := make(chan claims.TickReport)
	go func() { done <- reconciler.Tick(ctx) }()
	<-stock.entered

	// a1 is mid-delivery and must not be handed out again
	v, err := manager.Reserve(ctx, scopeS, userV, "netflix")
	require.NoError(t, err)
	assert.Equal(t, "a2", v.Item)

	_, err = manager.Reserve(ctx, scopeS, snowflake.ID(300), "netflix")
	assert.ErrorIs(t, err, claims.ErrOutOfStock)
	assert.False(t, manager.Cancel(userU))

	close(stock.release)
	report := <-done
	assert.Equal(t, 1, report.Delivered)

	_, pending := manager.Pending(userU)
	assert.False(t, pending)
	assert.Equal(t, 1, manager.Count())

	items, err := store.ListItems(ctx, scopeS, "netflix")
	require.NoError(t, err)
	assert.Equal(t, []string{"a2"}, items)
	require.Len(t, notifier.delivered, 1)
	assert.Equal(t, "a1", notifier.delivered[0].Item)
}
