package claims_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/ruthless-bot/ruthless/internal/domain/claims"
	"github.com/ruthless-bot/ruthless/internal/domain/claims/mock"
	"github.com/ruthless-bot/ruthless/internal/domain/settings"
)

func TestManager_Reserve(t *testing.T) {
	tests := []struct {
		name       string
		setup      func(f *fixture)
		module     string
		wantReason claims.Reason
		wantItem   string
	}{
		{
			name:     "first item handed out",
			module:   "netflix",
			wantItem: "a1",
		},
		{
			name: "cooldown checked first",
			setup: func(f *fixture) {
				f.settings.Set(scopeS, settings.ClaimCooldown, 60)
				_, _ = f.manager.Reserve(context.Background(), scopeS, userU, "netflix")
				f.manager.Cancel(userU)
			},
			module:     "missing",
			wantReason: claims.CooldownActive,
		},
		{
			name: "pending claim",
			setup: func(f *fixture) {
				_, _ = f.manager.Reserve(context.Background(), scopeS, userU, "netflix")
			},
			module:     "netflix",
			wantReason: claims.ClaimAlreadyPending,
		},
		{
			name:       "unknown module before stock",
			module:     "missing",
			wantReason: claims.ModuleNotFound,
		},
		{
			name:       "empty module",
			module:     "empty",
			wantReason: claims.OutOfStock,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, newFakeVerifier(), &fakeNotifier{})
			if tt.setup != nil {
				tt.setup(f)
			}

			got, err := f.manager.Reserve(context.Background(), scopeS, userU, tt.module)
			if tt.wantReason != 0 {
				rej, ok := claims.AsRejection(err)
				require.True(t, ok, "expected rejection, got %v", err)
				assert.Equal(t, tt.wantReason, rej.Reason)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantItem, got.Item)
			assert.Equal(t, claims.StateAwaitingVerification, got.State)
			assert.False(t, got.ReminderSent)
			assert.NotEmpty(t, got.URL)
			assert.Equal(t, f.clock.Now(), got.CreatedAt)
		})
	}
}

func TestManager_ReserveLeavesStockUntouched(t *testing.T) {
	f := newFixture(t, newFakeVerifier(), &fakeNotifier{})

	_, err := f.manager.Reserve(context.Background(), scopeS, userU, "netflix")
	require.NoError(t, err)
	assert.Equal(t, []string{"a1", "a2"}, f.stock(t, "netflix"))
}

func TestManager_ModuleNotFoundSuggests(t *testing.T) {
	f := newFixture(t, newFakeVerifier(), &fakeNotifier{})

	_, err := f.manager.Reserve(context.Background(), scopeS, userU, "netflx")
	assert.ErrorIs(t, err, claims.ErrModuleNotFound)

	rej, ok := claims.AsRejection(err)
	require.True(t, ok)
	assert.Contains(t, rej.Suggestions, "netflix")
}

func TestManager_CooldownBoundary(t *testing.T) {
	f := newFixture(t, newFakeVerifier(), &fakeNotifier{})
	f.settings.Set(scopeS, settings.ClaimCooldown, 300)
	ctx := context.Background()

	_, err := f.manager.Reserve(ctx, scopeS, userU, "netflix")
	require.NoError(t, err)
	require.True(t, f.manager.Cancel(userU))

	f.clock.Advance(299 * time.Second)
	_, err = f.manager.Reserve(ctx, scopeS, userU, "netflix")
	assert.ErrorIs(t, err, claims.ErrCooldownActive)
	rej, _ := claims.AsRejection(err)
	require.NotNil(t, rej)
	assert.Equal(t, time.Second, rej.Wait)

	ok, wait := f.manager.CanClaim(scopeS, userU)
	assert.False(t, ok)
	assert.Equal(t, time.Second, wait)

	f.clock.Advance(2 * time.Second)
	_, err = f.manager.Reserve(ctx, scopeS, userU, "netflix")
	assert.NoError(t, err)
}

func TestManager_LinkCreationFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	verifier := mock.NewMockVerifier(ctrl)
	verifier.EXPECT().
		CreateLink(gomock.Any(), userU, "netflix", "a1").
		Return(claims.Link{}, errors.New("502 bad gateway"))

	f := newFixture(t, verifier, &fakeNotifier{})
	f.settings.Set(scopeS, settings.ClaimCooldown, 300)
	ctx := context.Background()

	_, err := f.manager.Reserve(ctx, scopeS, userU, "netflix")
	assert.ErrorIs(t, err, claims.ErrLinkCreationFailed)
	assert.Zero(t, f.manager.Count())
	assert.Equal(t, []string{"a1", "a2"}, f.stock(t, "netflix"))

	// the failed attempt still consumed the cooldown
	_, err = f.manager.Reserve(ctx, scopeS, userU, "netflix")
	assert.ErrorIs(t, err, claims.ErrCooldownActive)
}

func TestManager_CancelDuringLinkCreation(t *testing.T) {
	ctrl := gomock.NewController(t)
	verifier := mock.NewMockVerifier(ctrl)
	f := newFixture(t, verifier, &fakeNotifier{})

	verifier.EXPECT().
		CreateLink(gomock.Any(), userU, "netflix", "a1").
		DoAndReturn(func(context.Context, snowflake.ID, string, string) (claims.Link, error) {
			assert.True(t, f.manager.Cancel(userU))
			return claims.Link{ID: "L1", URL: "https://w.ink/L1"}, nil
		})

	_, err := f.manager.Reserve(context.Background(), scopeS, userU, "netflix")
	assert.ErrorIs(t, err, claims.ErrClaimCancelled)
	assert.Zero(t, f.manager.Count())
}

func TestManager_Cancel(t *testing.T) {
	f := newFixture(t, newFakeVerifier(), &fakeNotifier{})

	assert.False(t, f.manager.Cancel(userU))

	_, err := f.manager.Reserve(context.Background(), scopeS, userU, "netflix")
	require.NoError(t, err)

	_, ok := f.manager.Pending(userU)
	assert.True(t, ok)
	assert.True(t, f.manager.Cancel(userU))
	_, ok = f.manager.Pending(userU)
	assert.False(t, ok)
	assert.Equal(t, []string{"a1", "a2"}, f.stock(t, "netflix"))
}

func TestManager_ConcurrentReserveSingleClaim(t *testing.T) {
	f := newFixture(t, newFakeVerifier(), &fakeNotifier{})

	const attempts = 32
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		pending   int
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.manager.Reserve(context.Background(), scopeS, userU, "netflix")
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case errors.Is(err, claims.ErrClaimAlreadyPending):
				pending++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, attempts-1, pending)
	assert.Equal(t, 1, f.manager.Count())
}

func TestManager_ConcurrentRequestersGetDistinctItems(t *testing.T) {
	f := newFixture(t, newFakeVerifier(), &fakeNotifier{})
	requesters := []snowflake.ID{userU, userV, snowflake.ID(300)}

	var (
		wg         sync.WaitGroup
		mu         sync.Mutex
		items      []string
		outOfStock int
	)
	for _, requester := range requesters {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c, err := f.manager.Reserve(context.Background(), scopeS, requester, "netflix")
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				items = append(items, c.Item)
			} else if errors.Is(err, claims.ErrOutOfStock) {
				outOfStock++
			}
		}()
	}
	wg.Wait()

	assert.ElementsMatch(t, []string{"a1", "a2"}, items)
	assert.Equal(t, 1, outOfStock)
}

func TestRejectionError_Error(t *testing.T) {
	tests := []struct {
		err  *claims.RejectionError
		want string
	}{
		{err: &claims.RejectionError{Reason: claims.OutOfStock}, want: "out of stock"},
		{err: &claims.RejectionError{Reason: claims.CooldownActive, Wait: 90 * time.Second}, want: "cooldown active: retry in 1m30s"},
		{err: &claims.RejectionError{Reason: claims.ModuleNotFound, Suggestions: []string{"netflix"}}, want: "module not found (did you mean netflix?)"},
		{err: &claims.RejectionError{Reason: claims.LinkCreationFailed, Err: errors.New("boom")}, want: "verification link creation failed: boom"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.err.Error())
	}
}
