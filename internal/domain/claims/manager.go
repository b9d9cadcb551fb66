package claims

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/disgoorg/snowflake/v2"

	"github.com/ruthless-bot/ruthless/internal/domain/inventory"
	"github.com/ruthless-bot/ruthless/internal/domain/settings"
)

const defaultLinkTimeout = 15 * time.Second

// Manager owns the in-flight claims and per-requester cooldowns. Every
// state change happens under mu. Verifier calls run outside it, but the
// stock reads that pick an item run under it so two reservations can
// never pick the same item; on remote backends each Reserve therefore
// waits for one storage round-trip held by any other Reserve.
type Manager struct {
	mu        sync.Mutex
	claims    map[snowflake.ID]*Claim
	cooldowns map[snowflake.ID]time.Time

	inventory   Inventory
	settings    Settings
	verifier    Verifier
	linkTimeout time.Duration
	now         func() time.Time
}

type Option func(*Manager)

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// WithLinkTimeout bounds each verification link creation call.
func WithLinkTimeout(d time.Duration) Option {
	return func(m *Manager) {
		if d > 0 {
			m.linkTimeout = d
		}
	}
}

func NewManager(inv Inventory, cfg Settings, verifier Verifier, opts ...Option) *Manager {
	m := &Manager{
		claims:      make(map[snowflake.ID]*Claim),
		cooldowns:   make(map[snowflake.ID]time.Time),
		inventory:   inv,
		settings:    cfg,
		verifier:    verifier,
		linkTimeout: defaultLinkTimeout,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Reserve runs the reservation checks in order (cooldown, pending claim,
// module, stock), stamps the cooldown, then asks the verifier for a link.
// Refusals are returned as *RejectionError.
func (m *Manager) Reserve(ctx context.Context, scope, requester snowflake.ID, module string) (Claim, error) {
	placeholder, err := m.hold(ctx, scope, requester, module)
	if err != nil {
		return Claim{}, err
	}

	linkCtx, cancel := context.WithTimeout(ctx, m.linkTimeout)
	link, linkErr := m.verifier.CreateLink(linkCtx, requester, module, placeholder.Item)
	cancel()

	m.mu.Lock()
	defer m.mu.Unlock()

	current, ok := m.claims[requester]
	if !ok || current != placeholder {
		return Claim{}, ErrClaimCancelled
	}
	if linkErr != nil {
		delete(m.claims, requester)
		slog.Warn("Verification link creation failed",
			slog.String("type", "claim"),
			slog.String("requester_id", requester.String()),
			slog.String("module", module),
			slog.Any("error", linkErr),
		)
		return Claim{}, &RejectionError{Reason: LinkCreationFailed, Err: linkErr}
	}

	current.LinkID = link.ID
	current.URL = link.URL
	current.CreatedAt = m.now()

	slog.Info("Claim reserved",
		slog.String("type", "claim"),
		slog.String("requester_id", requester.String()),
		slog.String("guild_id", scope.String()),
		slog.String("module", module),
		slog.String("link_id", link.ID),
	)
	return *current, nil
}

// hold performs the gatekeeping checks and parks an unlinked claim for the
// requester so concurrent reservations see it.
func (m *Manager) hold(ctx context.Context, scope, requester snowflake.ID, module string) (*Claim, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if last, ok := m.cooldowns[requester]; ok {
		cooldown := m.seconds(scope, settings.ClaimCooldown)
		if elapsed := now.Sub(last); elapsed < cooldown {
			return nil, &RejectionError{Reason: CooldownActive, Wait: cooldown - elapsed}
		}
	}

	if _, ok := m.claims[requester]; ok {
		return nil, &RejectionError{Reason: ClaimAlreadyPending}
	}

	modules, err := m.inventory.ListModules(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("failed to list modules: %w", err)
	}
	if !slices.Contains(modules, module) {
		return nil, &RejectionError{Reason: ModuleNotFound, Suggestions: inventory.Suggest(module, modules)}
	}

	items, err := m.inventory.ListItems(ctx, scope, module)
	if err != nil {
		return nil, fmt.Errorf("failed to read stock: %w", err)
	}
	item, ok := m.firstUnheldLocked(scope, module, items)
	if !ok {
		return nil, &RejectionError{Reason: OutOfStock}
	}

	m.cooldowns[requester] = now

	c := &Claim{
		Requester: requester,
		Scope:     scope,
		Module:    module,
		Item:      item,
		State:     StateAwaitingVerification,
		CreatedAt: now,
	}
	m.claims[requester] = c
	return c, nil
}

// firstUnheldLocked picks the oldest item whose value is not already held
// by another in-flight claim. Duplicate values are counted, so two copies
// of the same literal can be held by two claims.
func (m *Manager) firstUnheldLocked(scope snowflake.ID, module string, items []string) (string, bool) {
	held := make(map[string]int)
	for _, c := range m.claims {
		if c.Scope == scope && c.Module == module {
			held[c.Item]++
		}
	}
	for _, item := range items {
		if held[item] > 0 {
			held[item]--
			continue
		}
		return item, true
	}
	return "", false
}

// Cancel drops the requester's in-flight claim. Cooldown and inventory
// are left untouched. A claim already being delivered cannot be cancelled.
func (m *Manager) Cancel(requester snowflake.ID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.claims[requester]
	if !ok || c.State == StateCompleted {
		return false
	}
	delete(m.claims, requester)
	return true
}

// CanClaim reports whether the requester is outside the cooldown window
// for scope, and if not, how long is left.
func (m *Manager) CanClaim(scope, requester snowflake.ID) (bool, time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	last, ok := m.cooldowns[requester]
	if !ok {
		return true, 0
	}
	cooldown := m.seconds(scope, settings.ClaimCooldown)
	if elapsed := m.now().Sub(last); elapsed < cooldown {
		return false, cooldown - elapsed
	}
	return true, 0
}

// Pending returns a copy of the requester's in-flight claim.
func (m *Manager) Pending(requester snowflake.ID) (Claim, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.claims[requester]
	if !ok {
		return Claim{}, false
	}
	return *c, true
}

// Claims returns copies of every in-flight claim.
func (m *Manager) Claims() []Claim {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Claim, 0, len(m.claims))
	for _, c := range m.claims {
		out = append(out, *c)
	}
	return out
}

func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.claims)
}

// awaiting snapshots claims that have a link and are not completed.
func (m *Manager) awaiting() []Claim {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Claim, 0, len(m.claims))
	for _, c := range m.claims {
		if c.LinkID != "" && c.State == StateAwaitingVerification {
			out = append(out, *c)
		}
	}
	return out
}

// complete transitions the snapshot's claim to Completed. The claim stays
// in the in-flight set, still holding its item, until prune removes it.
// It returns false if the claim was cancelled, replaced or already
// completed since the snapshot was taken.
func (m *Manager) complete(snapshot Claim) (Claim, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.claims[snapshot.Requester]
	if !ok || c.LinkID != snapshot.LinkID || c.State != StateAwaitingVerification {
		return Claim{}, false
	}
	c.State = StateCompleted
	return *c, true
}

// prune drops completed claims once their item has left the store.
func (m *Manager) prune(done []Claim) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, snapshot := range done {
		c, ok := m.claims[snapshot.Requester]
		if ok && c.LinkID == snapshot.LinkID && c.State == StateCompleted {
			delete(m.claims, snapshot.Requester)
		}
	}
}

// markReminded flips ReminderSent if the claim is still pending and its
// reminder interval has elapsed.
func (m *Manager) markReminded(snapshot Claim) (Claim, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.claims[snapshot.Requester]
	if !ok || c.LinkID != snapshot.LinkID || c.State != StateAwaitingVerification || c.ReminderSent {
		return Claim{}, false
	}
	if m.now().Sub(c.CreatedAt) <= m.seconds(c.Scope, settings.ReminderInterval) {
		return Claim{}, false
	}
	c.ReminderSent = true
	return *c, true
}

func (m *Manager) seconds(scope snowflake.ID, key settings.Key) time.Duration {
	return time.Duration(m.settings.Get(scope, key)) * time.Second
}
