package claims

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"golang.org/x/sync/errgroup"

	"github.com/ruthless-bot/ruthless/internal/domain/ledger"
)

type ReconcilerConfig struct {
	// Interval between ticks.
	Interval time.Duration
	// CheckTimeout bounds one verification status query.
	CheckTimeout time.Duration
	// Concurrency caps parallel status queries within a tick.
	Concurrency int
}

func (c ReconcilerConfig) withDefaults() ReconcilerConfig {
	if c.Interval <= 0 {
		c.Interval = 10 * time.Second
	}
	if c.CheckTimeout <= 0 {
		c.CheckTimeout = 5 * time.Second
	}
	if c.Concurrency <= 0 {
		c.Concurrency = 4
	}
	return c
}

// TickReport summarises one reconciliation pass.
type TickReport struct {
	Checked   int
	Delivered int
	Reminded  int
	Skipped   bool
}

// Reconciler periodically polls the verifier for every in-flight claim,
// delivering verified ones and reminding stalled ones once.
type Reconciler struct {
	manager   *Manager
	notifier  Notifier
	ledger    Recorder
	directory Directory
	cfg       ReconcilerConfig

	running sync.Mutex
}

func NewReconciler(manager *Manager, notifier Notifier, recorder Recorder, directory Directory, cfg ReconcilerConfig) *Reconciler {
	return &Reconciler{
		manager:   manager,
		notifier:  notifier,
		ledger:    recorder,
		directory: directory,
		cfg:       cfg.withDefaults(),
	}
}

// Run schedules Tick every interval until ctx is cancelled. Ticks never
// overlap: a tick that is still running when the next one is due causes
// that one to be rescheduled.
func (r *Reconciler) Run(ctx context.Context) error {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return fmt.Errorf("failed to create scheduler: %w", err)
	}

	_, err = scheduler.NewJob(
		gocron.DurationJob(r.cfg.Interval),
		gocron.NewTask(func() { r.Tick(ctx) }),
		gocron.WithName("claim-reconciler"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("failed to schedule reconciler: %w", err)
	}

	scheduler.Start()
	slog.Info("Claim reconciler started",
		slog.String("type", "sys"),
		slog.Duration("interval", r.cfg.Interval),
	)

	<-ctx.Done()
	if err = scheduler.Shutdown(); err != nil {
		return fmt.Errorf("failed to stop scheduler: %w", err)
	}
	return nil
}

// Tick runs one reconciliation pass over the in-flight claims. A concurrent
// call returns immediately with Skipped set.
func (r *Reconciler) Tick(ctx context.Context) TickReport {
	if !r.running.TryLock() {
		return TickReport{Skipped: true}
	}
	defer r.running.Unlock()

	start := time.Now()
	pending := r.manager.awaiting()
	report := TickReport{Checked: len(pending)}
	if len(pending) == 0 {
		return report
	}

	verified := make([]bool, len(pending))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.cfg.Concurrency)
	for i, c := range pending {
		g.Go(func() error {
			verified[i] = r.isVerified(gctx, c)
			return nil
		})
	}
	_ = g.Wait()

	var delivered []Claim
	for i, c := range pending {
		if verified[i] {
			if r.deliver(ctx, c) {
				delivered = append(delivered, c)
			}
			continue
		}
		if r.remind(ctx, c) {
			report.Reminded++
		}
	}
	r.manager.prune(delivered)
	report.Delivered = len(delivered)

	slog.Debug("Reconciliation tick finished",
		slog.String("type", "claim"),
		slog.Int("checked", report.Checked),
		slog.Int("delivered", report.Delivered),
		slog.Int("reminded", report.Reminded),
		slog.Duration("took", time.Since(start)),
	)
	return report
}

// isVerified treats every failure, including timeouts, as "not yet".
func (r *Reconciler) isVerified(ctx context.Context, c Claim) bool {
	checkCtx, cancel := context.WithTimeout(ctx, r.cfg.CheckTimeout)
	defer cancel()

	done, err := r.manager.verifier.IsComplete(checkCtx, c.LinkID)
	if err != nil {
		slog.Debug("Verification status query failed",
			slog.String("type", "claim"),
			slog.String("link_id", c.LinkID),
			slog.Any("error", err),
		)
		return false
	}
	return done
}

func (r *Reconciler) deliver(ctx context.Context, snapshot Claim) bool {
	c, ok := r.manager.complete(snapshot)
	if !ok {
		return false
	}

	if _, err := r.manager.inventory.RemoveOne(ctx, c.Scope, c.Module, c.Item); err != nil {
		slog.Error("Failed to remove delivered item from stock",
			slog.String("type", "claim"),
			slog.String("guild_id", c.Scope.String()),
			slog.String("module", c.Module),
			slog.Any("error", err),
		)
	}

	if err := r.notifier.DeliverItem(ctx, c); err != nil {
		slog.Warn("Delivered item but could not notify requester",
			slog.String("type", "claim"),
			slog.String("requester_id", c.Requester.String()),
			slog.Any("error", err),
		)
	}

	r.ledger.Record(ledger.Entry{
		Scope:         c.Scope,
		ScopeName:     r.directory.ScopeName(ctx, c.Scope),
		Requester:     c.Requester,
		RequesterName: r.directory.UserName(ctx, c.Requester),
		Module:        c.Module,
		Item:          c.Item,
		DeliveredAt:   r.manager.now(),
	})

	slog.Info("Claim delivered",
		slog.String("type", "claim"),
		slog.String("requester_id", c.Requester.String()),
		slog.String("guild_id", c.Scope.String()),
		slog.String("module", c.Module),
	)
	return true
}

func (r *Reconciler) remind(ctx context.Context, snapshot Claim) bool {
	c, ok := r.manager.markReminded(snapshot)
	if !ok {
		return false
	}
	if err := r.notifier.RemindPending(ctx, c); err != nil {
		slog.Warn("Failed to send claim reminder",
			slog.String("type", "claim"),
			slog.String("requester_id", c.Requester.String()),
			slog.Any("error", err),
		)
	}
	return true
}
