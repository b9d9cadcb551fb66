package utils

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"sync"
	"time"
)

// BackgroundProcessManager runs long-lived workers (reconciler, web
// server) and stops them together on shutdown.
type BackgroundProcessManager struct {
	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	processes map[string]context.CancelFunc
	mu        sync.Mutex
}

func NewBackgroundProcessManager(parent context.Context) *BackgroundProcessManager {
	ctx, cancel := context.WithCancel(parent)
	return &BackgroundProcessManager{
		ctx:       ctx,
		cancel:    cancel,
		processes: make(map[string]context.CancelFunc),
	}
}

// StartProcess runs fn in its own goroutine. A process with the same
// name is stopped first. Panics and errors are logged, never propagated.
func (bpm *BackgroundProcessManager) StartProcess(name, description string, fn func(ctx context.Context) error) {
	bpm.mu.Lock()
	defer bpm.mu.Unlock()

	if cancel, exists := bpm.processes[name]; exists {
		slog.Warn("Process already exists, stopping existing one",
			slog.String("type", "sys"),
			slog.String("process", name))
		cancel()
	}

	processCtx, processCancel := context.WithCancel(bpm.ctx)
	bpm.processes[name] = processCancel

	bpm.wg.Add(1)
	go func() {
		defer bpm.wg.Done()
		defer processCancel()
		defer func() {
			if r := recover(); r != nil {
				slog.Error("Background process panic",
					slog.String("type", "error"),
					slog.String("process", name),
					slog.Any("panic", r))
			}
		}()

		slog.Info("Starting background process",
			slog.String("type", "sys"),
			slog.String("process", name),
			slog.String("description", description))

		if err := fn(processCtx); err != nil && !errors.Is(err, context.Canceled) {
			slog.Error("Background process failed",
				slog.String("type", "error"),
				slog.String("process", name),
				slog.Any("error", err))
			return
		}

		slog.Info("Background process ended",
			slog.String("type", "sys"),
			slog.String("process", name))
	}()
}

// Shutdown cancels every process and waits up to timeout for them to return.
func (bpm *BackgroundProcessManager) Shutdown(timeout time.Duration) error {
	slog.Info("Shutting down background processes",
		slog.String("type", "sys"),
		slog.Any("processes", bpm.Names()))

	bpm.cancel()

	done := make(chan struct{})
	go func() {
		bpm.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		slog.Info("All background processes stopped gracefully", slog.String("type", "sys"))
		return nil
	case <-time.After(timeout):
		slog.Warn("Timeout waiting for background processes to stop",
			slog.String("type", "sys"),
			slog.Duration("timeout", timeout))
		return context.DeadlineExceeded
	}
}

// Names lists registered processes in name order.
func (bpm *BackgroundProcessManager) Names() []string {
	bpm.mu.Lock()
	defer bpm.mu.Unlock()

	names := make([]string, 0, len(bpm.processes))
	for name := range bpm.processes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
