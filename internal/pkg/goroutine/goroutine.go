// Package goroutine runs background work under a concurrency cap and recovers
// panics so a failing job cannot take the process down.
package goroutine

import (
	"context"
	"errors"
	"log/slog"
	"runtime"
	"runtime/debug"
	"sync"
	"time"

	"github.com/shandysiswandi/growguard/internal/pkg/stacktrace"
)

// DefaultMaxGoroutine is multiplied by NumCPU when NewManager gets a non-positive limit.
const DefaultMaxGoroutine int = 100

// Manager tracks background goroutines so shutdown can wait for them.
type Manager struct {
	mu     sync.Mutex
	errs   []error
	wg     sync.WaitGroup
	sema   chan struct{}
	state  sync.RWMutex
	closed bool
}

// NewManager returns a Manager that runs at most maxGoroutine tasks at once.
func NewManager(maxGoroutine int) *Manager {
	if maxGoroutine < 1 {
		maxGoroutine = runtime.NumCPU() * DefaultMaxGoroutine
	}
	return &Manager{sema: make(chan struct{}, maxGoroutine)}
}

// Go runs f in a new goroutine. When the manager is closed or full the task
// is dropped with a warning.
func (g *Manager) Go(ctx context.Context, f func(ctx context.Context) error) {
	if g == nil {
		return
	}

	g.state.RLock()
	defer g.state.RUnlock()

	if g.closed {
		slog.WarnContext(ctx, "goroutine manager is closed, skipping new goroutine")
		return
	}

	select {
	case g.sema <- struct{}{}:
	default:
		slog.WarnContext(ctx, "maximum goroutine limit reached, failed to start new goroutine")
		return
	}

	g.wg.Add(1)
	go func() {
		defer g.wg.Done()
		defer func() { <-g.sema }()
		defer g.recover(ctx)

		if ctx.Err() != nil {
			slog.WarnContext(ctx, "goroutine canceled", "because", ctx.Err())
			return
		}

		if err := f(ctx); err != nil {
			g.mu.Lock()
			g.errs = append(g.errs, err)
			g.mu.Unlock()
		}
	}()
}

// Every runs f immediately and then on each tick of interval until ctx is
// canceled. Errors from f are logged and do not stop the loop.
func (g *Manager) Every(ctx context.Context, name string, interval time.Duration, f func(ctx context.Context) error) {
	if interval <= 0 {
		slog.InfoContext(ctx, "periodic job disabled", "job", name)
		return
	}

	g.Go(ctx, func(ctx context.Context) error {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			g.runOnce(ctx, name, f)

			select {
			case <-ctx.Done():
				slog.InfoContext(ctx, "periodic job stopped", "job", name)
				return nil
			case <-ticker.C:
			}
		}
	})
}

func (g *Manager) runOnce(ctx context.Context, name string, f func(ctx context.Context) error) {
	defer g.recover(ctx)

	if err := f(ctx); err != nil && !errors.Is(err, context.Canceled) {
		slog.ErrorContext(ctx, "periodic job failed", "job", name, "error", err)
	}
}

func (g *Manager) recover(ctx context.Context) {
	rvr := recover()
	if rvr == nil {
		return
	}

	stack := debug.Stack()
	if paths := stacktrace.InternalPaths(stack); len(paths) > 0 {
		slog.ErrorContext(ctx, "panic occurred in goroutine", "panic", rvr, "stack", paths)
		return
	}
	slog.ErrorContext(ctx, "panic occurred in goroutine", "panic", rvr, "stack", string(stack))
}

// Wait closes the manager, blocks until every task returns and joins their errors.
func (g *Manager) Wait() error {
	if g == nil {
		return nil
	}

	g.state.Lock()
	g.closed = true
	g.state.Unlock()

	g.wg.Wait()

	g.mu.Lock()
	defer g.mu.Unlock()
	return errors.Join(g.errs...)
}
