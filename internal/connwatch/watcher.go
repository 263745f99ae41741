// Package connwatch keeps an eye on the database connection after startup.
//
// Startup and runtime failures are treated differently: failing to connect at
// boot is fatal (handled by cmd/server), while losing the connection later
// only marks the service degraded and starts a bounded series of reconnect
// attempts with exponential backoff. When those run out the watcher drops
// back to its regular check interval instead of retrying in a tight loop.
package connwatch

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/sakif/snippets/internal/repository"
)

// DefaultPingTimeout bounds a single health ping.
const DefaultPingTimeout = 5 * time.Second

// Watcher pings the store periodically and on demand.
type Watcher struct {
	pinger      repository.Pinger
	interval    time.Duration
	retryer     Retryer
	pingTimeout time.Duration
	logger      *slog.Logger

	// notify carries "a query just failed" hints from request handlers.
	notify chan struct{}

	mu      sync.RWMutex
	healthy bool
	lastErr error
}

// New returns a watcher for a store that has just been connected successfully.
func New(pinger repository.Pinger, interval time.Duration, retryer Retryer, logger *slog.Logger) *Watcher {
	return &Watcher{
		pinger:      pinger,
		interval:    interval,
		retryer:     retryer,
		pingTimeout: DefaultPingTimeout,
		logger:      logger,
		notify:      make(chan struct{}, 1),
		healthy:     true,
	}
}

// Healthy reports whether the last check reached the database.
func (w *Watcher) Healthy() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.healthy
}

// LastError returns the error of the last failed check, or nil when healthy.
func (w *Watcher) LastError() error {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.lastErr
}

// Notify asks for an immediate check. It never blocks; hints that arrive
// while a check is already pending are merged.
func (w *Watcher) Notify() {
	select {
	case w.notify <- struct{}{}:
	default:
	}
}

// Run checks the connection until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		case <-w.notify:
		}
		w.check(ctx)
	}
}

// check pings once and, if that fails, runs one bounded reconnect episode.
func (w *Watcher) check(ctx context.Context) {
	err := w.ping(ctx)
	if err == nil {
		w.markHealthy(0)
		return
	}
	if ctx.Err() != nil {
		return
	}

	w.markDegraded(err)
	w.logger.Warn("database connection lost", slog.String("error", err.Error()))
	w.reconnect(ctx)
}

func (w *Watcher) reconnect(ctx context.Context) {
	for attempt := 0; ; attempt++ {
		delay, ok := w.retryer.NextDelay(attempt)
		if !ok {
			w.logger.Error("giving up reconnecting to database until next check",
				slog.Int("attempts", attempt),
				slog.Duration("next_check", w.interval),
			)
			return
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}

		err := w.ping(ctx)
		if err == nil {
			w.markHealthy(attempt + 1)
			return
		}
		if ctx.Err() != nil {
			return
		}
		w.markDegraded(err)
		w.logger.Warn("reconnect attempt failed",
			slog.Int("attempt", attempt+1),
			slog.String("error", err.Error()),
		)
	}
}

func (w *Watcher) ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, w.pingTimeout)
	defer cancel()
	return w.pinger.PingContext(ctx)
}

func (w *Watcher) markHealthy(attempts int) {
	w.mu.Lock()
	wasHealthy := w.healthy
	w.healthy = true
	w.lastErr = nil
	w.mu.Unlock()

	if !wasHealthy {
		w.logger.Info("database connection re-established", slog.Int("attempts", attempts))
	}
}

func (w *Watcher) markDegraded(err error) {
	w.mu.Lock()
	w.healthy = false
	w.lastErr = err
	w.mu.Unlock()
}
