package resilience

import (
	"context"
	"log/slog"
	"net"
	"sync"
	"sync/atomic"
	"time"
)

// BannerMessage is the persistent advisory shown while offline.
const BannerMessage = "No internet connection"

const probeDialTimeout = 2 * time.Second

// ProbeFunc reports whether the network is currently reachable.
type ProbeFunc func(ctx context.Context) bool

// DialProbe probes connectivity with a single TCP dial to addr.
func DialProbe(addr string) ProbeFunc {
	return func(ctx context.Context) bool {
		dialCtx, cancel := context.WithTimeout(ctx, probeDialTimeout)
		defer cancel()

		var d net.Dialer
		conn, err := d.DialContext(dialCtx, "tcp", addr)
		if err != nil {
			return false
		}
		conn.Close()
		return true
	}
}

// Watcher is the process-wide connectivity monitor. It is started once
// at startup, probes on an interval, and raises or clears the offline
// banner on transitions. It stops when its context is cancelled at
// process exit.
type Watcher struct {
	probe    ProbeFunc
	interval time.Duration
	logger   *slog.Logger

	online atomic.Bool

	mu         sync.Mutex
	bannerUp   bool
	onChange   func(online bool)
	everProbed bool
}

// NewWatcher builds a watcher. The state starts online so calls made
// before the first probe are not spuriously rejected.
func NewWatcher(probe ProbeFunc, interval time.Duration, logger *slog.Logger) *Watcher {
	w := &Watcher{
		probe:    probe,
		interval: interval,
		logger:   logger,
	}
	w.online.Store(true)
	return w
}

// OnChange registers a callback invoked on every connectivity
// transition. Must be called before Run.
func (w *Watcher) OnChange(fn func(online bool)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onChange = fn
}

// Run probes immediately, then on every tick, until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	w.check(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.check(ctx)
		case <-ctx.Done():
			w.logger.Info("Connectivity watcher shutting down", "reason", ctx.Err())
			return nil
		}
	}
}

// check runs one probe and applies the transition, if any.
func (w *Watcher) check(ctx context.Context) {
	online := w.probe(ctx)

	w.mu.Lock()
	first := !w.everProbed
	w.everProbed = true
	changed := w.online.Load() != online
	w.online.Store(online)
	w.bannerUp = !online
	callback := w.onChange
	w.mu.Unlock()

	switch {
	case first:
		w.logger.Info("Initial connectivity state", "online", online)
	case changed && online:
		w.logger.Info("Connectivity restored")
	case changed:
		w.logger.Warn("Connectivity lost")
	}
	if callback != nil && (changed || (first && !online)) {
		callback(online)
	}
}

// Online returns the last probed connectivity state.
func (w *Watcher) Online() bool {
	return w.online.Load()
}

// Banner returns the advisory text and whether it is currently raised.
func (w *Watcher) Banner() (string, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.bannerUp {
		return BannerMessage, true
	}
	return "", false
}
