// Package daemon implements spec.md §7's TransportError recovery: "the
// loop pauses, retries detection, then reinitializes" once the X
// connection or the window manager it talks to drops. A Reconciler
// polls the Display Port's liveness on a ticker and, the moment it
// comes back, rewires the World Model and hotkeys the same way a
// config reload does — grounded on the PyTyle1 Probe module named in
// original_source/_INDEX.md (body unavailable; spec.md's "polling 'is
// WM running'" phrase is the only behavioral evidence) and shaped
// after the teacher's ticker-plus-slog Reconciler in
// internal/daemon/reconciler.go.
package daemon

import (
	"context"
	"log/slog"
	"time"

	"github.com/pytyle/pytyle/internal/platform"
)

// RehookFunc reconnects the World Model and hotkey grabs after a
// dropped-then-recovered X connection: wipe, load_all, resolve_active
// and re-register every KEYMAP/CALLBACKS binding.
type RehookFunc func() error

// ReconcilerConfig holds the tunables for NewReconciler.
type ReconcilerConfig struct {
	// Interval is the liveness-poll period; spec.md names no fixed
	// value, so zero or less defaults to 5 seconds.
	Interval time.Duration
	Logger   *slog.Logger
}

// Reconciler watches a Display Port's liveness and drives TransportError
// recovery. It runs on its own goroutine, separate from the Scheduler's
// event loop, since spec.md §5 permits only one blocking point per
// goroutine (the Scheduler's own wait-for-event call) and a liveness
// poll must keep ticking even while that call is blocked waiting on a
// connection that may never come back on its own.
type Reconciler struct {
	interval time.Duration
	port     platform.Port
	rehook   RehookFunc
	logger   *slog.Logger

	wasAlive bool
}

// NewReconciler constructs a Reconciler bound to port. rehook is called
// exactly once per dead->alive transition.
func NewReconciler(cfg ReconcilerConfig, port platform.Port, rehook RehookFunc) *Reconciler {
	interval := cfg.Interval
	if interval <= 0 {
		interval = 5 * time.Second
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Reconciler{
		interval: interval,
		port:     port,
		rehook:   rehook,
		logger:   logger,
		wasAlive: true,
	}
}

// Run polls port.Alive() every interval until ctx is cancelled, calling
// rehook on every dead->alive edge. A rehook failure is logged and
// retried on the next tick; wasAlive is left false so the next
// successful probe tries again rather than silently giving up.
func (r *Reconciler) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.logger.Info("transport reconciler started", "interval", r.interval)

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("transport reconciler stopped")
			return
		case <-ticker.C:
			r.reconcile()
		}
	}
}

func (r *Reconciler) reconcile() {
	alive := r.port.Alive()

	if !alive && r.wasAlive {
		r.logger.Warn("display connection lost, entering transport recovery")
		r.wasAlive = false
		return
	}

	if alive && !r.wasAlive {
		r.logger.Info("display connection recovered, rewiring world model")
		if err := r.rehook(); err != nil {
			r.logger.Error("rehook after reconnect failed, will retry", "error", err)
			return
		}
		r.wasAlive = true
	}
}
