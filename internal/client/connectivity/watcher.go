package connectivity

import (
	"context"
	"time"

	"github.com/dmitrijs2005/fintrack/internal/logging"
)

// Pinger is the part of the remote client the watcher needs.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Watcher derives the online state from periodic pings.
type Watcher struct {
	hub
	pinger   Pinger
	interval time.Duration
	timeout  time.Duration
	log      logging.Logger
}

func NewWatcher(p Pinger, interval time.Duration, log logging.Logger) *Watcher {
	return &Watcher{
		pinger:   p,
		interval: interval,
		timeout:  3 * time.Second,
		log:      log.With("module", "connectivity"),
	}
}

// Check pings once and updates the state.
func (w *Watcher) Check(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, w.timeout)
	err := w.pinger.Ping(ctx)
	cancel()

	online := err == nil
	if w.setOnline(online) {
		if online {
			w.log.Info(ctx, "backend reachable, switched to online mode")
		} else {
			w.log.Info(ctx, "backend unreachable, switched to offline mode", "error", err)
		}
	}
	return online
}

// Run checks immediately and then every interval until ctx is done.
func (w *Watcher) Run(ctx context.Context) {
	w.Check(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.Check(ctx)
		case <-ctx.Done():
			return
		}
	}
}

// Foreground reports that the user returned to the application.
func (w *Watcher) Foreground() { w.publish(EventForeground) }
