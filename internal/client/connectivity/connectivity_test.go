package connectivity

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/fintrack/internal/logging"
)

type recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *recorder) add(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) get() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

func TestManual_PublishesTransitionsOnly(t *testing.T) {
	m := NewManual(false)
	var rec recorder
	unsub := m.Subscribe(rec.add)

	m.SetOnline(false)
	m.SetOnline(true)
	m.SetOnline(true)
	m.Foreground()
	m.SetOnline(false)

	assert.Equal(t, []Event{EventOnline, EventForeground, EventOffline}, rec.get())
	assert.False(t, m.Online())

	unsub()
	m.SetOnline(true)
	assert.Len(t, rec.get(), 3)
	assert.True(t, m.Online())
}

type fakePinger struct {
	fail  atomic.Bool
	calls atomic.Int32
}

func (f *fakePinger) Ping(ctx context.Context) error {
	f.calls.Add(1)
	if f.fail.Load() {
		return errors.New("unreachable")
	}
	return nil
}

func TestWatcher_CheckTracksPing(t *testing.T) {
	p := &fakePinger{}
	w := NewWatcher(p, time.Hour, logging.Discard())
	var rec recorder
	w.Subscribe(rec.add)

	require.True(t, w.Check(context.Background()))
	assert.True(t, w.Online())

	p.fail.Store(true)
	require.False(t, w.Check(context.Background()))
	assert.False(t, w.Online())

	w.Foreground()
	assert.Equal(t, []Event{EventOnline, EventOffline, EventForeground}, rec.get())
}

func TestWatcher_RunStopsOnCancel(t *testing.T) {
	p := &fakePinger{}
	w := NewWatcher(p, 5*time.Millisecond, logging.Discard())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool { return p.calls.Load() >= 3 }, time.Second, time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("watcher did not stop")
	}
	assert.True(t, w.Online())
}
