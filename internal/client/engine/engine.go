package engine

import (
	"context"
	"errors"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dmitrijs2005/fintrack/internal/client/connectivity"
	"github.com/dmitrijs2005/fintrack/internal/client/models"
	"github.com/dmitrijs2005/fintrack/internal/client/scheduler"
	"github.com/dmitrijs2005/fintrack/internal/client/storage"
	"github.com/dmitrijs2005/fintrack/internal/logging"
)

// Remote is the backend surface the engine needs.
type Remote interface {
	Create(ctx context.Context, rec models.Record) (models.Record, error)
	Update(ctx context.Context, kind models.EntityKind, id models.ID, patch models.Patch) (models.Record, error)
	Delete(ctx context.Context, kind models.EntityKind, id models.ID) error
	List(ctx context.Context, kind models.EntityKind) ([]models.Record, error)
	BulkCreate(ctx context.Context, kind models.EntityKind, recs []models.Record) ([]models.Record, error)
}

// ConnectivityNotifier reports reachability of the backend.
type ConnectivityNotifier interface {
	Online() bool
	Subscribe(fn func(connectivity.Event)) (unsubscribe func())
}

const (
	DefaultMaxRetries   = 3
	DefaultIdleInterval = 30 * time.Second
)

type Options struct {
	Store        *storage.Store
	Remote       Remote
	Connectivity ConnectivityNotifier
	Clock        scheduler.Clock
	Backoff      scheduler.Backoff
	Logger       logging.Logger

	// MaxRetries is the number of remote failures after which an item is
	// dropped.
	MaxRetries int
	// MaxDeferrals bounds dependency deferrals; zero means unbounded.
	MaxDeferrals int
	// IdleInterval is the timer period when nothing is due.
	IdleInterval time.Duration
}

type Engine struct {
	store        *storage.Store
	remote       Remote
	conn         ConnectivityNotifier
	clock        scheduler.Clock
	backoff      scheduler.Backoff
	log          logging.Logger
	maxRetries   int
	maxDeferrals int
	idle         time.Duration

	running atomic.Bool
	kick    chan struct{}

	mu          sync.Mutex
	state       models.SyncState
	nextSub     int
	stateSubs   map[int]func(models.SyncState)
	refetchSubs map[int]func([]models.EntityKind)

	cancel context.CancelFunc
	done   chan struct{}
	unsub  func()
}

func New(opts Options) (*Engine, error) {
	if opts.Store == nil || opts.Remote == nil {
		return nil, errors.New("engine: store and remote are required")
	}

	e := &Engine{
		store:        opts.Store,
		remote:       opts.Remote,
		conn:         opts.Connectivity,
		clock:        opts.Clock,
		backoff:      opts.Backoff,
		log:          opts.Logger,
		maxRetries:   opts.MaxRetries,
		maxDeferrals: opts.MaxDeferrals,
		idle:         opts.IdleInterval,
		kick:         make(chan struct{}, 1),
		state:        models.SyncState{Status: models.SyncIdle},
		stateSubs:    make(map[int]func(models.SyncState)),
		refetchSubs:  make(map[int]func([]models.EntityKind)),
	}
	if e.clock == nil {
		e.clock = scheduler.System()
	}
	if e.backoff.Initial <= 0 {
		e.backoff = scheduler.DefaultBackoff()
	}
	if e.log == nil {
		e.log = logging.Discard()
	}
	e.log = e.log.With("module", "sync")
	if e.maxRetries <= 0 {
		e.maxRetries = DefaultMaxRetries
	}
	if e.idle <= 0 {
		e.idle = DefaultIdleInterval
	}
	return e, nil
}

// Start loads persisted sync state and launches the background loop.
func (e *Engine) Start(ctx context.Context) error {
	if e.done != nil {
		return errors.New("engine: already started")
	}

	last, err := e.store.Metadata.LastSyncAt(ctx)
	if err != nil {
		return err
	}
	pending, err := e.store.Queue.Count(ctx)
	if err != nil {
		return err
	}
	e.publish(models.SyncState{Status: models.SyncIdle, LastSyncAt: last, PendingCount: pending})

	if e.conn != nil {
		e.unsub = e.conn.Subscribe(func(ev connectivity.Event) {
			if ev == connectivity.EventOnline || ev == connectivity.EventForeground {
				e.Kick()
			}
		})
	}

	ctx, e.cancel = context.WithCancel(ctx)
	e.done = make(chan struct{})
	go e.loop(ctx)
	e.Kick()
	return nil
}

// Stop terminates the loop and waits for an in-flight pass to finish.
func (e *Engine) Stop() {
	if e.done == nil {
		return
	}
	if e.unsub != nil {
		e.unsub()
	}
	e.cancel()
	<-e.done
	e.done = nil
}

// Kick asks the loop for a pass as soon as possible. It never blocks.
func (e *Engine) Kick() {
	select {
	case e.kick <- struct{}{}:
	default:
	}
}

// Changed republishes the pending count after a local write and asks for a
// pass. Subscribers see the new count even while offline.
func (e *Engine) Changed(ctx context.Context) {
	n, err := e.store.Queue.Count(ctx)
	if err != nil {
		e.log.Error(ctx, "failed to count queue", "error", err)
	} else {
		e.update(func(st *models.SyncState) { st.PendingCount = n })
	}
	e.Kick()
}

func (e *Engine) online() bool {
	return e.conn == nil || e.conn.Online()
}

func (e *Engine) loop(ctx context.Context) {
	defer close(e.done)

	timer := e.clock.NewTimer(e.idle)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-e.kick:
		case <-timer.C():
		}

		if e.online() {
			if _, err := e.SyncAll(ctx); err != nil && ctx.Err() == nil {
				e.log.Error(ctx, "drain pass failed", "error", err)
			}
		}

		timer.Stop()
		timer.Reset(e.nextWake(ctx))
	}
}

func (e *Engine) nextWake(ctx context.Context) time.Duration {
	if !e.online() {
		return e.idle
	}
	items, err := e.store.Queue.GetAll(ctx)
	if err != nil {
		return e.idle
	}
	wait := scheduler.NextWake(items, e.clock.Now(), e.backoff, e.idle)
	// items untouched by an aborted pass would otherwise spin the loop
	if wait < e.backoff.Initial {
		wait = e.backoff.Initial
	}
	return wait
}

func (e *Engine) State() models.SyncState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Subscribe registers fn for every state change and calls it once with the
// current state.
func (e *Engine) Subscribe(fn func(models.SyncState)) (unsubscribe func()) {
	e.mu.Lock()
	id := e.nextSub
	e.nextSub++
	e.stateSubs[id] = fn
	st := e.state
	e.mu.Unlock()

	fn(st)
	return func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		delete(e.stateSubs, id)
	}
}

// SubscribeRefetch registers fn to learn which kinds changed after a pass.
func (e *Engine) SubscribeRefetch(fn func([]models.EntityKind)) (unsubscribe func()) {
	e.mu.Lock()
	defer e.mu.Unlock()
	id := e.nextSub
	e.nextSub++
	e.refetchSubs[id] = fn
	return func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		delete(e.refetchSubs, id)
	}
}

func (e *Engine) publish(st models.SyncState) {
	e.update(func(cur *models.SyncState) { *cur = st })
}

// update applies fn to the current state under the lock and hands the
// result to every subscriber.
func (e *Engine) update(fn func(*models.SyncState)) {
	e.mu.Lock()
	fn(&e.state)
	st := e.state
	fns := make([]func(models.SyncState), 0, len(e.stateSubs))
	for _, fn := range e.stateSubs {
		fns = append(fns, fn)
	}
	e.mu.Unlock()

	for _, fn := range fns {
		fn(st)
	}
}

func (e *Engine) setStatus(status models.SyncStatus) {
	e.update(func(st *models.SyncState) {
		st.Status = status
		st.Error = ""
	})
}

func (e *Engine) notifyRefetch(touched map[models.EntityKind]bool) {
	if len(touched) == 0 {
		return
	}
	kinds := make([]models.EntityKind, 0, len(touched))
	for k := range touched {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })

	e.mu.Lock()
	fns := make([]func([]models.EntityKind), 0, len(e.refetchSubs))
	for _, fn := range e.refetchSubs {
		fns = append(fns, fn)
	}
	e.mu.Unlock()

	for _, fn := range fns {
		fn(kinds)
	}
}
