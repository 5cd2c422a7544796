// Package services is the application-facing façade of the client: one
// repository per ledger kind plus the device session.
//
// Every write is optimistic. The local store and the operation queue are
// updated in a single SQLite transaction and the sync engine is kicked; the
// caller never waits for the network. Reads only consult the local store.
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/fintrack/internal/client/models"
	"github.com/dmitrijs2005/fintrack/internal/client/scheduler"
	"github.com/dmitrijs2005/fintrack/internal/client/storage"
	"github.com/dmitrijs2005/fintrack/internal/common"
	"github.com/dmitrijs2005/fintrack/internal/logging"
)

var ErrKindMismatch = errors.New("entity kind mismatch")

// Trigger is told about every committed write so it can refresh the pending
// count and schedule a drain pass.
type Trigger interface {
	Changed(ctx context.Context)
}

// Puller replaces local rows with the backend's.
type Puller interface {
	PullFromRemote(ctx context.Context) error
}

// CacheLimit is the size of the recent transaction window.
const CacheLimit = 50

type Options struct {
	Clock   scheduler.Clock
	Logger  logging.Logger
	Trigger Trigger
	Puller  Puller
}

type Ledger struct {
	store    *storage.Store
	clock    scheduler.Clock
	log      logging.Logger
	trigger  Trigger
	puller   Puller
	deviceID string

	Accounts         *Accounts
	IncomeSources    *IncomeSources
	Categories       *Categories
	Transactions     *Transactions
	Loans            *Loans
	Settings         *Settings
	CustomCurrencies *CustomCurrencies
}

func NewLedger(ctx context.Context, store *storage.Store, opts Options) (*Ledger, error) {
	id, err := store.Metadata.DeviceID(ctx)
	if err != nil {
		return nil, fmt.Errorf("device id: %w", err)
	}

	l := &Ledger{
		store:    store,
		clock:    opts.Clock,
		log:      opts.Logger,
		trigger:  opts.Trigger,
		puller:   opts.Puller,
		deviceID: id,
	}
	if l.clock == nil {
		l.clock = scheduler.System()
	}
	if l.log == nil {
		l.log = logging.Discard()
	}
	l.log = l.log.With("module", "ledger")

	l.Accounts = &Accounts{newRepository[*models.Account](l, models.KindAccount)}
	l.IncomeSources = &IncomeSources{newRepository[*models.IncomeSource](l, models.KindIncomeSource)}
	l.Categories = &Categories{newRepository[*models.Category](l, models.KindCategory)}
	l.Transactions = &Transactions{newRepository[*models.Transaction](l, models.KindTransaction)}
	l.Loans = &Loans{newRepository[*models.Loan](l, models.KindLoan)}
	l.Settings = &Settings{newRepository[*models.Settings](l, models.KindSettings)}
	l.CustomCurrencies = &CustomCurrencies{newRepository[*models.CustomCurrency](l, models.KindCustomCurrency)}
	return l, nil
}

func (l *Ledger) DeviceID() string { return l.deviceID }

// SetTrigger wires the sync engine once it exists.
func (l *Ledger) SetTrigger(t Trigger) { l.trigger = t }

func (l *Ledger) SetPuller(p Puller) { l.puller = p }

func (l *Ledger) changed(ctx context.Context) {
	if l.trigger != nil {
		l.trigger.Changed(ctx)
	}
}

// Pending returns the number of queued operations.
func (l *Ledger) Pending(ctx context.Context) (int, error) {
	return l.store.Queue.Count(ctx)
}

// List returns the local rows of any kind ordered by sort key.
func (l *Ledger) List(ctx context.Context, kind models.EntityKind) ([]models.Record, error) {
	return l.store.Records.List(ctx, kind)
}

// EnqueueBulk creates many records in one local transaction and triggers a
// single drain. Records are returned with their provisional ids assigned.
func (l *Ledger) EnqueueBulk(ctx context.Context, recs []models.Record) ([]models.ID, error) {
	return l.enqueueCreates(ctx, recs)
}

// ImportBulk stores records that already carry provisional ids, e.g. ones
// rewritten by a backup import, and queues their creates.
func (l *Ledger) ImportBulk(ctx context.Context, recs []models.Record) error {
	for _, rec := range recs {
		if !rec.RecordID().IsProvisional() {
			return fmt.Errorf("import %s %s: id is not provisional", rec.Kind(), rec.RecordID())
		}
	}
	_, err := l.enqueue(ctx, recs)
	return err
}

func (l *Ledger) enqueueCreates(ctx context.Context, recs []models.Record) ([]models.ID, error) {
	for _, rec := range recs {
		rec.SetRecordID(models.NewProvisionalID())
	}
	return l.enqueue(ctx, recs)
}

func (l *Ledger) enqueue(ctx context.Context, recs []models.Record) ([]models.ID, error) {
	now := l.clock.Now()
	ids := make([]models.ID, 0, len(recs))
	items := make([]*models.QueueItem, 0, len(recs))

	for _, rec := range recs {
		rec.Stamp(l.deviceID, now)
		data, err := json.Marshal(rec)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", rec.Kind(), err)
		}
		ids = append(ids, rec.RecordID())
		items = append(items, &models.QueueItem{
			Operation: models.OpCreate,
			Entity:    rec.Kind(),
			RecordID:  rec.RecordID(),
			Data:      data,
			CreatedAt: now,
		})
	}

	err := l.store.InTx(ctx, func(ctx context.Context, s storage.Repos) error {
		if err := s.Records.PutAll(ctx, recs); err != nil {
			return err
		}
		return s.Queue.BulkAdd(ctx, items)
	})
	if err != nil {
		return nil, err
	}

	l.log.Debug(ctx, "queued creates", "count", len(recs))
	l.changed(ctx)
	return ids, nil
}

// foldIntoCreate rewrites the queued create of a provisional row with its
// current content and gives it a fresh retry budget.
func (l *Ledger) foldIntoCreate(ctx context.Context, s storage.Repos, row models.Record) error {
	item, err := s.Queue.FindCreate(ctx, row.Kind(), row.RecordID())
	if errors.Is(err, common.ErrNotFound) {
		// the create was given up; the row stays local only
		l.log.Warn(ctx, "update of a record whose create is no longer queued",
			"kind", row.Kind(), "id", row.RecordID())
		return nil
	}
	if err != nil {
		return err
	}

	if item.Data, err = json.Marshal(row); err != nil {
		return fmt.Errorf("encode %s: %w", row.Kind(), err)
	}
	item.Attempts = 0
	item.Deferrals = 0
	item.LastAttemptAt = nil
	item.Error = ""
	return s.Queue.Update(ctx, item)
}

// Pull replaces the local store with the backend's records and trims the
// transaction window.
func (l *Ledger) Pull(ctx context.Context) error {
	if l.puller == nil {
		return errors.New("pull is not configured")
	}
	if err := l.puller.PullFromRemote(ctx); err != nil {
		return err
	}
	_, err := l.Transactions.TrimToLimit(ctx)
	return err
}

// Clear wipes every local record and queued operation.
func (l *Ledger) Clear(ctx context.Context) error {
	err := l.store.InTx(ctx, func(ctx context.Context, s storage.Repos) error {
		if err := s.Records.ClearAll(ctx); err != nil {
			return err
		}
		return s.Queue.Clear(ctx)
	})
	if err != nil {
		return err
	}
	l.changed(ctx)
	return nil
}
