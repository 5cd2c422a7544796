package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/dmitrijs2005/fintrack/internal/client/backup"
	"github.com/dmitrijs2005/fintrack/internal/client/client"
	"github.com/dmitrijs2005/fintrack/internal/client/config"
	"github.com/dmitrijs2005/fintrack/internal/client/connectivity"
	"github.com/dmitrijs2005/fintrack/internal/client/engine"
	"github.com/dmitrijs2005/fintrack/internal/client/models"
	"github.com/dmitrijs2005/fintrack/internal/client/scheduler"
	"github.com/dmitrijs2005/fintrack/internal/client/services"
	"github.com/dmitrijs2005/fintrack/internal/client/storage"
	"github.com/dmitrijs2005/fintrack/internal/logging"
)

// Syncer is the part of the sync engine the commands drive directly.
type Syncer interface {
	SyncAll(ctx context.Context) (models.SyncState, error)
	State() models.SyncState
}

type App struct {
	config  *config.Config
	store   *storage.Store
	client  *client.GRPCClient
	session *services.SessionService
	ledger  *services.Ledger
	engine  *engine.Engine
	syncer  Syncer
	watcher *connectivity.Watcher
	clock   scheduler.Clock
	log     logging.Logger
	closers []io.Closer

	reader *bufio.Reader
	out    io.Writer

	mu       sync.Mutex
	state    models.SyncState
	deviceID string

	closeOnce sync.Once
	closeErr  error
}

// NewApp opens the local ledger at c.DatabaseFile and wires the remote
// client, the sync engine and the connectivity watcher around it.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger, logCloser := logging.NewFileLogger(c.LogFile, slog.LevelInfo)

	store, err := storage.Open(ctx, c.DatabaseFile)
	if err != nil {
		_ = logCloser.Close()
		return nil, fmt.Errorf("error initializing database: %w", err)
	}

	apiClient, err := client.NewGRPCClient(c.ServerEndpointAddr)
	if err != nil {
		_ = store.Close()
		_ = logCloser.Close()
		return nil, err
	}

	clock := scheduler.System()
	ledger, err := services.NewLedger(ctx, store, services.Options{Clock: clock, Logger: logger})
	if err != nil {
		_ = apiClient.Close()
		_ = store.Close()
		_ = logCloser.Close()
		return nil, err
	}

	watcher := connectivity.NewWatcher(apiClient, c.OnlineCheckInterval, logger)

	backoff := scheduler.DefaultBackoff()
	backoff.Initial = c.InitialBackoff
	backoff.Max = c.MaxBackoff

	eng, err := engine.New(engine.Options{
		Store:        store,
		Remote:       apiClient,
		Connectivity: watcher,
		Clock:        clock,
		Backoff:      backoff,
		Logger:       logger,
		MaxRetries:   c.MaxRetries,
	})
	if err != nil {
		_ = apiClient.Close()
		_ = store.Close()
		_ = logCloser.Close()
		return nil, err
	}
	ledger.SetTrigger(eng)
	ledger.SetPuller(eng)

	return &App{
		config:   c,
		store:    store,
		client:   apiClient,
		session:  services.NewSessionService(apiClient, store.Metadata),
		ledger:   ledger,
		engine:   eng,
		syncer:   eng,
		watcher:  watcher,
		clock:    clock,
		log:      logger.With("module", "cli"),
		closers:  []io.Closer{logCloser},
		reader:   bufio.NewReader(os.Stdin),
		out:      os.Stdout,
		deviceID: ledger.DeviceID(),
	}, nil
}

// Run signs the device in, starts background sync and blocks in the REPL
// until the user exits or ctx is done. The caller still owns Close.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	printlnFn("Welcome to fintrack (type 'help' for commands)")

	if err := a.Login(ctx); err != nil {
		a.log.Warn(ctx, "login failed, working offline", "error", err)
	}

	go a.watcher.Run(ctx)

	unsubscribe := a.engine.Subscribe(a.setState)
	defer unsubscribe()

	if err := a.engine.Start(ctx); err != nil {
		return err
	}
	defer a.engine.Stop()

	runREPL(ctx, a, a.getStatus, bufio.NewScanner(a.reader))
	return nil
}

// Close releases the remote connection, the database lock and the log file.
// Later calls return the first result.
func (a *App) Close() error {
	a.closeOnce.Do(func() {
		var errs []error
		if a.session != nil {
			errs = append(errs, a.session.Close())
		}
		if a.store != nil {
			errs = append(errs, a.store.Close())
		}
		for _, c := range a.closers {
			errs = append(errs, c.Close())
		}
		a.closeErr = errors.Join(errs...)
	})
	return a.closeErr
}

// Login signs the device in to the backend. Failure is not fatal: every
// command keeps working against the local ledger.
func (a *App) Login(ctx context.Context) error {
	id, err := a.session.Login(ctx)
	if err != nil {
		if errors.Is(err, client.ErrUnavailable) {
			a.println("Server unavailable, working offline")
		} else {
			a.println("Login unsuccessful:", err)
		}
		return err
	}
	a.deviceID = id
	a.println("Signed in as device", id)
	return nil
}

func (a *App) setState(st models.SyncState) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.state = st
}

func (a *App) online() bool {
	return a.watcher == nil || a.watcher.Online()
}

func (a *App) getStatus() string {
	a.mu.Lock()
	st := a.state
	a.mu.Unlock()

	mode := "offline"
	if a.online() {
		mode = "online"
	}
	if st.PendingCount > 0 {
		return fmt.Sprintf("(%s, %d pending)", mode, st.PendingCount)
	}
	return fmt.Sprintf("(%s)", mode)
}

func (a *App) s3Config() backup.S3Config {
	if a.config == nil {
		return backup.S3Config{}
	}
	return backup.S3Config{
		Region:    a.config.S3Region,
		Endpoint:  a.config.S3BaseEndpoint,
		AccessKey: a.config.S3AccessKey,
		SecretKey: a.config.S3SecretKey,
	}
}

func (a *App) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

// fail reports a command error to the user and to the log file.
func (a *App) fail(ctx context.Context, cmd string, err error) error {
	a.log.Error(ctx, "command failed", "command", cmd, "error", err)
	a.println("Error:", err)
	return err
}
