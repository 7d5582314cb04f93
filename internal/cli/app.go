// Package cli implements the interactive daylog client: a small REPL over
// the daily container coordinator and the annotation service.
package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/daylog-app/daylog/internal/annotations"
	"github.com/daylog-app/daylog/internal/config"
	"github.com/daylog-app/daylog/internal/daily"
	"github.com/daylog-app/daylog/internal/logging"
	"github.com/daylog-app/daylog/internal/store"
	"github.com/daylog-app/daylog/internal/store/postgres"
	"github.com/daylog-app/daylog/internal/store/sqlite"
	"github.com/daylog-app/daylog/internal/upload"
)

// App wires the record store, the coordinator and the annotation service
// behind the REPL commands. creatorID is empty until login succeeds.
type App struct {
	config      *config.Config
	logger      logging.Logger
	store       store.Store
	db          *sql.DB
	coordinator *daily.Coordinator
	annotations *annotations.Service
	zone        *time.Location
	creatorID   string
	reader      *bufio.Reader
	out         io.Writer
}

// NewApp opens the configured database backend, applies migrations, and
// builds the services. The S3 uploader is attached only when a bucket is
// configured; without it, "add" still works for plain text items.
func NewApp(ctx context.Context, cfg *config.Config, logger logging.Logger) (*App, error) {
	zone, err := resolveZone(cfg.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("resolving time zone: %w", err)
	}

	var (
		s  store.Store
		db *sql.DB
	)
	switch cfg.DatabaseDriver {
	case "sqlite":
		s, db, err = sqlite.Open(ctx, cfg.DatabaseDSN)
	case "postgres":
		s, db, err = postgres.Open(ctx, cfg.DatabaseDSN)
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.DatabaseDriver)
	}
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	var uploader upload.Uploader
	if cfg.S3Bucket != "" {
		uploader = upload.NewS3Uploader(cfg)
	}

	return &App{
		config:      cfg,
		logger:      logger,
		store:       s,
		db:          db,
		coordinator: daily.NewCoordinator(s, uploader, zone, logger, cfg.PageSize),
		annotations: annotations.NewService(s, logger),
		zone:        zone,
		reader:      bufio.NewReader(os.Stdin),
		out:         os.Stdout,
	}, nil
}

func resolveZone(name string) (*time.Location, error) {
	if name == "" || name == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(name)
}

func (a *App) isLoggedIn() bool {
	return a.creatorID != ""
}

func (a *App) getStatus() string {
	if a.creatorID == "" {
		return ""
	}
	return fmt.Sprintf("(%s) ", a.creatorID)
}

func (a *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// requestCtx bounds a single command with the configured request timeout.
func (a *App) requestCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, a.config.RequestTimeout)
}

// Run starts the REPL and blocks until the user exits or the process is
// signalled. The database handle is closed on the way out.
func (a *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	a.initSignalHandler(cancelFunc)
	defer func() { _ = a.db.Close() }()

	printlnFn("daylog CLI (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.getStatus, scanner)
}
