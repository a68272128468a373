// Package app initializes and runs the mood journal service. It wires
// configuration, logging, the persistent collections, the session store and
// the HTTP router, and handles graceful shutdown.
package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/jurnalku/jurnalku/internal/auth"
	"github.com/jurnalku/jurnalku/internal/config"
	"github.com/jurnalku/jurnalku/internal/db/jsonfile"
	"github.com/jurnalku/jurnalku/internal/hasher"
	"github.com/jurnalku/jurnalku/internal/idgen"
	"github.com/jurnalku/jurnalku/internal/journal"
	"github.com/jurnalku/jurnalku/internal/logger"
	"github.com/jurnalku/jurnalku/internal/predictor"
	"github.com/jurnalku/jurnalku/internal/router"
	"github.com/jurnalku/jurnalku/internal/service"
	"github.com/jurnalku/jurnalku/internal/session"
	"github.com/jurnalku/jurnalku/internal/user"
)

const (
	usersFileName    = "users.json"
	journalsFileName = "journals.json"
)

// App holds everything needed to run the service.
type App struct {
	cfg         *config.Config
	users       *jsonfile.Collection[*user.User]
	journals    *jsonfile.Collection[*journal.Entry]
	httpHandler http.Handler
}

// New loads configuration, initializes logging, loads both collections from
// the data directory (bootstrapping them on first run) and assembles the
// router. A collection file that exists but cannot be parsed is a fatal error:
// the process must not start empty over unreadable data.
func New() (*App, error) {
	var err error
	app := &App{}

	app.cfg, err = config.New()
	if err != nil {
		return nil, err
	}

	if err = logger.Init(app.cfg.LogLevel); err != nil {
		return nil, err
	}

	if err = jsonfile.EnsureDir(app.cfg.DataDir); err != nil {
		return nil, err
	}

	app.users, err = jsonfile.New[*user.User](filepath.Join(app.cfg.DataDir, usersFileName))
	if err != nil {
		return nil, err
	}

	app.journals, err = jsonfile.New[*journal.Entry](filepath.Join(app.cfg.DataDir, journalsFileName))
	if err != nil {
		return nil, err
	}

	sessions := session.New()

	theService := service.New(
		app.users,
		app.journals,
		sessions,
		idgen.New(app.users.IDs(), app.journals.IDs()),
		hasher.New(app.cfg.BcryptCost),
		predictor.New(app.cfg.PredictorURL, app.cfg.PredictorTimeout),
	)

	app.httpHandler = router.New(theService, auth.New(sessions))

	return app, nil
}

// Run starts the HTTP server with graceful shutdown support. On termination it
// mirrors both collections to disk a final time.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Log.Infoln("server running", "RunAddr", a.cfg.RunAddr)

	server := &http.Server{
		Addr:    a.cfg.RunAddr,
		Handler: a.httpHandler,
	}

	serverErrCh := make(chan error, 1)
	go func() {
		serverErrCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Log.Infoln("Received shutdown signal. Saving collections and exiting...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}

		if err := a.users.Close(); err != nil {
			return err
		}

		return a.journals.Close()

	case err := <-serverErrCh:
		return fmt.Errorf("server error: %w", err)
	}
}

// Close finalizes resources used by App such as logging.
func (a *App) Close() {
	if err := logger.Sync(); err != nil {
		fmt.Println("Logger sync error:", err)
	}
}
