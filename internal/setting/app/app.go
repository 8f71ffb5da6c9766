// Package app assembles the application: configuration, store, services,
// session manager, router and the HTTP server lifecycle.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/settingbr/setting/internal/setting/domain"
	httpapi "github.com/settingbr/setting/internal/setting/http"
	"github.com/settingbr/setting/internal/setting/service"
	"github.com/settingbr/setting/internal/setting/store"
	"github.com/settingbr/setting/internal/setting/store/drivers/sqlite"
	"github.com/settingbr/setting/pkg/cryptox"
	"github.com/settingbr/setting/pkg/sessionx"
	"github.com/settingbr/setting/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags.
	BuildVersion = "v0.1.0"
)

// Application encapsulates the service with all its dependencies.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db       store.Store
	sessions *sessionx.Manager

	authService          *service.AuthService
	inviteService        *service.InviteService
	inviteRequestService *service.InviteRequestService
	orgUserService       *service.OrgUserService
	noteService          *service.NoteService
	normCardService      *service.NormCardService
	docTemplateService   *service.DocTemplateService
	libraryService       *service.LibraryService
	bootstrapService     *service.BootstrapService

	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "setting",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	if cfg.SecretKey == "" {
		return nil, errors.New("SECRET_KEY is required")
	}

	cryptox.SetPepperPath(cfg.PepperFile)

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	app.sessions = sessionx.NewManager(sessionx.Config{
		Secret:  []byte(cfg.SecretKey),
		Timeout: cfg.SessionTimeout,
		MaxAge:  cfg.SessionMaxAge,
		Secure:  cfg.Env != "dev",
	})

	app.initServices()
	if err := app.bootstrap(); err != nil {
		return nil, err
	}
	if err := app.initHTTP(); err != nil {
		return nil, err
	}

	return app, nil
}

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	app.logger.Info("setting service starting", "port", app.cfg.Port, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down setting service...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("setting service stopped")
	return nil
}

// initDatabase opens the sqlite store and brings the schema up to date.
// RESET_DB drops everything first; that flag exists for disposable
// environments only.
func (app *Application) initDatabase() error {
	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", app.cfg.DatabaseFile)
	db, err := sqlite.NewStore(dsn)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if app.cfg.ResetDB {
		app.logger.Warn("RESET_DB set, dropping entire schema")
		if err := db.Reset(); err != nil {
			_ = db.Close()
			return fmt.Errorf("failed to reset database: %w", err)
		}
	}

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully")
	return nil
}

func (app *Application) initServices() {
	app.authService = &service.AuthService{Store: app.db}
	app.inviteService = &service.InviteService{Store: app.db}
	app.inviteRequestService = &service.InviteRequestService{
		Store:   app.db,
		Invites: app.inviteService,
	}
	app.orgUserService = &service.OrgUserService{Store: app.db}
	app.noteService = &service.NoteService{Store: app.db}
	app.normCardService = &service.NormCardService{Store: app.db}
	app.docTemplateService = &service.DocTemplateService{Store: app.db}
	app.libraryService = &service.LibraryService{Store: app.db}
	app.bootstrapService = &service.BootstrapService{Store: app.db}
}

// bootstrap ensures the default clinic, its admin and the seed templates.
func (app *Application) bootstrap() error {
	ctx := slogx.WithContext(context.Background(), app.logger)
	return app.bootstrapService.Ensure(ctx, domain.BootstrapData{
		OrgName:       app.cfg.DefaultOrgName,
		AdminEmail:    app.cfg.AdminEmail,
		AdminPassword: app.cfg.AdminPassword,
	})
}

func (app *Application) initHTTP() error {
	router, err := httpapi.NewRouter(app.sessions, BuildVersion, app.db, app.logger)
	if err != nil {
		return fmt.Errorf("failed to build router: %w", err)
	}

	router.AuthService = app.authService
	router.InviteService = app.inviteService
	router.InviteRequestService = app.inviteRequestService
	router.OrgUserService = app.orgUserService
	router.NoteService = app.noteService
	router.NormCardService = app.normCardService
	router.DocTemplateService = app.docTemplateService
	router.LibraryService = app.libraryService
	router.ApplyRoutes()

	app.router = router
	app.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", app.cfg.Port),
		Handler: router,
	}
	return nil
}
