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
	"time"

	goredis "github.com/redis/go-redis/v9"

	httpapi "github.com/aussiebroadwan/inkwell/internal/auth/http"
	"github.com/aussiebroadwan/inkwell/internal/auth/mail"
	"github.com/aussiebroadwan/inkwell/internal/auth/service"
	"github.com/aussiebroadwan/inkwell/internal/auth/store"
	redisstore "github.com/aussiebroadwan/inkwell/internal/auth/store/drivers/redis"
	"github.com/aussiebroadwan/inkwell/internal/auth/store/drivers/sqlite"
	"github.com/aussiebroadwan/inkwell/pkg/cryptox"
	"github.com/aussiebroadwan/inkwell/pkg/httpx"
	"github.com/aussiebroadwan/inkwell/pkg/jwtx"
	"github.com/aussiebroadwan/inkwell/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags. Later problem
	BuildVersion = "v0.1.0"
)

// Application encapsulates the auth service application with all its dependencies
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	db       store.Store
	codec    *jwtx.Codec
	mailer   *mail.Mailer
	attempts store.LoginAttempts
	redis    *goredis.Client // nil unless AUTH_REDIS_URL is set
	pinger   httpapi.Pinger  // readiness check for the redis backend

	// Services
	sessionService      *service.SessionService
	accountService      *service.AccountService
	resetService        *service.PasswordResetService
	verificationService *service.EmailVerificationService
	inviteService       *service.InviteService

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "auth-service",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	// Set pepper path for password hashing
	cryptox.SetPepperPath(app.cfg.PepperFile)
	if err := cryptox.LoadPepper(); err != nil {
		return nil, fmt.Errorf("failed to load password pepper: %w", err)
	}

	codec, err := InitTokenCodec(app.cfg, app.logger)
	if err != nil {
		return nil, err
	}
	app.codec = codec

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	ctx := context.Background()
	if err := app.initThrottleBackend(ctx); err != nil {
		_ = app.db.Close()
		return nil, err
	}

	app.initMailer()
	app.initServices()

	if err := app.inviteService.Seed(ctx); err != nil {
		_ = app.closeBackends()
		return nil, fmt.Errorf("failed to seed invite codes: %w", err)
	}

	if err := app.initHTTP(); err != nil {
		_ = app.closeBackends()
		return nil, err
	}

	return app, nil
}

// Handler exposes the routed HTTP handler, mostly for tests.
func (app *Application) Handler() http.Handler {
	return app.router
}

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	app.logger.Info("auth service starting", "port", app.cfg.Port, "version", BuildVersion)

	// Start server in a goroutine
	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	// Setup signal handling for graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a shutdown signal or server error
	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			_ = app.closeBackends()
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		// Perform graceful shutdown
		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down auth service...")

	// Give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	// Shutdown the HTTP server
	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	// Let queued reset links go out before the mailer disappears
	app.resetService.Wait()

	if err := app.closeBackends(); err != nil {
		return err
	}

	app.logger.Info("auth service stopped")
	return nil
}

func (app *Application) closeBackends() error {
	if app.redis != nil {
		if err := app.redis.Close(); err != nil {
			app.logger.Error("error closing redis client", "error", err)
		}
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}
	return nil
}

// initDatabase initializes the database and applies migrations
func (app *Application) initDatabase() error {
	db, err := sqlite.NewStore(sqlite.DSN(app.cfg.DatabaseFile))
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully", "file", app.cfg.DatabaseFile)
	return nil
}

// initThrottleBackend picks where failed logins are counted. Redis lets
// several instances share one view; otherwise the database keeps them.
func (app *Application) initThrottleBackend(ctx context.Context) error {
	if app.cfg.RedisURL == "" {
		app.attempts = app.db.LoginAttempts()
		app.logger.Info("login throttle backend: database")
		return nil
	}

	connectCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	client, err := redisstore.Connect(connectCtx, app.cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}
	app.redis = client
	attempts := redisstore.NewLoginAttempts(client)
	app.attempts = attempts
	app.pinger = attempts
	app.logger.Info("login throttle backend: redis")
	return nil
}

// initMailer sends through SMTP when a host is configured and logs mail
// otherwise.
func (app *Application) initMailer() {
	var sender mail.Sender = mail.LogSender{}
	if app.cfg.SMTP.Host != "" {
		sender = &mail.SMTPSender{
			Host:     app.cfg.SMTP.Host,
			Port:     app.cfg.SMTP.Port,
			Username: app.cfg.SMTP.Username,
			Password: app.cfg.SMTP.Password,
			From:     app.cfg.SMTP.From,
		}
		app.logger.Info("smtp mailer enabled", "host", app.cfg.SMTP.Host, "port", app.cfg.SMTP.Port)
	} else {
		app.logger.Warn("SMTP_HOST not set, mail is written to the log")
	}

	app.mailer = &mail.Mailer{
		Sender:  sender,
		CodeTTL: service.DefaultVerificationCodeTTL,
		LinkTTL: app.cfg.ResetTTL,
	}
}

// initServices initializes all business logic services
func (app *Application) initServices() {
	throttle := &service.LoginThrottle{Attempts: app.attempts}

	app.inviteService = &service.InviteService{
		Store:     app.db,
		Codes:     app.cfg.InviteCodes,
		SingleUse: app.cfg.InviteSingleUse,
	}

	app.sessionService = &service.SessionService{
		Store:               app.db,
		Tokens:              app.codec,
		Throttle:            throttle,
		Invites:             app.inviteService,
		AccessTTL:           app.cfg.AccessTTL,
		RefreshTTL:          app.cfg.RefreshTTL,
		RequireVerification: app.cfg.RequireEmailVerification,
	}

	app.accountService = &service.AccountService{
		Store:    app.db,
		Throttle: throttle,
	}

	app.resetService = &service.PasswordResetService{
		Store:    app.db,
		Tokens:   app.codec,
		Notifier: app.mailer,
		TTL:      app.cfg.ResetTTL,
		ResetURL: app.cfg.ResetURL,
	}

	app.verificationService = &service.EmailVerificationService{
		Store:    app.db,
		Notifier: app.mailer,
	}
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() error {
	trusted, err := httpx.ParseTrustedProxies(app.cfg.TrustedProxies)
	if err != nil {
		return fmt.Errorf("invalid trusted proxies: %w", err)
	}

	router := httpapi.NewRouter(
		app.codec,
		BuildVersion,
		app.db,
		app.logger,
	)

	// Wire services to router
	router.SessionService = app.sessionService
	router.AccountService = app.accountService
	router.PasswordResetService = app.resetService
	router.VerificationService = app.verificationService
	router.ThrottleBackend = app.pinger
	router.TrustedProxies = trusted
	router.ApplyRoutes()

	app.router = router

	// Initialize HTTP server
	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}

	if len(trusted) > 0 {
		app.logger.Info("forwarding headers trusted", "proxies", app.cfg.TrustedProxies)
	}
	return nil
}
