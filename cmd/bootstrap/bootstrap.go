package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"docapp/config"
	deliveryHttp "docapp/internal/delivery/http"
	"docapp/internal/delivery/http/handler"
	"docapp/internal/delivery/http/middleware"
	"docapp/internal/domain/backend"
	"docapp/internal/metrics"
	"docapp/internal/repository"
	"docapp/internal/service"
	"docapp/internal/usecase"
	"docapp/pkg/validator"

	firebaseApp "firebase.google.com/go/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// App holds all dependencies for the application
type App struct {
	Config      *config.Config
	DB          *gorm.DB
	RedisClient *redis.Client
	Server      *http.Server

	log          *logrus.Logger
	firebase     *firebaseApp.App
	authProvider authBackend
	session      usecase.SessionUsecase
	watcher      *service.SessionWatchService
	closers      []func()
}

// New creates a new App instance with all dependencies initialized
func New() (*App, error) {
	log := setupLogger()

	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	applyLogLevel(log, cfg.App.LogLevel)
	log.Infof("Configuration loaded, auth backend: %s, store backend: %s", cfg.Backend.Auth, cfg.Backend.Store)

	app := &App{Config: cfg, log: log}
	ctx := context.Background()

	if err := app.connectInfrastructure(ctx, cfg, log); err != nil {
		app.Close()
		return nil, err
	}

	if err := app.initialize(ctx, cfg, log); err != nil {
		app.Close()
		return nil, err
	}

	return app, nil
}

// setupLogger configures the logrus logger
func setupLogger() *logrus.Logger {
	log := logrus.StandardLogger()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stdout)
	log.SetLevel(logrus.InfoLevel)
	return log
}

func applyLogLevel(log *logrus.Logger, level string) {
	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		log.Warnf("Invalid LOG_LEVEL %q, keeping info", level)
		return
	}
	log.SetLevel(parsed)
}

// initialize wires the backend adapters, usecases and HTTP layer
func (app *App) initialize(ctx context.Context, cfg *config.Config, log *logrus.Logger) error {
	store, err := app.newDocumentStore(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize document store: %w", err)
	}

	authProvider, err := app.newAuthProvider(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize auth provider: %w", err)
	}
	app.authProvider = authProvider

	// Restore before the session manager subscribes so its first event is
	// the restored state
	if r, ok := authProvider.(restorer); ok {
		if err := r.Restore(ctx); err != nil {
			log.Warnf("Failed to restore session, starting signed out: %+v", err)
		}
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	collector := metrics.NewCollector(registry)

	// Initialize repositories
	userRepo := repository.NewUserRepository(store)
	doctorProfileRepo := repository.NewDoctorProfileRepository(store)
	appointmentRepo := repository.NewAppointmentRepository(store, log)

	// Initialize usecases
	app.session = usecase.NewSessionUsecase(log, authProvider, userRepo, collector)
	appointmentUsecase := usecase.NewAppointmentUsecase(log, appointmentRepo, collector)
	doctorProfileUsecase := usecase.NewDoctorProfileUsecase(log, doctorProfileRepo)

	if err := app.session.Start(ctx); err != nil {
		return fmt.Errorf("failed to start session manager: %w", err)
	}

	if verifier, ok := authProvider.(backend.SessionVerifier); ok && cfg.Session.CheckSpec != "" {
		app.watcher = service.NewSessionWatchService(verifier, cfg.Session.CheckSpec, collector, log)
		if err := app.watcher.Start(); err != nil {
			return err
		}
	}

	customValidator := validator.NewValidator()

	// Initialize handlers
	authHandler := handler.NewAuthHandler(app.session, customValidator)
	appointmentHandler := handler.NewAppointmentHandler(appointmentUsecase)
	doctorHandler := handler.NewDoctorHandler(doctorProfileUsecase, customValidator)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(app.session)
	corsMiddleware := middleware.NewCORSMiddleware(cfg.App.CORSOrigin)

	router := deliveryHttp.NewRouter(
		authHandler,
		appointmentHandler,
		doctorHandler,
		authMiddleware,
		corsMiddleware,
		metrics.Handler(registry),
	)

	app.Server = &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.App.Port),
		Handler:           router.Setup(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return nil
}

// Run starts the HTTP server and handles graceful shutdown
func (app *App) Run() {
	go func() {
		app.log.Infof("Server starting on port %s", app.Config.App.Port)
		app.log.Infof("Environment: %s", app.Config.App.Env)
		if err := app.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			app.log.Fatalf("Failed to start server: %v", err)
		}
	}()

	go app.logInitialSession()

	app.waitForShutdown()
}

func (app *App) logInitialSession() {
	ctx, cancel := context.WithTimeout(context.Background(), app.Config.Session.WaitOnBoot)
	defer cancel()

	state, err := app.session.WaitResolved(ctx)
	if err != nil {
		app.log.Warnf("Session still loading after %s", app.Config.Session.WaitOnBoot)
		return
	}
	if state.Identity != nil {
		app.log.Infof("Signed in as %s (%s)", state.Identity.UID, state.Identity.Role)
		return
	}
	app.log.Info("No user signed in")
}

// waitForShutdown blocks until an interrupt signal is received
func (app *App) waitForShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	app.log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.Server.Shutdown(ctx); err != nil {
		app.log.Errorf("Server forced to shutdown: %v", err)
	}

	app.Close()

	app.log.Info("Server shutdown complete")
}

// Close stops background work, then closes every connection
func (app *App) Close() {
	if app.watcher != nil {
		app.watcher.Stop()
	}
	if app.session != nil {
		app.session.Stop()
	}
	if app.authProvider != nil {
		app.authProvider.Close()
	}

	for i := len(app.closers) - 1; i >= 0; i-- {
		app.closers[i]()
	}

	if app.DB != nil {
		sqlDB, err := app.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}

	if app.RedisClient != nil {
		app.RedisClient.Close()
	}
}
