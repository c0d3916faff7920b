package bootstrap

import (
	"context"
	"fmt"

	"docapp/config"
	"docapp/internal/domain/backend"
	"docapp/internal/infrastructure/cache"
	"docapp/internal/infrastructure/database"
	"docapp/internal/infrastructure/firebase"
	"docapp/internal/infrastructure/memory"
	"docapp/internal/infrastructure/mongodb"
	"docapp/internal/infrastructure/selfhosted"
	"docapp/pkg/jwt"

	"github.com/sirupsen/logrus"
)

// authBackend is an AuthProvider that owns background delivery
type authBackend interface {
	backend.AuthProvider
	Close()
}

// restorer is implemented by providers that can resume a persisted session
type restorer interface {
	Restore(ctx context.Context) error
}

// connectInfrastructure opens only the connections the selected backends need
func (app *App) connectInfrastructure(ctx context.Context, cfg *config.Config, log *logrus.Logger) error {
	if cfg.UsesPostgres() {
		if err := database.RunMigrations(cfg.DB.URL()); err != nil {
			return err
		}
		log.Info("Database migrations applied")

		db, err := database.NewPostgresConnection(cfg.DB, cfg.App.Env, log)
		if err != nil {
			return err
		}
		app.DB = db
	}

	if cfg.UsesRedis() {
		redisClient, err := cache.NewRedisClient(ctx, cfg.Redis, log)
		if err != nil {
			return err
		}
		app.RedisClient = redisClient
	}

	if cfg.UsesFirebase() {
		fbApp, err := firebase.NewApp(ctx, cfg.Firebase, log)
		if err != nil {
			return err
		}
		app.firebase = fbApp
	}

	return nil
}

func (app *App) newDocumentStore(ctx context.Context, cfg *config.Config, log *logrus.Logger) (backend.DocumentStore, error) {
	switch cfg.Backend.Store {
	case config.BackendFirebase:
		store, err := firebase.NewDocumentStore(ctx, app.firebase)
		if err != nil {
			return nil, err
		}
		app.closers = append(app.closers, func() { _ = store.Close() })
		return store, nil

	case config.BackendPostgres:
		return database.NewDocumentStore(app.DB), nil

	case config.BackendMongo:
		client, err := mongodb.NewClient(ctx, cfg.Mongo, log)
		if err != nil {
			return nil, err
		}
		app.closers = append(app.closers, func() { _ = client.Disconnect(context.Background()) })
		return mongodb.NewDocumentStore(client, cfg.Mongo.Database), nil

	case config.BackendMemory:
		log.Warn("Using the in-memory document store, data is lost on exit")
		return memory.NewDocumentStore(), nil
	}
	return nil, fmt.Errorf("%w: %s", config.ErrUnknownBackend, cfg.Backend.Store)
}

func (app *App) newSessionPersistence(cfg *config.Config) backend.SessionPersistence {
	if !cfg.Session.Persist || app.RedisClient == nil {
		return nil
	}
	return cache.NewSessionStore(app.RedisClient, cfg.Session.RedisKey)
}

func (app *App) newAuthProvider(ctx context.Context, cfg *config.Config, log *logrus.Logger) (authBackend, error) {
	persistence := app.newSessionPersistence(cfg)

	switch cfg.Backend.Auth {
	case config.BackendFirebase:
		return firebase.NewAuthProvider(ctx, app.firebase, cfg.Firebase, persistence, log)

	case config.BackendSelfHosted:
		jwtService := jwt.NewJWTService(cfg.JWT)
		return selfhosted.NewAuthProvider(app.DB, app.RedisClient, jwtService, persistence, log), nil

	case config.BackendMemory:
		log.Warn("Using the in-memory auth provider, accounts are lost on exit")
		return memory.NewAuthProvider(), nil
	}
	return nil, fmt.Errorf("%w: %s", config.ErrUnknownBackend, cfg.Backend.Auth)
}
