// Package app wires the Padrón server runtime: config, logging, Mongo
// connectivity, the HTTP surface, and metrics.
package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"padron/cmd/identity"
	"padron/cmd/internal/api"
	"padron/cmd/internal/auth"
	"padron/cmd/internal/directory"
	"padron/cmd/profile"
	"padron/cmd/security/password"
	"padron/cmd/security/token"

	"go.mongodb.org/mongo-driver/mongo"
)

// Store is a small app-level lifecycle abstraction so DB-backed resources
// can be closed gracefully.
type Store interface {
	Close(ctx context.Context) error
}

// nopStore is used when no database is configured.
type nopStore struct{}

func (nopStore) Close(_ context.Context) error { return nil }

// App is the Padrón server runtime: it owns HTTP wiring and the service
// dependencies behind it.
type App struct {
	cfg Config
	log Logger

	store Store

	client    *mongo.Client
	dbEnabled bool

	metrics *Metrics
	handler *api.Handler
}

// New constructs a fully wired App instance from config and logger.
func New(cfg Config, log Logger) (*App, error) {
	if log == nil {
		log = NewLogger(cfg.LogLevel, cfg.LogPretty)
	}

	if err := ValidateSecurityConfig(cfg); err != nil {
		return nil, err
	}

	st, client, db, dbEnabled, err := newStore(context.Background(), cfg, log)
	if err != nil {
		return nil, err
	}

	var handler *api.Handler
	if dbEnabled {
		handler, err = newHandler(cfg, log, db)
		if err != nil {
			_ = st.Close(context.Background())
			return nil, err
		}
	}

	return &App{
		cfg:       cfg,
		log:       log,
		store:     st,
		client:    client,
		dbEnabled: dbEnabled,
		metrics:   NewMetrics(),
		handler:   handler,
	}, nil
}

// newHandler builds the service graph: stores, auth, directory, HTTP adapter.
func newHandler(cfg Config, log Logger, db *mongo.Database) (*api.Handler, error) {
	hasher, err := password.FromEnv()
	if err != nil {
		return nil, err
	}

	users, err := identity.NewMongoStore(db,
		identity.WithTransactions(cfg.MongoTransactions),
		identity.WithHasher(hasher),
	)
	if err != nil {
		return nil, err
	}

	indexCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := users.EnsureIndexes(indexCtx); err != nil {
		return nil, err
	}

	profiles, err := profile.NewMongoStore(db)
	if err != nil {
		return nil, err
	}

	tokenCfg, err := token.LoadConfigFromEnv()
	if err != nil {
		return nil, err
	}
	tokens, err := token.NewManager(tokenCfg)
	if err != nil {
		return nil, err
	}

	authSvc, err := auth.NewService(log, users, tokens, hasher)
	if err != nil {
		return nil, err
	}
	dir, err := directory.NewService(log, users)
	if err != nil {
		return nil, err
	}

	return api.NewHandler(log, api.LoadConfigFromEnv(), authSvc, dir, users, profiles)
}

// Run starts the HTTP server and blocks until context cancellation or fatal
// server error.
func (a *App) Run(ctx context.Context) error {
	mux := http.NewServeMux()

	registerHTTP(mux, a.log, a.cfg, a.client, a.dbEnabled, a.metrics, a.handler)

	srv := &http.Server{
		Addr:              a.cfg.HTTPAddr,
		Handler:           WithRequestLogging(mux, a.log, a.metrics),
		ReadHeaderTimeout: nonZeroDuration(a.cfg.ReadHeaderTimeout, 5*time.Second),
		ReadTimeout:       nonZeroDuration(a.cfg.ReadTimeout, 15*time.Second),
		WriteTimeout:      nonZeroDuration(a.cfg.WriteTimeout, 15*time.Second),
		IdleTimeout:       nonZeroDuration(a.cfg.IdleTimeout, 60*time.Second),
		MaxHeaderBytes:    nonZeroInt(a.cfg.MaxHeaderBytes, 1<<20),
	}

	a.log.Info("server.start", "addr", a.cfg.HTTPAddr, "db_enabled", a.dbEnabled)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		a.log.Info("server.stop", "reason", "context_done")
	case err := <-errCh:
		a.log.Error("server.fail", "err", err)
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		a.log.Error("server.shutdown.fail", "err", err)
		return err
	}

	if err := a.store.Close(shutdownCtx); err != nil {
		a.log.Error("store.close.fail", "err", err)
	}

	a.log.Info("server.stopped")
	return nil
}

func nonZeroDuration(v, def time.Duration) time.Duration {
	if v <= 0 {
		return def
	}
	return v
}

func nonZeroInt(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

// newStore decides between Mongo-backed persistence and the degraded no-DB
// mode where only health endpoints respond.
func newStore(ctx context.Context, cfg Config, log Logger) (Store, *mongo.Client, *mongo.Database, bool, error) {
	if cfg.MongoURI == "" {
		log.Info("db.disabled.no_uri")
		return nopStore{}, nil, nil, false, nil
	}

	client, err := NewMongoClient(ctx, cfg)
	if err != nil {
		return nil, nil, nil, false, err
	}

	log.Info("db.enabled.mongo_store", "database", cfg.MongoDatabase)

	return dbStore{client: client}, client, client.Database(cfg.MongoDatabase), true, nil
}

type dbStore struct {
	client *mongo.Client
}

func (s dbStore) Close(ctx context.Context) error {
	if s.client != nil {
		return s.client.Disconnect(ctx)
	}
	return nil
}
