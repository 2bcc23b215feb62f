// Package app wires the pago server runtime: config, logging, storage,
// HTTP routes, and the auth and payment services.
//
// It is intentionally small and deterministic to keep behavior predictable.
package app

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"net/http"
	"time"

	authapi "pago/cmd/internal/auth/api"
	"pago/cmd/internal/payments"
	paymentapi "pago/cmd/internal/payments/api"

	"pago/cmd/identity"
	"pago/cmd/security/password"
	"pago/cmd/security/token"

	"go.mongodb.org/mongo-driver/mongo"
)

// Store is a small app-level lifecycle abstraction.
// It exists to allow DB-backed resources to be closed gracefully.
type Store interface {
	Close(ctx context.Context) error
}

// nopStore is used for in-memory store mode.
type nopStore struct{}

func (nopStore) Close(_ context.Context) error { return nil }

// App is the pago server runtime: it owns HTTP server wiring and the
// service dependencies behind it.
type App struct {
	cfg Config
	log Logger

	store Store

	dbClient  *mongo.Client
	dbEnabled bool

	auth *authapi.Handler
	pay  *paymentapi.Handler
}

// New constructs a fully wired App instance from config and logger.
func New(cfg Config, log Logger) (*App, error) {
	if log == nil {
		log = NewLogger(cfg.LogLevel, cfg.LogPretty)
	}

	if err := ValidateSecurityConfig(cfg); err != nil {
		return nil, err
	}

	st, dbClient, dbEnabled, accountStore, paymentStore, err := newStores(context.Background(), cfg, log)
	if err != nil {
		return nil, err
	}

	closeOnErr := func(e error) (*App, error) {
		_ = st.Close(context.Background())
		return nil, e
	}

	passCfg, err := password.FromEnv()
	if err != nil {
		return closeOnErr(fmt.Errorf("password config: %w", err))
	}

	tokCfg := token.LoadConfigFromEnv()
	if len(tokCfg.Secret) == 0 {
		// Development convenience only: tokens die with the process.
		// PAGO_REQUIRE_TOKEN_SECRET=true forbids this path entirely.
		tokCfg.Secret = make([]byte, token.MinSecretBytes)
		if _, err := rand.Read(tokCfg.Secret); err != nil {
			return closeOnErr(err)
		}
		log.Warn("token.secret.ephemeral", "hint", "set "+token.SecretEnvKey+" for stable tokens")
	}
	codec, err := token.NewCodec(tokCfg)
	if err != nil {
		return closeOnErr(err)
	}

	guard := authapi.NewGuard(codec)

	accounts := identity.NewService(log, accountStore, passCfg, codec)
	authHandler := authapi.NewHandler(log, authapi.LoadConfigFromEnv(), accounts, guard)

	gwCfg := payments.GatewayConfigFromEnv()
	var gateway payments.Gateway = payments.NoopGateway{}
	if gwCfg.Configured() {
		gateway, err = payments.NewHTTPGateway(gwCfg)
		if err != nil {
			return closeOnErr(err)
		}
		log.Info("gateway.enabled", "base_url", gwCfg.BaseURL)
	} else {
		log.Info("gateway.disabled.noop")
	}

	paySvc := payments.NewService(log, paymentStore, gateway, []byte(gwCfg.KeySecret))
	payHandler := paymentapi.NewHandler(log, paymentapi.FromEnv(), paySvc, guard)

	return &App{
		cfg:       cfg,
		log:       log,
		store:     st,
		dbClient:  dbClient,
		dbEnabled: dbEnabled,
		auth:      authHandler,
		pay:       payHandler,
	}, nil
}

// Run starts the HTTP server and blocks until context cancellation or fatal server error.
func (a *App) Run(ctx context.Context) error {
	mux := http.NewServeMux()

	registerHTTP(mux, a.log, a.cfg, a.dbClient, a.dbEnabled, a.auth, a.pay)

	srv := &http.Server{
		Addr:              a.cfg.HTTPAddr,
		Handler:           WithRequestLogging(mux, a.log),
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

	// Close store resources (mongo client etc).
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

// newStores decides between Mongo-backed persistence and in-memory dev stores.
func newStores(ctx context.Context, cfg Config, log Logger) (Store, *mongo.Client, bool, identity.Store, payments.Store, error) {
	if cfg.MongoURI == "" {
		log.Info("db.disabled.inmemory_store")
		return nopStore{}, nil, false, identity.NewMemoryStore(), payments.NewMemoryStore(), nil
	}

	client, err := NewMongoClient(ctx, cfg)
	if err != nil {
		return nil, nil, false, nil, nil, err
	}

	log.Info("db.enabled.mongo_store", "database", cfg.MongoDatabase)

	db := client.Database(cfg.MongoDatabase)

	accountStore, err := identity.NewMongoStore(db)
	if err == nil {
		err = accountStore.EnsureIndexes(ctx)
	}
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, nil, false, nil, nil, err
	}

	paymentStore, err := payments.NewMongoStore(db)
	if err == nil {
		err = paymentStore.EnsureIndexes(ctx)
	}
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, nil, false, nil, nil, err
	}

	return dbStore{client: client}, client, true, accountStore, paymentStore, nil
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
