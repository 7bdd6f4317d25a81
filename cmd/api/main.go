package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hydrogen-credit-ledger/config"
	httpHandler "hydrogen-credit-ledger/internal/adapter/http/handler"
	memStorage "hydrogen-credit-ledger/internal/adapter/storage/memory"
	pgStorage "hydrogen-credit-ledger/internal/adapter/storage/postgres"
	redisStorage "hydrogen-credit-ledger/internal/adapter/storage/redis"
	sqliteStorage "hydrogen-credit-ledger/internal/adapter/storage/sqlite"
	"hydrogen-credit-ledger/internal/core/domain"
	"hydrogen-credit-ledger/internal/core/ports"
	"hydrogen-credit-ledger/internal/service"
	"hydrogen-credit-ledger/pkg/logger"

	"github.com/rs/zerolog"
)

// auditMemoryCapacity bounds the in-process audit trail when no database
// is configured.
const auditMemoryCapacity = 10000

// backend is the persistence selected by ledger.store.
type backend struct {
	store   ports.LedgerStore
	audit   ports.AuditRepository
	checks  []ports.HealthChecker
	closeFn func()
}

func main() {
	// Load configuration
	cfg, err := config.Load(os.Getenv("HCL_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)

	log.Info().
		Str("mode", cfg.Server.Mode).
		Str("store", cfg.Ledger.Store).
		Int("port", cfg.Server.Port).
		Msg("Starting Hydrogen Credit Ledger")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	be, err := openBackend(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Str("store", cfg.Ledger.Store).Msg("Failed to open ledger store")
	}
	defer be.closeFn()

	// Redis carries snapshots, the event channel, and rate limit counters.
	var (
		snapshots      ports.SnapshotStore
		rateLimitStore ports.RateLimitStore
		sinks          []ports.EventPublisher
	)
	if cfg.Redis.Enabled {
		rdb, err := redisStorage.NewClient(ctx, cfg.Redis, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to Redis")
		}
		defer rdb.Close()

		snapshots = redisStorage.NewSnapshotStore(rdb, cfg.Ledger.SnapshotKey)
		sinks = append(sinks, redisStorage.NewEventPublisher(rdb, cfg.Events.RedisChannel))
		if cfg.RateLimit.Enabled {
			rateLimitStore = redisStorage.NewRateLimitStore(rdb)
		}
		be.checks = append(be.checks, redisStorage.NewHealthCheck(rdb))
	}

	sigSvc := service.NewHMACSignatureService()
	if cfg.Events.WebhookURL != "" {
		sinks = append(sinks, service.NewWebhookPublisher(
			cfg.Events.WebhookURL,
			cfg.Events.WebhookSecret,
			sigSvc,
			&http.Client{Timeout: 10 * time.Second},
			service.DefaultWebhookRetryIntervals,
			logger.Component(log, "webhook"),
		))
	}

	dispatcher := service.NewEventDispatcher(cfg.Events.BufferSize, logger.Component(log, "events"), sinks...)
	dispatcher.Start(context.WithoutCancel(ctx))

	// Rebuild state from the latest snapshot plus the log tail.
	ledger := service.NewLedger(be.store, dispatcher, logger.Component(log, "ledger"))
	if err := ledger.Restore(ctx, snapshots, domain.Identity(cfg.Ledger.Admin)); err != nil {
		log.Fatal().Err(err).Msg("Failed to restore ledger")
	}

	snapshotDone := make(chan struct{})
	if snapshots != nil {
		snapshotter := service.NewSnapshotter(ledger, snapshots, cfg.Ledger.SnapshotInterval, logger.Component(log, "snapshot"))
		go func() {
			defer close(snapshotDone)
			snapshotter.Run(ctx)
		}()
	} else {
		close(snapshotDone)
	}

	txlog := ledger.TransactionLog()
	tokenSvc := service.NewJWTTokenService(cfg.JWT.Secret, cfg.JWT.Expiry, cfg.JWT.Issuer)
	reportingSvc := service.NewReportingService(ledger, txlog, log)
	auditSvc := service.NewAuditService(be.audit, logger.Component(log, "audit"))

	// Swagger UI is served only when the OpenAPI document is found.
	openAPISpec, err := os.ReadFile("docs/api/openapi.yaml")
	if err != nil {
		log.Warn().Err(err).Msg("OpenAPI document not found, /swagger disabled")
	}

	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		Ledger:         ledger,
		TxLog:          txlog,
		ReportingSvc:   reportingSvc,
		TokenSvc:       tokenSvc,
		RateLimitStore: rateLimitStore,
		HealthCheckers: be.checks,
		AuditSvc:       auditSvc,
		OpenAPISpec:    openAPISpec,
		Logger:         log,
	})

	// HTTP Server with graceful shutdown
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	// No more commits can happen: take the final snapshot, then drain events.
	<-snapshotDone
	dispatcher.Stop()

	log.Info().Msg("Server exited")
}

// openBackend opens the ledger store named by cfg.Ledger.Store.
func openBackend(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*backend, error) {
	switch cfg.Ledger.Store {
	case config.StorePostgres:
		pool, err := pgStorage.NewPool(ctx, cfg.Database, log)
		if err != nil {
			return nil, err
		}
		if err := pgStorage.EnsureSchema(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
		store := pgStorage.NewLedgerStore(pool)
		return &backend{
			store:   store,
			audit:   pgStorage.NewAuditRepo(pool),
			checks:  []ports.HealthChecker{store},
			closeFn: pool.Close,
		}, nil

	case config.StoreSQLite:
		store, err := sqliteStorage.Open(cfg.Ledger.SQLitePath)
		if err != nil {
			return nil, err
		}
		log.Info().Str("path", cfg.Ledger.SQLitePath).Msg("SQLite ledger store opened")
		return &backend{
			store:  store,
			audit:  memStorage.NewAuditRepo(auditMemoryCapacity),
			checks: []ports.HealthChecker{store},
			closeFn: func() {
				if err := store.Close(); err != nil {
					log.Warn().Err(err).Msg("closing SQLite store")
				}
			},
		}, nil

	default:
		log.Warn().Msg("In-memory ledger store: state is lost on restart")
		return &backend{
			store:   memStorage.NewLedgerStore(),
			audit:   memStorage.NewAuditRepo(auditMemoryCapacity),
			closeFn: func() {},
		}, nil
	}
}
