package cmd

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/postan/postan-api/internal/config"
	"github.com/postan/postan-api/internal/media"
	"github.com/postan/postan-api/internal/server"
	"github.com/postan/postan-api/internal/sessions"
	"github.com/postan/postan-api/internal/store"
	"github.com/postan/postan-api/pkg/logger"
	"github.com/postan/postan-api/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Runs the HTTP API. Documents live in MongoDB when MONGODB_URI is set
and in memory otherwise. Refresh sessions prefer Redis, then MongoDB.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	metrics.RegisterCollectors(prometheus.DefaultRegisterer)
	checks := map[string]server.Check{}

	rdb := connectRedis(ctx, cfg)
	if rdb != nil {
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
		defer rdb.Close()
	}

	db, err := connectMongoWithRetry(ctx, cfg)
	if err != nil {
		return err
	}

	registry := store.DefaultRegistry(cfg.Validation.AtomicRelationshipUniqueness)
	var docs store.Store
	var sessionRepo sessions.Repository
	if db != nil {
		defer func() { _ = db.Client().Disconnect(context.Background()) }()
		ms := store.NewMongoStore(db, registry)
		if err := ms.EnsureIndexes(ctx); err != nil {
			return err
		}
		docs = ms
		mongoSessions := sessions.NewMongoRepository(db.Collection("sessions"))
		if err := mongoSessions.EnsureIndexes(ctx); err != nil {
			return err
		}
		sessionRepo = mongoSessions
		checks["mongo"] = func(ctx context.Context) error { return db.Client().Ping(ctx, readpref.Primary()) }
	} else {
		docs = store.NewMemoryStore(registry)
		sessionRepo = sessions.NewMemoryRepository()
	}
	if rdb != nil {
		sessionRepo = sessions.NewRedisRepository(rdb, "session:")
		logger.Infof("using Redis for session storage")
	}

	deps := server.Deps{
		Store:    store.Instrument(docs),
		Sessions: sessions.NewService(sessionRepo),
		Redis:    rdb,
		Ready:    checks,
	}
	if rdb != nil {
		deps.Revocations = sessions.NewRevocations(rdb)
	}
	if cfg.MinIO.Endpoint != "" {
		objects, err := media.NewMinIOStore(ctx, cfg.MinIO)
		if err != nil {
			logger.Warnf("media uploads disabled: %v", err)
		} else {
			deps.Media = objects
		}
	}

	srv := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, cfg.Server.Port),
		Handler:      server.NewRouter(cfg, deps),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	errc := make(chan error, 1)
	go func() {
		logger.Infof("starting postan API on %s", srv.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			printError("server failed", err)
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Infof("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// connectRedis returns nil when Redis is not configured or unreachable.
func connectRedis(ctx context.Context, cfg *config.Config) *redis.Client {
	addr := cfg.Redis.Addr()
	if addr == "" {
		return nil
	}
	c := redis.NewClient(&redis.Options{Addr: addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
	if err := c.Ping(ctx).Err(); err != nil {
		logger.Warnf("failed to connect to Redis (%s): %v", addr, err)
		_ = c.Close()
		return nil
	}
	logger.Infof("connected to Redis at %s", addr)
	return c
}

// connectMongoWithRetry tolerates the database starting after the API.
func connectMongoWithRetry(ctx context.Context, cfg *config.Config) (*mongo.Database, error) {
	const maxAttempts = 5
	backoff := time.Second
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		db, err := connectMongo(ctx, cfg)
		if err == nil {
			return db, nil
		}
		lastErr = err
		logger.Warnf("attempt %d/%d: failed to connect to MongoDB: %v", attempt, maxAttempts, err)
		if attempt < maxAttempts {
			select {
			case <-time.After(backoff):
				backoff *= 2
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}
	return nil, lastErr
}
