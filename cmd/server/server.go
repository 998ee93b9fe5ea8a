package main

import (
	"context"
	"fmt"
	"time"

	"codeberg.org/pixelmind/server/internal/config"
	"codeberg.org/pixelmind/server/internal/logger"
	"codeberg.org/pixelmind/server/internal/quota"
	"codeberg.org/pixelmind/server/internal/usagelog"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// creates and configures a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	ctx := context.Background()

	var (
		db          *pgxpool.Pool
		redisClient *redis.Client
		err         error
	)

	if cfg.HasDatabase() {
		db, err = connectDatabase(ctx, cfg.SupabaseConnString)
		if err != nil {
			return nil, err
		}
	}

	if cfg.RedisURL != "" {
		redisClient, err = connectRedis(ctx, cfg.RedisURL)
		if err != nil {
			closeDatabase(db)
			return nil, err
		}
	}

	var store quota.Store

	switch cfg.QuotaStore {
	case config.StoreRedis:
		store = quota.NewRedisStore(redisClient)
	case config.StoreMemory:
		logger.Warn("using in-memory quota store, usage resets on restart")
		store = quota.NewMemoryStore()
	default:
		store = quota.NewPostgresStore(db)
	}

	ledger := quota.NewLedger(store, quota.Limits{
		quota.ResourceImage: cfg.ImageDailyLimit,
		quota.ResourceVideo: cfg.VideoDailyLimit,
	})

	// usage events go to postgres when there is one; otherwise they only live in memory
	var sink usagelog.Sink
	if db != nil {
		sink = usagelog.NewPostgresSink(db)
	} else {
		logger.Warn("no database configured, usage events are kept in memory")
		sink = usagelog.NewMemorySink()
	}

	recorder := usagelog.NewRecorder(sink)

	var history usagelog.HistoryReader
	if reader, ok := recorder.History(); ok {
		history = reader
	}

	logger.Info("quota ledger initialized",
		"store", cfg.QuotaStore,
		"image_limit", cfg.ImageDailyLimit,
		"video_limit", cfg.VideoDailyLimit,
	)

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	server := &Server{
		db:       db,
		redis:    redisClient,
		config:   cfg,
		ledger:   ledger,
		recorder: recorder,
		history:  history,
		services: InitializeServices(cfg, ledger, recorder),
		router:   gin.Default(),
	}

	if err := RegisterRoutes(server.router, server); err != nil {
		server.Close()
		return nil, fmt.Errorf("failed to register routes: %w", err)
	}

	return server, nil
}

// releases database and redis connections
func (s *Server) Close() {
	if s.redis != nil {
		s.redis.Close() //nolint:errcheck,gosec // best-effort cleanup on shutdown
	}

	closeDatabase(s.db)
}

func connectDatabase(ctx context.Context, connString string) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	// supabase pooler has few connections; keep our pool small
	poolConfig.MaxConns = 5
	poolConfig.MinConns = 1
	poolConfig.MaxConnLifetime = 30 * time.Minute
	poolConfig.MaxConnIdleTime = 5 * time.Minute
	poolConfig.HealthCheckPeriod = 1 * time.Minute

	// pgBouncer in transaction mode doesn't support prepared statements
	poolConfig.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol

	db, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create database pool: %w", err)
	}

	if err := db.Ping(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("connected to postgres")

	return db, nil
}

func connectRedis(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close() //nolint:errcheck,gosec // best-effort cleanup on init failure
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	logger.Info("connected to redis")

	return client, nil
}

func closeDatabase(db *pgxpool.Pool) {
	if db != nil {
		db.Close()
	}
}
