package main

import (
	"codeberg.org/pixelmind/server/internal/config"
	"codeberg.org/pixelmind/server/internal/gate"
	"codeberg.org/pixelmind/server/internal/quota"
	"codeberg.org/pixelmind/server/internal/studio"
	"codeberg.org/pixelmind/server/internal/usagelog"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// holds all dependencies and state for the API server
type Server struct {
	db       *pgxpool.Pool // nil when no database is configured
	redis    *redis.Client // nil when REDIS_URL is unset
	config   *config.Config
	ledger   *quota.Ledger
	recorder *usagelog.Recorder
	history  usagelog.HistoryReader
	services *Services
	router   *gin.Engine
}

// holds the metered services
type Services struct {
	Gate   *gate.Gate
	Studio *studio.Service
}
