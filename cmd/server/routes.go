package main

import (
	"codeberg.org/pixelmind/server/api/rest/health"
	"codeberg.org/pixelmind/server/api/rest/media"
	"codeberg.org/pixelmind/server/api/rest/usage"
	"codeberg.org/pixelmind/server/api/websocket"
	"codeberg.org/pixelmind/server/internal/ratelimit"
	ws "codeberg.org/pixelmind/server/internal/websocket"
	"github.com/gin-gonic/gin"
)

// sets up all API routes and middleware
func RegisterRoutes(router *gin.Engine, server *Server) error {
	router.Use(CORSMiddleware(server.config))
	router.GET("/health", health.Handler)

	limit, err := ratelimit.Middleware(server.config.RateLimit, server.redis)
	if err != nil {
		return err
	}

	v1 := router.Group("/api/v1")
	v1.Use(limit)

	{
		v1.GET("/ping", health.PingHandler)

		usage.RegisterRoutes(v1, server.ledger, server.history)
		media.RegisterRoutes(v1, server.services.Studio)
		websocket.RegisterRoutes(v1, server.services.Studio, ws.NewOriginChecker(server.config.Environment, server.config.AllowedOrigins))
	}

	return nil
}
