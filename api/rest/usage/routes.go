package usage

import (
	"codeberg.org/pixelmind/server/internal/auth"
	"codeberg.org/pixelmind/server/internal/usagelog"
	"github.com/gin-gonic/gin"
)

// history may be nil when no event log is configured
func RegisterRoutes(rg *gin.RouterGroup, ledger QuotaReader, history usagelog.HistoryReader) {
	usage := rg.Group("/usage")
	usage.Use(auth.AuthMiddleware())

	usage.GET("", GetUsage(ledger))
	usage.GET("/history", GetHistory(history))
}
