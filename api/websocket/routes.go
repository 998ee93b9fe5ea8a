package websocket

import (
	"github.com/gin-gonic/gin"

	"codeberg.org/pixelmind/server/api/rest/media"
	ws "codeberg.org/pixelmind/server/internal/websocket"
)

func RegisterRoutes(router *gin.RouterGroup, svc media.Studio, checkOrigin ws.OriginChecker) {
	router.GET("/videos/animate/ws", AnimationHandler(svc, checkOrigin))
}
