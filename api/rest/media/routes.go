package media

import (
	"codeberg.org/pixelmind/server/internal/auth"
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(rg *gin.RouterGroup, svc Studio) {
	images := rg.Group("/images")
	images.Use(auth.AuthMiddleware())
	images.POST("/generate", GenerateImage(svc))
	images.POST("/enhance", EnhanceImage(svc))

	videos := rg.Group("/videos")
	videos.Use(auth.AuthMiddleware())
	videos.POST("/animate", AnimateImage(svc))
}
