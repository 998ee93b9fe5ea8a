package media

import (
	"context"
	"net/http"

	"codeberg.org/pixelmind/server/internal/errors"
	"codeberg.org/pixelmind/server/internal/logger"
	"codeberg.org/pixelmind/server/internal/studio"
	"github.com/gin-gonic/gin"
)

// implemented by *studio.Service
type Studio interface {
	GenerateImage(ctx context.Context, userID string, cfg studio.GenerationConfig) (*studio.Result, error)
	EnhanceImage(ctx context.Context, userID string, cfg studio.EnhancementConfig) (*studio.Result, error)
	AnimateImage(ctx context.Context, userID string, cfg studio.AnimationConfig, progress studio.ProgressFunc) (*studio.Result, error)
}

// GenerateImage godoc
// @Summary Generate an image
// @Description Generates one image from a prompt and style. Counts against the daily image quota.
// @Tags images
// @Accept json
// @Produce json
// @Param request body GenerateRequest true "Generation settings"
// @Success 200 {object} MediaResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 429 {object} errors.QuotaErrorResponse
// @Failure 502 {object} errors.ErrorResponse
// @Router /api/v1/images/generate [post]
// @Security BearerAuth
func GenerateImage(svc Studio) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")

		var req GenerateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			errors.ValidationError(c, err)
			return
		}

		result, err := svc.GenerateImage(c.Request.Context(), userID, req)
		if err != nil {
			errors.MediaFailure(c, err)
			return
		}

		logger.Info("image generated", "user_id", userID, "style", req.Style, "remaining", result.Quota.Remaining)
		c.JSON(http.StatusOK, result)
	}
}

// EnhanceImage godoc
// @Summary Enhance a photo
// @Description Applies the selected enhancements to an uploaded image. Shares the daily image quota with generation.
// @Tags images
// @Accept json
// @Produce json
// @Param request body EnhanceRequest true "Image and enhancement options"
// @Success 200 {object} MediaResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 429 {object} errors.QuotaErrorResponse
// @Failure 502 {object} errors.ErrorResponse
// @Router /api/v1/images/enhance [post]
// @Security BearerAuth
func EnhanceImage(svc Studio) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")

		var req EnhanceRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			errors.ValidationError(c, err)
			return
		}

		result, err := svc.EnhanceImage(c.Request.Context(), userID, req)
		if err != nil {
			errors.MediaFailure(c, err)
			return
		}

		logger.Info("image enhanced", "user_id", userID, "remaining", result.Quota.Remaining)
		c.JSON(http.StatusOK, result)
	}
}

// AnimateImage godoc
// @Summary Animate an image into a short video
// @Description Blocks until the video is rendered, which can take minutes. Use the websocket endpoint for progress updates. Counts against the daily video quota.
// @Tags videos
// @Accept json
// @Produce json
// @Param request body AnimateRequest true "Image and animation settings"
// @Success 200 {object} MediaResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 429 {object} errors.QuotaErrorResponse
// @Failure 502 {object} errors.ErrorResponse
// @Router /api/v1/videos/animate [post]
// @Security BearerAuth
func AnimateImage(svc Studio) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")

		var req AnimateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			errors.ValidationError(c, err)
			return
		}

		result, err := svc.AnimateImage(c.Request.Context(), userID, req, func(msg string) {
			logger.Debug("animation progress", "user_id", userID, "message", msg)
		})
		if err != nil {
			errors.MediaFailure(c, err)
			return
		}

		logger.Info("video generated", "user_id", userID, "remaining", result.Quota.Remaining)
		c.JSON(http.StatusOK, result)
	}
}
