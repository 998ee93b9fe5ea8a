package usage

import (
	"context"
	"net/http"
	"strconv"

	"codeberg.org/pixelmind/server/internal/errors"
	"codeberg.org/pixelmind/server/internal/quota"
	"codeberg.org/pixelmind/server/internal/usagelog"
	"github.com/gin-gonic/gin"
)

const (
	defaultHistoryDays = 30
	maxHistoryDays     = 90
)

// implemented by *quota.Ledger
type QuotaReader interface {
	Summary(ctx context.Context, userID string) map[quota.ResourceType]quota.Status
	Today() string
}

// GetUsage godoc
// @Summary Get today's quota usage
// @Description Returns used, limit and remaining counts for images and videos for the current UTC day
// @Tags usage
// @Produce json
// @Success 200 {object} UsageResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /api/v1/usage [get]
// @Security BearerAuth
func GetUsage(ledger QuotaReader) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")

		if userID == "" {
			errors.Unauthorized(c, "user not authenticated")
			return
		}

		summary := ledger.Summary(c.Request.Context(), userID)

		c.JSON(http.StatusOK, UsageResponse{
			Date:  ledger.Today(),
			Image: summary[quota.ResourceImage],
			Video: summary[quota.ResourceVideo],
		})
	}
}

// GetHistory godoc
// @Summary Get usage history
// @Description Returns per-day counts of each billable action, newest first
// @Tags usage
// @Produce json
// @Param days query int false "Days of history (1-90, default 30)"
// @Success 200 {object} HistoryResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /api/v1/usage/history [get]
// @Security BearerAuth
func GetHistory(reader usagelog.HistoryReader) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")

		if userID == "" {
			errors.Unauthorized(c, "user not authenticated")
			return
		}

		days := defaultHistoryDays

		if raw := c.Query("days"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 1 || n > maxHistoryDays {
				errors.BadRequest(c, "days must be between 1 and 90", nil)
				return
			}
			days = n
		}

		history := []usagelog.DailyUsage{}

		if reader != nil {
			rows, err := reader.History(c.Request.Context(), userID, days)
			if err != nil {
				errors.InternalError(c, "failed to fetch usage history", err)
				return
			}

			if rows != nil {
				history = rows
			}
		}

		c.JSON(http.StatusOK, HistoryResponse{Days: days, History: history})
	}
}
