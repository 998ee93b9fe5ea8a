package errors

import (
	"context"
	"errors"
	"net/http"

	"codeberg.org/pixelmind/server/internal/genai"
	"codeberg.org/pixelmind/server/internal/logger"
	"codeberg.org/pixelmind/server/internal/quota"
	"codeberg.org/pixelmind/server/internal/studio"
	"github.com/gin-gonic/gin"
)

// status code used when the client went away mid-request (nginx convention)
const StatusClientClosedRequest = 499

// maps a failed media action to an HTTP status and response body.
// shared by REST handlers and the websocket stream.
func DescribeMediaError(err error) (int, any) {
	var exceeded *quota.ExceededError
	if errors.As(err, &exceeded) {
		return http.StatusTooManyRequests, QuotaErrorResponse{
			ErrorResponse: ErrorResponse{Error: CodeQuotaExceeded, Message: exceeded.Error()},
			Resource:      string(exceeded.Resource),
			Limit:         exceeded.Limit,
		}
	}

	if errors.Is(err, studio.ErrInvalidRequest) {
		return http.StatusBadRequest, ErrorResponse{Error: CodeValidationError, Message: err.Error()}
	}

	if errors.Is(err, context.Canceled) {
		return StatusClientClosedRequest, ErrorResponse{Error: CodeBadRequest, Message: "request canceled"}
	}

	if errors.Is(err, genai.ErrModelNotFound) {
		return http.StatusBadGateway, ErrorResponse{
			Error:   CodeUpstreamError,
			Message: "the configured API key has no access to this model",
			Details: sanitizeError(err),
		}
	}

	if errors.Is(err, genai.ErrNoMedia) {
		return http.StatusBadGateway, ErrorResponse{
			Error:   CodeUpstreamError,
			Message: "the model did not return any media, try rephrasing the prompt",
		}
	}

	return http.StatusBadGateway, ErrorResponse{
		Error:   CodeUpstreamError,
		Message: "media generation failed",
		Details: sanitizeError(err),
	}
}

// writes the response for a failed media action
func MediaFailure(c *gin.Context, err error) {
	status, body := DescribeMediaError(err)

	if status >= http.StatusInternalServerError {
		logger.ErrorErr(err, "media action failed",
			"path", c.Request.URL.Path,
			"user_id", c.GetString("user_id"),
		)
	}

	c.JSON(status, body)
}
