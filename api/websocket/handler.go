package websocket

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"codeberg.org/pixelmind/server/api/rest/media"
	"codeberg.org/pixelmind/server/internal/auth"
	apierrors "codeberg.org/pixelmind/server/internal/errors"
	"codeberg.org/pixelmind/server/internal/logger"
	"codeberg.org/pixelmind/server/internal/studio"
	ws "codeberg.org/pixelmind/server/internal/websocket"
)

// streams an image animation over a websocket: the client sends one
// "animate" message, the server answers with "progress" messages and a
// final "result" or "error" before closing.
func AnimationHandler(svc media.Studio, checkOrigin ws.OriginChecker) gin.HandlerFunc {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     checkOrigin,
	}

	return func(c *gin.Context) {
		var params ConnectParams
		if err := c.ShouldBindQuery(&params); err != nil {
			apierrors.Unauthorized(c, "token query parameter required")
			return
		}

		claims, err := auth.ValidateJWT(params.Token)
		if err != nil {
			apierrors.Unauthorized(c, "invalid or expired token")
			return
		}

		userID := claims.UserID

		// upgrade HTTP connection to WebSocket
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logger.ErrorErr(err, "failed to upgrade connection",
				"user_id", userID,
				"ip", c.ClientIP(),
			)
			return
		}

		stream := ws.NewStream(uuid.NewString(), userID, conn)
		go stream.WritePump()
		defer stream.Close()

		var req studio.AnimationConfig
		if err := stream.ReadRequest(ws.TypeAnimate, &req); err != nil {
			logger.Warn("invalid animation request", "stream_id", stream.ID, "user_id", userID, "error", err)
			stream.Send(ws.TypeError, apierrors.ErrorResponse{ //nolint:errcheck,gosec // G104: best effort error notification
				Error:   apierrors.CodeBadRequest,
				Message: "expected an animate message with the animation settings",
			})
			return
		}

		// the job stops when the client disconnects
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		go stream.ReadPump(cancel)

		result, err := svc.AnimateImage(ctx, userID, req, stream.SendProgress)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				logger.Info("client left before animation finished", "stream_id", stream.ID, "user_id", userID)
				return
			}

			status, body := apierrors.DescribeMediaError(err)
			if status >= 500 {
				logger.ErrorErr(err, "animation failed", "stream_id", stream.ID, "user_id", userID)
			}

			stream.Send(ws.TypeError, body) //nolint:errcheck,gosec // G104: best effort error notification
			return
		}

		if err := stream.Send(ws.TypeResult, result); err != nil {
			logger.Warn("failed to deliver animation result", "stream_id", stream.ID, "user_id", userID, "error", err)
			return
		}

		logger.Info("video generated", "stream_id", stream.ID, "user_id", userID, "remaining", result.Quota.Remaining)
	}
}
