package websocket

import (
	"net/http"
	"slices"

	"codeberg.org/pixelmind/server/internal/logger"
)

// returns an origin check for the upgrader: everything is allowed outside
// production, production only accepts the configured origins
func NewOriginChecker(environment string, allowedOrigins []string) OriginChecker {
	production := environment == "production"

	return func(r *http.Request) bool {
		if !production {
			return true
		}

		origin := r.Header.Get("Origin")
		if origin == "" {
			logger.Warn("websocket connection with no origin header")
			return false
		}

		if len(allowedOrigins) == 0 {
			logger.Warn("websocket origin rejected - ALLOWED_ORIGINS not configured",
				"origin", origin,
			)
			return false
		}

		if slices.Contains(allowedOrigins, origin) {
			return true
		}

		logger.Warn("websocket origin rejected - not in allowed origins",
			"origin", origin,
			"allowed_origins", allowedOrigins,
		)

		return false
	}
}

// decides whether an upgrade request's origin is acceptable
type OriginChecker = func(r *http.Request) bool
