package config

import (
	"flag"
	"os"
	"time"
)

// options for the terminal quota viewer
type ViewerFlags struct {
	Endpoint string
	Token    string
	Refresh  time.Duration
}

// parses CLI flags for the quota viewer; env vars provide the defaults
func ParseViewerFlags(args []string) ViewerFlags {
	defaults := DefaultViewerFlags()

	fs := flag.NewFlagSet("pixelmind-tui", flag.ExitOnError)
	endpoint := fs.String("endpoint", defaults.Endpoint, "base URL of the pixelmind API")
	token := fs.String("token", defaults.Token, "bearer token (defaults to $PIXELMIND_TOKEN)")
	refresh := fs.Duration("refresh", defaults.Refresh, "how often to refresh usage")
	fs.Parse(args) //nolint:errcheck,gosec // G104: ExitOnError flag set handles errors

	return ViewerFlags{Endpoint: *endpoint, Token: *token, Refresh: *refresh}
}

// returns viewer defaults from the environment
func DefaultViewerFlags() ViewerFlags {
	endpoint := os.Getenv("PIXELMIND_API_ENDPOINT")
	if endpoint == "" {
		endpoint = "http://localhost:8080"
	}

	return ViewerFlags{
		Endpoint: endpoint,
		Token:    os.Getenv("PIXELMIND_TOKEN"),
		Refresh:  30 * time.Second,
	}
}
