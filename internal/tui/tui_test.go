package tui

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"codeberg.org/pixelmind/server/internal/config"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func usageServer(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/usage", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer good-token" {
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(apiErrorResponse{Error: "unauthorized", Message: "invalid token"})
			return
		}

		_ = json.NewEncoder(w).Encode(Usage{
			Date:  "2026-10-18",
			Image: ResourceStatus{Resource: "image", Allowed: true, Used: 12, Limit: 50, Remaining: 38},
			Video: ResourceStatus{Resource: "video", Allowed: false, Used: 10, Limit: 10, Remaining: 0},
		})
	})
	mux.HandleFunc("/api/v1/usage/history", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "7", r.URL.Query().Get("days"))

		_ = json.NewEncoder(w).Encode(historyResponse{Days: 7, History: []DailyUsage{
			{Date: "2026-10-17", Action: "image_generation", Count: 4},
			{Date: "2026-10-18", Action: "video_generation", Count: 10},
		}})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	return srv
}

func TestUsageClient_Usage(t *testing.T) {
	srv := usageServer(t)
	client := NewUsageClient(srv.URL+"/", "good-token")

	usage, err := client.Usage(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "2026-10-18", usage.Date)
	assert.Equal(t, 38, usage.Image.Remaining)
	assert.False(t, usage.Video.Allowed)
}

func TestUsageClient_ErrorResponse(t *testing.T) {
	srv := usageServer(t)
	client := NewUsageClient(srv.URL, "bad-token")

	_, err := client.Usage(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unauthorized: invalid token")
}

func TestUsageClient_FetchCmd(t *testing.T) {
	srv := usageServer(t)
	client := NewUsageClient(srv.URL, "good-token")

	msg := client.FetchCmd()()

	usageMsg, ok := msg.(UsageMsg)
	require.True(t, ok)
	assert.Equal(t, 12, usageMsg.Usage.Image.Used)
	assert.Len(t, usageMsg.History, 2)
}

func TestModel_RendersUsage(t *testing.T) {
	m := NewApp(config.ViewerFlags{Endpoint: "http://localhost:0", Token: "t", Refresh: time.Minute})
	m.now = func() time.Time { return time.Date(2026, 10, 18, 22, 30, 0, 0, time.UTC) }

	_, cmd := m.Update(UsageMsg{
		Usage: Usage{
			Date:  "2026-10-18",
			Image: ResourceStatus{Allowed: true, Used: 12, Limit: 50, Remaining: 38},
			Video: ResourceStatus{Allowed: false, Used: 10, Limit: 10},
		},
		History: []DailyUsage{{Date: "2026-10-18", Action: "image_enhancement", Count: 3}},
	})

	assert.NotNil(t, cmd)
	assert.False(t, m.loading)

	view := m.View()
	assert.Contains(t, view, "12 / 50")
	assert.Contains(t, view, "(38 left)")
	assert.Contains(t, view, "limit reached")
	assert.Contains(t, view, "resets in 1h30m")
	assert.Contains(t, view, "enhanced 3")
}

func TestModel_ErrorKeepsLastUsage(t *testing.T) {
	m := NewApp(config.ViewerFlags{Endpoint: "http://localhost:0", Token: "t", Refresh: time.Minute})

	m.Update(UsageMsg{Usage: Usage{Date: "2026-10-18", Image: ResourceStatus{Allowed: true, Used: 1, Limit: 50}}})
	m.Update(ErrorMsg{err: assert.AnError})

	view := m.View()
	assert.Contains(t, view, "1 / 50")
	assert.Contains(t, view, assert.AnError.Error())
}

func TestModel_Quit(t *testing.T) {
	m := NewApp(config.ViewerFlags{Endpoint: "http://localhost:0", Token: "t"})

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})

	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestUsageRatio(t *testing.T) {
	assert.InDelta(t, 0.24, usageRatio(ResourceStatus{Used: 12, Limit: 50}), 0.001)
	assert.Equal(t, 1.0, usageRatio(ResourceStatus{Used: 60, Limit: 50}))
	assert.Equal(t, 1.0, usageRatio(ResourceStatus{Used: 0, Limit: 0}))
}

func TestUntilReset(t *testing.T) {
	now := time.Date(2026, 10, 18, 23, 59, 0, 0, time.UTC)

	assert.Equal(t, time.Minute, untilReset(now))
	assert.Equal(t, "0h01m", formatCountdown(untilReset(now)))
}
