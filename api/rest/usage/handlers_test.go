package usage

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"codeberg.org/pixelmind/server/internal/auth"
	"codeberg.org/pixelmind/server/internal/quota"
	"codeberg.org/pixelmind/server/internal/usagelog"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingHistory struct{}

func (failingHistory) History(context.Context, string, int) ([]usagelog.DailyUsage, error) {
	return nil, errors.New("relation usage_events does not exist")
}

type recordingHistory struct {
	days int
}

func (h *recordingHistory) History(_ context.Context, _ string, days int) ([]usagelog.DailyUsage, error) {
	h.days = days
	return []usagelog.DailyUsage{{Date: "2026-10-18", Action: usagelog.ActionImageGeneration, Count: 3}}, nil
}

func setup(t *testing.T, history usagelog.HistoryReader) (*gin.Engine, *quota.Ledger, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	t.Setenv("JWT_SECRET", "test-secret")

	now := time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)
	ledger := quota.NewLedger(quota.NewMemoryStore(), nil, quota.WithClock(func() time.Time { return now }))

	r := gin.New()
	RegisterRoutes(r.Group("/api/v1"), ledger, history)

	token, err := auth.GenerateJWT("u1", "u1@example.com")
	require.NoError(t, err)

	return r, ledger, token
}

func get(r *gin.Engine, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestGetUsage(t *testing.T) {
	r, ledger, token := setup(t, nil)
	ctx := context.Background()

	ledger.Increment(ctx, "u1", quota.ResourceImage)
	ledger.Increment(ctx, "u1", quota.ResourceImage)
	ledger.Increment(ctx, "u1", quota.ResourceVideo)

	w := get(r, "/api/v1/usage", token)
	require.Equal(t, http.StatusOK, w.Code)

	var resp UsageResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Equal(t, "2026-10-18", resp.Date)
	assert.Equal(t, quota.Status{Resource: quota.ResourceImage, Allowed: true, Used: 2, Limit: 50, Remaining: 48}, resp.Image)
	assert.Equal(t, quota.Status{Resource: quota.ResourceVideo, Allowed: true, Used: 1, Limit: 10, Remaining: 9}, resp.Video)
}

func TestGetUsage_Unauthenticated(t *testing.T) {
	r, _, _ := setup(t, nil)

	w := get(r, "/api/v1/usage", "")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGetHistory(t *testing.T) {
	history := &recordingHistory{}
	r, _, token := setup(t, history)

	w := get(r, "/api/v1/usage/history?days=7", token)
	require.Equal(t, http.StatusOK, w.Code)

	var resp HistoryResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 7, resp.Days)
	assert.Equal(t, 7, history.days)
	require.Len(t, resp.History, 1)
	assert.Equal(t, 3, resp.History[0].Count)
}

func TestGetHistory_DefaultsAndBounds(t *testing.T) {
	history := &recordingHistory{}
	r, _, token := setup(t, history)

	w := get(r, "/api/v1/usage/history", token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 30, history.days)

	for _, bad := range []string{"0", "91", "abc", "-3"} {
		w := get(r, "/api/v1/usage/history?days="+bad, token)
		assert.Equal(t, http.StatusBadRequest, w.Code, "days=%s", bad)
	}
}

func TestGetHistory_NoEventLog(t *testing.T) {
	r, _, token := setup(t, nil)

	w := get(r, "/api/v1/usage/history", token)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"days":30,"history":[]}`, w.Body.String())
}

func TestGetHistory_ReaderFailure(t *testing.T) {
	r, _, token := setup(t, failingHistory{})

	w := get(r, "/api/v1/usage/history", token)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
