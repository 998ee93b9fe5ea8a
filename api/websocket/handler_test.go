package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/pixelmind/server/internal/auth"
	"codeberg.org/pixelmind/server/internal/quota"
	"codeberg.org/pixelmind/server/internal/studio"
	ws "codeberg.org/pixelmind/server/internal/websocket"
)

type fakeStudio struct {
	mu  sync.Mutex
	err error
	got studio.AnimationConfig
}

func (s *fakeStudio) lastRequest() studio.AnimationConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.got
}

func (s *fakeStudio) GenerateImage(context.Context, string, studio.GenerationConfig) (*studio.Result, error) {
	return nil, nil
}

func (s *fakeStudio) EnhanceImage(context.Context, string, studio.EnhancementConfig) (*studio.Result, error) {
	return nil, nil
}

func (s *fakeStudio) AnimateImage(_ context.Context, _ string, cfg studio.AnimationConfig, progress studio.ProgressFunc) (*studio.Result, error) {
	s.mu.Lock()
	s.got = cfg
	s.mu.Unlock()
	progress("generating your animation...")
	progress("downloading final video...")

	if s.err != nil {
		return nil, s.err
	}

	return &studio.Result{
		DataURL:  "data:video/mp4;base64,AAAA",
		MimeType: "video/mp4",
		Quota:    quota.Status{Resource: quota.ResourceVideo, Allowed: true, Used: 1, Limit: 10, Remaining: 9},
	}, nil
}

func startServer(t *testing.T, svc *fakeStudio) string {
	t.Helper()
	gin.SetMode(gin.TestMode)
	t.Setenv("JWT_SECRET", "test-secret")

	r := gin.New()
	RegisterRoutes(r.Group("/api/v1"), svc, ws.NewOriginChecker("development", nil))

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	return "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/v1/videos/animate/ws"
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()

	token, err := auth.GenerateJWT("u1", "u1@example.com")
	require.NoError(t, err)

	conn, resp, err := websocket.DefaultDialer.Dial(url+"?token="+token, nil)
	require.NoError(t, err)
	resp.Body.Close() //nolint:errcheck,gosec
	t.Cleanup(func() { conn.Close() }) //nolint:errcheck,gosec

	return conn
}

func readAll(t *testing.T, conn *websocket.Conn) []ws.Message {
	t.Helper()

	var msgs []ws.Message
	conn.SetReadDeadline(time.Now().Add(5 * time.Second)) //nolint:errcheck,gosec

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return msgs
		}

		var msg ws.Message
		require.NoError(t, json.Unmarshal(raw, &msg))
		msgs = append(msgs, msg)
	}
}

func sendAnimate(t *testing.T, conn *websocket.Conn, payload any) {
	t.Helper()

	msg, err := ws.NewMessage(ws.TypeAnimate, payload)
	require.NoError(t, err)
	require.NoError(t, conn.WriteJSON(msg))
}

func TestAnimationHandler_StreamsProgressAndResult(t *testing.T) {
	svc := &fakeStudio{}
	conn := dial(t, startServer(t, svc))

	sendAnimate(t, conn, map[string]any{"image": "AAAA", "prompt": "waves", "duration": 3})
	msgs := readAll(t, conn)

	require.Len(t, msgs, 3)
	assert.Equal(t, ws.TypeProgress, msgs[0].Type)
	assert.Equal(t, ws.TypeProgress, msgs[1].Type)
	assert.Equal(t, ws.TypeResult, msgs[2].Type)

	var progress ws.ProgressPayload
	require.NoError(t, json.Unmarshal(msgs[0].Payload, &progress))
	assert.Equal(t, "generating your animation...", progress.Message)

	var result studio.Result
	require.NoError(t, json.Unmarshal(msgs[2].Payload, &result))
	assert.Equal(t, "video/mp4", result.MimeType)
	assert.Equal(t, 9, result.Quota.Remaining)

	assert.Equal(t, 3, svc.lastRequest().Duration)
}

func TestAnimationHandler_QuotaExceeded(t *testing.T) {
	svc := &fakeStudio{err: quota.NewExceededError(quota.Status{Resource: quota.ResourceVideo, Used: 10, Limit: 10})}
	conn := dial(t, startServer(t, svc))

	sendAnimate(t, conn, map[string]any{"image": "AAAA", "prompt": "waves"})
	msgs := readAll(t, conn)

	require.NotEmpty(t, msgs)
	last := msgs[len(msgs)-1]
	assert.Equal(t, ws.TypeError, last.Type)
	assert.Contains(t, string(last.Payload), `"quota_exceeded"`)
	assert.Contains(t, string(last.Payload), `"limit":10`)
}

func TestAnimationHandler_WrongFirstMessage(t *testing.T) {
	conn := dial(t, startServer(t, &fakeStudio{}))

	msg, err := ws.NewMessage(ws.TypePing, nil)
	require.NoError(t, err)
	require.NoError(t, conn.WriteJSON(msg))

	msgs := readAll(t, conn)

	require.Len(t, msgs, 1)
	assert.Equal(t, ws.TypeError, msgs[0].Type)
}

func TestAnimationHandler_RequiresToken(t *testing.T) {
	url := startServer(t, &fakeStudio{})

	_, resp, err := websocket.DefaultDialer.Dial(url, nil)

	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	_, resp, err = websocket.DefaultDialer.Dial(url+"?token=garbage", nil)

	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
