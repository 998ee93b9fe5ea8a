package tui

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// timeout for usage requests
const requestTimeout = 15 * time.Second

// days of history shown under the quota bars
const historyDays = 7

// reads quota usage from the pixelmind REST API
type UsageClient struct {
	endpoint   string
	token      string
	httpClient *http.Client
}

// creates a new usage REST client
func NewUsageClient(endpoint, token string) *UsageClient {
	return &UsageClient{
		endpoint: strings.TrimRight(endpoint, "/"),
		token:    token,
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
	}
}

// fetches today's quota status
func (c *UsageClient) Usage(ctx context.Context) (*Usage, error) {
	var usage Usage
	if err := c.get(ctx, "/api/v1/usage", &usage); err != nil {
		return nil, err
	}

	return &usage, nil
}

// fetches per-day usage counts for the last n days
func (c *UsageClient) History(ctx context.Context, days int) ([]DailyUsage, error) {
	query := url.Values{"days": []string{strconv.Itoa(days)}}

	var resp historyResponse
	if err := c.get(ctx, "/api/v1/usage/history?"+query.Encode(), &resp); err != nil {
		return nil, err
	}

	return resp.History, nil
}

// returns a tea.Cmd that fetches usage and history
func (c *UsageClient) FetchCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		usage, err := c.Usage(ctx)
		if err != nil {
			return ErrorMsg{err: err}
		}

		// history is optional; servers without an event log return an empty list
		history, err := c.History(ctx, historyDays)
		if err != nil {
			history = nil
		}

		return UsageMsg{Usage: *usage, History: history}
	}
}

func (c *UsageClient) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errResp apiErrorResponse
		if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error != "" {
			return fmt.Errorf("%s: %s", errResp.Error, errResp.Message)
		}

		return fmt.Errorf("request failed with status %d: %s", resp.StatusCode, string(body))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	return nil
}
