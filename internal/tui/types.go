package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
)

// quota viewer model
type Model struct {
	client   *UsageClient
	refresh  time.Duration
	now      func() time.Time
	spinner  spinner.Model
	imageBar progress.Model
	videoBar progress.Model
	usage    *Usage
	history  []DailyUsage
	loading  bool
	updated  time.Time
	width    int
	err      error
}

// mirrors one resource entry of GET /api/v1/usage
type ResourceStatus struct {
	Resource  string `json:"resource"`
	Allowed   bool   `json:"allowed"`
	Used      int    `json:"used"`
	Limit     int    `json:"limit"`
	Remaining int    `json:"remaining"`
}

// mirrors the body of GET /api/v1/usage
type Usage struct {
	Date  string         `json:"date"`
	Image ResourceStatus `json:"image"`
	Video ResourceStatus `json:"video"`
}

// mirrors one row of GET /api/v1/usage/history
type DailyUsage struct {
	Date   string `json:"date"`
	Action string `json:"action"`
	Count  int    `json:"count"`
}

type historyResponse struct {
	Days    int          `json:"days"`
	History []DailyUsage `json:"history"`
}

type apiErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// sent when usage and history have been fetched
type UsageMsg struct {
	Usage   Usage
	History []DailyUsage
}

// sent when a fetch fails
type ErrorMsg struct {
	err error
}

// sent when it is time to refetch
type refreshMsg struct{}
