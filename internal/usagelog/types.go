// Package usagelog appends one event per billable action to a secondary log.
// Writes are asynchronous and best effort: a failed or dropped event is only
// ever reported to the logger, never to the caller.
package usagelog

import (
	"context"
	"errors"
	"time"
)

var ErrLogWriteFailed = errors.New("usage event write failed")

// billable action kinds
type Action string

const (
	ActionImageGeneration  Action = "image_generation"
	ActionImageEnhancement Action = "image_enhancement"
	ActionVideoGeneration  Action = "video_generation"
)

func (a Action) IsValid() bool {
	switch a {
	case ActionImageGeneration, ActionImageEnhancement, ActionVideoGeneration:
		return true
	}

	return false
}

type Event struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Action    Action    `json:"action_type"`
	Timestamp time.Time `json:"created_at"`
}

// per-day aggregate of one action type
type DailyUsage struct {
	Date   string `json:"date"`
	Action Action `json:"action_type"`
	Count  int    `json:"count"`
}

// append-only destination for usage events
type Sink interface {
	Append(ctx context.Context, event Event) error
}

// sinks that can aggregate what they stored
type HistoryReader interface {
	History(ctx context.Context, userID string, days int) ([]DailyUsage, error)
}
