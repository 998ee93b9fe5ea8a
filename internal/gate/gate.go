// Package gate wraps billable actions with a quota pre-check and a
// post-success increment plus usage event.
package gate

import (
	"context"
	"errors"
	"fmt"

	"codeberg.org/pixelmind/server/internal/logger"
	"codeberg.org/pixelmind/server/internal/quota"
	"codeberg.org/pixelmind/server/internal/usagelog"
)

var ErrUnknownAction = errors.New("unknown billable action")

// the subset of *quota.Ledger the gate needs
type Ledger interface {
	CheckQuota(ctx context.Context, userID string, resource quota.ResourceType) quota.Status
	Increment(ctx context.Context, userID string, resource quota.ResourceType) int
}

// the subset of *usagelog.Recorder the gate needs
type EventLogger interface {
	LogUsage(userID string, action usagelog.Action)
}

type Gate struct {
	ledger Ledger
	events EventLogger
}

func New(ledger Ledger, events EventLogger) *Gate {
	return &Gate{ledger: ledger, events: events}
}

// maps a billable action onto the counter it consumes
func ResourceFor(action usagelog.Action) (quota.ResourceType, bool) {
	switch action {
	case usagelog.ActionImageGeneration, usagelog.ActionImageEnhancement:
		return quota.ResourceImage, true
	case usagelog.ActionVideoGeneration:
		return quota.ResourceVideo, true
	}

	return "", false
}

// returns a *quota.ExceededError when the user may not perform the action
func (g *Gate) Check(ctx context.Context, userID string, action usagelog.Action) error {
	status, err := g.Status(ctx, userID, action)
	if err != nil {
		return err
	}

	if !status.Allowed {
		return quota.NewExceededError(status)
	}

	return nil
}

// returns the current quota status for the counter behind an action
func (g *Gate) Status(ctx context.Context, userID string, action usagelog.Action) (quota.Status, error) {
	resource, ok := ResourceFor(action)
	if !ok {
		return quota.Status{}, fmt.Errorf("%w: %q", ErrUnknownAction, action)
	}

	return g.ledger.CheckQuota(ctx, userID, resource), nil
}

// records one successful action against the user's quota and the event log
func (g *Gate) record(ctx context.Context, userID string, action usagelog.Action) {
	resource, _ := ResourceFor(action)

	count := g.ledger.Increment(ctx, userID, resource)
	if count > 0 {
		logger.Debug("usage recorded", "user_id", userID, "action", action, "used", count)
	}

	if g.events != nil {
		g.events.LogUsage(userID, action)
	}
}

// runs op only if the user has quota left for action. the counter is
// incremented once after op succeeds; a failed op consumes nothing.
func Execute[T any](ctx context.Context, g *Gate, userID string, action usagelog.Action, op func(context.Context) (T, error)) (T, error) {
	var zero T

	if err := g.Check(ctx, userID, action); err != nil {
		return zero, err
	}

	result, err := op(ctx)
	if err != nil {
		return zero, err
	}

	// the action already happened; accounting must outlive a canceled request
	g.record(context.WithoutCancel(ctx), userID, action)

	return result, nil
}
