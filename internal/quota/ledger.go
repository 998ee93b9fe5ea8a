package quota

import (
	"context"
	"errors"
	"fmt"
	"time"

	"codeberg.org/pixelmind/server/internal/logger"
)

// serves the authoritative daily usage count per user and resource type.
// reads and writes are plain read-modify-write against the store; concurrent
// sessions of one user may overshoot a limit by the number of racers.
type Ledger struct {
	store  Store
	limits Limits
	now    func() time.Time
}

type Option func(*Ledger)

// overrides the time source used to decide day rollover
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) {
		l.now = now
	}
}

// creates a ledger over the given store
func NewLedger(store Store, limits Limits, opts ...Option) *Ledger {
	if limits == nil {
		limits = DefaultLimits()
	}

	l := &Ledger{
		store:  store,
		limits: limits,
		now:    time.Now,
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// returns the configured daily limits
func (l *Ledger) Limits() Limits {
	return l.limits
}

// returns today's date in the ledger's time source, UTC
func (l *Ledger) Today() string {
	return l.now().UTC().Format(dateLayout)
}

// fetches the user's profile, creating it on first use and resetting the
// counters when the stored date is not today
func (l *Ledger) GetOrResetProfile(ctx context.Context, userID string) (*Profile, error) {
	today := l.Today()

	profile, err := l.store.Get(ctx, userID)
	if errors.Is(err, ErrProfileNotFound) {
		fresh := &Profile{UserID: userID, LastResetDate: today}

		created, err := l.store.Upsert(ctx, fresh)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to create profile: %w", ErrStoreUnavailable, err)
		}

		if created == nil {
			return fresh, nil
		}

		return created, nil
	}

	if err != nil {
		return nil, fmt.Errorf("%w: failed to read profile: %w", ErrStoreUnavailable, err)
	}

	if profile.LastResetDate == today {
		return profile, nil
	}

	reset := resetUpdate(today)

	updated, err := l.store.Update(ctx, userID, reset)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to reset profile: %w", ErrStoreUnavailable, err)
	}

	// store accepted the write but returned nothing; trust the local copy
	if updated == nil {
		reset.apply(profile)
		return profile, nil
	}

	return updated, nil
}

// reports whether the user may perform one more action of the given type.
// fails open: if the store is unavailable the action is allowed with a full
// remaining allotment and the fault is logged.
func (l *Ledger) CheckQuota(ctx context.Context, userID string, resource ResourceType) Status {
	limit := l.limits.For(resource)

	profile, err := l.GetOrResetProfile(ctx, userID)
	if err != nil {
		logger.ErrorErr(err, "quota check failed, allowing request",
			"user_id", userID,
			"resource", resource,
		)

		return Status{
			Resource:  resource,
			Allowed:   true,
			Used:      0,
			Limit:     limit,
			Remaining: limit,
		}
	}

	return newStatus(resource, profile.Used(resource), limit)
}

// records one completed action and returns the new count.
// the limit is not enforced here; callers gate with CheckQuota first.
// store failures are logged and reported as 0.
func (l *Ledger) Increment(ctx context.Context, userID string, resource ResourceType) int {
	if !resource.IsValid() {
		logger.Warn("increment for unknown resource type ignored",
			"user_id", userID,
			"resource", resource,
		)
		return 0
	}

	profile, err := l.GetOrResetProfile(ctx, userID)
	if err != nil {
		logger.ErrorErr(err, "failed to increment usage",
			"user_id", userID,
			"resource", resource,
		)
		return 0
	}

	newCount := profile.Used(resource) + 1

	if _, err := l.store.Update(ctx, userID, counterUpdate(resource, newCount)); err != nil {
		logger.ErrorErr(fmt.Errorf("%w: %w", ErrStoreUnavailable, err), "failed to increment usage",
			"user_id", userID,
			"resource", resource,
		)
		return 0
	}

	return newCount
}

// returns the status of every configured resource type in one store round trip
func (l *Ledger) Summary(ctx context.Context, userID string) map[ResourceType]Status {
	statuses := make(map[ResourceType]Status, len(l.limits))

	profile, err := l.GetOrResetProfile(ctx, userID)
	if err != nil {
		logger.ErrorErr(err, "usage summary failed, reporting full allotment", "user_id", userID)
	}

	for resource, limit := range l.limits {
		if profile == nil {
			statuses[resource] = Status{Resource: resource, Allowed: true, Limit: limit, Remaining: limit}
			continue
		}

		statuses[resource] = newStatus(resource, profile.Used(resource), limit)
	}

	return statuses
}
