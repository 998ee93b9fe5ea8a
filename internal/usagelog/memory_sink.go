package usagelog

import (
	"context"
	"sort"
	"sync"
	"time"
)

// keeps events in process memory, for development and tests
type MemorySink struct {
	mu     sync.Mutex
	events []Event
	now    func() time.Time
}

func NewMemorySink() *MemorySink {
	return &MemorySink{now: time.Now}
}

func (s *MemorySink) Append(_ context.Context, event Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.events = append(s.events, event)
	return nil
}

// returns a copy of all stored events in append order
func (s *MemorySink) Events() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Event, len(s.events))
	copy(out, s.events)

	return out
}

func (s *MemorySink) History(_ context.Context, userID string, days int) ([]DailyUsage, error) {
	since := historySince(s.now(), days)

	type key struct {
		date   string
		action Action
	}

	counts := make(map[key]int)

	s.mu.Lock()
	for _, e := range s.events {
		if e.UserID != userID || e.Timestamp.Before(since) {
			continue
		}

		counts[key{date: e.Timestamp.UTC().Format(time.DateOnly), action: e.Action}]++
	}
	s.mu.Unlock()

	history := make([]DailyUsage, 0, len(counts))
	for k, n := range counts {
		history = append(history, DailyUsage{Date: k.date, Action: k.action, Count: n})
	}

	sort.Slice(history, func(i, j int) bool {
		if history[i].Date != history[j].Date {
			return history[i].Date > history[j].Date
		}
		return history[i].Action < history[j].Action
	})

	return history, nil
}
