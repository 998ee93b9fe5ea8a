package usagelog

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"codeberg.org/pixelmind/server/internal/logger"
	"github.com/google/uuid"
)

const (
	defaultQueueSize    = 256
	defaultWriteTimeout = 5 * time.Second
)

// queues usage events and appends them to a sink from a single background worker
type Recorder struct {
	sink         Sink
	queue        chan Event
	writeTimeout time.Duration
	now          func() time.Time

	mu      sync.RWMutex
	stopped bool
	started bool
	wg      sync.WaitGroup
}

type RecorderOption func(*Recorder)

func WithQueueSize(n int) RecorderOption {
	return func(r *Recorder) {
		if n > 0 {
			r.queue = make(chan Event, n)
		}
	}
}

func WithWriteTimeout(d time.Duration) RecorderOption {
	return func(r *Recorder) {
		if d > 0 {
			r.writeTimeout = d
		}
	}
}

func WithRecorderClock(now func() time.Time) RecorderOption {
	return func(r *Recorder) {
		r.now = now
	}
}

func NewRecorder(sink Sink, opts ...RecorderOption) *Recorder {
	r := &Recorder{
		sink:         sink,
		queue:        make(chan Event, defaultQueueSize),
		writeTimeout: defaultWriteTimeout,
		now:          time.Now,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// begins the background append loop
func (r *Recorder) Start() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.started {
		return
	}

	r.started = true
	r.wg.Add(1)

	go r.run()

	logger.Info("usage recorder started", "queue_size", cap(r.queue))
}

// stops accepting events and drains what is already queued
func (r *Recorder) Stop() {
	r.mu.Lock()
	if r.stopped {
		r.mu.Unlock()
		return
	}

	r.stopped = true
	close(r.queue)
	started := r.started
	r.mu.Unlock()

	if started {
		r.wg.Wait()
	}

	logger.Info("usage recorder stopped")
}

// enqueues one event; never blocks and never fails the caller
func (r *Recorder) LogUsage(userID string, action Action) {
	event := Event{
		ID:        uuid.NewString(),
		UserID:    userID,
		Action:    action,
		Timestamp: r.now().UTC(),
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.stopped {
		logger.Warn("usage recorder stopped, dropping event", "user_id", userID, "action", action)
		return
	}

	select {
	case r.queue <- event:
	default:
		logger.Warn("usage queue full, dropping event", "user_id", userID, "action", action)
	}
}

func (r *Recorder) run() {
	defer r.wg.Done()

	for event := range r.queue {
		r.write(event)
	}
}

func (r *Recorder) write(event Event) {
	ctx, cancel := context.WithTimeout(context.Background(), r.writeTimeout)
	defer cancel()

	err := r.sink.Append(ctx, event)
	if err == nil {
		return
	}

	if errors.Is(err, errTableMissing) {
		// already reported once by the sink
		logger.Debug("usage event skipped, table missing", "user_id", event.UserID, "action", event.Action)
		return
	}

	err = fmt.Errorf("%w: %w", ErrLogWriteFailed, err)
	logger.Warn("failed to log usage event",
		"error", err,
		"user_id", event.UserID,
		"action", event.Action,
	)
}

// returns the history reader behind the recorder, if the sink supports it
func (r *Recorder) History() (HistoryReader, bool) {
	reader, ok := r.sink.(HistoryReader)
	return reader, ok
}
