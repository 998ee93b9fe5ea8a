package usagelog

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"codeberg.org/pixelmind/server/internal/logger"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// postgres undefined_table
const pgCodeUndefinedTable = "42P01"

var errTableMissing = errors.New("usage_events table missing")

// subset of *pgxpool.Pool used by the sink
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// appends events to the usage_events table
type PostgresSink struct {
	db          DB
	now         func() time.Time
	missingOnce sync.Once
}

func NewPostgresSink(db DB) *PostgresSink {
	return &PostgresSink{db: db, now: time.Now}
}

func (s *PostgresSink) Append(ctx context.Context, event Event) error {
	_, err := s.db.Exec(ctx, queryInsertEvent, event.ID, event.UserID, string(event.Action), event.Timestamp)
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgCodeUndefinedTable {
		s.missingOnce.Do(func() {
			logger.Warn("usage_events table does not exist, usage events will not be persisted")
		})

		return fmt.Errorf("%w: %w", errTableMissing, err)
	}

	return fmt.Errorf("failed to insert usage event: %w", err)
}

// returns per-day action counts for the last n UTC days, newest first
func (s *PostgresSink) History(ctx context.Context, userID string, days int) ([]DailyUsage, error) {
	rows, err := s.db.Query(ctx, queryDailyUsage, userID, historySince(s.now(), days))
	if err != nil {
		return nil, fmt.Errorf("failed to query usage history: %w", err)
	}

	defer rows.Close()
	var history []DailyUsage

	for rows.Next() {
		var (
			usage  DailyUsage
			action string
		)

		if err := rows.Scan(&usage.Date, &action, &usage.Count); err != nil {
			return nil, fmt.Errorf("failed to scan usage history: %w", err)
		}

		usage.Action = Action(action)
		history = append(history, usage)
	}

	return history, rows.Err()
}

// midnight UTC of the first day in a window of n days ending today
func historySince(now time.Time, days int) time.Time {
	if days < 1 {
		days = 1
	}

	y, m, d := now.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -(days - 1))
}
