package quota

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// subset of *pgxpool.Pool used by the store
type DB interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// implements Store using the usage_profiles table
type PostgresStore struct {
	db DB
}

// creates a new PostgreSQL profile store
func NewPostgresStore(db DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// point read by user id
func (s *PostgresStore) Get(ctx context.Context, userID string) (*Profile, error) {
	return s.scanProfile(s.db.QueryRow(ctx, queryGetProfile, userID))
}

// inserts the profile or overwrites the existing row
func (s *PostgresStore) Upsert(ctx context.Context, profile *Profile) (*Profile, error) {
	return s.scanProfile(s.db.QueryRow(
		ctx,
		queryUpsertProfile,
		profile.UserID,
		profile.ImagesUsedToday,
		profile.VideosUsedToday,
		profile.LastResetDate,
	))
}

// updates only the columns present in the update
func (s *PostgresStore) Update(ctx context.Context, userID string, update ProfileUpdate) (*Profile, error) {
	return s.scanProfile(s.db.QueryRow(
		ctx,
		queryUpdateProfile,
		userID,
		update.ImagesUsedToday,
		update.VideosUsedToday,
		update.LastResetDate,
	))
}

func (s *PostgresStore) scanProfile(row pgx.Row) (*Profile, error) {
	var profile Profile

	err := row.Scan(
		&profile.UserID,
		&profile.ImagesUsedToday,
		&profile.VideosUsedToday,
		&profile.LastResetDate,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrProfileNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("usage profile query failed: %w", err)
	}

	return &profile, nil
}
