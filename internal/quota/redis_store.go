package quota

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	keyProfile = "quota:profile:%s"

	fieldImagesUsed   = "images_used_today"
	fieldVideosUsed   = "videos_used_today"
	fieldLastResetDay = "last_reset_date"
)

// sets fields on an existing profile hash and returns the whole hash.
// returns nil (redis.Nil) when the profile does not exist.
var updateProfileScript = redis.NewScript(`
	if redis.call("EXISTS", KEYS[1]) == 0 then
		return nil
	end
	for i = 1, #ARGV, 2 do
		redis.call("HSET", KEYS[1], ARGV[i], ARGV[i + 1])
	end
	return redis.call("HGETALL", KEYS[1])
`)

// implements Store using one Redis hash per user
type RedisStore struct {
	client *redis.Client
}

// creates a new Redis-backed profile store
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// creates a new Redis-backed profile store from a URL
func NewRedisStoreFromURL(redisURL string) (*RedisStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisStore{client: client}, nil
}

// reads the profile hash for a user
func (s *RedisStore) Get(ctx context.Context, userID string) (*Profile, error) {
	values, err := s.client.HGetAll(ctx, fmt.Sprintf(keyProfile, userID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read profile from redis: %w", err)
	}

	if len(values) == 0 {
		return nil, ErrProfileNotFound
	}

	return parseProfile(userID, values)
}

// writes every field of the profile
func (s *RedisStore) Upsert(ctx context.Context, profile *Profile) (*Profile, error) {
	key := fmt.Sprintf(keyProfile, profile.UserID)

	err := s.client.HSet(ctx, key, map[string]any{
		fieldImagesUsed:   profile.ImagesUsedToday,
		fieldVideosUsed:   profile.VideosUsedToday,
		fieldLastResetDay: profile.LastResetDate,
	}).Err()
	if err != nil {
		return nil, fmt.Errorf("failed to write profile to redis: %w", err)
	}

	stored := *profile
	return &stored, nil
}

// sets only the fields present in the update
func (s *RedisStore) Update(ctx context.Context, userID string, update ProfileUpdate) (*Profile, error) {
	args := make([]any, 0, 6)

	if update.ImagesUsedToday != nil {
		args = append(args, fieldImagesUsed, *update.ImagesUsedToday)
	}

	if update.VideosUsedToday != nil {
		args = append(args, fieldVideosUsed, *update.VideosUsedToday)
	}

	if update.LastResetDate != nil {
		args = append(args, fieldLastResetDay, *update.LastResetDate)
	}

	if len(args) == 0 {
		return s.Get(ctx, userID)
	}

	result, err := updateProfileScript.Run(ctx, s.client, []string{fmt.Sprintf(keyProfile, userID)}, args...).Slice()
	if errors.Is(err, redis.Nil) {
		return nil, ErrProfileNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to update profile in redis: %w", err)
	}

	values := make(map[string]string, len(result)/2)
	for i := 0; i+1 < len(result); i += 2 {
		field, _ := result[i].(string) //nolint:errcheck // HGETALL replies are strings
		value, _ := result[i+1].(string) //nolint:errcheck // HGETALL replies are strings
		values[field] = value
	}

	return parseProfile(userID, values)
}

// closes the redis connection
func (s *RedisStore) Close() error {
	return s.client.Close()
}

func parseProfile(userID string, values map[string]string) (*Profile, error) {
	images, err := parseCounter(values[fieldImagesUsed])
	if err != nil {
		return nil, fmt.Errorf("invalid %s for user %s: %w", fieldImagesUsed, userID, err)
	}

	videos, err := parseCounter(values[fieldVideosUsed])
	if err != nil {
		return nil, fmt.Errorf("invalid %s for user %s: %w", fieldVideosUsed, userID, err)
	}

	return &Profile{
		UserID:          userID,
		ImagesUsedToday: images,
		VideosUsedToday: videos,
		LastResetDate:   values[fieldLastResetDay],
	}, nil
}

// missing counters read as zero
func parseCounter(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}

	return strconv.Atoi(raw)
}
