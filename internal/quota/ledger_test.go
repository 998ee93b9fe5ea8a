package quota

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func newTestLedger(store Store) *Ledger {
	return NewLedger(store, DefaultLimits(), WithClock(fixedClock(testNow)))
}

// store whose every call fails, as if the database were unreachable
type unavailableStore struct{}

func (unavailableStore) Get(context.Context, string) (*Profile, error) {
	return nil, errors.New("dial tcp: connection refused")
}

func (unavailableStore) Upsert(context.Context, *Profile) (*Profile, error) {
	return nil, errors.New("dial tcp: connection refused")
}

func (unavailableStore) Update(context.Context, string, ProfileUpdate) (*Profile, error) {
	return nil, errors.New("dial tcp: connection refused")
}

// reads succeed, writes fail
type readOnlyStore struct {
	*MemoryStore
}

func (readOnlyStore) Update(context.Context, string, ProfileUpdate) (*Profile, error) {
	return nil, errors.New("permission denied for table usage_profiles")
}

// accepts writes but returns no row, like an upsert without RETURNING
type silentStore struct {
	*MemoryStore
}

func (s silentStore) Upsert(ctx context.Context, p *Profile) (*Profile, error) {
	_, err := s.MemoryStore.Upsert(ctx, p)
	return nil, err
}

func (s silentStore) Update(ctx context.Context, userID string, u ProfileUpdate) (*Profile, error) {
	_, err := s.MemoryStore.Update(ctx, userID, u)
	return nil, err
}

func TestCheckQuota_FreshUser(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	ledger := newTestLedger(store)

	status := ledger.CheckQuota(ctx, "u1", ResourceImage)

	assert.Equal(t, Status{Resource: ResourceImage, Allowed: true, Used: 0, Limit: 50, Remaining: 50}, status)

	profile, err := store.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 0, profile.ImagesUsedToday)
	assert.Equal(t, 0, profile.VideosUsedToday)
	assert.Equal(t, "2026-10-18", profile.LastResetDate)
}

func TestCheckQuota_AtBoundary(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	ledger := newTestLedger(store)

	for i := 1; i <= 50; i++ {
		require.Equal(t, i, ledger.Increment(ctx, "u1", ResourceImage))
	}

	status := ledger.CheckQuota(ctx, "u1", ResourceImage)
	assert.Equal(t, Status{Resource: ResourceImage, Allowed: false, Used: 50, Limit: 50, Remaining: 0}, status)

	// the ledger itself never refuses a completed action
	assert.Equal(t, 51, ledger.Increment(ctx, "u1", ResourceImage))

	profile, err := store.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 51, profile.ImagesUsedToday)

	status = ledger.CheckQuota(ctx, "u1", ResourceImage)
	assert.False(t, status.Allowed)
	assert.Equal(t, 0, status.Remaining, "remaining never goes negative")
}

func TestCheckQuota_VideoLimit(t *testing.T) {
	ctx := context.Background()
	ledger := newTestLedger(NewMemoryStore())

	for i := 0; i < 10; i++ {
		ledger.Increment(ctx, "u1", ResourceVideo)
	}

	status := ledger.CheckQuota(ctx, "u1", ResourceVideo)
	assert.False(t, status.Allowed)
	assert.Equal(t, 10, status.Used)
	assert.Equal(t, 10, status.Limit)

	// image pool untouched
	assert.True(t, ledger.CheckQuota(ctx, "u1", ResourceImage).Allowed)
}

func TestCheckQuota_Idempotent(t *testing.T) {
	ctx := context.Background()
	ledger := newTestLedger(NewMemoryStore())

	ledger.Increment(ctx, "u1", ResourceImage)
	ledger.Increment(ctx, "u1", ResourceImage)

	first := ledger.CheckQuota(ctx, "u1", ResourceImage)
	second := ledger.CheckQuota(ctx, "u1", ResourceImage)

	assert.Equal(t, first, second)
	assert.Equal(t, 2, second.Used)
	assert.Equal(t, 48, second.Remaining)
}

func TestCheckQuota_DayRollover(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	_, err := store.Upsert(ctx, &Profile{
		UserID:          "u1",
		ImagesUsedToday: 50,
		VideosUsedToday: 4,
		LastResetDate:   "2026-10-17",
	})
	require.NoError(t, err)

	ledger := newTestLedger(store)
	status := ledger.CheckQuota(ctx, "u1", ResourceImage)

	assert.True(t, status.Allowed)
	assert.Equal(t, 0, status.Used)
	assert.Equal(t, 50, status.Remaining)

	profile, err := store.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "2026-10-18", profile.LastResetDate)
	assert.Equal(t, 0, profile.ImagesUsedToday)
	assert.Equal(t, 0, profile.VideosUsedToday, "rollover resets both counters")
}

func TestIncrement_AcrossMidnight(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 10, 18, 23, 59, 0, 0, time.UTC)
	ledger := NewLedger(NewMemoryStore(), DefaultLimits(), WithClock(func() time.Time { return now }))

	ledger.Increment(ctx, "u1", ResourceVideo)
	ledger.Increment(ctx, "u1", ResourceVideo)
	require.Equal(t, 2, ledger.CheckQuota(ctx, "u1", ResourceVideo).Used)

	now = now.Add(2 * time.Minute)

	assert.Equal(t, 1, ledger.Increment(ctx, "u1", ResourceVideo), "first increment of the new day starts from zero")
}

func TestLedger_UsesUTCDay(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	// 22:00 in UTC-3 is already the next day in UTC
	local := time.Date(2026, 10, 18, 22, 0, 0, 0, time.FixedZone("BRT", -3*60*60))
	ledger := NewLedger(store, DefaultLimits(), WithClock(fixedClock(local)))

	ledger.CheckQuota(ctx, "u1", ResourceImage)

	profile, err := store.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "2026-10-19", profile.LastResetDate)
}

func TestCheckQuota_StoreFailureFailsOpen(t *testing.T) {
	ledger := newTestLedger(unavailableStore{})

	status := ledger.CheckQuota(context.Background(), "u1", ResourceImage)
	assert.Equal(t, Status{Resource: ResourceImage, Allowed: true, Used: 0, Limit: 50, Remaining: 50}, status)

	status = ledger.CheckQuota(context.Background(), "u1", ResourceVideo)
	assert.Equal(t, Status{Resource: ResourceVideo, Allowed: true, Used: 0, Limit: 10, Remaining: 10}, status)
}

func TestCheckQuota_UnknownResource(t *testing.T) {
	ledger := newTestLedger(NewMemoryStore())

	status := ledger.CheckQuota(context.Background(), "u1", ResourceType("audio"))

	assert.False(t, status.Allowed)
	assert.Equal(t, 0, status.Limit)
}

func TestIncrement_SharedImagePool(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	ledger := newTestLedger(store)

	// one enhancement and one generation both bill the image counter
	ledger.Increment(ctx, "u1", ResourceImage)
	ledger.Increment(ctx, "u1", ResourceImage)

	profile, err := store.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 2, profile.ImagesUsedToday)
	assert.Equal(t, 0, profile.VideosUsedToday)
}

func TestIncrement_StoreFailureReturnsZero(t *testing.T) {
	ledger := newTestLedger(unavailableStore{})

	assert.Equal(t, 0, ledger.Increment(context.Background(), "u1", ResourceImage))
}

func TestIncrement_WriteFailureReturnsZero(t *testing.T) {
	ctx := context.Background()
	mem := NewMemoryStore()
	_, err := mem.Upsert(ctx, &Profile{UserID: "u1", ImagesUsedToday: 3, LastResetDate: "2026-10-18"})
	require.NoError(t, err)

	ledger := newTestLedger(readOnlyStore{mem})

	assert.Equal(t, 0, ledger.Increment(ctx, "u1", ResourceImage))

	profile, err := mem.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 3, profile.ImagesUsedToday)
}

func TestIncrement_UnknownResource(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	ledger := newTestLedger(store)

	assert.Equal(t, 0, ledger.Increment(ctx, "u1", ResourceType("audio")))

	_, err := store.Get(ctx, "u1")
	assert.ErrorIs(t, err, ErrProfileNotFound, "no profile is created for an ignored increment")
}

func TestGetOrResetProfile_StoreUnavailable(t *testing.T) {
	ledger := newTestLedger(unavailableStore{})

	_, err := ledger.GetOrResetProfile(context.Background(), "u1")

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrStoreUnavailable)
}

func TestGetOrResetProfile_StoreReturnsNoRow(t *testing.T) {
	ctx := context.Background()
	mem := NewMemoryStore()
	ledger := newTestLedger(silentStore{mem})

	profile, err := ledger.GetOrResetProfile(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, &Profile{UserID: "u1", LastResetDate: "2026-10-18"}, profile)

	_, err = mem.Update(ctx, "u1", ProfileUpdate{LastResetDate: ptr("2026-10-10"), ImagesUsedToday: ptr(7)})
	require.NoError(t, err)

	profile, err = ledger.GetOrResetProfile(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "2026-10-18", profile.LastResetDate)
	assert.Equal(t, 0, profile.ImagesUsedToday)
}

func TestSummary(t *testing.T) {
	ctx := context.Background()
	ledger := newTestLedger(NewMemoryStore())

	ledger.Increment(ctx, "u1", ResourceImage)
	ledger.Increment(ctx, "u1", ResourceVideo)
	ledger.Increment(ctx, "u1", ResourceVideo)

	summary := ledger.Summary(ctx, "u1")

	require.Len(t, summary, 2)
	assert.Equal(t, Status{Resource: ResourceImage, Allowed: true, Used: 1, Limit: 50, Remaining: 49}, summary[ResourceImage])
	assert.Equal(t, Status{Resource: ResourceVideo, Allowed: true, Used: 2, Limit: 10, Remaining: 8}, summary[ResourceVideo])
}

func TestSummary_StoreFailure(t *testing.T) {
	summary := newTestLedger(unavailableStore{}).Summary(context.Background(), "u1")

	assert.True(t, summary[ResourceImage].Allowed)
	assert.Equal(t, 50, summary[ResourceImage].Remaining)
	assert.Equal(t, 10, summary[ResourceVideo].Remaining)
}

func TestNewLedger_CustomLimits(t *testing.T) {
	ctx := context.Background()
	ledger := NewLedger(NewMemoryStore(), Limits{ResourceImage: 2, ResourceVideo: 1}, WithClock(fixedClock(testNow)))

	ledger.Increment(ctx, "u1", ResourceImage)
	assert.True(t, ledger.CheckQuota(ctx, "u1", ResourceImage).Allowed)

	ledger.Increment(ctx, "u1", ResourceImage)
	assert.False(t, ledger.CheckQuota(ctx, "u1", ResourceImage).Allowed)
}

func TestExceededError(t *testing.T) {
	err := NewExceededError(Status{Resource: ResourceImage, Used: 50, Limit: 50})

	assert.ErrorIs(t, err, ErrQuotaExceeded)
	assert.Contains(t, err.Error(), "50 images")
	assert.Contains(t, err.Error(), "resets in 24h")

	var exceeded *ExceededError
	wrapped := errors.Join(errors.New("generate image"), err)
	require.ErrorAs(t, wrapped, &exceeded)
	assert.Equal(t, ResourceImage, exceeded.Resource)

	videoErr := NewExceededError(Status{Resource: ResourceVideo, Used: 10, Limit: 10})
	assert.Contains(t, videoErr.Error(), "10 videos")
}

func ptr[T any](v T) *T {
	return &v
}
