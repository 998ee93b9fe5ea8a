// package quota keeps per-user daily usage counters for metered resources.
// counters reset lazily: the first read on a new UTC day zeroes them before
// anything else is honored, so no scheduler is needed.
package quota

import "context"

// billable category of an action
type ResourceType string

const (
	ResourceImage ResourceType = "image" // generation and enhancement share this pool
	ResourceVideo ResourceType = "video"
)

// calendar-day granularity used for LastResetDate
const dateLayout = "2006-01-02"

// returns true for the resource types the ledger keeps a counter for
func (r ResourceType) IsValid() bool {
	switch r {
	case ResourceImage, ResourceVideo:
		return true
	default:
		return false
	}
}

// per-user usage row
type Profile struct {
	UserID          string `json:"user_id"`
	ImagesUsedToday int    `json:"images_used_today"`
	VideosUsedToday int    `json:"videos_used_today"`
	LastResetDate   string `json:"last_reset_date"` // YYYY-MM-DD, UTC
}

// returns the counter backing the given resource type
func (p *Profile) Used(resource ResourceType) int {
	switch resource {
	case ResourceImage:
		return p.ImagesUsedToday
	case ResourceVideo:
		return p.VideosUsedToday
	default:
		return 0
	}
}

// partial update of a profile; nil fields are left untouched
type ProfileUpdate struct {
	ImagesUsedToday *int
	VideosUsedToday *int
	LastResetDate   *string
}

func (u ProfileUpdate) apply(p *Profile) {
	if u.ImagesUsedToday != nil {
		p.ImagesUsedToday = *u.ImagesUsedToday
	}

	if u.VideosUsedToday != nil {
		p.VideosUsedToday = *u.VideosUsedToday
	}

	if u.LastResetDate != nil {
		p.LastResetDate = *u.LastResetDate
	}
}

// builds an update that sets only the counter for resource
func counterUpdate(resource ResourceType, value int) ProfileUpdate {
	switch resource {
	case ResourceImage:
		return ProfileUpdate{ImagesUsedToday: &value}
	case ResourceVideo:
		return ProfileUpdate{VideosUsedToday: &value}
	default:
		return ProfileUpdate{}
	}
}

// builds the update applied on day rollover
func resetUpdate(today string) ProfileUpdate {
	images, videos := 0, 0
	return ProfileUpdate{
		ImagesUsedToday: &images,
		VideosUsedToday: &videos,
		LastResetDate:   &today,
	}
}

// result of a quota check
type Status struct {
	Resource  ResourceType `json:"resource"`
	Allowed   bool         `json:"allowed"`
	Used      int          `json:"used"`
	Limit     int          `json:"limit"`
	Remaining int          `json:"remaining"`
}

func newStatus(resource ResourceType, used, limit int) Status {
	return Status{
		Resource:  resource,
		Allowed:   used < limit,
		Used:      used,
		Limit:     limit,
		Remaining: max(0, limit-used),
	}
}

// daily limit per resource type
type Limits map[ResourceType]int

// returns the stock limits: 50 images and 10 videos per day
func DefaultLimits() Limits {
	return Limits{
		ResourceImage: 50,
		ResourceVideo: 10,
	}
}

// returns the configured limit, 0 for unknown resource types
func (l Limits) For(resource ResourceType) int {
	return l[resource]
}

// persistent store collaborator for usage profiles.
// implementations provide point reads, upserts and partial updates;
// last write wins, no transactions are expected.
type Store interface {
	// returns ErrProfileNotFound when the user has no row yet
	Get(ctx context.Context, userID string) (*Profile, error)
	Upsert(ctx context.Context, profile *Profile) (*Profile, error)
	// returns ErrProfileNotFound when the user has no row to update
	Update(ctx context.Context, userID string, update ProfileUpdate) (*Profile, error)
}
