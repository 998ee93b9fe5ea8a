package quota

import (
	"errors"
	"fmt"
)

var (
	// store could not be reached or failed a read/write
	ErrStoreUnavailable = errors.New("quota store unavailable")

	// no usage profile exists for the user
	ErrProfileNotFound = errors.New("usage profile not found")

	// user has consumed the daily allotment for a resource type
	ErrQuotaExceeded = errors.New("daily quota exceeded")
)

// returned when a metered action is rejected; matches ErrQuotaExceeded
type ExceededError struct {
	Resource ResourceType
	Limit    int
	Used     int
}

func (e *ExceededError) Error() string {
	switch e.Resource {
	case ResourceVideo:
		return fmt.Sprintf("daily video limit reached: you have already generated %d videos today. the limit resets in 24h", e.Limit)
	case ResourceImage:
		return fmt.Sprintf("daily limit reached: you have already used your %d images today. the limit resets in 24h", e.Limit)
	default:
		return fmt.Sprintf("daily %s limit of %d reached. the limit resets in 24h", e.Resource, e.Limit)
	}
}

func (e *ExceededError) Is(target error) bool {
	return target == ErrQuotaExceeded
}

// builds the rejection for a status that is not allowed
func NewExceededError(status Status) *ExceededError {
	return &ExceededError{
		Resource: status.Resource,
		Limit:    status.Limit,
		Used:     status.Used,
	}
}
