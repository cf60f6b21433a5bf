package domain

import (
	"context"
	"errors"
)

// Service is the billing engine. ProcessEvent validates one event, runs the
// resource state machine and persists the resulting record and snapshot as
// one atomic unit. Safe for concurrent use; events for the same resource
// serialize on a per-resource lock.
type Service interface {
	ProcessEvent(ctx context.Context, event Event) (*Outcome, error)
}

var (
	ErrResourceTypeUnknown = errors.New("resource_type_unknown")
	ErrEventTypeInvalid    = errors.New("event_type_invalid")
	ErrContentInvalid      = errors.New("content_invalid")
	ErrVolumeSizeInvalid   = errors.New("volume_size_invalid")
	ErrEventDuplicate      = errors.New("event_duplicate")
	// ErrEventTimeInvalid rejects events dated before the resource's last
	// checkpoint, and any event for a terminated resource.
	ErrEventTimeInvalid = errors.New("event_time_invalid")
	ErrStoreTimeout     = errors.New("store_timeout")
)
