package domain

import "strings"

// Event is a lifecycle action on a hotel listing.
type Event string

const (
	EventApprove      Event = "approve"
	EventReject       Event = "reject"
	EventForceOffline Event = "forceOffline"
	EventRestore      Event = "restore"
	EventMerchantEdit Event = "merchantEdit"
)

// ModerationEvent reports whether e is one of the admin-only events.
func ModerationEvent(e Event) bool {
	switch e {
	case EventApprove, EventReject, EventForceOffline, EventRestore:
		return true
	}
	return false
}

// transitions is the full lifecycle table. merchantEdit is handled separately
// because it is legal from several states.
var transitions = map[Status]map[Event]Status{
	StatusPending: {
		EventApprove: StatusPublished,
		EventReject:  StatusRejected,
	},
	StatusPublished: {
		EventForceOffline: StatusOffline,
	},
	StatusOffline: {
		EventRestore: StatusPublished,
	},
}

// Transition applies event to the current status and returns the next status
// together with the reject reason that must be stored with it. reason is only
// consulted for EventReject, where it must be non-blank.
//
// The caller is responsible for evaluating this against the committed status
// under a row lock, so concurrent moderation of the same listing cannot apply
// a stale decision.
func Transition(current Status, event Event, reason string) (Status, *string, error) {
	if event == EventMerchantEdit {
		// An edit always re-queues the listing for moderation and clears
		// any reject reason; a merchant cannot keep a change live without
		// re-review.
		return StatusPending, nil, nil
	}

	next, ok := transitions[current][event]
	if !ok {
		return current, nil, &InvalidTransitionError{Current: current, Event: event}
	}
	if event == EventReject {
		r := strings.TrimSpace(reason)
		if r == "" {
			return current, nil, Validationf("a rejection reason is required")
		}
		return next, &r, nil
	}
	return next, nil, nil
}
