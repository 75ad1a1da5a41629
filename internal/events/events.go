// Package events defines the pipeline's event vocabulary and the broadcast
// contract used to notify connected viewers of state changes. Delivery is
// best-effort and at-least-once; ordering across event types is enforced by
// the observation state machine, not by the transport.
package events

import "time"

// Type identifies an event kind on the wire.
type Type string

// Event types emitted by the validation and reward pipeline.
const (
	ObservationCreated      Type = "observation.created"
	ObservationValidated    Type = "observation.validated"
	ObservationReviewNeeded Type = "observation.review_needed"
	ObservationReviewed     Type = "observation.reviewed"
	ObservationUpdated      Type = "observation.updated"
	ObservationDeleted      Type = "observation.deleted"
	MissionCreated          Type = "mission.created"
	MissionCompleted        Type = "mission.completed"
	PointsAwarded           Type = "points.awarded"
	ClientCount             Type = "client.count"
)

// Event is a single broadcast notification. Payload carries enough fields
// for a subscriber to update its own view without re-querying.
type Event struct {
	Type      Type      `json:"type"`
	Payload   any       `json:"payload"`
	EmittedAt time.Time `json:"emitted_at"`
}

// New creates an Event stamped with the current time.
func New(t Type, payload any) Event {
	return Event{
		Type:      t,
		Payload:   payload,
		EmittedAt: time.Now(),
	}
}

// Broadcaster fans an event out to all connected subscribers.
// Publish must never block the caller.
type Broadcaster interface {
	Publish(Event)
}

// Discard is a Broadcaster that drops every event. Useful for tests
// and tools that run the pipeline without a transport.
type Discard struct{}

// Publish implements Broadcaster.
func (Discard) Publish(Event) {}
