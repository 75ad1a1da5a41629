// Package observations implements the observation lifecycle: submission,
// asynchronous relevance scoring, the validation state machine, and the
// moderator review queue.
package observations

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Status is an observation's position in the validation state machine.
type Status string

// Validation statuses. Pending transitions to exactly one of the other
// three; needs_review additionally transitions to auto_approved or
// rejected through a moderator decision.
const (
	StatusPending      Status = "pending"
	StatusAutoApproved Status = "auto_approved"
	StatusNeedsReview  Status = "needs_review"
	StatusRejected     Status = "rejected"
)

// CanTransition reports whether the state machine permits moving from
// one status to another. Rejection is never reachable directly from
// pending; it requires a moderator acting on needs_review.
func CanTransition(from, to Status) bool {
	switch from {
	case StatusPending:
		return to == StatusAutoApproved || to == StatusNeedsReview
	case StatusNeedsReview:
		return to == StatusAutoApproved || to == StatusRejected
	default:
		return false
	}
}

// Observation is a geotagged field submission moving through the
// validation pipeline.
type Observation struct {
	ID               uuid.UUID  `json:"id"`
	Latitude         float64    `json:"latitude"`
	Longitude        float64    `json:"longitude"`
	Category         string     `json:"category"`
	ImageURL         *string    `json:"image_url"`
	AudioURL         *string    `json:"audio_url"`
	AILabel          *string    `json:"ai_label"`
	AIConfidence     *float64   `json:"ai_confidence"`
	SubmitterName    string     `json:"submitter_name"`
	SubmitterID      *string    `json:"submitter_id"`
	MissionID        *uuid.UUID `json:"mission_id"`
	Notes            *string    `json:"notes"`
	ValidationStatus Status     `json:"validation_status"`
	ValidationScore  *float64   `json:"validation_score"`
	ValidationNotes  *string    `json:"validation_notes"`
	Verified         bool       `json:"verified"`
	CreatedAt        time.Time  `json:"created_at"`
}

// CreateCommand carries the data needed to submit an observation.
// Latitude and longitude are pointers so a missing coordinate is
// distinguishable from zero.
type CreateCommand struct {
	Latitude      *float64   `json:"latitude"`
	Longitude     *float64   `json:"longitude"`
	Category      string     `json:"category"`
	ImageURL      *string    `json:"image_url"`
	AudioURL      *string    `json:"audio_url"`
	AILabel       *string    `json:"ai_label"`
	AIConfidence  *float64   `json:"ai_confidence"`
	SubmitterName string     `json:"submitter_name"`
	SubmitterID   *string    `json:"submitter_id"`
	MissionID     *uuid.UUID `json:"mission_id"`
	Notes         *string    `json:"notes"`
}

// Validate checks required fields and applies submission defaults.
func (c *CreateCommand) Validate() error {
	if c.Latitude == nil || c.Longitude == nil || c.Category == "" {
		return fmt.Errorf("%w: latitude, longitude, and category are required", ErrInvalidInput)
	}

	if c.SubmitterName == "" {
		c.SubmitterName = "Anonymous"
	}

	return nil
}

// Review actions a moderator may take on a queued observation.
const (
	ActionApprove = "approve"
	ActionReject  = "reject"
)

// ReviewCommand carries a moderator's decision on an observation in the
// review queue.
type ReviewCommand struct {
	Action        string  `json:"action"`
	ReviewerNotes *string `json:"reviewer_notes"`
}

// Validate checks the review action.
func (c ReviewCommand) Validate() error {
	if c.Action != ActionApprove && c.Action != ActionReject {
		return fmt.Errorf("%w: action must be %q or %q", ErrInvalidAction, ActionApprove, ActionReject)
	}
	return nil
}

// Resolve returns the terminal status, verified flag, and replacement
// validation notes for the decision. Reviewer notes replace the automated
// notes rather than appending to them.
func (c ReviewCommand) Resolve() (Status, bool, string) {
	status := StatusRejected
	verified := false
	if c.Action == ActionApprove {
		status = StatusAutoApproved
		verified = true
	}

	notes := fmt.Sprintf("Manually %sd by moderator", c.Action)
	if c.ReviewerNotes != nil && *c.ReviewerNotes != "" {
		notes = "Manual review: " + *c.ReviewerNotes
	}

	return status, verified, notes
}

// VerifyCommand toggles the verified flag outside the state machine.
// A missing value defaults to true, matching the submission protocol.
type VerifyCommand struct {
	Verified *bool `json:"verified"`
}

// Value returns the effective verified flag.
func (c VerifyCommand) Value() bool {
	if c.Verified == nil {
		return true
	}
	return *c.Verified
}

// ValidatedPayload is the observation.validated event payload.
type ValidatedPayload struct {
	ID               uuid.UUID `json:"id"`
	ValidationStatus Status    `json:"validation_status"`
	ValidationScore  float64   `json:"validation_score"`
	ValidationNotes  string    `json:"validation_notes"`
	Verified         bool      `json:"verified"`
}

// ReviewNeededPayload is the observation.review_needed event payload,
// addressed to moderators.
type ReviewNeededPayload struct {
	ObservationID uuid.UUID `json:"observation_id"`
	Category      string    `json:"category"`
	SubmitterName string    `json:"submitter_name"`
	Score         float64   `json:"score"`
}
