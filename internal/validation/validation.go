// Package validation implements the scoring pipeline for submitted
// observations: the oracle adapter that obtains relevance judgments from an
// OpenAI-compatible model endpoint, and the orchestrator that combines those
// judgments into a single validation result.
package validation

// ApprovalThreshold is the fixed score cutoff at or above which an
// observation bypasses human review. It is a policy constant, not
// configurable per mission.
const ApprovalThreshold = 0.80

// midpointScore is assigned when the oracle cannot assess a submission.
// The midpoint implies neither approval nor rejection, so outages always
// route to human review.
const midpointScore = 0.5

// Outcome is the status derived from a combined validation score.
type Outcome string

// Validation outcomes.
const (
	OutcomeAutoApproved Outcome = "auto_approved"
	OutcomeNeedsReview  Outcome = "needs_review"
)

// Result is the orchestrator's combined judgment for one observation.
// It is projected onto the observation record by the lifecycle manager
// rather than persisted directly.
type Result struct {
	Score   float64 `json:"score"`
	Outcome Outcome `json:"outcome"`
	Notes   string  `json:"notes"`
}

// Subject carries the observation fields the oracle needs for judgment.
type Subject struct {
	Category      string
	AILabel       *string
	AIConfidence  *float64
	Latitude      float64
	Longitude     float64
	Notes         *string
	ImageURL      *string
	SubmitterName string
}

// MissionContext carries the mission fields that frame a scoring request.
type MissionContext struct {
	Title          string
	MissionType    string
	Description    *string
	ScientificGoal *string
	DataProtocol   *string
}

// Assessment is the oracle's judgment of a text submission.
type Assessment struct {
	Score     float64
	Rationale string
}

// ImageAssessment is the oracle's judgment of a submitted image.
type ImageAssessment struct {
	Score       float64
	Description string
}

// outcomeOf derives the outcome from a combined score.
func outcomeOf(score float64) Outcome {
	if score >= ApprovalThreshold {
		return OutcomeAutoApproved
	}
	return OutcomeNeedsReview
}

// clampScore forces a score into [0, 1]. Malformed or out-of-range oracle
// scores are clamped rather than rejected.
func clampScore(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}
