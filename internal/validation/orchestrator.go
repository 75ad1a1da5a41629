package validation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

const unavailableNotes = "assessment unavailable, sent for manual review"

// Orchestrator combines oracle judgments into one Result per observation.
// It never mutates persisted state; committing the outcome is the lifecycle
// manager's job.
type Orchestrator struct {
	oracle Oracle
	logger *slog.Logger
}

// NewOrchestrator creates an Orchestrator over the given oracle.
func NewOrchestrator(oracle Oracle, logger *slog.Logger) *Orchestrator {
	return &Orchestrator{
		oracle: oracle,
		logger: logger.With("system", "validation"),
	}
}

// Validate scores a submission. The text judgment is mandatory; when the
// subject carries an image and is tied to a mission, an image judgment is
// combined in as an unweighted mean. An unavailable oracle short-circuits
// to the midpoint score so the submission routes to human review.
func (o *Orchestrator) Validate(
	ctx context.Context,
	subject Subject,
	mission *MissionContext,
) Result {
	text, err := o.oracle.ScoreText(ctx, subject, mission)
	if err != nil {
		if !errors.Is(err, ErrUnavailable) {
			// Oracle contract violation; treat identically to an outage.
			o.logger.Error("oracle returned non-sentinel error", "error", err)
		}
		return Result{
			Score:   midpointScore,
			Outcome: OutcomeNeedsReview,
			Notes:   unavailableNotes,
		}
	}

	score := clampScore(text.Score)
	notes := text.Rationale

	if subject.ImageURL != nil && mission != nil {
		image, err := o.oracle.ScoreImage(ctx, *subject.ImageURL, mission)
		if err != nil {
			o.logger.Warn("image assessment unavailable, scoring on text only", "error", err)
		} else {
			score = clampScore((score + clampScore(image.Score)) / 2)
			notes = fmt.Sprintf("%s\n\nImage Analysis: %s", notes, image.Description)
		}
	}

	return Result{
		Score:   score,
		Outcome: outcomeOf(score),
		Notes:   notes,
	}
}
