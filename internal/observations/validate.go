package observations

import (
	"context"
	"fmt"
	"time"

	"github.com/fieldscope/fieldscope/internal/validation"
)

// backgroundTimeout bounds the whole scoring task, covering the mission
// context lookup and up to two oracle calls.
const backgroundTimeout = 2 * time.Minute

// scheduleValidation dispatches the scoring task for a freshly created
// observation. The task runs on a detached context so it survives the
// request that created the observation; the observation's persisted id is
// the only state shared with the request path.
func (r *repo) scheduleValidation(o Observation) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), backgroundTimeout)
		defer cancel()

		r.runValidation(ctx, o)
	}()
}

func (r *repo) runValidation(ctx context.Context, o Observation) {
	mission, err := r.missionContext(ctx, o)
	if err != nil {
		// The observation must never be left stuck in pending, so any
		// failure before scoring still commits a terminal queue state.
		r.logger.Error("mission context lookup failed", "observation", o.ID, "error", err)
		r.commitValidation(ctx, o, validation.Result{
			Score:   0.5,
			Outcome: validation.OutcomeNeedsReview,
			Notes:   fmt.Sprintf("Validation error: %v", err),
		})
		return
	}

	result := r.orchestrator.Validate(ctx, validation.Subject{
		Category:      o.Category,
		AILabel:       o.AILabel,
		AIConfidence:  o.AIConfidence,
		Latitude:      o.Latitude,
		Longitude:     o.Longitude,
		Notes:         o.Notes,
		ImageURL:      o.ImageURL,
		SubmitterName: o.SubmitterName,
	}, mission)

	r.commitValidation(ctx, o, result)
}

func (r *repo) missionContext(ctx context.Context, o Observation) (*validation.MissionContext, error) {
	if o.MissionID == nil {
		return nil, nil
	}

	mission, err := r.missions.Find(ctx, *o.MissionID)
	if err != nil {
		return nil, fmt.Errorf("load mission %s: %w", *o.MissionID, err)
	}

	return &validation.MissionContext{
		Title:          mission.Title,
		MissionType:    mission.MissionType,
		Description:    mission.Description,
		ScientificGoal: mission.ScientificGoal,
		DataProtocol:   mission.DataProtocol,
	}, nil
}

func (r *repo) commitValidation(ctx context.Context, o Observation, result validation.Result) {
	if _, err := r.CompleteValidation(ctx, o.ID, result); err != nil {
		r.logger.Error("validation commit failed",
			"observation", o.ID,
			"outcome", result.Outcome,
			"error", err,
		)
	}
}
