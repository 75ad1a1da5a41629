package observations

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/fieldscope/fieldscope/internal/events"
	"github.com/fieldscope/fieldscope/internal/missions"
	"github.com/fieldscope/fieldscope/internal/rewards"
	"github.com/fieldscope/fieldscope/internal/validation"
	"github.com/fieldscope/fieldscope/pkg/pagination"
	"github.com/fieldscope/fieldscope/pkg/query"
	"github.com/fieldscope/fieldscope/pkg/repository"
)

// reviewQueueCap bounds the review queue listing so an oracle outage
// flooding the queue cannot produce an unbounded response.
const reviewQueueCap = 200

const observationColumns = `id, latitude, longitude, category, image_url, audio_url, ai_label, ai_confidence,
		submitter_name, submitter_id, mission_id, notes, validation_status, validation_score, validation_notes,
		verified, created_at`

type repo struct {
	db           *sql.DB
	orchestrator *validation.Orchestrator
	missions     missions.System
	rewards      rewards.System
	broadcaster  events.Broadcaster
	logger       *slog.Logger
	pagination   pagination.Config
}

// New creates an observation repository implementing the System interface.
func New(
	db *sql.DB,
	orchestrator *validation.Orchestrator,
	missionSys missions.System,
	rewardSys rewards.System,
	broadcaster events.Broadcaster,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	return &repo{
		db:           db,
		orchestrator: orchestrator,
		missions:     missionSys,
		rewards:      rewardSys,
		broadcaster:  broadcaster,
		logger:       logger.With("system", "observations"),
		pagination:   pagination,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Observation], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Category", "SubmitterName")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count observations: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	obs, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanObservation)
	if err != nil {
		return nil, fmt.Errorf("query observations: %w", err)
	}

	result := pagination.NewPageResult(obs, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Observation, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	o, err := repository.QueryOne(ctx, r.db, q, args, scanObservation)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &o, nil
}

// Create persists the submission in pending state, awards the base reward,
// and schedules the background scoring task. The scoring task must never
// delay the creation response, so it is dispatched after the insert commits
// and runs on a detached context.
func (r *repo) Create(ctx context.Context, cmd CreateCommand) (*Observation, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	q := `
		INSERT INTO observations(id, latitude, longitude, category, image_url, audio_url, ai_label, ai_confidence, submitter_name, submitter_id, mission_id, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING ` + observationColumns

	insertArgs := []any{
		uuid.New(),
		*cmd.Latitude,
		*cmd.Longitude,
		cmd.Category,
		cmd.ImageURL,
		cmd.AudioURL,
		cmd.AILabel,
		cmd.AIConfidence,
		cmd.SubmitterName,
		cmd.SubmitterID,
		cmd.MissionID,
		cmd.Notes,
	}

	o, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Observation, error) {
		return repository.QueryOne(ctx, tx, q, insertArgs, scanObservation)
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("observation created",
		"id", o.ID,
		"category", o.Category,
		"submitter", o.SubmitterName,
	)

	r.awardBase(ctx, &o)
	r.broadcaster.Publish(events.New(events.ObservationCreated, o))
	r.scheduleValidation(o)

	return &o, nil
}

// awardBase pays the submission reward: the owning mission's bounty value
// when the observation is tied to a mission, else the flat base reward.
// Award failures never fail the submission.
func (r *repo) awardBase(ctx context.Context, o *Observation) {
	points := rewards.BaseObservationReward
	reason := "observation"

	if o.MissionID != nil {
		if mission, err := r.missions.Find(ctx, *o.MissionID); err == nil && mission.BountyPoints > 0 {
			points = mission.BountyPoints
			reason = fmt.Sprintf("mission bounty (%s)", mission.Title)
		}
	}

	if err := r.rewards.Award(ctx, o.SubmitterName, points, false, reason); err != nil {
		r.logger.Warn("base award failed",
			"observation", o.ID,
			"submitter", o.SubmitterName,
			"error", err,
		)
	}
}

// CompleteValidation commits the scoring outcome. The status guard in the
// WHERE clause makes the automated pipeline's terminal transition happen at
// most once: if the observation has already left pending, the update matches
// zero rows and the commit fails closed with ErrInvalidStatus.
func (r *repo) CompleteValidation(
	ctx context.Context,
	id uuid.UUID,
	result validation.Result,
) (*Observation, error) {
	q := `
		UPDATE observations
		SET validation_status = $1, validation_score = $2, validation_notes = $3, verified = $4
		WHERE id = $5 AND validation_status = $6
		RETURNING ` + observationColumns

	args := []any{
		string(result.Outcome),
		result.Score,
		result.Notes,
		result.Outcome == validation.OutcomeAutoApproved,
		id,
		StatusPending,
	}

	o, err := repository.QueryOne(ctx, r.db, q, args, scanObservation)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: observation %s is not pending", ErrInvalidStatus, id)
		}
		return nil, fmt.Errorf("commit validation: %w", err)
	}

	r.logger.Info("observation validated",
		"id", o.ID,
		"status", o.ValidationStatus,
		"score", result.Score,
	)

	r.broadcaster.Publish(events.New(events.ObservationValidated, ValidatedPayload{
		ID:               o.ID,
		ValidationStatus: o.ValidationStatus,
		ValidationScore:  result.Score,
		ValidationNotes:  result.Notes,
		Verified:         o.Verified,
	}))

	if o.ValidationStatus == StatusNeedsReview {
		r.broadcaster.Publish(events.New(events.ObservationReviewNeeded, ReviewNeededPayload{
			ObservationID: o.ID,
			Category:      o.Category,
			SubmitterName: o.SubmitterName,
			Score:         result.Score,
		}))
	}

	return &o, nil
}

func (r *repo) ReviewQueue(ctx context.Context) ([]Observation, error) {
	status := StatusNeedsReview
	q, args := query.
		NewBuilder(projection, defaultSort).
		WhereEquals("ValidationStatus", &status).
		BuildPage(1, reviewQueueCap)

	obs, err := repository.QueryMany(ctx, r.db, q, args, scanObservation)
	if err != nil {
		return nil, fmt.Errorf("query review queue: %w", err)
	}

	return obs, nil
}

// Review commits a moderator decision. Only observations still in
// needs_review are transitionable; the status guard rejects a second
// decision on the same observation instead of overwriting the first.
func (r *repo) Review(ctx context.Context, id uuid.UUID, cmd ReviewCommand) (*Observation, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	status, verified, notes := cmd.Resolve()

	q := `
		UPDATE observations
		SET validation_status = $1, verified = $2, validation_notes = $3
		WHERE id = $4 AND validation_status = $5
		RETURNING ` + observationColumns

	args := []any{string(status), verified, notes, id, StatusNeedsReview}

	o, err := repository.QueryOne(ctx, r.db, q, args, scanObservation)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			if _, findErr := r.Find(ctx, id); findErr != nil {
				return nil, findErr
			}
			return nil, fmt.Errorf("%w: observation %s", ErrInvalidStatus, id)
		}
		return nil, fmt.Errorf("commit review: %w", err)
	}

	r.logger.Info("observation reviewed",
		"id", o.ID,
		"action", cmd.Action,
		"status", o.ValidationStatus,
	)

	r.broadcaster.Publish(events.New(events.ObservationReviewed, o))
	return &o, nil
}

// SetVerified toggles the verified flag directly, bypassing the state
// machine. Used for trusted manual correction.
func (r *repo) SetVerified(ctx context.Context, id uuid.UUID, cmd VerifyCommand) (*Observation, error) {
	q := `
		UPDATE observations
		SET verified = $1
		WHERE id = $2
		RETURNING ` + observationColumns

	o, err := repository.QueryOne(ctx, r.db, q, []any{cmd.Value(), id}, scanObservation)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.broadcaster.Publish(events.New(events.ObservationUpdated, o))
	return &o, nil
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	if err := repository.ExecExpectOne(
		ctx, r.db,
		"DELETE FROM observations WHERE id = $1",
		id,
	); err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("observation deleted", "id", id)
	r.broadcaster.Publish(events.New(events.ObservationDeleted, map[string]uuid.UUID{"id": id}))
	return nil
}
