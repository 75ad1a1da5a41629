package missions

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/fieldscope/fieldscope/internal/events"
	"github.com/fieldscope/fieldscope/internal/rewards"
	"github.com/fieldscope/fieldscope/pkg/pagination"
	"github.com/fieldscope/fieldscope/pkg/query"
	"github.com/fieldscope/fieldscope/pkg/repository"
)

type repo struct {
	db          *sql.DB
	rewards     rewards.System
	broadcaster events.Broadcaster
	logger      *slog.Logger
	pagination  pagination.Config
}

// New creates a mission repository implementing the System interface.
func New(
	db *sql.DB,
	rewardSys rewards.System,
	broadcaster events.Broadcaster,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	return &repo{
		db:          db,
		rewards:     rewardSys,
		broadcaster: broadcaster,
		logger:      logger.With("system", "missions"),
		pagination:  pagination,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Mission], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Title", "Description")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count missions: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	missions, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanMission)
	if err != nil {
		return nil, fmt.Errorf("query missions: %w", err)
	}

	result := pagination.NewPageResult(missions, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Mission, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	m, err := repository.QueryOne(ctx, r.db, q, args, scanMission)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &m, nil
}

func (r *repo) Create(ctx context.Context, cmd CreateCommand) (*Mission, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	q := `
		INSERT INTO missions(id, title, description, scientific_goal, data_protocol, data_requirement, bounty_points, mission_type, geometry, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, title, description, scientific_goal, data_protocol, data_requirement, bounty_points, mission_type, geometry, created_by, active, created_at`

	insertArgs := []any{
		uuid.New(),
		cmd.Title,
		cmd.Description,
		cmd.ScientificGoal,
		cmd.DataProtocol,
		cmd.DataRequirement,
		cmd.BountyPoints,
		cmd.MissionType,
		cmd.Geometry,
		cmd.CreatedBy,
	}

	m, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Mission, error) {
		return repository.QueryOne(ctx, tx, q, insertArgs, scanMission)
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("mission created",
		"id", m.ID,
		"title", m.Title,
		"bounty", m.BountyPoints,
	)

	r.broadcaster.Publish(events.New(events.MissionCreated, m))
	return &m, nil
}

func (r *repo) Accept(ctx context.Context, id uuid.UUID, cmd ParticipantCommand) (*UserMission, error) {
	if cmd.UserName == "" {
		return nil, fmt.Errorf("%w: user_name is required", ErrInvalidInput)
	}

	if _, err := r.Find(ctx, id); err != nil {
		return nil, err
	}

	q := `
		INSERT INTO user_missions(id, mission_id, user_name)
		VALUES ($1, $2, $3)
		RETURNING id, mission_id, user_name, status, accepted_at, completed_at`

	um, err := repository.QueryOne(
		ctx, r.db, q,
		[]any{uuid.New(), id, cmd.UserName},
		scanUserMission,
	)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrAlreadyAccepted)
	}

	r.logger.Info("mission accepted", "mission", id, "user", cmd.UserName)
	return &um, nil
}

func (r *repo) Complete(ctx context.Context, id uuid.UUID, cmd ParticipantCommand) (*CompletedPayload, error) {
	if cmd.UserName == "" {
		return nil, fmt.Errorf("%w: user_name is required", ErrInvalidInput)
	}

	mission, err := r.Find(ctx, id)
	if err != nil {
		return nil, err
	}

	// The status guard in the WHERE clause makes completion idempotent-safe:
	// a second completion for the same pair matches zero rows and the bounty
	// is never paid twice.
	completeQ := `
		UPDATE user_missions
		SET status = $1, completed_at = NOW()
		WHERE mission_id = $2 AND user_name = $3 AND status = $4`

	if _, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		err := repository.ExecExpectOne(
			ctx, tx, completeQ,
			UserMissionCompleted, id, cmd.UserName, UserMissionAccepted,
		)
		return struct{}{}, err
	}); err != nil {
		return nil, repository.MapError(err, ErrNotAccepted, ErrDuplicate)
	}

	reason := fmt.Sprintf("mission bounty (%s)", mission.Title)
	if err := r.rewards.Award(ctx, cmd.UserName, mission.BountyPoints, true, reason); err != nil {
		// Completion already committed. The bounty failure is surfaced in
		// logs rather than rolling the mission back under the contributor.
		r.logger.Warn("bounty award failed after mission completion",
			"mission", id,
			"user", cmd.UserName,
			"error", err,
		)
	}

	payload := &CompletedPayload{
		MissionID:     mission.ID,
		MissionTitle:  mission.Title,
		UserName:      cmd.UserName,
		BountyAwarded: mission.BountyPoints,
	}

	r.logger.Info("mission completed",
		"mission", id,
		"user", cmd.UserName,
		"bounty", mission.BountyPoints,
	)

	r.broadcaster.Publish(events.New(events.MissionCompleted, payload))
	return payload, nil
}
