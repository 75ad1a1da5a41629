package rewards

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/fieldscope/fieldscope/internal/events"
	"github.com/fieldscope/fieldscope/pkg/query"
	"github.com/fieldscope/fieldscope/pkg/repository"
)

const maxLeaderboardSize = 100

type repo struct {
	db          *sql.DB
	broadcaster events.Broadcaster
	logger      *slog.Logger
}

// New creates a reward repository implementing the System interface.
func New(db *sql.DB, broadcaster events.Broadcaster, logger *slog.Logger) System {
	return &repo{
		db:          db,
		broadcaster: broadcaster,
		logger:      logger.With("system", "rewards"),
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger)
}

func (r *repo) Award(
	ctx context.Context,
	displayName string,
	points int,
	isBounty bool,
	reason string,
) error {
	obsIncrement, bountyIncrement := 1, 0
	if isBounty {
		obsIncrement, bountyIncrement = 0, 1
	}

	// The increment is applied in SQL against the stored total so concurrent
	// awards to the same user never lose points to a read-modify-write race.
	// Rank is recomputed from the returned total inside the same transaction.
	incrementQ := `
		UPDATE users
		SET total_points = total_points + $1,
			observation_count = observation_count + $2,
			bounty_count = bounty_count + $3
		WHERE name = $4
		RETURNING id, total_points`

	type awarded struct {
		id    uuid.UUID
		total int
	}

	result, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (awarded, error) {
		row := tx.QueryRowContext(ctx, incrementQ, points, obsIncrement, bountyIncrement, displayName)

		var a awarded
		if err := row.Scan(&a.id, &a.total); err != nil {
			return awarded{}, err
		}

		if err := repository.ExecExpectOne(
			ctx, tx,
			"UPDATE users SET rank = $1 WHERE id = $2",
			string(RankOf(a.total)), a.id,
		); err != nil {
			return awarded{}, fmt.Errorf("recompute rank: %w", err)
		}

		return a, nil
	})

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// Known limitation: points for unregistered display names are
			// dropped rather than queued. Tracked in the design notes.
			r.logger.Info("no user record for display name, award skipped",
				"name", displayName,
				"points", points,
			)
			return nil
		}
		return fmt.Errorf("award points: %w", err)
	}

	r.logger.Info("points awarded",
		"name", displayName,
		"points", points,
		"reason", reason,
		"total", result.total,
	)

	r.broadcaster.Publish(events.New(events.PointsAwarded, AwardedPayload{
		UserName:    displayName,
		Points:      points,
		Reason:      reason,
		TotalPoints: result.total,
		Rank:        RankOf(result.total),
	}))

	return nil
}

func (r *repo) Leaderboard(ctx context.Context, limit int) ([]User, error) {
	if limit < 1 || limit > maxLeaderboardSize {
		limit = maxLeaderboardSize
	}

	q, args := query.
		NewBuilder(projection, leaderboardSort...).
		BuildPage(1, limit)

	users, err := repository.QueryMany(ctx, r.db, q, args, scanUser)
	if err != nil {
		return nil, fmt.Errorf("query leaderboard: %w", err)
	}

	return users, nil
}

func (r *repo) StatsFor(ctx context.Context, displayName string) (*Stats, error) {
	q, args := query.
		NewBuilder(projection).
		WhereEquals("Name", displayName).
		BuildSingleOrNull()

	user, err := repository.QueryOne(ctx, r.db, q, args, scanUser)
	if err == nil {
		return r.buildStats(user.Name, user.Rank, user.TotalPoints, user.ObservationCount, user.BountyCount, false), nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("query user stats: %w", err)
	}

	return r.estimateStats(ctx, displayName)
}

// estimateStats synthesizes reward numbers for a display name with no user
// record, from raw observation and completed-mission counts, using the same
// flat constants Award would have applied.
func (r *repo) estimateStats(ctx context.Context, displayName string) (*Stats, error) {
	var obsCount int
	if err := r.db.QueryRowContext(
		ctx,
		"SELECT COUNT(*) FROM observations WHERE submitter_name = $1",
		displayName,
	).Scan(&obsCount); err != nil {
		return nil, fmt.Errorf("count observations: %w", err)
	}

	var completedCount int
	if err := r.db.QueryRowContext(
		ctx,
		"SELECT COUNT(*) FROM user_missions WHERE user_name = $1 AND status = 'completed'",
		displayName,
	).Scan(&completedCount); err != nil {
		return nil, fmt.Errorf("count completed missions: %w", err)
	}

	total := obsCount*BaseObservationReward + completedCount*CompletedMissionEstimate
	return r.buildStats(displayName, RankOf(total), total, obsCount, completedCount, true), nil
}

func (r *repo) buildStats(
	name string,
	rank Rank,
	total, obsCount, bountyCount int,
	estimated bool,
) *Stats {
	next, nextMin, progress := RankProgress(total)

	return &Stats{
		Name:             name,
		Rank:             rank,
		TotalPoints:      total,
		ObservationCount: obsCount,
		BountyCount:      bountyCount,
		NextRank:         next,
		NextRankPoints:   nextMin,
		RankProgress:     progress,
		Estimated:        estimated,
	}
}

func (r *repo) Summary(ctx context.Context) (*Summary, error) {
	summary := &Summary{}

	if err := r.db.QueryRowContext(
		ctx, "SELECT COUNT(*) FROM observations",
	).Scan(&summary.TotalObservations); err != nil {
		return nil, fmt.Errorf("count observations: %w", err)
	}

	if err := r.db.QueryRowContext(
		ctx, "SELECT COUNT(*) FROM users",
	).Scan(&summary.TotalUsers); err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}

	if err := r.db.QueryRowContext(
		ctx, "SELECT COUNT(*) FROM missions WHERE active",
	).Scan(&summary.TotalMissions); err != nil {
		return nil, fmt.Errorf("count missions: %w", err)
	}

	top, err := r.Leaderboard(ctx, 3)
	if err != nil {
		return nil, err
	}
	summary.TopContributors = top

	return summary, nil
}
