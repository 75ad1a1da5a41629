// Package rewards implements the points and rank engine for FieldScope.
// Contributors earn points for submitted observations and completed mission
// bounties; rank is always derived from cumulative points, never stored
// independently of them.
package rewards

import (
	"time"

	"github.com/google/uuid"
)

// Flat reward constants. BaseObservationReward is paid for observations not
// tied to a mission; mission-linked submissions pay the mission's bounty.
// CompletedMissionEstimate is used only when synthesizing stats for a
// display name with no user record, and must stay consistent with the seed
// data's typical bounty.
const (
	BaseObservationReward    = 10
	CompletedMissionEstimate = 25
)

// User is a contributor's reward state. Name doubles as the join key from
// observation submitter names; see the design notes on this weak linkage.
type User struct {
	ID               uuid.UUID `json:"id"`
	Name             string    `json:"name"`
	Rank             Rank      `json:"rank"`
	TotalPoints      int       `json:"total_points"`
	ObservationCount int       `json:"observation_count"`
	BountyCount      int       `json:"bounty_count"`
	CreatedAt        time.Time `json:"created_at"`
}

// Stats is a contributor's reward state plus rank-progress metadata.
// Estimated is true when no user record exists and the numbers were
// synthesized from raw observation and bounty counts.
type Stats struct {
	Name             string `json:"name"`
	Rank             Rank   `json:"rank"`
	TotalPoints      int    `json:"total_points"`
	ObservationCount int    `json:"observation_count"`
	BountyCount      int    `json:"bounty_count"`
	NextRank         *Rank  `json:"next_rank"`
	NextRankPoints   *int   `json:"next_rank_points"`
	RankProgress     int    `json:"rank_progress"`
	Estimated        bool   `json:"estimated"`
}

// Summary aggregates platform-wide contribution totals.
type Summary struct {
	TotalObservations int    `json:"total_observations"`
	TotalUsers        int    `json:"total_users"`
	TotalMissions     int    `json:"total_missions"`
	TopContributors   []User `json:"top_contributors"`
}

// AwardedPayload is the points.awarded event payload.
type AwardedPayload struct {
	UserName    string `json:"user_name"`
	Points      int    `json:"points"`
	Reason      string `json:"reason"`
	TotalPoints int    `json:"total_points"`
	Rank        Rank   `json:"rank"`
}
