package rewards

import (
	"github.com/fieldscope/fieldscope/pkg/query"
	"github.com/fieldscope/fieldscope/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "users", "u").
	Project("id", "ID").
	Project("name", "Name").
	Project("rank", "Rank").
	Project("total_points", "TotalPoints").
	Project("observation_count", "ObservationCount").
	Project("bounty_count", "BountyCount").
	Project("created_at", "CreatedAt")

// Points-descending with earliest-created first as the deterministic
// tiebreak, so leaderboard output is stable under equal totals.
var leaderboardSort = []query.SortField{
	{Field: "TotalPoints", Descending: true},
	{Field: "CreatedAt", Descending: false},
}

func scanUser(s repository.Scanner) (User, error) {
	var u User
	err := s.Scan(
		&u.ID,
		&u.Name,
		&u.Rank,
		&u.TotalPoints,
		&u.ObservationCount,
		&u.BountyCount,
		&u.CreatedAt,
	)
	return u, err
}
