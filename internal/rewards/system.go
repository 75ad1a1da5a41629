package rewards

import "context"

// System defines the public contract for reward domain operations.
type System interface {
	Handler() *Handler

	// Award adds points to the user with the given display name, bumping the
	// matching event counter and recomputing rank from the new total. A
	// missing user record makes the award a silent no-op; see design notes.
	Award(ctx context.Context, displayName string, points int, isBounty bool, reason string) error

	Leaderboard(ctx context.Context, limit int) ([]User, error)
	StatsFor(ctx context.Context, displayName string) (*Stats, error)
	Summary(ctx context.Context) (*Summary, error)
}
