package rewards

// Rank is a named contribution tier derived from cumulative points.
type Rank string

// Ranks, lowest to highest.
const (
	RankNovice   Rank = "Novice"
	RankScout    Rank = "Scout"
	RankExplorer Rank = "Explorer"
	RankExpert   Rank = "Expert"
	RankMaster   Rank = "Master"
)

type rankThreshold struct {
	rank Rank
	min  int
}

// Ordered low to high; thresholds are inclusive on the lower edge.
var rankThresholds = []rankThreshold{
	{RankNovice, 0},
	{RankScout, 30},
	{RankExplorer, 100},
	{RankExpert, 250},
	{RankMaster, 500},
}

// RankOf maps cumulative points to a rank. It is a pure, monotonically
// non-decreasing step function; it must be recomputed after every points
// mutation rather than cached.
func RankOf(total int) Rank {
	rank := RankNovice
	for _, t := range rankThresholds {
		if total >= t.min {
			rank = t.rank
		}
	}
	return rank
}

// RankProgress returns the next rank, its threshold, and the percentage of
// progress from the current rank's lower threshold toward it. When the
// highest rank is reached, next is nil and progress is clamped to 100.
func RankProgress(total int) (next *Rank, nextMin *int, progress int) {
	current := RankOf(total)

	idx := 0
	for i, t := range rankThresholds {
		if t.rank == current {
			idx = i
			break
		}
	}

	if idx == len(rankThresholds)-1 {
		return nil, nil, 100
	}

	currentMin := rankThresholds[idx].min
	nextThreshold := rankThresholds[idx+1]

	progress = (total - currentMin) * 100 / (nextThreshold.min - currentMin)
	if progress > 100 {
		progress = 100
	}
	if progress < 0 {
		progress = 0
	}

	return &nextThreshold.rank, &nextThreshold.min, progress
}
