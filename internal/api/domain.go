package api

import (
	"github.com/fieldscope/fieldscope/internal/missions"
	"github.com/fieldscope/fieldscope/internal/observations"
	"github.com/fieldscope/fieldscope/internal/rewards"
	"github.com/fieldscope/fieldscope/internal/validation"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Observations observations.System
	Missions     missions.System
	Rewards      rewards.System
}

// NewDomain creates all domain systems from the API runtime. Systems are
// built leaves-first: rewards has no domain dependencies, missions pays
// bounties through rewards, and observations drives the whole pipeline.
func NewDomain(runtime *Runtime) *Domain {
	oracle := validation.NewChatOracle(runtime.Oracle, runtime.Logger)
	orchestrator := validation.NewOrchestrator(oracle, runtime.Logger)

	rewardsSystem := rewards.New(
		runtime.Database.Connection(),
		runtime.Hub,
		runtime.Logger,
	)

	missionsSystem := missions.New(
		runtime.Database.Connection(),
		rewardsSystem,
		runtime.Hub,
		runtime.Logger,
		runtime.Pagination,
	)

	observationsSystem := observations.New(
		runtime.Database.Connection(),
		orchestrator,
		missionsSystem,
		rewardsSystem,
		runtime.Hub,
		runtime.Logger,
		runtime.Pagination,
	)

	return &Domain{
		Observations: observationsSystem,
		Missions:     missionsSystem,
		Rewards:      rewardsSystem,
	}
}
