package missions

import (
	"context"

	"github.com/google/uuid"

	"github.com/fieldscope/fieldscope/pkg/pagination"
)

// System defines the public contract for mission domain operations.
type System interface {
	Handler() *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Mission], error)

	Find(ctx context.Context, id uuid.UUID) (*Mission, error)
	Create(ctx context.Context, cmd CreateCommand) (*Mission, error)
	Accept(ctx context.Context, id uuid.UUID, cmd ParticipantCommand) (*UserMission, error)
	Complete(ctx context.Context, id uuid.UUID, cmd ParticipantCommand) (*CompletedPayload, error)
}
