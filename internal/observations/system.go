package observations

import (
	"context"

	"github.com/google/uuid"

	"github.com/fieldscope/fieldscope/internal/validation"
	"github.com/fieldscope/fieldscope/pkg/pagination"
)

// System defines the public contract for observation domain operations.
type System interface {
	Handler() *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Observation], error)

	Find(ctx context.Context, id uuid.UUID) (*Observation, error)
	Create(ctx context.Context, cmd CreateCommand) (*Observation, error)
	CompleteValidation(ctx context.Context, id uuid.UUID, result validation.Result) (*Observation, error)
	ReviewQueue(ctx context.Context) ([]Observation, error)
	Review(ctx context.Context, id uuid.UUID, cmd ReviewCommand) (*Observation, error)
	SetVerified(ctx context.Context, id uuid.UUID, cmd VerifyCommand) (*Observation, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
