package mapping

import "context"

// Repository owns mapping durability; the repair service owns correctness
// of the values written through it.
type Repository interface {
	Get(ctx context.Context, internalID string) (Mapping, bool, error)
	Put(ctx context.Context, item Mapping) error
}
