package leads

import "context"

// Repository provides durable access to the lead collection.
type Repository interface {
	Append(ctx context.Context, lead Lead) error
	List(ctx context.Context) ([]Lead, error)
	Get(ctx context.Context, id string) (*Lead, error)
	Update(ctx context.Context, lead Lead) error
}
