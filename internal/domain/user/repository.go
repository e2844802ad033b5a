package user

import "context"

// Repository exposes user reads.
type Repository interface {
	GetByID(ctx context.Context, id int64) (User, bool, error)
	ListByIDs(ctx context.Context, ids []int64) ([]User, error)
}
