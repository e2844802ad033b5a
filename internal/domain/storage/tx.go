package storage

import "context"

// TxRunner runs fn inside one storage transaction. Repository calls made with
// the context passed to fn join that transaction; fn returning an error rolls
// everything back.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}
