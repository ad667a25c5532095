package ports

import "context"

// TxManager runs fn inside a single database transaction. Repositories called
// with the context passed to fn take part in that transaction. The
// transaction commits when fn returns nil and rolls back otherwise.
type TxManager interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}
