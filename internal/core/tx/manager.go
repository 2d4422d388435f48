// Package tx provides transaction management abstractions so domain and
// storage code do not depend on a concrete database driver.
package tx

import (
	"context"
)

// Manager runs fn inside a transaction: rolled back when fn returns an
// error, committed otherwise. Nested calls reuse the transaction in ctx.
type Manager interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
