package domain

import (
	"context"
)

// TransactionRunner runs fn inside a single storage transaction. Nested calls
// reuse the transaction already carried by ctx.
type TransactionRunner interface {
	Exec(ctx context.Context, fn func(ctx context.Context) error) error
}
