package ledger

import (
	"context"

	"github.com/shopspring/decimal"
)

type Repository interface {
	Append(ctx context.Context, t *Transaction) error
	ExistsByReference(ctx context.Context, reference string) (bool, error)
	// Newest first.
	ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]Transaction, error)
	SumByAccountAndType(ctx context.Context, accountID string, typ Type) (decimal.Decimal, error)
}
