package balance

import (
	"context"

	"github.com/shopspring/decimal"
)

// Repository operations are linearizable per account: implementations take a
// FOR UPDATE row lock inside the ambient transaction. Get upserts a zero
// balance on first read so a concurrent first credit cannot be lost.
type Repository interface {
	Ensure(ctx context.Context, accountID string) error
	Get(ctx context.Context, accountID string) (*Balance, error)
	CreditDeposit(ctx context.Context, accountID string, amount decimal.Decimal) (*Balance, error)
	CreditReturn(ctx context.Context, accountID string, amount decimal.Decimal) (*Balance, error)
	// Debit moves amount out of available and bumps total_withdrawn.
	Debit(ctx context.Context, accountID string, amount decimal.Decimal) (*Balance, error)
	Lock(ctx context.Context, accountID string, amount decimal.Decimal) (*Balance, error)
	Unlock(ctx context.Context, accountID string, amount decimal.Decimal) (*Balance, error)
}
