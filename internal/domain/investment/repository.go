package investment

import "context"

type Repository interface {
	Create(ctx context.Context, inv *Investment) error
	GetByInvestmentID(ctx context.Context, investmentID string) (*Investment, error)
	GetByInvestmentIDForUpdate(ctx context.Context, investmentID string) (*Investment, error)
	Save(ctx context.Context, inv *Investment) error
	// IDs only: the accrual engine opens a fresh transaction per position.
	ListActiveIDs(ctx context.Context) ([]string, error)
	ListByAccount(ctx context.Context, accountID string) ([]Investment, error)
}
