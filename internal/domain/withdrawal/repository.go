package withdrawal

import "context"

type Repository interface {
	Create(ctx context.Context, w *Withdrawal) error
	GetByWithdrawalID(ctx context.Context, withdrawalID string) (*Withdrawal, error)
	GetByWithdrawalIDForUpdate(ctx context.Context, withdrawalID string) (*Withdrawal, error)
	Save(ctx context.Context, w *Withdrawal) error
	// Operator queue, oldest first.
	ListByStatus(ctx context.Context, st Status, limit int) ([]Withdrawal, error)
}
