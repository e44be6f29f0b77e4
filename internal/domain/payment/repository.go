package payment

import "context"

type Repository interface {
	Create(ctx context.Context, p *Payment) error
	GetByExternalRef(ctx context.Context, ref string) (*Payment, error)
	GetByExternalRefForUpdate(ctx context.Context, ref string) (*Payment, error)
	Save(ctx context.Context, p *Payment) error
}
