package repomock

import (
	"context"

	domain "pesavest-backend/internal/domain/payment"
)

var _ domain.Repository = (*PaymentRepo)(nil)

type PaymentRepo struct {
	CreateFn                    func(ctx context.Context, p *domain.Payment) error
	GetByExternalRefFn          func(ctx context.Context, ref string) (*domain.Payment, error)
	GetByExternalRefForUpdateFn func(ctx context.Context, ref string) (*domain.Payment, error)
	SaveFn                      func(ctx context.Context, p *domain.Payment) error
}

func (m *PaymentRepo) Create(ctx context.Context, p *domain.Payment) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, p)
	}
	return nil
}
func (m *PaymentRepo) GetByExternalRef(ctx context.Context, ref string) (*domain.Payment, error) {
	if m.GetByExternalRefFn != nil {
		return m.GetByExternalRefFn(ctx, ref)
	}
	return nil, domain.ErrNotFound
}
func (m *PaymentRepo) GetByExternalRefForUpdate(ctx context.Context, ref string) (*domain.Payment, error) {
	if m.GetByExternalRefForUpdateFn != nil {
		return m.GetByExternalRefForUpdateFn(ctx, ref)
	}
	return nil, domain.ErrNotFound
}
func (m *PaymentRepo) Save(ctx context.Context, p *domain.Payment) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, p)
	}
	return nil
}
