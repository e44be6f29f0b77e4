package repomock

import (
	"context"

	domain "pesavest-backend/internal/domain/withdrawal"
)

var _ domain.Repository = (*WithdrawalRepo)(nil)

type WithdrawalRepo struct {
	CreateFn                     func(ctx context.Context, w *domain.Withdrawal) error
	GetByWithdrawalIDFn          func(ctx context.Context, withdrawalID string) (*domain.Withdrawal, error)
	GetByWithdrawalIDForUpdateFn func(ctx context.Context, withdrawalID string) (*domain.Withdrawal, error)
	SaveFn                       func(ctx context.Context, w *domain.Withdrawal) error
	ListByStatusFn               func(ctx context.Context, st domain.Status, limit int) ([]domain.Withdrawal, error)
}

func (m *WithdrawalRepo) Create(ctx context.Context, w *domain.Withdrawal) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, w)
	}
	return nil
}
func (m *WithdrawalRepo) GetByWithdrawalID(ctx context.Context, withdrawalID string) (*domain.Withdrawal, error) {
	if m.GetByWithdrawalIDFn != nil {
		return m.GetByWithdrawalIDFn(ctx, withdrawalID)
	}
	return nil, domain.ErrNotFound
}
func (m *WithdrawalRepo) GetByWithdrawalIDForUpdate(ctx context.Context, withdrawalID string) (*domain.Withdrawal, error) {
	if m.GetByWithdrawalIDForUpdateFn != nil {
		return m.GetByWithdrawalIDForUpdateFn(ctx, withdrawalID)
	}
	return nil, domain.ErrNotFound
}
func (m *WithdrawalRepo) Save(ctx context.Context, w *domain.Withdrawal) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, w)
	}
	return nil
}
func (m *WithdrawalRepo) ListByStatus(ctx context.Context, st domain.Status, limit int) ([]domain.Withdrawal, error) {
	if m.ListByStatusFn != nil {
		return m.ListByStatusFn(ctx, st, limit)
	}
	return nil, nil
}
