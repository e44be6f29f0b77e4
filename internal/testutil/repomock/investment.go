package repomock

import (
	"context"

	domain "pesavest-backend/internal/domain/investment"
)

var _ domain.Repository = (*InvestmentRepo)(nil)

type InvestmentRepo struct {
	CreateFn                     func(ctx context.Context, inv *domain.Investment) error
	GetByInvestmentIDFn          func(ctx context.Context, investmentID string) (*domain.Investment, error)
	GetByInvestmentIDForUpdateFn func(ctx context.Context, investmentID string) (*domain.Investment, error)
	SaveFn                       func(ctx context.Context, inv *domain.Investment) error
	ListActiveIDsFn              func(ctx context.Context) ([]string, error)
	ListByAccountFn              func(ctx context.Context, accountID string) ([]domain.Investment, error)
}

func (m *InvestmentRepo) Create(ctx context.Context, inv *domain.Investment) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, inv)
	}
	return nil
}
func (m *InvestmentRepo) GetByInvestmentID(ctx context.Context, investmentID string) (*domain.Investment, error) {
	if m.GetByInvestmentIDFn != nil {
		return m.GetByInvestmentIDFn(ctx, investmentID)
	}
	return nil, domain.ErrNotFound
}
func (m *InvestmentRepo) GetByInvestmentIDForUpdate(ctx context.Context, investmentID string) (*domain.Investment, error) {
	if m.GetByInvestmentIDForUpdateFn != nil {
		return m.GetByInvestmentIDForUpdateFn(ctx, investmentID)
	}
	return nil, domain.ErrNotFound
}
func (m *InvestmentRepo) Save(ctx context.Context, inv *domain.Investment) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, inv)
	}
	return nil
}
func (m *InvestmentRepo) ListActiveIDs(ctx context.Context) ([]string, error) {
	if m.ListActiveIDsFn != nil {
		return m.ListActiveIDsFn(ctx)
	}
	return nil, nil
}
func (m *InvestmentRepo) ListByAccount(ctx context.Context, accountID string) ([]domain.Investment, error) {
	if m.ListByAccountFn != nil {
		return m.ListByAccountFn(ctx, accountID)
	}
	return nil, nil
}
