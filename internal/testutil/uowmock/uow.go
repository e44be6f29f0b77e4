package uowmock

import (
	"context"

	"pesavest-backend/internal/domain/investment"
	"pesavest-backend/internal/domain/uow"
	"pesavest-backend/internal/domain/withdrawal"
)

// Ensure compile-time compliance
var _ uow.UnitOfWork = (*UoW)(nil)

// UoW is a function-backed mock that satisfies uow.UnitOfWork. Fill in the
// function fields to intercept; unfilled ones run fn directly against Repos
// (no transaction), resolving the locked row through the repo itself.
type UoW struct {
	Repos uow.Repos

	WithinTxFn           func(ctx context.Context, fn func(r uow.Repos) error) error
	WithinInvestmentTxFn func(ctx context.Context, investmentID string, fn func(r uow.Repos, inv *investment.Investment) error) error
	WithinWithdrawalTxFn func(ctx context.Context, withdrawalID string, fn func(r uow.Repos, w *withdrawal.Withdrawal) error) error
}

func New(r uow.Repos) *UoW { return &UoW{Repos: r} }

func (m *UoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	if m.WithinTxFn != nil {
		return m.WithinTxFn(ctx, fn)
	}
	return fn(m.Repos)
}

func (m *UoW) WithinInvestmentTx(ctx context.Context, investmentID string, fn func(r uow.Repos, inv *investment.Investment) error) error {
	if m.WithinInvestmentTxFn != nil {
		return m.WithinInvestmentTxFn(ctx, investmentID, fn)
	}
	inv, err := m.Repos.Investments.GetByInvestmentIDForUpdate(ctx, investmentID)
	if err != nil {
		return err
	}
	return fn(m.Repos, inv)
}

func (m *UoW) WithinWithdrawalTx(ctx context.Context, withdrawalID string, fn func(r uow.Repos, w *withdrawal.Withdrawal) error) error {
	if m.WithinWithdrawalTxFn != nil {
		return m.WithinWithdrawalTxFn(ctx, withdrawalID, fn)
	}
	w, err := m.Repos.Withdrawals.GetByWithdrawalIDForUpdate(ctx, withdrawalID)
	if err != nil {
		return err
	}
	return fn(m.Repos, w)
}
