package uow

import (
	"context"

	"pesavest-backend/internal/domain/audit"
	"pesavest-backend/internal/domain/balance"
	"pesavest-backend/internal/domain/intent"
	"pesavest-backend/internal/domain/investment"
	"pesavest-backend/internal/domain/ledger"
	"pesavest-backend/internal/domain/payment"
	"pesavest-backend/internal/domain/plan"
	"pesavest-backend/internal/domain/withdrawal"
)

type Repos struct {
	Plans       plan.Repository
	Intents     intent.Repository
	Payments    payment.Repository
	Investments investment.Repository
	Balances    balance.Repository
	Ledger      ledger.Repository
	Audits      audit.Repository
	Withdrawals withdrawal.Repository
}

type UnitOfWork interface {
	// plain tx
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// convenience: lock the investment row first, then pass it in
	WithinInvestmentTx(ctx context.Context, investmentID string, fn func(r Repos, inv *investment.Investment) error) error
	// convenience: lock the withdrawal row first, then pass it in
	WithinWithdrawalTx(ctx context.Context, withdrawalID string, fn func(r Repos, w *withdrawal.Withdrawal) error) error
}
