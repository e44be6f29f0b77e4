package mysql

import (
	"context"

	"pesavest-backend/internal/domain/investment"
	"pesavest-backend/internal/domain/uow"
	"pesavest-backend/internal/domain/withdrawal"

	"gorm.io/gorm"
)

type GormUoW struct{ db *gorm.DB }

func NewGormUoW(db *gorm.DB) *GormUoW { return &GormUoW{db: db} }

func reposFor(tx *gorm.DB) uow.Repos {
	return uow.Repos{
		Plans:       &PlanRepository{db: tx},
		Intents:     &IntentRepository{db: tx},
		Payments:    &PaymentRepository{db: tx},
		Investments: &InvestmentRepository{db: tx},
		Balances:    &BalanceRepository{db: tx},
		Ledger:      &LedgerRepository{db: tx},
		Audits:      &AuditRepository{db: tx},
		Withdrawals: &WithdrawalRepository{db: tx},
	}
}

func (u *GormUoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(reposFor(tx))
	})
}

func (u *GormUoW) WithinInvestmentTx(ctx context.Context, investmentID string, fn func(r uow.Repos, inv *investment.Investment) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r := reposFor(tx)
		// lock the investment row up-front to prevent races
		inv, err := r.Investments.GetByInvestmentIDForUpdate(ctx, investmentID)
		if err != nil {
			return err
		}
		return fn(r, inv)
	})
}

func (u *GormUoW) WithinWithdrawalTx(ctx context.Context, withdrawalID string, fn func(r uow.Repos, w *withdrawal.Withdrawal) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r := reposFor(tx)
		w, err := r.Withdrawals.GetByWithdrawalIDForUpdate(ctx, withdrawalID)
		if err != nil {
			return err
		}
		return fn(r, w)
	})
}
