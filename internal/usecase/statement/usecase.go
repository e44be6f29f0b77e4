package statement

import (
	"context"

	"github.com/shopspring/decimal"

	"pesavest-backend/internal/domain/balance"
	"pesavest-backend/internal/domain/investment"
	"pesavest-backend/internal/domain/ledger"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// Usecase serves the read side: balances, ledger history and the portfolio
// rollup. Snapshot fields come straight from what the accrual engine last
// persisted.
type Usecase struct {
	balances    balance.Repository
	ledger      ledger.Repository
	investments investment.Repository
}

func NewUsecase(b balance.Repository, l ledger.Repository, inv investment.Repository) *Usecase {
	return &Usecase{balances: b, ledger: l, investments: inv}
}

func (u *Usecase) Balance(ctx context.Context, accountID string) (*balance.Balance, error) {
	return u.balances.Get(ctx, accountID)
}

func (u *Usecase) Transactions(ctx context.Context, accountID string, page, size int) ([]ledger.Transaction, error) {
	if size <= 0 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}
	if page < 1 {
		page = 1
	}
	return u.ledger.ListByAccount(ctx, accountID, size, (page-1)*size)
}

type Portfolio struct {
	Investments    []investment.Investment `json:"investments"`
	ActiveCount    int                     `json:"active_count"`
	TotalPrincipal decimal.Decimal         `json:"total_principal"`
	TotalAccrued   decimal.Decimal         `json:"total_accrued"`
	TotalValue     decimal.Decimal         `json:"total_value"`
}

func (u *Usecase) Portfolio(ctx context.Context, accountID string) (*Portfolio, error) {
	invs, err := u.investments.ListByAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	p := &Portfolio{Investments: invs}
	for i := range invs {
		if invs[i].Status == investment.StatusActive {
			p.ActiveCount++
		}
		p.TotalPrincipal = p.TotalPrincipal.Add(invs[i].Principal)
		p.TotalAccrued = p.TotalAccrued.Add(invs[i].AccruedReturn)
		p.TotalValue = p.TotalValue.Add(invs[i].CurrentValue)
	}
	return p, nil
}
