package repomock

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"

	domain "pesavest-backend/internal/domain/balance"
)

var _ domain.Repository = (*BalanceRepo)(nil)

// BalanceRepo defaults to a real in-memory balance per account, so money
// conservation can be asserted without a database. Any Fn field overrides
// the default for that method.
type BalanceRepo struct {
	mu       sync.Mutex
	accounts map[string]*domain.Balance

	EnsureFn        func(ctx context.Context, accountID string) error
	GetFn           func(ctx context.Context, accountID string) (*domain.Balance, error)
	CreditDepositFn func(ctx context.Context, accountID string, amount decimal.Decimal) (*domain.Balance, error)
	CreditReturnFn  func(ctx context.Context, accountID string, amount decimal.Decimal) (*domain.Balance, error)
	DebitFn         func(ctx context.Context, accountID string, amount decimal.Decimal) (*domain.Balance, error)
	LockFn          func(ctx context.Context, accountID string, amount decimal.Decimal) (*domain.Balance, error)
	UnlockFn        func(ctx context.Context, accountID string, amount decimal.Decimal) (*domain.Balance, error)
}

func (m *BalanceRepo) row(accountID string) *domain.Balance {
	if m.accounts == nil {
		m.accounts = map[string]*domain.Balance{}
	}
	b, ok := m.accounts[accountID]
	if !ok {
		b = &domain.Balance{AccountID: accountID}
		m.accounts[accountID] = b
	}
	return b
}

// Snapshot returns a copy of the in-memory balance for assertions.
func (m *BalanceRepo) Snapshot(accountID string) domain.Balance {
	m.mu.Lock()
	defer m.mu.Unlock()
	return *m.row(accountID)
}

func (m *BalanceRepo) Ensure(ctx context.Context, accountID string) error {
	if m.EnsureFn != nil {
		return m.EnsureFn(ctx, accountID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.row(accountID)
	return nil
}

func (m *BalanceRepo) Get(ctx context.Context, accountID string) (*domain.Balance, error) {
	if m.GetFn != nil {
		return m.GetFn(ctx, accountID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	b := *m.row(accountID)
	return &b, nil
}

func (m *BalanceRepo) CreditDeposit(ctx context.Context, accountID string, amount decimal.Decimal) (*domain.Balance, error) {
	if m.CreditDepositFn != nil {
		return m.CreditDepositFn(ctx, accountID, amount)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	b := m.row(accountID)
	b.Available = b.Available.Add(amount)
	b.TotalDeposited = b.TotalDeposited.Add(amount)
	out := *b
	return &out, nil
}

func (m *BalanceRepo) CreditReturn(ctx context.Context, accountID string, amount decimal.Decimal) (*domain.Balance, error) {
	if m.CreditReturnFn != nil {
		return m.CreditReturnFn(ctx, accountID, amount)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	b := m.row(accountID)
	b.Available = b.Available.Add(amount)
	b.TotalReturns = b.TotalReturns.Add(amount)
	out := *b
	return &out, nil
}

func (m *BalanceRepo) Debit(ctx context.Context, accountID string, amount decimal.Decimal) (*domain.Balance, error) {
	if m.DebitFn != nil {
		return m.DebitFn(ctx, accountID, amount)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	b := m.row(accountID)
	if b.Available.LessThan(amount) {
		return nil, domain.ErrInsufficient
	}
	b.Available = b.Available.Sub(amount)
	b.TotalWithdrawn = b.TotalWithdrawn.Add(amount)
	out := *b
	return &out, nil
}

func (m *BalanceRepo) Lock(ctx context.Context, accountID string, amount decimal.Decimal) (*domain.Balance, error) {
	if m.LockFn != nil {
		return m.LockFn(ctx, accountID, amount)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	b := m.row(accountID)
	if b.Available.LessThan(amount) {
		return nil, domain.ErrInsufficient
	}
	b.Available = b.Available.Sub(amount)
	b.Locked = b.Locked.Add(amount)
	out := *b
	return &out, nil
}

func (m *BalanceRepo) Unlock(ctx context.Context, accountID string, amount decimal.Decimal) (*domain.Balance, error) {
	if m.UnlockFn != nil {
		return m.UnlockFn(ctx, accountID, amount)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	b := m.row(accountID)
	if b.Locked.LessThan(amount) {
		return nil, domain.ErrInsufficient
	}
	b.Locked = b.Locked.Sub(amount)
	b.Available = b.Available.Add(amount)
	out := *b
	return &out, nil
}
