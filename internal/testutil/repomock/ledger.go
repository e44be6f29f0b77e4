package repomock

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"

	domain "pesavest-backend/internal/domain/ledger"
)

var _ domain.Repository = (*LedgerRepo)(nil)

// LedgerRepo defaults to an append-only in-memory log with the same unique
// reference constraint the real table enforces.
type LedgerRepo struct {
	mu   sync.Mutex
	rows []domain.Transaction

	AppendFn              func(ctx context.Context, t *domain.Transaction) error
	ExistsByReferenceFn   func(ctx context.Context, reference string) (bool, error)
	ListByAccountFn       func(ctx context.Context, accountID string, limit, offset int) ([]domain.Transaction, error)
	SumByAccountAndTypeFn func(ctx context.Context, accountID string, typ domain.Type) (decimal.Decimal, error)
}

func (m *LedgerRepo) Rows() []domain.Transaction {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Transaction, len(m.rows))
	copy(out, m.rows)
	return out
}

func (m *LedgerRepo) Append(ctx context.Context, t *domain.Transaction) error {
	if m.AppendFn != nil {
		return m.AppendFn(ctx, t)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.rows {
		if m.rows[i].Reference == t.Reference {
			return domain.ErrDuplicateReference
		}
	}
	t.ID = uint64(len(m.rows) + 1)
	m.rows = append(m.rows, *t)
	return nil
}

func (m *LedgerRepo) ExistsByReference(ctx context.Context, reference string) (bool, error) {
	if m.ExistsByReferenceFn != nil {
		return m.ExistsByReferenceFn(ctx, reference)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.rows {
		if m.rows[i].Reference == reference {
			return true, nil
		}
	}
	return false, nil
}

func (m *LedgerRepo) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]domain.Transaction, error) {
	if m.ListByAccountFn != nil {
		return m.ListByAccountFn(ctx, accountID, limit, offset)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var all []domain.Transaction
	for i := len(m.rows) - 1; i >= 0; i-- {
		if m.rows[i].AccountID == accountID {
			all = append(all, m.rows[i])
		}
	}
	if offset >= len(all) {
		return nil, nil
	}
	all = all[offset:]
	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (m *LedgerRepo) SumByAccountAndType(ctx context.Context, accountID string, typ domain.Type) (decimal.Decimal, error) {
	if m.SumByAccountAndTypeFn != nil {
		return m.SumByAccountAndTypeFn(ctx, accountID, typ)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	sum := decimal.Zero
	for i := range m.rows {
		if m.rows[i].AccountID == accountID && m.rows[i].Type == typ && m.rows[i].Status == domain.StatusSuccess {
			sum = sum.Add(m.rows[i].Amount)
		}
	}
	return sum, nil
}
