package mysql

import (
	"context"
	"errors"

	balanceDomain "pesavest-backend/internal/domain/balance"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type BalanceRepository struct{ db *gorm.DB }

func NewBalanceRepository(db *gorm.DB) *BalanceRepository { return &BalanceRepository{db: db} }

func (r *BalanceRepository) Ensure(ctx context.Context, accountID string) error {
	var b balanceDomain.Balance
	return r.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Attrs(balanceDomain.Balance{AccountID: accountID}).
		FirstOrCreate(&b).Error
}

func (r *BalanceRepository) Get(ctx context.Context, accountID string) (*balanceDomain.Balance, error) {
	var b balanceDomain.Balance
	res := r.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Attrs(balanceDomain.Balance{AccountID: accountID}).
		FirstOrCreate(&b)
	return &b, res.Error
}

// lockRow takes the per-account FOR UPDATE lock, initializing the row when it
// does not exist yet. Losing the insert race to a concurrent first credit is
// fine: we re-read under the lock.
func (r *BalanceRepository) lockRow(ctx context.Context, accountID string) (*balanceDomain.Balance, error) {
	var b balanceDomain.Balance
	err := forUpdate(r.db.WithContext(ctx)).
		Where("account_id = ?", accountID).
		First(&b).Error
	if err == nil {
		return &b, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Create(&balanceDomain.Balance{AccountID: accountID}).Error; err != nil {
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, err
		}
	}
	err = forUpdate(r.db.WithContext(ctx)).
		Where("account_id = ?", accountID).
		First(&b).Error
	return &b, err
}

func (r *BalanceRepository) CreditDeposit(ctx context.Context, accountID string, amount decimal.Decimal) (*balanceDomain.Balance, error) {
	b, err := r.lockRow(ctx, accountID)
	if err != nil {
		return nil, err
	}
	b.Available = b.Available.Add(amount)
	b.TotalDeposited = b.TotalDeposited.Add(amount)
	return b, r.db.WithContext(ctx).Save(b).Error
}

func (r *BalanceRepository) CreditReturn(ctx context.Context, accountID string, amount decimal.Decimal) (*balanceDomain.Balance, error) {
	b, err := r.lockRow(ctx, accountID)
	if err != nil {
		return nil, err
	}
	b.Available = b.Available.Add(amount)
	b.TotalReturns = b.TotalReturns.Add(amount)
	return b, r.db.WithContext(ctx).Save(b).Error
}

func (r *BalanceRepository) Debit(ctx context.Context, accountID string, amount decimal.Decimal) (*balanceDomain.Balance, error) {
	b, err := r.lockRow(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if b.Available.LessThan(amount) {
		return nil, balanceDomain.ErrInsufficient
	}
	b.Available = b.Available.Sub(amount)
	b.TotalWithdrawn = b.TotalWithdrawn.Add(amount)
	return b, r.db.WithContext(ctx).Save(b).Error
}

func (r *BalanceRepository) Lock(ctx context.Context, accountID string, amount decimal.Decimal) (*balanceDomain.Balance, error) {
	b, err := r.lockRow(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if b.Available.LessThan(amount) {
		return nil, balanceDomain.ErrInsufficient
	}
	b.Available = b.Available.Sub(amount)
	b.Locked = b.Locked.Add(amount)
	return b, r.db.WithContext(ctx).Save(b).Error
}

func (r *BalanceRepository) Unlock(ctx context.Context, accountID string, amount decimal.Decimal) (*balanceDomain.Balance, error) {
	b, err := r.lockRow(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if b.Locked.LessThan(amount) {
		return nil, balanceDomain.ErrInsufficient
	}
	b.Locked = b.Locked.Sub(amount)
	b.Available = b.Available.Add(amount)
	return b, r.db.WithContext(ctx).Save(b).Error
}
