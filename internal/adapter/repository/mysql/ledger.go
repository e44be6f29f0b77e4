package mysql

import (
	"context"
	"errors"

	ledgerDomain "pesavest-backend/internal/domain/ledger"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type LedgerRepository struct{ db *gorm.DB }

func NewLedgerRepository(db *gorm.DB) *LedgerRepository { return &LedgerRepository{db: db} }

func (r *LedgerRepository) Append(ctx context.Context, t *ledgerDomain.Transaction) error {
	err := r.db.WithContext(ctx).Create(t).Error
	if err != nil && errors.Is(err, gorm.ErrDuplicatedKey) {
		return ledgerDomain.ErrDuplicateReference
	}
	return err
}

func (r *LedgerRepository) ExistsByReference(ctx context.Context, reference string) (bool, error) {
	var n int64
	res := r.db.WithContext(ctx).
		Model(&ledgerDomain.Transaction{}).
		Where("reference = ?", reference).
		Count(&n)
	return n > 0, res.Error
}

func (r *LedgerRepository) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]ledgerDomain.Transaction, error) {
	var out []ledgerDomain.Transaction
	res := r.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("id DESC").
		Limit(limit).
		Offset(offset).
		Find(&out)
	return out, res.Error
}

func (r *LedgerRepository) SumByAccountAndType(ctx context.Context, accountID string, typ ledgerDomain.Type) (decimal.Decimal, error) {
	var out decimal.Decimal
	err := r.db.WithContext(ctx).
		Model(&ledgerDomain.Transaction{}).
		Where("account_id = ? AND type = ? AND status = ?", accountID, typ, ledgerDomain.StatusSuccess).
		Select("COALESCE(SUM(amount), 0)").
		Row().
		Scan(&out)
	return out, err
}
