package mysql

import (
	"context"

	withdrawalDomain "pesavest-backend/internal/domain/withdrawal"

	"gorm.io/gorm"
)

type WithdrawalRepository struct{ db *gorm.DB }

func NewWithdrawalRepository(db *gorm.DB) *WithdrawalRepository { return &WithdrawalRepository{db: db} }

func (r *WithdrawalRepository) Create(ctx context.Context, w *withdrawalDomain.Withdrawal) error {
	return r.db.WithContext(ctx).Create(w).Error
}

func (r *WithdrawalRepository) Save(ctx context.Context, w *withdrawalDomain.Withdrawal) error {
	return r.db.WithContext(ctx).Save(w).Error
}

func (r *WithdrawalRepository) GetByWithdrawalID(ctx context.Context, withdrawalID string) (*withdrawalDomain.Withdrawal, error) {
	var out withdrawalDomain.Withdrawal
	res := r.db.WithContext(ctx).Where("withdrawal_id = ?", withdrawalID).First(&out)
	return &out, res.Error
}

func (r *WithdrawalRepository) GetByWithdrawalIDForUpdate(ctx context.Context, withdrawalID string) (*withdrawalDomain.Withdrawal, error) {
	var out withdrawalDomain.Withdrawal
	res := forUpdate(r.db.WithContext(ctx)).
		Where("withdrawal_id = ?", withdrawalID).
		First(&out)
	return &out, res.Error
}

func (r *WithdrawalRepository) ListByStatus(ctx context.Context, st withdrawalDomain.Status, limit int) ([]withdrawalDomain.Withdrawal, error) {
	var out []withdrawalDomain.Withdrawal
	res := r.db.WithContext(ctx).
		Where("status = ?", st).
		Order("id ASC").
		Limit(limit).
		Find(&out)
	return out, res.Error
}
