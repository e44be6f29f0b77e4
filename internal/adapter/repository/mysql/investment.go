package mysql

import (
	"context"

	investmentDomain "pesavest-backend/internal/domain/investment"

	"gorm.io/gorm"
)

type InvestmentRepository struct{ db *gorm.DB }

func NewInvestmentRepository(db *gorm.DB) *InvestmentRepository { return &InvestmentRepository{db: db} }

func (r *InvestmentRepository) Create(ctx context.Context, inv *investmentDomain.Investment) error {
	return r.db.WithContext(ctx).Create(inv).Error
}

func (r *InvestmentRepository) Save(ctx context.Context, inv *investmentDomain.Investment) error {
	return r.db.WithContext(ctx).Save(inv).Error
}

func (r *InvestmentRepository) GetByInvestmentID(ctx context.Context, investmentID string) (*investmentDomain.Investment, error) {
	var out investmentDomain.Investment
	res := r.db.WithContext(ctx).Where("investment_id = ?", investmentID).First(&out)
	return &out, res.Error
}

func (r *InvestmentRepository) GetByInvestmentIDForUpdate(ctx context.Context, investmentID string) (*investmentDomain.Investment, error) {
	var out investmentDomain.Investment
	res := forUpdate(r.db.WithContext(ctx)).
		Where("investment_id = ?", investmentID).
		First(&out)
	return &out, res.Error
}

func (r *InvestmentRepository) ListActiveIDs(ctx context.Context) ([]string, error) {
	var ids []string
	res := r.db.WithContext(ctx).
		Model(&investmentDomain.Investment{}).
		Where("status = ?", investmentDomain.StatusActive).
		Order("id ASC").
		Pluck("investment_id", &ids)
	return ids, res.Error
}

func (r *InvestmentRepository) ListByAccount(ctx context.Context, accountID string) ([]investmentDomain.Investment, error) {
	var out []investmentDomain.Investment
	res := r.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("created_at DESC, id DESC").
		Find(&out)
	return out, res.Error
}
