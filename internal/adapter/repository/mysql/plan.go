package mysql

import (
	"context"

	planDomain "pesavest-backend/internal/domain/plan"

	"gorm.io/gorm"
)

type PlanRepository struct{ db *gorm.DB }

func NewPlanRepository(db *gorm.DB) *PlanRepository { return &PlanRepository{db: db} }

func (r *PlanRepository) Create(ctx context.Context, p *planDomain.Plan) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *PlanRepository) GetByCode(ctx context.Context, code string) (*planDomain.Plan, error) {
	var out planDomain.Plan
	res := r.db.WithContext(ctx).Where("code = ?", code).First(&out)
	return &out, res.Error
}

func (r *PlanRepository) ListActive(ctx context.Context) ([]planDomain.Plan, error) {
	var out []planDomain.Plan
	res := r.db.WithContext(ctx).Where("active = ?", true).Order("min_amount ASC").Find(&out)
	return out, res.Error
}
