package mysql

import (
	"context"
	"time"

	intentDomain "pesavest-backend/internal/domain/intent"

	"gorm.io/gorm"
)

type IntentRepository struct{ db *gorm.DB }

func NewIntentRepository(db *gorm.DB) *IntentRepository { return &IntentRepository{db: db} }

func (r *IntentRepository) Create(ctx context.Context, it *intentDomain.Intent) error {
	return r.db.WithContext(ctx).Create(it).Error
}

func (r *IntentRepository) Save(ctx context.Context, it *intentDomain.Intent) error {
	return r.db.WithContext(ctx).Save(it).Error
}

func (r *IntentRepository) GetByExternalRef(ctx context.Context, ref string) (*intentDomain.Intent, error) {
	var out intentDomain.Intent
	res := r.db.WithContext(ctx).Where("external_ref = ?", ref).First(&out)
	return &out, res.Error
}

func (r *IntentRepository) GetByExternalRefForUpdate(ctx context.Context, ref string) (*intentDomain.Intent, error) {
	var out intentDomain.Intent
	res := forUpdate(r.db.WithContext(ctx)).
		Where("external_ref = ?", ref).
		First(&out)
	return &out, res.Error
}

func (r *IntentRepository) ListExpiredPending(ctx context.Context, now time.Time, limit int) ([]intentDomain.Intent, error) {
	var out []intentDomain.Intent
	res := r.db.WithContext(ctx).
		Where("status = ? AND expires_at <= ?", intentDomain.StatusPending, now).
		Order("expires_at ASC").
		Limit(limit).
		Find(&out)
	return out, res.Error
}
