package mysql

import (
	"context"

	paymentDomain "pesavest-backend/internal/domain/payment"

	"gorm.io/gorm"
)

type PaymentRepository struct{ db *gorm.DB }

func NewPaymentRepository(db *gorm.DB) *PaymentRepository { return &PaymentRepository{db: db} }

func (r *PaymentRepository) Create(ctx context.Context, p *paymentDomain.Payment) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *PaymentRepository) Save(ctx context.Context, p *paymentDomain.Payment) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *PaymentRepository) GetByExternalRef(ctx context.Context, ref string) (*paymentDomain.Payment, error) {
	var out paymentDomain.Payment
	res := r.db.WithContext(ctx).Where("external_ref = ?", ref).First(&out)
	return &out, res.Error
}

func (r *PaymentRepository) GetByExternalRefForUpdate(ctx context.Context, ref string) (*paymentDomain.Payment, error) {
	var out paymentDomain.Payment
	res := forUpdate(r.db.WithContext(ctx)).
		Where("external_ref = ?", ref).
		First(&out)
	return &out, res.Error
}
