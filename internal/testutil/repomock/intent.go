package repomock

import (
	"context"
	"time"

	domain "pesavest-backend/internal/domain/intent"
)

var _ domain.Repository = (*IntentRepo)(nil)

type IntentRepo struct {
	CreateFn                    func(ctx context.Context, it *domain.Intent) error
	GetByExternalRefFn          func(ctx context.Context, ref string) (*domain.Intent, error)
	GetByExternalRefForUpdateFn func(ctx context.Context, ref string) (*domain.Intent, error)
	SaveFn                      func(ctx context.Context, it *domain.Intent) error
	ListExpiredPendingFn        func(ctx context.Context, now time.Time, limit int) ([]domain.Intent, error)
}

func (m *IntentRepo) Create(ctx context.Context, it *domain.Intent) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, it)
	}
	return nil
}
func (m *IntentRepo) GetByExternalRef(ctx context.Context, ref string) (*domain.Intent, error) {
	if m.GetByExternalRefFn != nil {
		return m.GetByExternalRefFn(ctx, ref)
	}
	return nil, domain.ErrNotFound
}
func (m *IntentRepo) GetByExternalRefForUpdate(ctx context.Context, ref string) (*domain.Intent, error) {
	if m.GetByExternalRefForUpdateFn != nil {
		return m.GetByExternalRefForUpdateFn(ctx, ref)
	}
	return nil, domain.ErrNotFound
}
func (m *IntentRepo) Save(ctx context.Context, it *domain.Intent) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, it)
	}
	return nil
}
func (m *IntentRepo) ListExpiredPending(ctx context.Context, now time.Time, limit int) ([]domain.Intent, error) {
	if m.ListExpiredPendingFn != nil {
		return m.ListExpiredPendingFn(ctx, now, limit)
	}
	return nil, nil
}
