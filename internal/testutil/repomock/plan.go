// Package repomock holds function-backed mocks for the domain repositories.
// Only the function fields a test fills in are intercepted; nil funcs fall
// back to a zero-value result.
package repomock

import (
	"context"

	domain "pesavest-backend/internal/domain/plan"
)

var _ domain.Repository = (*PlanRepo)(nil)

type PlanRepo struct {
	CreateFn     func(ctx context.Context, p *domain.Plan) error
	GetByCodeFn  func(ctx context.Context, code string) (*domain.Plan, error)
	ListActiveFn func(ctx context.Context) ([]domain.Plan, error)
}

func (m *PlanRepo) Create(ctx context.Context, p *domain.Plan) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, p)
	}
	return nil
}
func (m *PlanRepo) GetByCode(ctx context.Context, code string) (*domain.Plan, error) {
	if m.GetByCodeFn != nil {
		return m.GetByCodeFn(ctx, code)
	}
	return nil, domain.ErrNotFound
}
func (m *PlanRepo) ListActive(ctx context.Context) ([]domain.Plan, error) {
	if m.ListActiveFn != nil {
		return m.ListActiveFn(ctx)
	}
	return nil, nil
}
