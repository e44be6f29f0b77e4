package plan

import "context"

type Repository interface {
	Create(ctx context.Context, p *Plan) error
	GetByCode(ctx context.Context, code string) (*Plan, error)
	ListActive(ctx context.Context) ([]Plan, error)
}
