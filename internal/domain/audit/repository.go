package audit

import "context"

type Repository interface {
	Append(ctx context.Context, e *Entry) error
	ListByEntity(ctx context.Context, entityType, entityID string, limit int) ([]Entry, error)
}
