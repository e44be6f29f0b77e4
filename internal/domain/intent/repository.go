package intent

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, it *Intent) error
	GetByExternalRef(ctx context.Context, ref string) (*Intent, error)
	// Row-locked variant for the confirmation path.
	GetByExternalRefForUpdate(ctx context.Context, ref string) (*Intent, error)
	Save(ctx context.Context, it *Intent) error
	// Pending intents whose TTL has passed, oldest first.
	ListExpiredPending(ctx context.Context, now time.Time, limit int) ([]Intent, error)
}
