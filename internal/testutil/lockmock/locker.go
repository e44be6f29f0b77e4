package lockmock

import (
	"context"
	"time"

	"pesavest-backend/internal/usecase/accrual"
)

var _ accrual.Locker = (*Locker)(nil)

// Locker is an in-process singleton lock for engine tests.
type Locker struct {
	held     bool
	Obtained int
	ObtainFn func(ctx context.Context, key string, ttl time.Duration) (accrual.Lock, error)
}

func (m *Locker) Obtain(ctx context.Context, key string, ttl time.Duration) (accrual.Lock, error) {
	if m.ObtainFn != nil {
		return m.ObtainFn(ctx, key, ttl)
	}
	if m.held {
		return nil, accrual.ErrRunInProgress
	}
	m.held = true
	m.Obtained++
	return &lock{l: m}, nil
}

type lock struct{ l *Locker }

func (k *lock) Release(ctx context.Context) error {
	k.l.held = false
	return nil
}
