package repomock

import (
	"context"
	"sync"

	domain "pesavest-backend/internal/domain/audit"
)

var _ domain.Repository = (*AuditRepo)(nil)

type AuditRepo struct {
	mu      sync.Mutex
	entries []domain.Entry

	AppendFn       func(ctx context.Context, e *domain.Entry) error
	ListByEntityFn func(ctx context.Context, entityType, entityID string, limit int) ([]domain.Entry, error)
}

func (m *AuditRepo) Entries() []domain.Entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Entry, len(m.entries))
	copy(out, m.entries)
	return out
}

// HasAction reports whether any recorded entry carries the given action.
func (m *AuditRepo) HasAction(action string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.entries {
		if m.entries[i].Action == action {
			return true
		}
	}
	return false
}

func (m *AuditRepo) Append(ctx context.Context, e *domain.Entry) error {
	if m.AppendFn != nil {
		return m.AppendFn(ctx, e)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, *e)
	return nil
}

func (m *AuditRepo) ListByEntity(ctx context.Context, entityType, entityID string, limit int) ([]domain.Entry, error) {
	if m.ListByEntityFn != nil {
		return m.ListByEntityFn(ctx, entityType, entityID, limit)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Entry
	for i := range m.entries {
		if m.entries[i].EntityType == entityType && m.entries[i].EntityID == entityID {
			out = append(out, m.entries[i])
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
