package mysql

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	intentDomain "pesavest-backend/internal/domain/intent"
)

func seedIntent(t *testing.T, repo *IntentRepository, ref string, st intentDomain.Status, expiresAt time.Time) {
	t.Helper()
	err := repo.Create(context.Background(), &intentDomain.Intent{
		IntentID:     "in" + ref,
		AccountID:    testAccount,
		PlanCode:     "starter",
		PlanName:     "Starter",
		Principal:    decimal.NewFromInt(1000),
		DailyRate:    decimal.NewFromFloat(0.02),
		DurationDays: 30,
		Phone:        "254712345678",
		ExternalRef:  ref,
		Status:       st,
		ExpiresAt:    expiresAt,
	})
	if err != nil {
		t.Fatalf("seed intent %s: %v", ref, err)
	}
}

func TestIntentRepository_ListExpiredPending(t *testing.T) {
	db := openTestDB(t)
	repo := NewIntentRepository(db)
	now := time.Now().UTC()

	seedIntent(t, repo, "ws_CO_stale1", intentDomain.StatusPending, now.Add(-2*time.Minute))
	seedIntent(t, repo, "ws_CO_stale2", intentDomain.StatusPending, now.Add(-1*time.Minute))
	seedIntent(t, repo, "ws_CO_fresh", intentDomain.StatusPending, now.Add(10*time.Minute))
	// already closed; must not resurface
	seedIntent(t, repo, "ws_CO_done", intentDomain.StatusCompleted, now.Add(-5*time.Minute))

	due, err := repo.ListExpiredPending(context.Background(), now, 10)
	if err != nil {
		t.Fatalf("ListExpiredPending: %v", err)
	}
	if len(due) != 2 {
		t.Fatalf("due: %d", len(due))
	}
	if due[0].ExternalRef != "ws_CO_stale1" || due[1].ExternalRef != "ws_CO_stale2" {
		t.Fatalf("oldest first: %+v", due)
	}

	due, err = repo.ListExpiredPending(context.Background(), now, 1)
	if err != nil || len(due) != 1 {
		t.Fatalf("limit: %+v err=%v", due, err)
	}
}

func TestIntentRepository_GetByExternalRef(t *testing.T) {
	db := openTestDB(t)
	repo := NewIntentRepository(db)
	ctx := context.Background()
	now := time.Now().UTC()

	seedIntent(t, repo, "ws_CO_1", intentDomain.StatusPending, now.Add(10*time.Minute))

	it, err := repo.GetByExternalRef(ctx, "ws_CO_1")
	if err != nil {
		t.Fatalf("GetByExternalRef: %v", err)
	}
	if !it.Principal.Equal(decimal.NewFromInt(1000)) || it.DurationDays != 30 {
		t.Fatalf("terms not round-tripped: %+v", it)
	}

	it.Status = intentDomain.StatusCompleted
	if err := repo.Save(ctx, it); err != nil {
		t.Fatalf("Save: %v", err)
	}
	it, err = repo.GetByExternalRefForUpdate(ctx, "ws_CO_1")
	if err != nil || it.Status != intentDomain.StatusCompleted {
		t.Fatalf("after save: %+v err=%v", it, err)
	}
}
