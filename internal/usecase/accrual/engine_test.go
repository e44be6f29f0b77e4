package accrual

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"pesavest-backend/internal/domain/audit"
	investmentDomain "pesavest-backend/internal/domain/investment"
	ledgerDomain "pesavest-backend/internal/domain/ledger"
	"pesavest-backend/internal/domain/uow"
	"pesavest-backend/internal/testutil/repomock"
	"pesavest-backend/internal/testutil/uowmock"
)

const testAccount = "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// stubLocker lives in-package; testutil/lockmock imports this package and
// cannot be used from its own tests.
type stubLocker struct {
	held     bool
	ObtainFn func(ctx context.Context, key string, ttl time.Duration) (Lock, error)
}

func (m *stubLocker) Obtain(ctx context.Context, key string, ttl time.Duration) (Lock, error) {
	if m.ObtainFn != nil {
		return m.ObtainFn(ctx, key, ttl)
	}
	if m.held {
		return nil, ErrRunInProgress
	}
	m.held = true
	return stubLock{l: m}, nil
}

type stubLock struct{ l *stubLocker }

func (k stubLock) Release(context.Context) error {
	k.l.held = false
	return nil
}

type harness struct {
	engine      *Engine
	locker      *stubLocker
	investments map[string]*investmentDomain.Investment
	balances    *repomock.BalanceRepo
	ledger      *repomock.LedgerRepo
	audits      *repomock.AuditRepo
}

func newHarness(t *testing.T, now time.Time) *harness {
	t.Helper()
	h := &harness{
		locker:      &stubLocker{},
		investments: map[string]*investmentDomain.Investment{},
		balances:    &repomock.BalanceRepo{},
		ledger:      &repomock.LedgerRepo{},
		audits:      &repomock.AuditRepo{},
	}

	invs := &repomock.InvestmentRepo{
		GetByInvestmentIDForUpdateFn: func(_ context.Context, id string) (*investmentDomain.Investment, error) {
			inv, ok := h.investments[id]
			if !ok {
				return nil, investmentDomain.ErrNotFound
			}
			cp := *inv
			return &cp, nil
		},
		SaveFn: func(_ context.Context, inv *investmentDomain.Investment) error {
			h.investments[inv.InvestmentID] = inv
			return nil
		},
		ListActiveIDsFn: func(context.Context) ([]string, error) {
			var ids []string
			for id, inv := range h.investments {
				if inv.Status == investmentDomain.StatusActive {
					ids = append(ids, id)
				}
			}
			return ids, nil
		},
	}

	muow := uowmock.New(uow.Repos{
		Investments: invs,
		Balances:    h.balances,
		Ledger:      h.ledger,
		Audits:      h.audits,
	})
	h.engine = NewEngine(muow, invs, h.locker, quietLogger())
	h.engine.now = func() time.Time { return now }
	return h
}

func (h *harness) seed(id string, createdDaysAgo int, now time.Time) *investmentDomain.Investment {
	created := now.AddDate(0, 0, -createdDaysAgo)
	inv := &investmentDomain.Investment{
		InvestmentID:  id,
		AccountID:     testAccount,
		PlanName:      "Starter",
		Principal:     decimal.NewFromInt(1000),
		DailyRate:     decimal.NewFromFloat(0.02),
		DurationDays:  30,
		Status:        investmentDomain.StatusActive,
		AccruedReturn: decimal.Zero,
		CurrentValue:  decimal.NewFromInt(1000),
		CreatedAt:     created,
		MaturesAt:     created.AddDate(0, 0, 30),
	}
	h.investments[id] = inv
	return inv
}

func TestRun_AccruesSimpleInterest(t *testing.T) {
	now := time.Date(2026, 3, 20, 9, 0, 0, 0, time.UTC)
	h := newHarness(t, now)
	h.seed("inv1", 10, now)

	sum, err := h.engine.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if sum.Processed != 1 || sum.Matured != 0 || sum.Failed != 0 {
		t.Fatalf("summary: %+v", sum)
	}

	inv := h.investments["inv1"]
	if !inv.AccruedReturn.Equal(decimal.NewFromInt(200)) {
		t.Fatalf("accrued after 10 days: %s", inv.AccruedReturn)
	}
	if !inv.CurrentValue.Equal(decimal.NewFromInt(1200)) {
		t.Fatalf("current value: %s", inv.CurrentValue)
	}
	if inv.ProgressPct.String() != "33.3" {
		t.Fatalf("progress: %s", inv.ProgressPct)
	}
	if inv.DaysElapsed != 10 {
		t.Fatalf("days elapsed: %d", inv.DaysElapsed)
	}

	rows := h.ledger.Rows()
	if len(rows) != 1 {
		t.Fatalf("ledger rows: %d", len(rows))
	}
	if rows[0].Type != ledgerDomain.TypeReturn || !rows[0].Amount.Equal(decimal.NewFromInt(20)) {
		t.Fatalf("return row: %+v", rows[0])
	}
	if rows[0].Reference != "RET-inv1-2026-03-20" {
		t.Fatalf("return ref: %s", rows[0].Reference)
	}

	// accrual is a posting, not a balance movement
	if b := h.balances.Snapshot(testAccount); !b.Available.IsZero() {
		t.Fatalf("accrual moved money: %+v", b)
	}
	if !h.audits.HasAction(audit.ActionAccrualRun) {
		t.Fatalf("run not audited")
	}
}

func TestRun_SameDayReplayPostsOnce(t *testing.T) {
	now := time.Date(2026, 3, 20, 9, 0, 0, 0, time.UTC)
	h := newHarness(t, now)
	h.seed("inv1", 10, now)

	if _, err := h.engine.Run(context.Background()); err != nil {
		t.Fatalf("first run: %v", err)
	}
	if _, err := h.engine.Run(context.Background()); err != nil {
		t.Fatalf("second run: %v", err)
	}

	var returns int
	for _, row := range h.ledger.Rows() {
		if row.Type == ledgerDomain.TypeReturn {
			returns++
		}
	}
	if returns != 1 {
		t.Fatalf("same-day replay posted %d return rows", returns)
	}
	// snapshot stays correct either way
	if !h.investments["inv1"].AccruedReturn.Equal(decimal.NewFromInt(200)) {
		t.Fatalf("accrued drifted on replay: %s", h.investments["inv1"].AccruedReturn)
	}
}

func TestRun_AccrualIsMonotonic(t *testing.T) {
	start := time.Date(2026, 3, 20, 9, 0, 0, 0, time.UTC)
	h := newHarness(t, start)
	h.seed("inv1", 10, start)

	prev := decimal.Zero
	for day := 0; day < 5; day++ {
		h.engine.now = func() time.Time { return start.AddDate(0, 0, day) }
		if _, err := h.engine.Run(context.Background()); err != nil {
			t.Fatalf("run day %d: %v", day, err)
		}
		got := h.investments["inv1"].AccruedReturn
		if got.LessThan(prev) {
			t.Fatalf("accrued went backwards: %s -> %s", prev, got)
		}
		prev = got
	}
}

func TestRun_MaturesExactlyOnce(t *testing.T) {
	now := time.Date(2026, 3, 20, 9, 0, 0, 0, time.UTC)
	h := newHarness(t, now)
	h.seed("inv1", 31, now)

	sum, err := h.engine.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if sum.Matured != 1 {
		t.Fatalf("summary: %+v", sum)
	}

	inv := h.investments["inv1"]
	if inv.Status != investmentDomain.StatusCompleted {
		t.Fatalf("status: %s", inv.Status)
	}
	final := decimal.NewFromInt(600) // 1000 * 0.02 * 30
	if !inv.AccruedReturn.Equal(final) || !inv.CurrentValue.Equal(decimal.NewFromInt(1600)) {
		t.Fatalf("maturity snapshot: %+v", inv)
	}
	if inv.ProgressPct.String() != "100" || inv.DaysElapsed != 30 {
		t.Fatalf("maturity progress: %s / %d", inv.ProgressPct, inv.DaysElapsed)
	}

	b := h.balances.Snapshot(testAccount)
	if !b.Available.Equal(final) || !b.TotalReturns.Equal(final) {
		t.Fatalf("maturity payout: %+v", b)
	}

	rows := h.ledger.Rows()
	if len(rows) != 1 || rows[0].Reference != "MAT-inv1" || !rows[0].Amount.Equal(decimal.NewFromInt(1600)) {
		t.Fatalf("maturity row: %+v", rows)
	}
	if !h.audits.HasAction(audit.ActionInvestmentMatured) {
		t.Fatalf("maturity not audited")
	}

	// a second run skips the completed position and never pays again
	sum, err = h.engine.Run(context.Background())
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if sum.Matured != 0 || sum.Processed != 0 {
		t.Fatalf("second run summary: %+v", sum)
	}
	if b := h.balances.Snapshot(testAccount); !b.Available.Equal(final) {
		t.Fatalf("double payout: %+v", b)
	}
}

func TestRun_MissedRunsCatchUpOnMaturityValue(t *testing.T) {
	// no intermediate runs at all: a single run at day 35 still lands on
	// the exact contract value
	now := time.Date(2026, 3, 20, 9, 0, 0, 0, time.UTC)
	h := newHarness(t, now)
	h.seed("inv1", 35, now)

	if _, err := h.engine.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	inv := h.investments["inv1"]
	if !inv.CurrentValue.Equal(decimal.NewFromInt(1600)) {
		t.Fatalf("catch-up value: %s", inv.CurrentValue)
	}
	if b := h.balances.Snapshot(testAccount); !b.Available.Equal(decimal.NewFromInt(600)) {
		t.Fatalf("catch-up payout: %+v", b)
	}
}

func TestRun_FreshPositionHasNothingToPost(t *testing.T) {
	now := time.Date(2026, 3, 20, 9, 0, 0, 0, time.UTC)
	h := newHarness(t, now)
	h.seed("inv1", 0, now)

	sum, err := h.engine.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if sum.Processed != 1 {
		t.Fatalf("summary: %+v", sum)
	}
	if len(h.ledger.Rows()) != 0 {
		t.Fatalf("day-zero position posted a return row")
	}
	if !h.investments["inv1"].AccruedReturn.IsZero() {
		t.Fatalf("day-zero accrued: %s", h.investments["inv1"].AccruedReturn)
	}
}

func TestRun_SingletonLock(t *testing.T) {
	now := time.Date(2026, 3, 20, 9, 0, 0, 0, time.UTC)
	h := newHarness(t, now)
	h.seed("inv1", 10, now)

	h.locker.ObtainFn = func(context.Context, string, time.Duration) (Lock, error) {
		return nil, ErrRunInProgress
	}
	if _, err := h.engine.Run(context.Background()); !errors.Is(err, ErrRunInProgress) {
		t.Fatalf("want ErrRunInProgress, got %v", err)
	}
	if len(h.ledger.Rows()) != 0 {
		t.Fatalf("contended run still processed")
	}

	// lock released after a normal run, so the next one proceeds
	h.locker.ObtainFn = nil
	if _, err := h.engine.Run(context.Background()); err != nil {
		t.Fatalf("run after contention: %v", err)
	}
	if _, err := h.engine.Run(context.Background()); err != nil {
		t.Fatalf("lock not released: %v", err)
	}
}

func TestRun_OneFailureDoesNotStopTheSweep(t *testing.T) {
	now := time.Date(2026, 3, 20, 9, 0, 0, 0, time.UTC)
	h := newHarness(t, now)
	h.seed("inv1", 10, now)
	h.seed("inv2", 10, now)

	boom := errors.New("boom")
	h.ledger.ExistsByReferenceFn = func(_ context.Context, ref string) (bool, error) {
		if ref == "RET-inv1-2026-03-20" {
			return false, boom
		}
		return false, nil
	}

	sum, err := h.engine.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if sum.Failed != 1 || sum.Processed != 1 {
		t.Fatalf("summary: %+v", sum)
	}
}
