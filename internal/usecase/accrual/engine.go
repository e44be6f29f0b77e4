package accrual

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/bsm/redislock"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"pesavest-backend/internal/domain/audit"
	"pesavest-backend/internal/domain/investment"
	"pesavest-backend/internal/domain/ledger"
	"pesavest-backend/internal/domain/uow"
	"pesavest-backend/pkg/id"
)

// ErrRunInProgress is returned when another process holds the run lock.
// Scheduled and manual triggers converge on the same Run, so this is the
// singleton-execution guarantee, not a failure.
var ErrRunInProgress = errors.New("accrual run already in progress")

const (
	runLockKey = "accrual:run"
	runLockTTL = 10 * time.Minute
)

// Locker abstracts the distributed lock so tests can run without Redis.
type Locker interface {
	Obtain(ctx context.Context, key string, ttl time.Duration) (Lock, error)
}

type Lock interface {
	Release(ctx context.Context) error
}

type RedisLocker struct{ c *redislock.Client }

func NewRedisLocker(c *redislock.Client) *RedisLocker { return &RedisLocker{c: c} }

func (l *RedisLocker) Obtain(ctx context.Context, key string, ttl time.Duration) (Lock, error) {
	lk, err := l.c.Obtain(ctx, key, ttl, nil)
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, ErrRunInProgress
	}
	if err != nil {
		return nil, err
	}
	return lk, nil
}

type Summary struct {
	Processed int       `json:"processed"`
	Matured   int       `json:"matured"`
	Skipped   int       `json:"skipped"`
	Failed    int       `json:"failed"`
	RanAt     time.Time `json:"ran_at"`
}

// Engine is the single source of truth for accrual semantics. Every position
// advances in its own transaction under a row lock, so a confirmation racing
// a manual trigger serializes per investment.
type Engine struct {
	uow         uow.UnitOfWork
	investments investment.Repository
	locker      Locker
	log         *logrus.Logger
	now         func() time.Time
}

func NewEngine(tx uow.UnitOfWork, investments investment.Repository, locker Locker, log *logrus.Logger) *Engine {
	return &Engine{
		uow:         tx,
		investments: investments,
		locker:      locker,
		log:         log,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// Run advances every active investment: posts at most one return per
// investment per calendar day, and completes positions at maturity exactly
// once. Safe to call from the ticker and the admin trigger concurrently.
func (e *Engine) Run(ctx context.Context) (Summary, error) {
	lock, err := e.locker.Obtain(ctx, runLockKey, runLockTTL)
	if err != nil {
		return Summary{}, err
	}
	defer func() { _ = lock.Release(ctx) }()

	sum := Summary{RanAt: e.now()}
	ids, err := e.investments.ListActiveIDs(ctx)
	if err != nil {
		return sum, err
	}

	for _, invID := range ids {
		err := e.uow.WithinInvestmentTx(ctx, invID, func(r uow.Repos, inv *investment.Investment) error {
			return e.accrueOne(ctx, r, inv, &sum)
		})
		if err != nil {
			sum.Failed++
			e.log.WithFields(logrus.Fields{
				"module":        "accrual",
				"investment_id": invID,
			}).Warn("accrual failed for investment: " + err.Error())
		}
	}

	if err := e.uow.WithinTx(ctx, func(r uow.Repos) error {
		return r.Audits.Append(ctx, &audit.Entry{
			Action:     audit.ActionAccrualRun,
			EntityType: "accrual_run",
			EntityID:   sum.RanAt.Format("2006-01-02T15:04:05Z"),
			NewValue:   mustJSON(sum),
		})
	}); err != nil {
		e.log.WithFields(logrus.Fields{"module": "accrual"}).Warn("could not audit accrual run: " + err.Error())
	}

	e.log.WithFields(logrus.Fields{
		"module":    "accrual",
		"processed": sum.Processed,
		"matured":   sum.Matured,
		"skipped":   sum.Skipped,
		"failed":    sum.Failed,
	}).Info("accrual run finished")
	return sum, nil
}

func (e *Engine) accrueOne(ctx context.Context, r uow.Repos, inv *investment.Investment, sum *Summary) error {
	if inv.Status != investment.StatusActive {
		// listed before another run or a race completed it
		sum.Skipped++
		return nil
	}

	now := e.now()
	days := elapsedDays(inv.CreatedAt, now)

	if days >= inv.DurationDays {
		return e.mature(ctx, r, inv, sum)
	}

	accrued := inv.Principal.Mul(inv.DailyRate).Mul(decimal.NewFromInt(int64(days)))
	inv.AccruedReturn = accrued
	inv.CurrentValue = inv.Principal.Add(accrued)
	inv.ProgressPct = progressPct(days, inv.DurationDays)
	inv.DaysElapsed = days

	if days >= 1 {
		ref := id.ReturnRef(inv.InvestmentID, now)
		exists, err := r.Ledger.ExistsByReference(ctx, ref)
		if err != nil {
			return err
		}
		if !exists {
			if err := r.Ledger.Append(ctx, &ledger.Transaction{
				AccountID: inv.AccountID,
				Type:      ledger.TypeReturn,
				Amount:    inv.Principal.Mul(inv.DailyRate),
				Reference: ref,
				Status:    ledger.StatusSuccess,
				Metadata: mustJSON(map[string]any{
					"investment_id": inv.InvestmentID,
					"days_elapsed":  days,
					"accrued":       accrued,
				}),
			}); err != nil {
				return err
			}
		}
	}

	if err := r.Investments.Save(ctx, inv); err != nil {
		return err
	}
	sum.Processed++
	return nil
}

func (e *Engine) mature(ctx context.Context, r uow.Repos, inv *investment.Investment, sum *Summary) error {
	final := inv.FinalReturn()
	ref := id.MaturityRef(inv.InvestmentID)

	exists, err := r.Ledger.ExistsByReference(ctx, ref)
	if err != nil {
		return err
	}
	if !exists {
		// Payout: the accumulated return lands on the balance now; the
		// principal was credited at deposit time and never left available.
		if _, err := r.Balances.CreditReturn(ctx, inv.AccountID, final); err != nil {
			return err
		}
		if err := r.Ledger.Append(ctx, &ledger.Transaction{
			AccountID: inv.AccountID,
			Type:      ledger.TypeMaturity,
			Amount:    inv.Principal.Add(final),
			Reference: ref,
			Status:    ledger.StatusSuccess,
			Metadata: mustJSON(map[string]any{
				"investment_id": inv.InvestmentID,
				"principal":     inv.Principal,
				"final_return":  final,
			}),
		}); err != nil {
			return err
		}
		if err := r.Audits.Append(ctx, &audit.Entry{
			Action:     audit.ActionInvestmentMatured,
			EntityType: "investment",
			EntityID:   inv.InvestmentID,
			OldValue:   `{"status":"active"}`,
			NewValue:   mustJSON(map[string]any{"status": "completed", "final_return": final}),
		}); err != nil {
			return err
		}
	}

	inv.AccruedReturn = final
	inv.CurrentValue = inv.Principal.Add(final)
	inv.ProgressPct = decimal.NewFromInt(100)
	inv.DaysElapsed = inv.DurationDays
	inv.Status = investment.StatusCompleted
	if err := r.Investments.Save(ctx, inv); err != nil {
		return err
	}
	sum.Matured++
	return nil
}

func elapsedDays(createdAt, now time.Time) int {
	d := int(now.Sub(createdAt).Hours() / 24)
	if d < 0 {
		return 0
	}
	return d
}

// progressPct keeps one decimal place and never exceeds 100.
func progressPct(days, duration int) decimal.Decimal {
	if duration <= 0 {
		return decimal.NewFromInt(100)
	}
	p := decimal.NewFromInt(int64(days * 100)).
		Div(decimal.NewFromInt(int64(duration))).
		Round(1)
	if p.GreaterThan(decimal.NewFromInt(100)) {
		return decimal.NewFromInt(100)
	}
	return p
}

func mustJSON(v any) string {
	b, _ := json.Marshal(v)
	return string(b)
}
