package http

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	intentDomain "pesavest-backend/internal/domain/intent"
	investmentDomain "pesavest-backend/internal/domain/investment"
	paymentDomain "pesavest-backend/internal/domain/payment"
	planDomain "pesavest-backend/internal/domain/plan"
	"pesavest-backend/internal/domain/uow"
	withdrawalDomain "pesavest-backend/internal/domain/withdrawal"
	"pesavest-backend/internal/testutil/gatewaymock"
	"pesavest-backend/internal/testutil/lockmock"
	"pesavest-backend/internal/testutil/repomock"
	"pesavest-backend/internal/testutil/uowmock"
	"pesavest-backend/internal/usecase/accrual"
	"pesavest-backend/internal/usecase/deposit"
	"pesavest-backend/internal/usecase/statement"
	"pesavest-backend/internal/usecase/withdrawal"
)

const (
	testAccount  = "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
	testOperator = "0123456789abcdef0123456789abcdef"
	testCronKey  = "cron-secret"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// fixture wires every handler against the in-memory stores so a request can
// be followed end to end without a database.
type fixture struct {
	e           *echo.Echo
	gateway     *gatewaymock.Gateway
	intents     map[string]*intentDomain.Intent
	payments    map[string]*paymentDomain.Payment
	investments map[string]*investmentDomain.Investment
	withdrawals map[string]*withdrawalDomain.Withdrawal
	balances    *repomock.BalanceRepo
	ledger      *repomock.LedgerRepo
	audits      *repomock.AuditRepo

	depositH    *DepositHandler
	callbackH   *CallbackHandler
	withdrawalH *WithdrawalHandler
	accrualH    *AccrualHandler
	statementH  *StatementHandler
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		e:           echo.New(),
		gateway:     &gatewaymock.Gateway{},
		intents:     map[string]*intentDomain.Intent{},
		payments:    map[string]*paymentDomain.Payment{},
		investments: map[string]*investmentDomain.Investment{},
		withdrawals: map[string]*withdrawalDomain.Withdrawal{},
		balances:    &repomock.BalanceRepo{},
		ledger:      &repomock.LedgerRepo{},
		audits:      &repomock.AuditRepo{},
	}
	f.e.Validator = NewValidator()

	plans := &repomock.PlanRepo{
		GetByCodeFn: func(_ context.Context, code string) (*planDomain.Plan, error) {
			if code != "starter" {
				return nil, gorm.ErrRecordNotFound
			}
			return &planDomain.Plan{
				Code:         "starter",
				Name:         "Starter",
				MinAmount:    decimal.NewFromInt(100),
				MaxAmount:    decimal.NewFromInt(100_000),
				DailyRate:    decimal.NewFromFloat(0.02),
				DurationDays: 30,
				Active:       true,
			}, nil
		},
		ListActiveFn: func(_ context.Context) ([]planDomain.Plan, error) {
			return []planDomain.Plan{}, nil
		},
	}
	intents := &repomock.IntentRepo{
		CreateFn: func(_ context.Context, it *intentDomain.Intent) error {
			f.intents[it.ExternalRef] = it
			return nil
		},
		GetByExternalRefForUpdateFn: func(_ context.Context, ref string) (*intentDomain.Intent, error) {
			it, ok := f.intents[ref]
			if !ok {
				return nil, gorm.ErrRecordNotFound
			}
			return it, nil
		},
		SaveFn: func(_ context.Context, it *intentDomain.Intent) error {
			f.intents[it.ExternalRef] = it
			return nil
		},
	}
	payments := &repomock.PaymentRepo{
		CreateFn: func(_ context.Context, p *paymentDomain.Payment) error {
			f.payments[p.ExternalRef] = p
			return nil
		},
		GetByExternalRefForUpdateFn: func(_ context.Context, ref string) (*paymentDomain.Payment, error) {
			p, ok := f.payments[ref]
			if !ok {
				return nil, gorm.ErrRecordNotFound
			}
			return p, nil
		},
		SaveFn: func(_ context.Context, p *paymentDomain.Payment) error {
			f.payments[p.ExternalRef] = p
			return nil
		},
	}
	invs := &repomock.InvestmentRepo{
		CreateFn: func(_ context.Context, inv *investmentDomain.Investment) error {
			f.investments[inv.InvestmentID] = inv
			return nil
		},
	}
	withdrawals := &repomock.WithdrawalRepo{
		CreateFn: func(_ context.Context, w *withdrawalDomain.Withdrawal) error {
			f.withdrawals[w.WithdrawalID] = w
			return nil
		},
		GetByWithdrawalIDForUpdateFn: func(_ context.Context, id string) (*withdrawalDomain.Withdrawal, error) {
			w, ok := f.withdrawals[id]
			if !ok {
				return nil, withdrawalDomain.ErrNotFound
			}
			cp := *w
			return &cp, nil
		},
		SaveFn: func(_ context.Context, w *withdrawalDomain.Withdrawal) error {
			f.withdrawals[w.WithdrawalID] = w
			return nil
		},
	}

	muow := uowmock.New(uow.Repos{
		Plans:       plans,
		Intents:     intents,
		Payments:    payments,
		Investments: invs,
		Withdrawals: withdrawals,
		Balances:    f.balances,
		Ledger:      f.ledger,
		Audits:      f.audits,
	})

	depositUC := deposit.NewUsecase(muow, plans, f.gateway, quietLogger(), 10*time.Minute, false)
	withdrawalUC := withdrawal.NewUsecase(muow, quietLogger(), decimal.NewFromInt(100), decimal.Zero)
	statementUC := statement.NewUsecase(f.balances, f.ledger, invs)
	engine := accrual.NewEngine(muow, invs, &lockmock.Locker{}, quietLogger())

	f.depositH = NewDepositHandler(depositUC)
	f.callbackH = NewCallbackHandler(depositUC, quietLogger())
	f.withdrawalH = NewWithdrawalHandler(withdrawalUC)
	f.accrualH = NewAccrualHandler(engine, depositUC, testCronKey)
	f.statementH = NewStatementHandler(statementUC, plans)
	return f
}

type header struct{ key, value string }

func (f *fixture) do(method, target, body string, hdrs ...header) (echo.Context, *httptest.ResponseRecorder) {
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, rd)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	for _, h := range hdrs {
		req.Header.Set(h.key, h.value)
	}
	rec := httptest.NewRecorder()
	return f.e.NewContext(req, rec), rec
}

func mustStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("status = %d, want %d; body: %s", rec.Code, want, rec.Body.String())
	}
}
