package deposit

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"pesavest-backend/internal/domain/audit"
	"pesavest-backend/internal/domain/intent"
	"pesavest-backend/internal/domain/investment"
	"pesavest-backend/internal/domain/ledger"
	"pesavest-backend/internal/domain/payment"
	"pesavest-backend/internal/domain/plan"
	"pesavest-backend/internal/domain/uow"
	"pesavest-backend/internal/gateway/mpesa"
	"pesavest-backend/pkg/id"
)

// Gateway is the slice of the M-Pesa client this usecase needs.
type Gateway interface {
	STKPush(ctx context.Context, amount decimal.Decimal, phone, accountRef string) (*mpesa.STKPushResponse, error)
}

type Usecase struct {
	uow          uow.UnitOfWork
	plans        plan.Repository
	gateway      Gateway
	log          *logrus.Logger
	intentTTL    time.Duration
	strictAmount bool
	now          func() time.Time
}

func NewUsecase(tx uow.UnitOfWork, plans plan.Repository, gw Gateway, log *logrus.Logger, intentTTL time.Duration, strictAmount bool) *Usecase {
	return &Usecase{
		uow:          tx,
		plans:        plans,
		gateway:      gw,
		log:          log,
		intentTTL:    intentTTL,
		strictAmount: strictAmount,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// CreateIntent validates the request against the plan, fires the STK push,
// and records the pending intent + payment pair the confirmation will later
// resolve against.
func (u *Usecase) CreateIntent(ctx context.Context, in CreateIntentInput) (*IntentDTO, error) {
	p, err := u.plans.GetByCode(ctx, in.PlanCode)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, plan.ErrNotFound
	case err != nil:
		return nil, err
	}
	if !p.Active {
		return nil, plan.ErrNotFound
	}
	if !p.WithinBounds(in.Amount) {
		return nil, plan.ErrAmountOutOfRange
	}
	msisdn, err := NormalizeMsisdn(in.Phone)
	if err != nil {
		return nil, err
	}

	// The push happens before any row exists: a gateway failure leaves
	// nothing to sweep, and the CheckoutRequestID is the external ref.
	accountRef := uuid.NewString()
	push, err := u.gateway.STKPush(ctx, in.Amount, msisdn, accountRef)
	if err != nil {
		u.log.WithFields(logrus.Fields{
			"module":      "deposit",
			"account":     in.AccountID,
			"plan":        in.PlanCode,
			"account_ref": accountRef,
		}).Warn("stk push failed: " + err.Error())
		return nil, err
	}

	now := u.now()
	it := &intent.Intent{
		IntentID:     id.NewID32(),
		AccountID:    in.AccountID,
		PlanCode:     p.Code,
		PlanName:     p.Name,
		Principal:    in.Amount,
		DailyRate:    p.DailyRate,
		DurationDays: p.DurationDays,
		Phone:        msisdn,
		ExternalRef:  push.CheckoutRequestID,
		Status:       intent.StatusPending,
		CreatedAt:    now,
		ExpiresAt:    now.Add(u.intentTTL),
	}
	err = u.uow.WithinTx(ctx, func(r uow.Repos) error {
		if err := r.Balances.Ensure(ctx, in.AccountID); err != nil {
			return err
		}
		if err := r.Intents.Create(ctx, it); err != nil {
			return err
		}
		pay := &payment.Payment{
			PaymentID:   id.NewID32(),
			AccountID:   in.AccountID,
			Amount:      in.Amount,
			ExternalRef: push.CheckoutRequestID,
			Status:      payment.StatusPending,
			CreatedAt:   now,
		}
		if err := r.Payments.Create(ctx, pay); err != nil {
			return err
		}
		return r.Audits.Append(ctx, &audit.Entry{
			ActorID:    &it.AccountID,
			Action:     audit.ActionDepositInitiated,
			EntityType: "intent",
			EntityID:   it.IntentID,
			NewValue: metaJSON(map[string]any{
				"plan":         p.Code,
				"amount":       in.Amount,
				"external_ref": push.CheckoutRequestID,
			}),
		})
	})
	if err != nil {
		return nil, err
	}

	return &IntentDTO{
		IntentID:        it.IntentID,
		AccountID:       it.AccountID,
		PlanCode:        it.PlanCode,
		PlanName:        it.PlanName,
		Principal:       it.Principal,
		DailyRate:       it.DailyRate,
		DurationDays:    it.DurationDays,
		ExternalRef:     it.ExternalRef,
		CustomerMessage: push.CustomerMessage,
		Status:          string(it.Status),
		ExpiresAt:       it.ExpiresAt,
	}, nil
}

// Confirm is the callback processor: one transaction drives payment,
// investment, balance, ledger and audit together, or none of them.
// Replays and late or unknown confirmations resolve to non-error outcomes.
func (u *Usecase) Confirm(ctx context.Context, cb *mpesa.Callback, raw []byte) (*ConfirmResult, error) {
	res := &ConfirmResult{}
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		it, err := r.Intents.GetByExternalRefForUpdate(ctx, cb.CheckoutRequestID)
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return u.confirmWithoutIntent(ctx, r, cb, raw, res)
		case err != nil:
			return err
		}

		if it.Status == intent.StatusExpired {
			// Late arrival: the sweep already closed this intent. Never
			// honored automatically; the audit row is the reconciliation
			// hook for an operator.
			res.Outcome = OutcomeOrphaned
			return r.Audits.Append(ctx, orphanEntry(cb, raw, "intent expired before confirmation"))
		}
		if it.Status.Terminal() {
			res.Outcome = OutcomeDuplicate
			return nil
		}

		pay, err := r.Payments.GetByExternalRefForUpdate(ctx, cb.CheckoutRequestID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return payment.ErrNotFound
			}
			return err
		}
		if pay.Status.Terminal() {
			res.Outcome = OutcomeDuplicate
			return nil
		}

		if !cb.Success() {
			return u.failPayment(ctx, r, it, pay, cb.ResultDesc, raw, res)
		}

		rcpt, err := cb.Receipt()
		if err != nil {
			// A "success" we cannot account for is treated as a failed
			// charge, never a silent credit.
			return u.failPayment(ctx, r, it, pay, "malformed callback metadata: "+err.Error(), raw, res)
		}

		if !rcpt.Amount.Equal(it.Principal) {
			if aerr := r.Audits.Append(ctx, &audit.Entry{
				Action:     audit.ActionAmountMismatch,
				EntityType: "payment",
				EntityID:   pay.PaymentID,
				OldValue:   metaJSON(map[string]any{"requested": it.Principal}),
				NewValue:   metaJSON(map[string]any{"confirmed": rcpt.Amount}),
			}); aerr != nil {
				return aerr
			}
			if u.strictAmount {
				return u.failPayment(ctx, r, it, pay, "confirmed amount does not match requested amount", raw, res)
			}
			// Tolerant policy: the requested amount stays the source of
			// truth for the position and the credit.
		}

		now := u.now()
		inv := &investment.Investment{
			InvestmentID:  id.NewID32(),
			AccountID:     it.AccountID,
			PlanName:      it.PlanName,
			Principal:     it.Principal,
			DailyRate:     it.DailyRate,
			DurationDays:  it.DurationDays,
			Status:        investment.StatusActive,
			AccruedReturn: decimal.Zero,
			CurrentValue:  it.Principal,
			ProgressPct:   decimal.Zero,
			CreatedAt:     now,
			MaturesAt:     now.AddDate(0, 0, it.DurationDays),
		}
		if err := r.Investments.Create(ctx, inv); err != nil {
			return err
		}

		pay.Status = payment.StatusCompleted
		pay.ReceiptNumber = &rcpt.ReceiptNumber
		pay.InvestmentID = &inv.InvestmentID
		pay.RawCallback = string(raw)
		if err := r.Payments.Save(ctx, pay); err != nil {
			return err
		}

		it.Status = intent.StatusCompleted
		if err := r.Intents.Save(ctx, it); err != nil {
			return err
		}

		if _, err := r.Balances.CreditDeposit(ctx, it.AccountID, it.Principal); err != nil {
			return err
		}

		if err := r.Ledger.Append(ctx, &ledger.Transaction{
			AccountID: it.AccountID,
			Type:      ledger.TypeDeposit,
			Amount:    it.Principal,
			Reference: id.DepositRef(rcpt.ReceiptNumber),
			Status:    ledger.StatusSuccess,
			Metadata: metaJSON(map[string]any{
				"external_ref":  cb.CheckoutRequestID,
				"receipt":       rcpt.ReceiptNumber,
				"phone":         rcpt.PhoneNumber,
				"investment_id": inv.InvestmentID,
			}),
		}); err != nil {
			return err
		}

		if err := r.Audits.Append(ctx, &audit.Entry{
			ActorID:    &it.AccountID,
			Action:     audit.ActionDepositActivated,
			EntityType: "investment",
			EntityID:   inv.InvestmentID,
			OldValue:   metaJSON(map[string]any{"intent": it.IntentID, "status": "pending"}),
			NewValue:   metaJSON(map[string]any{"principal": inv.Principal, "matures_at": inv.MaturesAt}),
		}); err != nil {
			return err
		}

		res.Outcome = OutcomeActivated
		res.PaymentID = pay.PaymentID
		res.InvestmentID = inv.InvestmentID
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.log.WithFields(logrus.Fields{
		"module":       "deposit",
		"external_ref": cb.CheckoutRequestID,
		"result_code":  cb.ResultCode,
		"outcome":      res.Outcome,
	}).Info("payment confirmation processed")
	return res, nil
}

// confirmWithoutIntent handles refs with no intent row at all: either a
// replay against a finalized payment, or a confirmation we never asked for.
func (u *Usecase) confirmWithoutIntent(ctx context.Context, r uow.Repos, cb *mpesa.Callback, raw []byte, res *ConfirmResult) error {
	pay, err := r.Payments.GetByExternalRefForUpdate(ctx, cb.CheckoutRequestID)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		res.Outcome = OutcomeOrphaned
		return r.Audits.Append(ctx, orphanEntry(cb, raw, "no matching intent or payment"))
	case err != nil:
		return err
	}
	if pay.Status.Terminal() {
		res.Outcome = OutcomeDuplicate
		return nil
	}
	// A pending payment without its intent has no plan terms to activate
	// against; park it for reconciliation.
	res.Outcome = OutcomeOrphaned
	return r.Audits.Append(ctx, orphanEntry(cb, raw, "pending payment without intent"))
}

func (u *Usecase) failPayment(ctx context.Context, r uow.Repos, it *intent.Intent, pay *payment.Payment, desc string, raw []byte, res *ConfirmResult) error {
	pay.Status = payment.StatusFailed
	pay.ResultDesc = &desc
	pay.RawCallback = string(raw)
	if err := r.Payments.Save(ctx, pay); err != nil {
		return err
	}
	it.Status = intent.StatusFailed
	if err := r.Intents.Save(ctx, it); err != nil {
		return err
	}
	if err := r.Ledger.Append(ctx, &ledger.Transaction{
		AccountID: it.AccountID,
		Type:      ledger.TypeDeposit,
		Amount:    it.Principal,
		Reference: id.DepositRef(pay.ExternalRef),
		Status:    ledger.StatusFailed,
		Metadata:  metaJSON(map[string]any{"reason": desc}),
	}); err != nil {
		return err
	}
	if err := r.Audits.Append(ctx, &audit.Entry{
		ActorID:    &it.AccountID,
		Action:     audit.ActionPaymentFailed,
		EntityType: "payment",
		EntityID:   pay.PaymentID,
		NewValue:   metaJSON(map[string]any{"reason": desc}),
	}); err != nil {
		return err
	}
	res.Outcome = OutcomeFailed
	res.PaymentID = pay.PaymentID
	return nil
}

func orphanEntry(cb *mpesa.Callback, raw []byte, reason string) *audit.Entry {
	return &audit.Entry{
		Action:     audit.ActionPaymentOrphaned,
		EntityType: "payment",
		EntityID:   cb.CheckoutRequestID,
		NewValue:   metaJSON(map[string]any{"reason": reason, "payload": json.RawMessage(raw)}),
	}
}

func metaJSON(v any) string {
	b, _ := json.Marshal(v)
	return string(b)
}
