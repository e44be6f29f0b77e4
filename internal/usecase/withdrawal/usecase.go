package withdrawal

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"pesavest-backend/internal/domain/audit"
	"pesavest-backend/internal/domain/ledger"
	"pesavest-backend/internal/domain/uow"
	domain "pesavest-backend/internal/domain/withdrawal"
	"pesavest-backend/pkg/id"
)

var ErrAmountBelowMinimum = errors.New("withdrawal amount below minimum")

type RequestInput struct {
	AccountID string
	Amount    decimal.Decimal
	Phone     string
}

type WithdrawalDTO struct {
	WithdrawalID string          `json:"withdrawal_id"`
	AccountID    string          `json:"account_id"`
	Amount       decimal.Decimal `json:"amount"`
	Status       string          `json:"status"`
	RequestedAt  time.Time       `json:"requested_at"`
}

// Usecase drives the operator-gated payout state machine. The requested
// amount sits in locked from Request until Complete (debit) or
// Cancel/Fail (unlock); it is never counted twice.
type Usecase struct {
	uow       uow.UnitOfWork
	log       *logrus.Logger
	minAmount decimal.Decimal
	flatFee   decimal.Decimal
	now       func() time.Time
}

func NewUsecase(tx uow.UnitOfWork, log *logrus.Logger, minAmount, flatFee decimal.Decimal) *Usecase {
	return &Usecase{
		uow:       tx,
		log:       log,
		minAmount: minAmount,
		flatFee:   flatFee,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (u *Usecase) Request(ctx context.Context, in RequestInput) (*WithdrawalDTO, error) {
	if in.Amount.LessThan(u.minAmount) {
		return nil, ErrAmountBelowMinimum
	}

	w := &domain.Withdrawal{
		WithdrawalID: id.NewID32(),
		AccountID:    in.AccountID,
		Amount:       in.Amount,
		Phone:        in.Phone,
		Status:       domain.StatusPending,
		RequestedAt:  u.now(),
	}
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		if err := r.Balances.Ensure(ctx, in.AccountID); err != nil {
			return err
		}
		if _, err := r.Balances.Lock(ctx, in.AccountID, in.Amount); err != nil {
			return err
		}
		if err := r.Withdrawals.Create(ctx, w); err != nil {
			return err
		}
		return r.Audits.Append(ctx, &audit.Entry{
			ActorID:    &in.AccountID,
			Action:     audit.ActionWithdrawalRequested,
			EntityType: "withdrawal",
			EntityID:   w.WithdrawalID,
			NewValue:   metaJSON(map[string]any{"amount": in.Amount}),
		})
	})
	if err != nil {
		return nil, err
	}
	return toDTO(w), nil
}

func (u *Usecase) Approve(ctx context.Context, withdrawalID, operatorID string) (*WithdrawalDTO, error) {
	return u.transition(ctx, withdrawalID, operatorID, domain.StatusPending, domain.StatusApproved, audit.ActionWithdrawalApproved, nil)
}

func (u *Usecase) MarkProcessing(ctx context.Context, withdrawalID, operatorID string) (*WithdrawalDTO, error) {
	return u.transition(ctx, withdrawalID, operatorID, domain.StatusApproved, domain.StatusProcessing, audit.ActionWithdrawalProcessing,
		func(w *domain.Withdrawal) {
			t := u.now()
			w.ProcessedAt = &t
		})
}

// Complete settles the payout: the lock is released, the balance debited,
// and the ledger gets the payout row (plus a commission row when a flat fee
// is configured — the fee comes out of the paid amount, not on top).
func (u *Usecase) Complete(ctx context.Context, withdrawalID, operatorID, externalRef string) (*WithdrawalDTO, error) {
	var dto *WithdrawalDTO
	err := u.uow.WithinWithdrawalTx(ctx, withdrawalID, func(r uow.Repos, w *domain.Withdrawal) error {
		if w.Status != domain.StatusProcessing {
			return domain.ErrInvalidTransition
		}

		if _, err := r.Balances.Unlock(ctx, w.AccountID, w.Amount); err != nil {
			return err
		}
		if _, err := r.Balances.Debit(ctx, w.AccountID, w.Amount); err != nil {
			return err
		}

		fee := u.flatFee
		if fee.IsNegative() || fee.GreaterThanOrEqual(w.Amount) {
			fee = decimal.Zero
		}
		payout := w.Amount.Sub(fee)

		if err := r.Ledger.Append(ctx, &ledger.Transaction{
			AccountID: w.AccountID,
			Type:      ledger.TypeWithdrawal,
			Amount:    payout,
			Reference: id.WithdrawalRef(w.WithdrawalID),
			Status:    ledger.StatusSuccess,
			Metadata:  metaJSON(map[string]any{"phone": w.Phone, "external_ref": externalRef}),
		}); err != nil {
			return err
		}
		if fee.IsPositive() {
			if err := r.Ledger.Append(ctx, &ledger.Transaction{
				AccountID: w.AccountID,
				Type:      ledger.TypeCommission,
				Amount:    fee,
				Reference: id.CommissionRef(w.WithdrawalID),
				Status:    ledger.StatusSuccess,
				Metadata:  metaJSON(map[string]any{"withdrawal_id": w.WithdrawalID}),
			}); err != nil {
				return err
			}
		}

		t := u.now()
		w.Status = domain.StatusCompleted
		w.CompletedAt = &t
		w.OperatorID = &operatorID
		w.ExternalRef = &externalRef
		if err := r.Withdrawals.Save(ctx, w); err != nil {
			return err
		}
		if err := r.Audits.Append(ctx, &audit.Entry{
			ActorID:    &operatorID,
			Action:     audit.ActionWithdrawalCompleted,
			EntityType: "withdrawal",
			EntityID:   w.WithdrawalID,
			NewValue:   metaJSON(map[string]any{"payout": payout, "fee": fee, "external_ref": externalRef}),
		}); err != nil {
			return err
		}
		dto = toDTO(w)
		return nil
	})
	if err != nil {
		return nil, u.mapNotFound(err)
	}
	return dto, nil
}

func (u *Usecase) Cancel(ctx context.Context, withdrawalID, operatorID, reason string) (*WithdrawalDTO, error) {
	return u.release(ctx, withdrawalID, operatorID, reason, domain.StatusCancelled, audit.ActionWithdrawalCancelled)
}

func (u *Usecase) Fail(ctx context.Context, withdrawalID, operatorID, reason string) (*WithdrawalDTO, error) {
	return u.release(ctx, withdrawalID, operatorID, reason, domain.StatusFailed, audit.ActionWithdrawalFailed)
}

// release unwinds a not-yet-completed withdrawal: the locked amount returns
// to available untouched.
func (u *Usecase) release(ctx context.Context, withdrawalID, operatorID, reason string, to domain.Status, action string) (*WithdrawalDTO, error) {
	var dto *WithdrawalDTO
	err := u.uow.WithinWithdrawalTx(ctx, withdrawalID, func(r uow.Repos, w *domain.Withdrawal) error {
		if w.Status.Terminal() {
			return domain.ErrInvalidTransition
		}
		if _, err := r.Balances.Unlock(ctx, w.AccountID, w.Amount); err != nil {
			return err
		}
		old := w.Status
		w.Status = to
		w.OperatorID = &operatorID
		if err := r.Withdrawals.Save(ctx, w); err != nil {
			return err
		}
		if err := r.Audits.Append(ctx, &audit.Entry{
			ActorID:    &operatorID,
			Action:     action,
			EntityType: "withdrawal",
			EntityID:   w.WithdrawalID,
			OldValue:   metaJSON(map[string]any{"status": old}),
			NewValue:   metaJSON(map[string]any{"status": to, "reason": reason}),
		}); err != nil {
			return err
		}
		dto = toDTO(w)
		return nil
	})
	if err != nil {
		return nil, u.mapNotFound(err)
	}
	return dto, nil
}

func (u *Usecase) transition(ctx context.Context, withdrawalID, operatorID string, from, to domain.Status, action string, mut func(*domain.Withdrawal)) (*WithdrawalDTO, error) {
	var dto *WithdrawalDTO
	err := u.uow.WithinWithdrawalTx(ctx, withdrawalID, func(r uow.Repos, w *domain.Withdrawal) error {
		if w.Status != from {
			return domain.ErrInvalidTransition
		}
		w.Status = to
		w.OperatorID = &operatorID
		if mut != nil {
			mut(w)
		}
		if err := r.Withdrawals.Save(ctx, w); err != nil {
			return err
		}
		if err := r.Audits.Append(ctx, &audit.Entry{
			ActorID:    &operatorID,
			Action:     action,
			EntityType: "withdrawal",
			EntityID:   w.WithdrawalID,
			OldValue:   metaJSON(map[string]any{"status": from}),
			NewValue:   metaJSON(map[string]any{"status": to}),
		}); err != nil {
			return err
		}
		dto = toDTO(w)
		return nil
	})
	if err != nil {
		return nil, u.mapNotFound(err)
	}
	return dto, nil
}

func (u *Usecase) mapNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrNotFound
	}
	return err
}

func toDTO(w *domain.Withdrawal) *WithdrawalDTO {
	return &WithdrawalDTO{
		WithdrawalID: w.WithdrawalID,
		AccountID:    w.AccountID,
		Amount:       w.Amount,
		Status:       string(w.Status),
		RequestedAt:  w.RequestedAt,
	}
}

func metaJSON(v any) string {
	b, _ := json.Marshal(v)
	return string(b)
}
