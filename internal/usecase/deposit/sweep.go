package deposit

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"pesavest-backend/internal/domain/audit"
	"pesavest-backend/internal/domain/intent"
	"pesavest-backend/internal/domain/payment"
	"pesavest-backend/internal/domain/uow"
)

const sweepBatch = 500

// SweepExpired expires pending intents past their TTL and fails their
// still-pending payments. A confirmation arriving after the sweep takes the
// orphaned path in Confirm.
func (u *Usecase) SweepExpired(ctx context.Context) (int, error) {
	n := 0
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		due, err := r.Intents.ListExpiredPending(ctx, u.now(), sweepBatch)
		if err != nil {
			return err
		}
		for i := range due {
			it := &due[i]
			it.Status = intent.StatusExpired
			if err := r.Intents.Save(ctx, it); err != nil {
				return err
			}

			pay, err := r.Payments.GetByExternalRefForUpdate(ctx, it.ExternalRef)
			switch {
			case errors.Is(err, gorm.ErrRecordNotFound):
				// intent persisted without its payment row; nothing to fail
			case err != nil:
				return err
			case pay.Status == payment.StatusPending:
				desc := "intent expired before confirmation"
				pay.Status = payment.StatusFailed
				pay.ResultDesc = &desc
				if err := r.Payments.Save(ctx, pay); err != nil {
					return err
				}
			}

			if err := r.Audits.Append(ctx, &audit.Entry{
				Action:     audit.ActionIntentExpired,
				EntityType: "intent",
				EntityID:   it.IntentID,
				OldValue:   `{"status":"pending"}`,
				NewValue:   `{"status":"expired"}`,
			}); err != nil {
				return err
			}
			n++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	if n > 0 {
		u.log.WithFields(logrus.Fields{"module": "deposit", "expired": n}).Info("intent sweep finished")
	}
	return n, nil
}
