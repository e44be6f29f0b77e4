package http

import (
	"errors"
	"net/http"

	"gorm.io/gorm"

	"pesavest-backend/internal/domain/balance"
	"pesavest-backend/internal/domain/intent"
	"pesavest-backend/internal/domain/investment"
	"pesavest-backend/internal/domain/payment"
	"pesavest-backend/internal/domain/plan"
	withdrawalDomain "pesavest-backend/internal/domain/withdrawal"
	"pesavest-backend/internal/gateway/mpesa"
	"pesavest-backend/internal/usecase/accrual"
	"pesavest-backend/internal/usecase/deposit"
	withdrawalUC "pesavest-backend/internal/usecase/withdrawal"
)

// errStatus maps domain sentinels to HTTP codes. Anything unmapped is a 500;
// the callback route never uses this (it always acks).
func errStatus(err error) int {
	switch {
	case errors.Is(err, plan.ErrNotFound),
		errors.Is(err, intent.ErrNotFound),
		errors.Is(err, investment.ErrNotFound),
		errors.Is(err, payment.ErrNotFound),
		errors.Is(err, withdrawalDomain.ErrNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return http.StatusNotFound
	case errors.Is(err, payment.ErrDuplicate),
		errors.Is(err, withdrawalDomain.ErrInvalidTransition),
		errors.Is(err, accrual.ErrRunInProgress):
		return http.StatusConflict
	case errors.Is(err, plan.ErrAmountOutOfRange),
		errors.Is(err, balance.ErrInsufficient),
		errors.Is(err, deposit.ErrInvalidPhone),
		errors.Is(err, withdrawalUC.ErrAmountBelowMinimum):
		return http.StatusUnprocessableEntity
	case errors.Is(err, mpesa.ErrUnavailable):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func errBody(err error) ErrorResponse {
	if errStatus(err) == http.StatusInternalServerError {
		return ErrorResponse{Error: "internal error"}
	}
	return ErrorResponse{Error: err.Error()}
}
