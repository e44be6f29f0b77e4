package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"pesavest-backend/internal/usecase/deposit"
)

type DepositHandler struct{ uc *deposit.Usecase }

func NewDepositHandler(uc *deposit.Usecase) *DepositHandler { return &DepositHandler{uc: uc} }

type createDepositReq struct {
	AccountID string  `json:"account_id" validate:"required,hex32"`
	PlanCode  string  `json:"plan_code"  validate:"required,plancode"`
	Amount    float64 `json:"amount"     validate:"required,gt=0,dec2"`
	Phone     string  `json:"phone"      validate:"required,msisdn"`
}

// CreateDeposit pushes an STK prompt and records the pending intent. The
// position itself only exists after the gateway confirms payment.
func (h *DepositHandler) CreateDeposit(c echo.Context) error {
	var req createDepositReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}

	dto, err := h.uc.CreateIntent(c.Request().Context(), deposit.CreateIntentInput{
		AccountID: req.AccountID,
		PlanCode:  req.PlanCode,
		Amount:    decimal.NewFromFloat(req.Amount),
		Phone:     req.Phone,
	})
	if err != nil {
		return c.JSON(errStatus(err), errBody(err))
	}
	return c.JSON(http.StatusAccepted, dto)
}
