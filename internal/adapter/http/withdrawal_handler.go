package http

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"pesavest-backend/internal/usecase/withdrawal"
)

type WithdrawalHandler struct{ uc *withdrawal.Usecase }

func NewWithdrawalHandler(uc *withdrawal.Usecase) *WithdrawalHandler {
	return &WithdrawalHandler{uc: uc}
}

type requestWithdrawalReq struct {
	AccountID string  `json:"account_id" validate:"required,hex32"`
	Amount    float64 `json:"amount"     validate:"required,gt=0,dec2"`
	Phone     string  `json:"phone"      validate:"required,msisdn"`
}

func (h *WithdrawalHandler) RequestWithdrawal(c echo.Context) error {
	var req requestWithdrawalReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	dto, err := h.uc.Request(c.Request().Context(), withdrawal.RequestInput{
		AccountID: req.AccountID,
		Amount:    decimal.NewFromFloat(req.Amount),
		Phone:     req.Phone,
	})
	if err != nil {
		return c.JSON(errStatus(err), errBody(err))
	}
	return c.JSON(http.StatusCreated, dto)
}

type operatorActionReq struct {
	ExternalRef string `json:"external_ref,omitempty"`
	Reason      string `json:"reason,omitempty"`
}

// operatorID comes from the X-Operator-Id header; payout actions are
// operator-gated, there is no self-service completion.
func operatorID(c echo.Context) (string, bool) {
	op := strings.TrimSpace(c.Request().Header.Get("X-Operator-Id"))
	return op, reHex32.MatchString(op)
}

func (h *WithdrawalHandler) Approve(c echo.Context) error {
	return h.operatorAction(c, func(id, op string, req operatorActionReq) (any, error) {
		return h.uc.Approve(c.Request().Context(), id, op)
	})
}

func (h *WithdrawalHandler) MarkProcessing(c echo.Context) error {
	return h.operatorAction(c, func(id, op string, req operatorActionReq) (any, error) {
		return h.uc.MarkProcessing(c.Request().Context(), id, op)
	})
}

func (h *WithdrawalHandler) Complete(c echo.Context) error {
	return h.operatorAction(c, func(id, op string, req operatorActionReq) (any, error) {
		if strings.TrimSpace(req.ExternalRef) == "" {
			return nil, echo.NewHTTPError(http.StatusBadRequest, "external_ref is required")
		}
		return h.uc.Complete(c.Request().Context(), id, op, req.ExternalRef)
	})
}

func (h *WithdrawalHandler) Cancel(c echo.Context) error {
	return h.operatorAction(c, func(id, op string, req operatorActionReq) (any, error) {
		return h.uc.Cancel(c.Request().Context(), id, op, req.Reason)
	})
}

func (h *WithdrawalHandler) Fail(c echo.Context) error {
	return h.operatorAction(c, func(id, op string, req operatorActionReq) (any, error) {
		return h.uc.Fail(c.Request().Context(), id, op, req.Reason)
	})
}

func (h *WithdrawalHandler) operatorAction(c echo.Context, fn func(id, op string, req operatorActionReq) (any, error)) error {
	withdrawalID := c.Param("withdrawal_id")
	if !reHex32.MatchString(withdrawalID) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid withdrawal_id"})
	}
	op, ok := operatorID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "missing or invalid X-Operator-Id"})
	}
	var req operatorActionReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	dto, err := fn(withdrawalID, op, req)
	if err != nil {
		if he, isHTTP := err.(*echo.HTTPError); isHTTP {
			return c.JSON(he.Code, ErrorResponse{Error: he.Message.(string)})
		}
		return c.JSON(errStatus(err), errBody(err))
	}
	return c.JSON(http.StatusOK, dto)
}
