package http

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"pesavest-backend/internal/domain/plan"
	"pesavest-backend/internal/usecase/statement"
)

type StatementHandler struct {
	uc    *statement.Usecase
	plans plan.Repository
}

func NewStatementHandler(uc *statement.Usecase, plans plan.Repository) *StatementHandler {
	return &StatementHandler{uc: uc, plans: plans}
}

func (h *StatementHandler) GetBalance(c echo.Context) error {
	accountID := c.Param("account_id")
	if !reHex32.MatchString(accountID) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid account_id"})
	}
	b, err := h.uc.Balance(c.Request().Context(), accountID)
	if err != nil {
		return c.JSON(errStatus(err), errBody(err))
	}
	return c.JSON(http.StatusOK, b)
}

func (h *StatementHandler) ListTransactions(c echo.Context) error {
	accountID := c.Param("account_id")
	if !reHex32.MatchString(accountID) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid account_id"})
	}
	page, _ := strconv.Atoi(c.QueryParam("page"))
	size, _ := strconv.Atoi(c.QueryParam("size"))
	txs, err := h.uc.Transactions(c.Request().Context(), accountID, page, size)
	if err != nil {
		return c.JSON(errStatus(err), errBody(err))
	}
	return c.JSON(http.StatusOK, map[string]any{"transactions": txs})
}

func (h *StatementHandler) GetPortfolio(c echo.Context) error {
	accountID := c.Param("account_id")
	if !reHex32.MatchString(accountID) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid account_id"})
	}
	p, err := h.uc.Portfolio(c.Request().Context(), accountID)
	if err != nil {
		return c.JSON(errStatus(err), errBody(err))
	}
	return c.JSON(http.StatusOK, p)
}

func (h *StatementHandler) ListPlans(c echo.Context) error {
	ps, err := h.plans.ListActive(c.Request().Context())
	if err != nil {
		return c.JSON(errStatus(err), errBody(err))
	}
	return c.JSON(http.StatusOK, map[string]any{"plans": ps})
}
