package http

import (
	"crypto/subtle"
	"net/http"

	"github.com/labstack/echo/v4"

	"pesavest-backend/internal/usecase/accrual"
	"pesavest-backend/internal/usecase/deposit"
)

// AccrualHandler exposes the cron surface. Both routes are gated by a
// shared X-Cron-Key header rather than user auth.
type AccrualHandler struct {
	engine  *accrual.Engine
	deposit *deposit.Usecase
	cronKey string
}

func NewAccrualHandler(engine *accrual.Engine, dep *deposit.Usecase, cronKey string) *AccrualHandler {
	return &AccrualHandler{engine: engine, deposit: dep, cronKey: cronKey}
}

func (h *AccrualHandler) authorized(c echo.Context) bool {
	got := c.Request().Header.Get("X-Cron-Key")
	return subtle.ConstantTimeCompare([]byte(got), []byte(h.cronKey)) == 1
}

func (h *AccrualHandler) RunAccrual(c echo.Context) error {
	if !h.authorized(c) {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "invalid cron key"})
	}
	sum, err := h.engine.Run(c.Request().Context())
	if err != nil {
		return c.JSON(errStatus(err), errBody(err))
	}
	return c.JSON(http.StatusOK, sum)
}

func (h *AccrualHandler) SweepIntents(c echo.Context) error {
	if !h.authorized(c) {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "invalid cron key"})
	}
	n, err := h.deposit.SweepExpired(c.Request().Context())
	if err != nil {
		return c.JSON(errStatus(err), errBody(err))
	}
	return c.JSON(http.StatusOK, map[string]int{"expired": n})
}
