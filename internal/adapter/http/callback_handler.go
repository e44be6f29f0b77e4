package http

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"pesavest-backend/internal/gateway/mpesa"
	"pesavest-backend/internal/usecase/deposit"
)

type CallbackHandler struct {
	uc  *deposit.Usecase
	log *logrus.Logger
}

func NewCallbackHandler(uc *deposit.Usecase, log *logrus.Logger) *CallbackHandler {
	return &CallbackHandler{uc: uc, log: log}
}

// MpesaCallback is the Daraja result hook. It acks success no matter what:
// a non-200 here makes Safaricom retry, and every retry is a callback we
// already classify as a duplicate internally. Failures are logged, not
// surfaced.
func (h *CallbackHandler) MpesaCallback(c echo.Context) error {
	raw, err := io.ReadAll(c.Request().Body)
	if err != nil {
		h.log.WithError(err).Warn("mpesa callback: unreadable body")
		return c.JSON(http.StatusOK, mpesa.AckOK())
	}
	c.Request().Body = io.NopCloser(bytes.NewReader(raw))

	var env mpesa.Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		h.log.WithError(err).Warn("mpesa callback: malformed payload")
		return c.JSON(http.StatusOK, mpesa.AckOK())
	}

	res, err := h.uc.Confirm(c.Request().Context(), &env.Body.StkCallback, raw)
	if err != nil {
		h.log.WithError(err).WithField("external_ref", env.Body.StkCallback.CheckoutRequestID).
			Error("mpesa callback: confirm failed")
		return c.JSON(http.StatusOK, mpesa.AckOK())
	}
	h.log.WithFields(logrus.Fields{
		"external_ref": env.Body.StkCallback.CheckoutRequestID,
		"outcome":      res.Outcome,
	}).Info("mpesa callback processed")
	return c.JSON(http.StatusOK, mpesa.AckOK())
}
