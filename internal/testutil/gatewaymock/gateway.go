package gatewaymock

import (
	"context"

	"github.com/shopspring/decimal"

	"pesavest-backend/internal/gateway/mpesa"
)

// Gateway is a function-backed mock for the STK push client. The default
// response accepts the push with a fresh checkout request id per call.
type Gateway struct {
	Pushed    int
	STKPushFn func(ctx context.Context, amount decimal.Decimal, phone, accountRef string) (*mpesa.STKPushResponse, error)
}

func (m *Gateway) STKPush(ctx context.Context, amount decimal.Decimal, phone, accountRef string) (*mpesa.STKPushResponse, error) {
	m.Pushed++
	if m.STKPushFn != nil {
		return m.STKPushFn(ctx, amount, phone, accountRef)
	}
	return &mpesa.STKPushResponse{
		MerchantRequestID:   "mr-" + accountRef,
		CheckoutRequestID:   "ws_CO_" + accountRef,
		ResponseCode:        "0",
		ResponseDescription: "Success. Request accepted for processing",
		CustomerMessage:     "Success. Request accepted for processing",
	}, nil
}
