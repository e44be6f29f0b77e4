package deposit

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var ErrInvalidPhone = errors.New("invalid msisdn")

type CreateIntentInput struct {
	AccountID string
	PlanCode  string
	Amount    decimal.Decimal
	Phone     string
}

type IntentDTO struct {
	IntentID        string          `json:"intent_id"`
	AccountID       string          `json:"account_id"`
	PlanCode        string          `json:"plan_code"`
	PlanName        string          `json:"plan_name"`
	Principal       decimal.Decimal `json:"principal"`
	DailyRate       decimal.Decimal `json:"daily_rate"`
	DurationDays    int             `json:"duration_days"`
	ExternalRef     string          `json:"external_ref"`
	CustomerMessage string          `json:"customer_message,omitempty"`
	Status          string          `json:"status"`
	ExpiresAt       time.Time       `json:"expires_at"`
}

// Outcome classifies what Confirm did with a callback. None of these are
// errors: the gateway gets a success ack in every case.
type Outcome string

const (
	OutcomeActivated Outcome = "activated"
	OutcomeFailed    Outcome = "failed"
	OutcomeDuplicate Outcome = "duplicate"
	OutcomeOrphaned  Outcome = "orphaned"
)

type ConfirmResult struct {
	Outcome      Outcome `json:"outcome"`
	PaymentID    string  `json:"payment_id,omitempty"`
	InvestmentID string  `json:"investment_id,omitempty"`
}

var reMsisdn = regexp.MustCompile(`^254(7|1)\d{8}$`)

// NormalizeMsisdn canonicalizes Kenyan numbers to 254XXXXXXXXX.
func NormalizeMsisdn(p string) (string, error) {
	p = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(p), "+"))
	if strings.HasPrefix(p, "0") && len(p) == 10 {
		p = "254" + p[1:]
	}
	if !reMsisdn.MatchString(p) {
		return "", ErrInvalidPhone
	}
	return p, nil
}
