package id

import (
	"fmt"
	"time"
)

// Ledger reference builders. References are the idempotency key for ledger
// writes: the transactions table carries a unique index on reference, so a
// replayed event collides instead of double-posting.

// DepositRef keys a deposit ledger row by the gateway receipt (or, when the
// gateway did not supply one, the checkout request id).
func DepositRef(receipt string) string { return "DEP-" + receipt }

// ReturnRef keys the daily return row: at most one per investment per
// calendar day (UTC).
func ReturnRef(investmentID string, day time.Time) string {
	return fmt.Sprintf("RET-%s-%s", investmentID, day.UTC().Format("2006-01-02"))
}

// MaturityRef keys the single maturity payout row per investment.
func MaturityRef(investmentID string) string { return "MAT-" + investmentID }

// WithdrawalRef keys the payout row of a completed withdrawal.
func WithdrawalRef(withdrawalID string) string { return "WDR-" + withdrawalID }

// CommissionRef keys the fee row taken on a completed withdrawal.
func CommissionRef(withdrawalID string) string { return "FEE-" + withdrawalID }
