package withdrawal

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrNotFound          = errors.New("withdrawal not found")
	ErrInvalidTransition = errors.New("invalid withdrawal state transition")
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusApproved   Status = "approved"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
	StatusCancelled  Status = "cancelled"
)

func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed || s == StatusCancelled
}

// Withdrawal is operator-gated: every transition past pending records the
// operator who drove it. The requested amount stays locked on the balance
// until completion (debit) or cancellation (unlock).
type Withdrawal struct {
	ID           uint64          `gorm:"primaryKey;column:id" json:"-"`
	WithdrawalID string          `gorm:"size:32;uniqueIndex:ux_withdrawals_withdrawal_id" json:"withdrawal_id"`
	AccountID    string          `gorm:"size:32;index:idx_withdrawals_account" json:"account_id"`
	Amount       decimal.Decimal `gorm:"type:decimal(15,2)" json:"amount"`
	Phone        string          `gorm:"size:20" json:"phone"`
	Status       Status          `gorm:"type:enum('pending','approved','processing','completed','failed','cancelled');default:'pending';index:idx_withdrawals_status" json:"status"`
	ExternalRef  *string         `gorm:"size:64" json:"external_ref,omitempty"`
	OperatorID   *string         `gorm:"size:32" json:"operator_id,omitempty"`
	RequestedAt  time.Time       `gorm:"autoCreateTime" json:"requested_at"`
	ProcessedAt  *time.Time      `json:"processed_at,omitempty"`
	CompletedAt  *time.Time      `json:"completed_at,omitempty"`
	UpdatedAt    time.Time       `gorm:"autoUpdateTime" json:"-"`
}

func (Withdrawal) TableName() string { return "withdrawals" }
