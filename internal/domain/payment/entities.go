package payment

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrNotFound  = errors.New("payment not found")
	ErrDuplicate = errors.New("payment already finalized")
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

func (s Status) Terminal() bool { return s == StatusCompleted || s == StatusFailed }

// Payment mirrors one gateway charge attempt. Immutable once completed or
// failed; only the callback processor moves it out of pending.
type Payment struct {
	ID            uint64          `gorm:"primaryKey;column:id" json:"-"`
	PaymentID     string          `gorm:"size:32;uniqueIndex:ux_payments_payment_id" json:"payment_id"`
	AccountID     string          `gorm:"size:32;index:idx_payments_account" json:"account_id"`
	InvestmentID  *string         `gorm:"size:32" json:"investment_id,omitempty"`
	Amount        decimal.Decimal `gorm:"type:decimal(15,2)" json:"amount"`
	ExternalRef   string          `gorm:"size:64;uniqueIndex:ux_payments_external_ref" json:"external_ref"`
	Status        Status          `gorm:"type:enum('pending','completed','failed');default:'pending'" json:"status"`
	ReceiptNumber *string         `gorm:"size:32" json:"receipt_number,omitempty"`
	ResultDesc    *string         `gorm:"size:191" json:"result_desc,omitempty"`
	RawCallback   string          `gorm:"type:text" json:"-"`
	CreatedAt     time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"autoUpdateTime" json:"-"`
}

func (Payment) TableName() string { return "payments" }
