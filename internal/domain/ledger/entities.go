package ledger

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var ErrDuplicateReference = errors.New("ledger reference already recorded")

type Type string

const (
	TypeDeposit    Type = "deposit"
	TypeReturn     Type = "return"
	TypeMaturity   Type = "maturity"
	TypeWithdrawal Type = "withdrawal"
	TypeCommission Type = "commission"
)

type Status string

const (
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
)

// Transaction is one append-only ledger row. Reference carries the unique
// index that makes every money-movement event idempotent.
type Transaction struct {
	ID        uint64          `gorm:"primaryKey;column:id" json:"-"`
	AccountID string          `gorm:"size:32;index:idx_transactions_account" json:"account_id"`
	Type      Type            `gorm:"size:16;index:idx_transactions_type" json:"type"`
	Amount    decimal.Decimal `gorm:"type:decimal(15,2)" json:"amount"`
	Reference string          `gorm:"size:64;uniqueIndex:ux_transactions_reference" json:"reference"`
	Status    Status          `gorm:"size:16" json:"status"`
	Metadata  string          `gorm:"type:text" json:"metadata,omitempty"`
	CreatedAt time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

func (Transaction) TableName() string { return "transactions" }
