package intent

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var ErrNotFound = errors.New("pending intent not found")

type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusExpired   Status = "expired"
	StatusFailed    Status = "failed"
)

// Terminal reports whether the intent can no longer accept a confirmation.
func (s Status) Terminal() bool { return s != StatusPending }

// Intent is a deposit awaiting its asynchronous gateway confirmation. The
// plan's rate and duration are snapshotted here so a later plan edit cannot
// change what the customer was quoted.
type Intent struct {
	ID           uint64          `gorm:"primaryKey;column:id" json:"-"`
	IntentID     string          `gorm:"size:32;uniqueIndex:ux_intents_intent_id" json:"intent_id"`
	AccountID    string          `gorm:"size:32;index:idx_intents_account" json:"account_id"`
	PlanCode     string          `gorm:"size:32" json:"plan_code"`
	PlanName     string          `gorm:"size:64" json:"plan_name"`
	Principal    decimal.Decimal `gorm:"type:decimal(15,2)" json:"principal"`
	DailyRate    decimal.Decimal `gorm:"type:decimal(8,4)" json:"daily_rate"`
	DurationDays int             `gorm:"not null" json:"duration_days"`
	Phone        string          `gorm:"size:20" json:"phone"`
	ExternalRef  string          `gorm:"size:64;uniqueIndex:ux_intents_external_ref" json:"external_ref"`
	Status       Status          `gorm:"type:enum('pending','completed','expired','failed');default:'pending'" json:"status"`
	CreatedAt    time.Time       `gorm:"autoCreateTime" json:"created_at"`
	ExpiresAt    time.Time       `gorm:"not null" json:"expires_at"`
	UpdatedAt    time.Time       `gorm:"autoUpdateTime" json:"-"`
}

func (Intent) TableName() string { return "pending_intents" }
