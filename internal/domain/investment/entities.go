package investment

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var ErrNotFound = errors.New("investment not found")

type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
)

// Investment is a credited, interest-accruing position. AccruedReturn,
// CurrentValue, ProgressPct and DaysElapsed are snapshots maintained by the
// accrual engine; the ledger holds the authoritative event trail.
type Investment struct {
	ID            uint64          `gorm:"primaryKey;column:id" json:"-"`
	InvestmentID  string          `gorm:"size:32;uniqueIndex:ux_investments_investment_id" json:"investment_id"`
	AccountID     string          `gorm:"size:32;index:idx_investments_account" json:"account_id"`
	PlanName      string          `gorm:"size:64" json:"plan_name"`
	Principal     decimal.Decimal `gorm:"type:decimal(15,2)" json:"principal"`
	DailyRate     decimal.Decimal `gorm:"type:decimal(8,4)" json:"daily_rate"`
	DurationDays  int             `gorm:"not null" json:"duration_days"`
	Status        Status          `gorm:"type:enum('active','completed');default:'active';index:idx_investments_status" json:"status"`
	AccruedReturn decimal.Decimal `gorm:"type:decimal(15,2);default:0" json:"accrued_return"`
	CurrentValue  decimal.Decimal `gorm:"type:decimal(15,2);default:0" json:"current_value"`
	ProgressPct   decimal.Decimal `gorm:"type:decimal(5,1);default:0" json:"progress_pct"`
	DaysElapsed   int             `gorm:"default:0" json:"days_elapsed"`
	CreatedAt     time.Time       `json:"created_at"`
	MaturesAt     time.Time       `gorm:"not null" json:"matures_at"`
	UpdatedAt     time.Time       `gorm:"autoUpdateTime" json:"-"`
}

func (Investment) TableName() string { return "investments" }

// FinalReturn is the simple, non-compounding interest over the full term.
func (i *Investment) FinalReturn() decimal.Decimal {
	return i.Principal.Mul(i.DailyRate).Mul(decimal.NewFromInt(int64(i.DurationDays)))
}
