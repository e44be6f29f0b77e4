package plan

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrNotFound         = errors.New("plan not found")
	ErrAmountOutOfRange = errors.New("amount outside plan bounds")
)

// Plan is an investment product: the rate/duration source of truth a
// position snapshots at activation time.
type Plan struct {
	ID           uint64          `gorm:"primaryKey;column:id" json:"-"`
	Code         string          `gorm:"size:32;uniqueIndex:ux_plans_code" json:"code"`
	Name         string          `gorm:"size:64" json:"name"`
	MinAmount    decimal.Decimal `gorm:"type:decimal(15,2)" json:"min_amount"`
	MaxAmount    decimal.Decimal `gorm:"type:decimal(15,2)" json:"max_amount"`
	DailyRate    decimal.Decimal `gorm:"type:decimal(8,4)" json:"daily_rate"` // fraction per day, 0.0350 = 3.5%
	DurationDays int             `gorm:"not null" json:"duration_days"`
	Active       bool            `gorm:"default:true" json:"active"`
	CreatedAt    time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time       `gorm:"autoUpdateTime" json:"-"`
}

func (Plan) TableName() string { return "plans" }

// WithinBounds reports whether amount is inside [min, max].
func (p *Plan) WithinBounds(amount decimal.Decimal) bool {
	return amount.GreaterThanOrEqual(p.MinAmount) && amount.LessThanOrEqual(p.MaxAmount)
}
