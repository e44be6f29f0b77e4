package balance

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var ErrInsufficient = errors.New("insufficient available balance")

// Balance is the per-account money position. available + locked is only
// moved by Lock/Unlock; the running totals are monotonic counters.
type Balance struct {
	ID             uint64          `gorm:"primaryKey;column:id" json:"-"`
	AccountID      string          `gorm:"size:32;uniqueIndex:ux_balances_account" json:"account_id"`
	Available      decimal.Decimal `gorm:"type:decimal(15,2);default:0" json:"available"`
	Locked         decimal.Decimal `gorm:"type:decimal(15,2);default:0" json:"locked"`
	TotalDeposited decimal.Decimal `gorm:"type:decimal(15,2);default:0" json:"total_deposited"`
	TotalWithdrawn decimal.Decimal `gorm:"type:decimal(15,2);default:0" json:"total_withdrawn"`
	TotalReturns   decimal.Decimal `gorm:"type:decimal(15,2);default:0" json:"total_returns"`
	CreatedAt      time.Time       `gorm:"autoCreateTime" json:"-"`
	UpdatedAt      time.Time       `gorm:"autoUpdateTime" json:"-"`
}

func (Balance) TableName() string { return "balances" }
