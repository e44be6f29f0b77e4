package audit

import "time"

// Actions recorded on the audit trail.
const (
	ActionDepositInitiated    = "deposit.initiated"
	ActionDepositActivated    = "deposit.activated"
	ActionPaymentFailed       = "payment.failed"
	ActionPaymentOrphaned     = "payment.orphaned"
	ActionAmountMismatch      = "payment.amount_mismatch"
	ActionIntentExpired       = "intent.expired"
	ActionAccrualRun          = "accrual.run"
	ActionInvestmentMatured   = "investment.matured"
	ActionWithdrawalRequested = "withdrawal.requested"
	ActionWithdrawalApproved  = "withdrawal.approved"
	ActionWithdrawalProcessing = "withdrawal.processing"
	ActionWithdrawalCompleted = "withdrawal.completed"
	ActionWithdrawalCancelled = "withdrawal.cancelled"
	ActionWithdrawalFailed    = "withdrawal.failed"
)

// Entry is append-only; retention policy is the only thing that deletes one.
type Entry struct {
	ID         uint64    `gorm:"primaryKey;column:id" json:"-"`
	ActorID    *string   `gorm:"size:32" json:"actor_id,omitempty"`
	Action     string    `gorm:"size:64;index:idx_audit_action" json:"action"`
	EntityType string    `gorm:"size:32" json:"entity_type"`
	EntityID   string    `gorm:"size:64;index:idx_audit_entity" json:"entity_id"`
	OldValue   string    `gorm:"type:text" json:"old_value,omitempty"`
	NewValue   string    `gorm:"type:text" json:"new_value,omitempty"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Entry) TableName() string { return "audit_log" }
