package models

import "time"

// Payment provider constants used across billing-related models.
const (
	PaymentProviderZPay = "zpay"
)

const (
	PaymentStatusPending   = "pending"
	PaymentStatusPaid      = "paid"
	PaymentStatusCompleted = "completed"
)

const (
	RecurrenceMonthly = "monthly"
	RecurrenceYearly  = "yearly"
)

// PaymentTransaction is a locally issued purchase order. OrderRef is the
// idempotency key shared with the payment provider; the row leaves the
// pending state at most once.
type PaymentTransaction struct {
	ID               uint       `gorm:"primaryKey" json:"id"`
	OrderRef         string     `gorm:"type:varchar(64);not null;uniqueIndex:ux_payment_transactions_order_ref" json:"out_trade_no"`
	ProviderRef      *string    `gorm:"type:varchar(191);default:null" json:"trade_no,omitempty"`
	OwnerID          string     `gorm:"type:varchar(191);not null;index:idx_payment_transactions_owner_status,priority:1" json:"user_id"`
	PlanRef          string     `gorm:"type:varchar(100);not null" json:"product_id"`
	Name             string     `gorm:"type:varchar(200);not null;default:''" json:"name"`
	Amount           string     `gorm:"type:varchar(32);not null" json:"money"`
	PaymentMethod    string     `gorm:"type:varchar(20);not null;default:''" json:"type"`
	IsRecurring      bool       `gorm:"not null;default:false" json:"is_subscription"`
	RecurrencePeriod string     `gorm:"type:varchar(16);not null;default:''" json:"subscription_period,omitempty"`
	Status           string     `gorm:"type:varchar(16);not null;default:'pending';index:idx_payment_transactions_owner_status,priority:2" json:"status"`
	SettledAt        *time.Time `gorm:"type:timestamp;default:null" json:"paid_at,omitempty"`
	WindowStart      *time.Time `gorm:"type:timestamp;default:null" json:"subscription_start_at,omitempty"`
	WindowEnd        *time.Time `gorm:"type:timestamp;default:null" json:"subscription_end_at,omitempty"`
	CreatedAt        time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

// IsSettled reports whether the provider already confirmed the payment.
func (t *PaymentTransaction) IsSettled() bool {
	return t.Status == PaymentStatusPaid || t.Status == PaymentStatusCompleted
}
