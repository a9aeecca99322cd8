package models

import "time"

// PaymentNotification stores every inbound provider notification together
// with the outcome it produced. Rows are append-only audit data.
type PaymentNotification struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	DeliveryID     string    `gorm:"type:char(36);not null;uniqueIndex:ux_payment_notifications_delivery" json:"delivery_id"`
	Provider       string    `gorm:"type:varchar(20);not null;index" json:"provider"`
	OrderRef       string    `gorm:"type:varchar(64);not null;default:'';index" json:"out_trade_no"`
	TradeStatus    string    `gorm:"type:varchar(50);not null;default:''" json:"trade_status"`
	Outcome        string    `gorm:"type:varchar(32);not null;index" json:"outcome"`
	SignatureValid bool      `gorm:"default:false" json:"signature_valid"`
	PayloadJSON    string    `gorm:"type:text" json:"payload_json"`
	CreatedAt      time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}
