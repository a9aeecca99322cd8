package models

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var (
	errNonPositiveAmount     = errors.New("amount must be greater than zero")
	errMissingRecurrenceUnit = errors.New("recurring products need a subscription period")
)

// BillingProduct is a purchasable plan. Amount keeps the two-fraction-digit
// text form that is sent to the provider.
type BillingProduct struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	PlanRef          string    `gorm:"type:varchar(100);not null;uniqueIndex:ux_billing_products_plan_ref" json:"plan_ref" validate:"required,max=100"`
	DisplayName      string    `gorm:"type:varchar(200);not null" json:"name" validate:"required,max=200"`
	Amount           string    `gorm:"type:varchar(32);not null" json:"price" validate:"required,max=32"`
	IsRecurring      bool      `gorm:"not null;default:false" json:"is_subscription"`
	RecurrencePeriod string    `gorm:"type:varchar(16);not null;default:''" json:"subscription_period" validate:"omitempty,oneof=monthly yearly"`
	IsActive         bool      `gorm:"default:true;index" json:"is_active"`
	CreatedAt        time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (p *BillingProduct) Validate() error {
	v := validator.New()
	if err := v.Struct(p); err != nil {
		return err
	}
	if p.IsRecurring && p.RecurrencePeriod == "" {
		return errMissingRecurrenceUnit
	}
	amount, err := decimal.NewFromString(p.Amount)
	if err != nil {
		return err
	}
	if !amount.IsPositive() {
		return errNonPositiveAmount
	}
	return nil
}
