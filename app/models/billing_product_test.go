package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBillingProductValidate(t *testing.T) {
	valid := BillingProduct{PlanRef: "pro", DisplayName: "Pro", Amount: "10.00", IsRecurring: true, RecurrencePeriod: "monthly"}
	assert.NoError(t, valid.Validate())

	noPeriod := valid
	noPeriod.RecurrencePeriod = ""
	assert.Error(t, noPeriod.Validate())

	badPeriod := valid
	badPeriod.RecurrencePeriod = "weekly"
	assert.Error(t, badPeriod.Validate())

	free := valid
	free.Amount = "0"
	assert.Error(t, free.Validate())
}
