package billing

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuelReschke/PayLedger/app/models"
)

func TestSubscriptionOverview(t *testing.T) {
	svc, _ := newReconcileFixture(t)
	ctx := context.Background()

	monthly := mustCreatePending(t, svc, "user-1", "pro-monthly")
	require.Equal(t, OutcomeSuccess, svc.Reconcile(ctx, signedNotification(monthly, "10.00", TradeStatusSuccess)))
	yearly := mustCreatePending(t, svc, "user-1", "pro-yearly")
	require.Equal(t, OutcomeSuccess, svc.Reconcile(ctx, signedNotification(yearly, "99.00", TradeStatusSuccess)))
	mustCreatePending(t, svc, "user-1", "credits-100")
	mustCreatePending(t, svc, "user-2", "pro-monthly")

	overview, err := svc.SubscriptionOverview(ctx, "user-1")
	require.NoError(t, err)
	assert.Len(t, overview.PurchaseHistory, 3)
	require.NotNil(t, overview.Subscription)
	assert.Equal(t, yearly.OrderRef, overview.Subscription.OrderRef)
	assert.True(t, time.Date(2025, 4, 1, 8, 0, 0, 0, time.UTC).Equal(*overview.Subscription.WindowEnd))
}

func TestSubscriptionOverviewExpired(t *testing.T) {
	svc, _ := newReconcileFixture(t)
	ctx := context.Background()

	tx := mustCreatePending(t, svc, "user-1", "pro-monthly")
	require.Equal(t, OutcomeSuccess, svc.Reconcile(ctx, signedNotification(tx, "10.00", TradeStatusSuccess)))

	svc.now = func() time.Time { return reconcileNow.AddDate(0, 2, 0) }
	overview, err := svc.SubscriptionOverview(ctx, "user-1")
	require.NoError(t, err)
	assert.Nil(t, overview.Subscription)
	assert.Len(t, overview.PurchaseHistory, 1)
}

func TestSubscriptionOverviewEmpty(t *testing.T) {
	svc, _ := newReconcileFixture(t)

	overview, err := svc.SubscriptionOverview(context.Background(), "nobody")
	require.NoError(t, err)
	assert.NotNil(t, overview.PurchaseHistory)
	assert.Empty(t, overview.PurchaseHistory)

	_, err = svc.SubscriptionOverview(context.Background(), "")
	assert.Error(t, err)
}

func TestRecordNotification(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService(t, NewStore(db), reconcileNow)
	ctx := context.Background()
	tx := mustCreatePending(t, svc, "user-1", "pro-monthly")

	fields := signedNotification(tx, "10.00", TradeStatusSuccess)
	deliveryID := NewDeliveryID()
	require.NoError(t, svc.RecordNotification(ctx, deliveryID, fields, OutcomeSuccess))

	var row models.PaymentNotification
	require.NoError(t, db.Where("delivery_id = ?", deliveryID).First(&row).Error)
	assert.Equal(t, models.PaymentProviderZPay, row.Provider)
	assert.Equal(t, tx.OrderRef, row.OrderRef)
	assert.Equal(t, TradeStatusSuccess, row.TradeStatus)
	assert.Equal(t, "success", row.Outcome)
	assert.True(t, row.SignatureValid)

	var payload map[string]string
	require.NoError(t, json.Unmarshal([]byte(row.PayloadJSON), &payload))
	assert.Equal(t, redactedValue, payload[SignField])
	assert.Equal(t, "10.00", payload[FieldMoney])
	assert.NotEqual(t, redactedValue, fields[SignField])

	forged := signedNotification(tx, "10.00", TradeStatusSuccess)
	forged[FieldMoney] = "0.01"
	require.NoError(t, svc.RecordNotification(ctx, NewDeliveryID(), forged, OutcomeInvalidSignature))

	var count int64
	require.NoError(t, db.Model(&models.PaymentNotification{}).Where("signature_valid = ?", false).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}
