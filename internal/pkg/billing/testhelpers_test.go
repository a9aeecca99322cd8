package billing

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/ManuelReschke/PayLedger/app/models"
)

const testKey = "merchant-secret"

var testProducts = StaticCatalog{
	"pro-monthly": {PlanRef: "pro-monthly", DisplayName: "Pro Monthly", Amount: "10.00", IsRecurring: true, Period: PeriodMonthly},
	"pro-yearly":  {PlanRef: "pro-yearly", DisplayName: "Pro Yearly", Amount: "99.00", IsRecurring: true, Period: PeriodYearly},
	"credits-100": {PlanRef: "credits-100", DisplayName: "100 Credits", Amount: "5.00"},
}

func testProviderConfig() ProviderConfig {
	return ProviderConfig{
		PID:        "1001",
		Key:        testKey,
		GatewayURL: "https://pay.example.com/submit.php",
		NotifyURL:  "https://shop.example.com/api/checkout/providers/zpay/webhook",
		ReturnURL:  "https://shop.example.com/payment/success",
	}
}

// newTestDB opens an isolated in-memory SQLite database. A single
// connection keeps concurrent callers on the same database.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:" + uuid.New().String() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&models.PaymentTransaction{},
		&models.BillingProduct{},
		&models.PaymentNotification{},
	))
	return db
}

// countingStore counts conditional settles that actually changed a row.
type countingStore struct {
	Store
	applied atomic.Int32
}

func (c *countingStore) SettleIfPending(ctx context.Context, orderRef string, s Settlement) (bool, error) {
	ok, err := c.Store.SettleIfPending(ctx, orderRef, s)
	if ok {
		c.applied.Add(1)
	}
	return ok, err
}

func newTestService(t *testing.T, store Store, now time.Time) *Service {
	t.Helper()

	svc, err := NewService(store, testProducts, testProviderConfig())
	require.NoError(t, err)
	svc.now = func() time.Time { return now }
	svc.ledger.now = func() time.Time { return now }
	return svc
}

// signedNotification builds a provider notification for tx signed with testKey.
func signedNotification(tx *models.PaymentTransaction, money, tradeStatus string) Fields {
	f := Fields{
		FieldPID:         "1001",
		FieldName:        tx.Name,
		FieldMoney:       money,
		FieldOrderRef:    tx.OrderRef,
		FieldProviderRef: "2024" + tx.OrderRef,
		FieldParam:       tx.OwnerID + ":" + tx.PlanRef,
		FieldTradeStatus: tradeStatus,
		FieldType:        PaymentMethodAlipay,
		SignTypeField:    SignTypeMD5,
	}
	f[SignField] = Sign(Canonicalize(f), testKey)
	return f
}

func mustCreatePending(t *testing.T, svc *Service, owner, plan string) *models.PaymentTransaction {
	t.Helper()

	p := testProducts[plan]
	tx, err := svc.ledger.CreatePending(context.Background(), PendingOrder{
		OwnerID:       owner,
		PlanRef:       p.PlanRef,
		Name:          p.DisplayName,
		Amount:        p.Amount,
		PaymentMethod: PaymentMethodAlipay,
		IsRecurring:   p.IsRecurring,
		Period:        p.Period,
	})
	require.NoError(t, err)
	return tx
}
