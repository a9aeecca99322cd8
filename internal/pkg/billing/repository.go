package billing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ManuelReschke/PayLedger/app/models"
	"gorm.io/gorm"
)

// Settlement is the data written by the single pending -> paid transition.
type Settlement struct {
	ProviderRef string
	SettledAt   time.Time
	Window      *Window
}

// Store provides the persistence operations used by the ledger.
type Store interface {
	InsertTransaction(ctx context.Context, tx *models.PaymentTransaction) error
	FindByOrderRef(ctx context.Context, orderRef string) (*models.PaymentTransaction, error)
	// SettleIfPending applies s only while the row is still pending and
	// reports whether this call performed the transition.
	SettleIfPending(ctx context.Context, orderRef string, s Settlement) (bool, error)
	ListPaidWindows(ctx context.Context, ownerID string) ([]PaidWindow, error)
	ListByOwner(ctx context.Context, ownerID string) ([]models.PaymentTransaction, error)
	RecordNotification(ctx context.Context, n *models.PaymentNotification) error
}

type gormStore struct {
	db *gorm.DB
}

// NewStore creates a ledger store backed by GORM. The handle should be
// opened with TranslateError so duplicate keys map to ErrDuplicateOrderRef.
func NewStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (r *gormStore) InsertTransaction(ctx context.Context, tx *models.PaymentTransaction) error {
	if err := r.db.WithContext(ctx).Create(tx).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateOrderRef
		}
		return storeError(err)
	}
	return nil
}

func (r *gormStore) FindByOrderRef(ctx context.Context, orderRef string) (*models.PaymentTransaction, error) {
	var tx models.PaymentTransaction
	err := r.db.WithContext(ctx).Where("order_ref = ?", orderRef).First(&tx).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, storeError(err)
	}
	return &tx, nil
}

func (r *gormStore) SettleIfPending(ctx context.Context, orderRef string, s Settlement) (bool, error) {
	updates := map[string]interface{}{
		"status":       models.PaymentStatusPaid,
		"provider_ref": nullableString(s.ProviderRef),
		"settled_at":   s.SettledAt,
		"window_start": nil,
		"window_end":   nil,
	}
	if s.Window != nil {
		updates["window_start"] = s.Window.Start
		updates["window_end"] = s.Window.End
	}

	// The status predicate makes this a compare-and-swap: concurrent
	// deliveries race on the same row and only one sees RowsAffected == 1.
	res := r.db.WithContext(ctx).
		Model(&models.PaymentTransaction{}).
		Where("order_ref = ? AND status = ?", orderRef, models.PaymentStatusPending).
		Updates(updates)
	if res.Error != nil {
		return false, storeError(res.Error)
	}
	return res.RowsAffected == 1, nil
}

func (r *gormStore) ListPaidWindows(ctx context.Context, ownerID string) ([]PaidWindow, error) {
	var txs []models.PaymentTransaction
	err := r.db.WithContext(ctx).
		Select("window_end", "recurrence_period").
		Where("owner_id = ? AND is_recurring = ? AND status IN ? AND window_end IS NOT NULL",
			ownerID, true, []string{models.PaymentStatusPaid, models.PaymentStatusCompleted}).
		Order("window_end DESC").
		Find(&txs).Error
	if err != nil {
		return nil, storeError(err)
	}

	windows := make([]PaidWindow, 0, len(txs))
	for _, tx := range txs {
		if tx.WindowEnd == nil {
			continue
		}
		windows = append(windows, PaidWindow{End: *tx.WindowEnd, Period: normalizePeriod(tx.RecurrencePeriod)})
	}
	return windows, nil
}

func (r *gormStore) ListByOwner(ctx context.Context, ownerID string) ([]models.PaymentTransaction, error) {
	var txs []models.PaymentTransaction
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&txs).Error
	if err != nil {
		return nil, storeError(err)
	}
	return txs, nil
}

func (r *gormStore) RecordNotification(ctx context.Context, n *models.PaymentNotification) error {
	if err := r.db.WithContext(ctx).Create(n).Error; err != nil {
		return storeError(err)
	}
	return nil
}

func storeError(err error) error {
	return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
