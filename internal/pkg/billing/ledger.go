package billing

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"math/big"
	"strings"
	"time"

	"github.com/ManuelReschke/PayLedger/app/models"
)

const orderRefRandomDigits = 6

// SettleOutcome reports what a settle attempt did.
type SettleOutcome int

const (
	// SettleApplied means this call moved the transaction out of pending.
	SettleApplied SettleOutcome = iota + 1
	// SettleAlreadySettled means another delivery settled it first.
	SettleAlreadySettled
)

// PendingOrder is the input for a new pending transaction.
type PendingOrder struct {
	OwnerID       string
	PlanRef       string
	Name          string
	Amount        string
	PaymentMethod string
	IsRecurring   bool
	Period        Period
}

// Ledger owns transaction records and their single state transition.
type Ledger struct {
	store Store
	now   func() time.Time
	rand  io.Reader
}

// NewLedger creates a ledger on top of store.
func NewLedger(store Store) *Ledger {
	return &Ledger{store: store, now: time.Now, rand: rand.Reader}
}

// CreatePending persists a new pending transaction under a fresh order
// reference. A reference collision is reported as ErrDuplicateOrderRef.
func (l *Ledger) CreatePending(ctx context.Context, in PendingOrder) (*models.PaymentTransaction, error) {
	owner := strings.TrimSpace(in.OwnerID)
	plan := strings.TrimSpace(in.PlanRef)
	if owner == "" || plan == "" || strings.TrimSpace(in.Amount) == "" {
		return nil, errors.New("owner, plan and amount are required")
	}

	orderRef, err := l.newOrderRef()
	if err != nil {
		return nil, err
	}

	tx := &models.PaymentTransaction{
		OrderRef:      orderRef,
		OwnerID:       owner,
		PlanRef:       plan,
		Name:          in.Name,
		Amount:        in.Amount,
		PaymentMethod: in.PaymentMethod,
		IsRecurring:   in.IsRecurring,
		Status:        models.PaymentStatusPending,
	}
	if in.IsRecurring {
		tx.RecurrencePeriod = string(normalizePeriod(string(in.Period)))
	}
	if err := l.store.InsertTransaction(ctx, tx); err != nil {
		return nil, err
	}
	return tx, nil
}

// Find looks up a transaction by its order reference.
func (l *Ledger) Find(ctx context.Context, orderRef string) (*models.PaymentTransaction, error) {
	return l.store.FindByOrderRef(ctx, orderRef)
}

// Settle conditionally moves a pending transaction to paid. Settling an
// already settled transaction is not an error and leaves it untouched.
func (l *Ledger) Settle(ctx context.Context, orderRef, providerRef string, window *Window) (SettleOutcome, error) {
	applied, err := l.store.SettleIfPending(ctx, orderRef, Settlement{
		ProviderRef: providerRef,
		SettledAt:   l.now().UTC(),
		Window:      window,
	})
	if err != nil {
		return 0, err
	}
	if applied {
		return SettleApplied, nil
	}

	// Nothing changed: either the row is gone or it left pending already.
	if _, err := l.store.FindByOrderRef(ctx, orderRef); err != nil {
		return 0, err
	}
	return SettleAlreadySettled, nil
}

// PaidWindows returns the windows of an owner's settled recurring transactions.
func (l *Ledger) PaidWindows(ctx context.Context, ownerID string) ([]PaidWindow, error) {
	return l.store.ListPaidWindows(ctx, ownerID)
}

// newOrderRef builds yyyyMMddHHmmssSSS (UTC) followed by random digits.
func (l *Ledger) newOrderRef() (string, error) {
	now := l.now().UTC()
	limit := big.NewInt(1)
	for i := 0; i < orderRefRandomDigits; i++ {
		limit.Mul(limit, big.NewInt(10))
	}
	n, err := rand.Int(l.rand, limit)
	if err != nil {
		return "", fmt.Errorf("generate order reference: %w", err)
	}
	return fmt.Sprintf("%s%03d%0*d", now.Format("20060102150405"), now.Nanosecond()/int(time.Millisecond), orderRefRandomDigits, n.Int64()), nil
}
