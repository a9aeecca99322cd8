package billing

import (
	"context"
	"errors"
	"strings"

	"github.com/ManuelReschke/PayLedger/app/models"
)

// Overview is an owner's purchase history plus the currently active
// subscription, if any.
type Overview struct {
	Subscription    *models.PaymentTransaction  `json:"subscription"`
	PurchaseHistory []models.PaymentTransaction `json:"purchaseHistory"`
}

// SubscriptionOverview lists the owner's transactions, newest first, and
// picks the settled recurring transaction whose window ends last and has
// not expired yet.
func (s *Service) SubscriptionOverview(ctx context.Context, ownerID string) (*Overview, error) {
	owner := strings.TrimSpace(ownerID)
	if owner == "" {
		return nil, errors.New("owner is required")
	}

	history, err := s.store.ListByOwner(ctx, owner)
	if err != nil {
		return nil, err
	}

	now := s.now()
	out := &Overview{PurchaseHistory: history}
	for i := range history {
		tx := &history[i]
		if !tx.IsRecurring || !tx.IsSettled() || tx.WindowEnd == nil || !tx.WindowEnd.After(now) {
			continue
		}
		if out.Subscription == nil || tx.WindowEnd.After(*out.Subscription.WindowEnd) {
			out.Subscription = tx
		}
	}
	if out.PurchaseHistory == nil {
		out.PurchaseHistory = []models.PaymentTransaction{}
	}
	return out, nil
}
