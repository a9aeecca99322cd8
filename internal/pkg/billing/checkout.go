package billing

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v2/log"
)

// Request-only parameters of the payment page.
const (
	FieldNotifyURL = "notify_url"
	FieldReturnURL = "return_url"
)

// CheckoutOrder is a persisted pending order and the provider URL the
// buyer is redirected to.
type CheckoutOrder struct {
	OrderRef    string `json:"out_trade_no"`
	RedirectURL string `json:"url"`
}

// CreateOrder persists a pending transaction for planRef and returns the
// signed redirect to the provider's payment page.
func (s *Service) CreateOrder(ctx context.Context, ownerID, planRef, paymentMethod string) (*CheckoutOrder, error) {
	method, err := normalizePaymentMethod(paymentMethod)
	if err != nil {
		return nil, err
	}
	product, err := s.catalog.Lookup(ctx, planRef)
	if err != nil {
		return nil, err
	}

	tx, err := s.ledger.CreatePending(ctx, PendingOrder{
		OwnerID:       ownerID,
		PlanRef:       product.PlanRef,
		Name:          product.DisplayName,
		Amount:        product.Amount,
		PaymentMethod: method,
		IsRecurring:   product.IsRecurring,
		Period:        product.Period,
	})
	if err != nil {
		return nil, err
	}

	redirect, err := s.paymentURL(Fields{
		FieldPID:       s.cfg.PID,
		FieldMoney:     tx.Amount,
		FieldName:      tx.Name,
		FieldNotifyURL: s.cfg.NotifyURL,
		FieldOrderRef:  tx.OrderRef,
		FieldReturnURL: s.cfg.ReturnURL,
		FieldType:      method,
		FieldParam:     fmt.Sprintf("%s:%s", strings.TrimSpace(ownerID), product.PlanRef),
		SignTypeField:  SignTypeMD5,
	})
	if err != nil {
		return nil, err
	}

	log.Infow("payment order created", "order_ref", maskRef(tx.OrderRef), "plan", tx.PlanRef, "recurring", tx.IsRecurring)
	return &CheckoutOrder{OrderRef: tx.OrderRef, RedirectURL: redirect}, nil
}

// paymentURL signs params and encodes them, digest included, as the query
// of the provider's gateway URL.
func (s *Service) paymentURL(params Fields) (string, error) {
	u, err := url.Parse(s.cfg.GatewayURL)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrProviderNotConfigured, err)
	}

	q := url.Values{}
	for k, v := range params {
		if v != "" {
			q.Set(k, v)
		}
	}
	q.Set(SignField, Sign(Canonicalize(params), s.cfg.Key))
	q.Set(SignTypeField, SignTypeMD5)
	u.RawQuery = q.Encode()
	return u.String(), nil
}
