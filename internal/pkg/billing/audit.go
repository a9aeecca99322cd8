package billing

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"

	"github.com/ManuelReschke/PayLedger/app/models"
)

const redactedValue = "[redacted]"

// NewDeliveryID returns an identifier for one inbound notification delivery.
func NewDeliveryID() string {
	return uuid.New().String()
}

// RecordNotification appends an audit row for a processed notification.
// The digest is redacted from the stored payload.
func (s *Service) RecordNotification(ctx context.Context, deliveryID string, fields Fields, outcome Outcome) error {
	payload := make(Fields, len(fields))
	for k, v := range fields {
		payload[k] = v
	}
	if _, ok := payload[SignField]; ok {
		payload[SignField] = redactedValue
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	return s.store.RecordNotification(ctx, &models.PaymentNotification{
		DeliveryID:     deliveryID,
		Provider:       models.PaymentProviderZPay,
		OrderRef:       fields.Get(FieldOrderRef),
		TradeStatus:    fields.Get(FieldTradeStatus),
		Outcome:        outcome.String(),
		SignatureValid: Verify(fields, s.cfg.Key, fields[SignField]),
		PayloadJSON:    string(data),
	})
}
