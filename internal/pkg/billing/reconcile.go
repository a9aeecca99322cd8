package billing

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2/log"
	"github.com/shopspring/decimal"
)

// HandleNotification normalizes a raw provider notification and reconciles it.
func (s *Service) HandleNotification(ctx context.Context, contentType string, body []byte) Outcome {
	return s.Reconcile(ctx, NormalizeNotification(contentType, body))
}

// Reconcile runs the settlement checks for one notification. Every check
// before the final conditional settle is read-only, so the same
// notification can be delivered any number of times, concurrently or not.
func (s *Service) Reconcile(ctx context.Context, fields Fields) Outcome {
	orderRef := fields.Get(FieldOrderRef)
	if orderRef == "" {
		log.Warnw("payment notification rejected", "outcome", OutcomeBadRequest.String(), "reason", "missing order reference")
		return OutcomeBadRequest
	}
	logRef := maskRef(orderRef)

	tx, err := s.ledger.Find(ctx, orderRef)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			log.Warnw("payment notification rejected", "order_ref", logRef, "outcome", OutcomeNotFound.String())
			return OutcomeNotFound
		}
		log.Errorw("payment notification lookup failed", "order_ref", logRef, "error", err)
		return OutcomeStoreError
	}

	if tx.IsSettled() {
		log.Infow("payment notification replayed", "order_ref", logRef, "outcome", OutcomeSuccess.String())
		return OutcomeSuccess
	}

	if !Verify(fields, s.cfg.Key, fields[SignField]) {
		log.Warnw("payment notification rejected", "order_ref", logRef, "outcome", OutcomeInvalidSignature.String())
		return OutcomeInvalidSignature
	}

	if !amountsEqual(fields.Get(FieldMoney), tx.Amount) {
		log.Warnw("payment notification rejected", "order_ref", logRef, "outcome", OutcomeAmountMismatch.String())
		return OutcomeAmountMismatch
	}

	if status := fields.Get(FieldTradeStatus); status != TradeStatusSuccess {
		log.Infow("payment notification ignored", "order_ref", logRef, "trade_status", status)
		return OutcomeIgnored
	}

	var window *Window
	if tx.IsRecurring {
		existing, err := s.ledger.PaidWindows(ctx, tx.OwnerID)
		if err != nil {
			log.Errorw("subscription window lookup failed", "order_ref", logRef, "error", err)
			return OutcomeStoreError
		}
		w := ExtendWindow(existing, Period(tx.RecurrencePeriod), s.now())
		window = &w
	}

	settled, err := s.ledger.Settle(ctx, orderRef, fields.Get(FieldProviderRef), window)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			log.Warnw("payment notification rejected", "order_ref", logRef, "outcome", OutcomeNotFound.String())
			return OutcomeNotFound
		}
		log.Errorw("payment settlement failed", "order_ref", logRef, "error", err)
		return OutcomeStoreError
	}
	if settled == SettleAlreadySettled {
		log.Infow("payment notification lost settle race", "order_ref", logRef, "outcome", OutcomeSuccess.String())
		return OutcomeSuccess
	}

	if window != nil {
		log.Infow("payment settled", "order_ref", logRef, "window_start", window.Start, "window_end", window.End)
	} else {
		log.Infow("payment settled", "order_ref", logRef)
	}
	return OutcomeSuccess
}

// amountsEqual compares decimal amounts numerically so "10.0" equals "10.00".
func amountsEqual(notified, stored string) bool {
	if notified == "" || stored == "" {
		return false
	}
	a, err := decimal.NewFromString(notified)
	if err != nil {
		return false
	}
	b, err := decimal.NewFromString(stored)
	if err != nil {
		return false
	}
	return a.Equal(b)
}

// maskRef keeps the last six characters of a reference for log correlation.
func maskRef(ref string) string {
	const keep = 6
	if len(ref) <= keep {
		return "***"
	}
	return "***" + ref[len(ref)-keep:]
}
