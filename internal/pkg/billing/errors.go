package billing

import "errors"

var (
	// ErrNotFound is returned when no transaction exists for an order reference.
	ErrNotFound = errors.New("payment transaction not found")
	// ErrStoreUnavailable wraps any persistence failure. Callers may retry.
	ErrStoreUnavailable = errors.New("payment store unavailable")
	// ErrDuplicateOrderRef is returned when a generated order reference is already taken.
	ErrDuplicateOrderRef = errors.New("order reference already exists")
	// ErrProductNotFound is returned by catalogs for unknown or inactive plans.
	ErrProductNotFound = errors.New("product not found")
	// ErrInvalidPaymentMethod is returned for payment methods the provider does not offer.
	ErrInvalidPaymentMethod = errors.New("unsupported payment method")
	// ErrProviderNotConfigured is returned when provider credentials or URLs are missing.
	ErrProviderNotConfigured = errors.New("payment provider is not configured")
)
