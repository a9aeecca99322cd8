package billing

import "net/http"

// Outcome is the result of reconciling one provider notification.
type Outcome int

const (
	OutcomeSuccess Outcome = iota
	OutcomeIgnored
	OutcomeBadRequest
	OutcomeNotFound
	OutcomeInvalidSignature
	OutcomeAmountMismatch
	OutcomeStoreError
)

// AckSuccess is the literal body the provider expects to stop redelivery.
const AckSuccess = "success"

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeIgnored:
		return "ignored"
	case OutcomeBadRequest:
		return "bad_request"
	case OutcomeNotFound:
		return "not_found"
	case OutcomeInvalidSignature:
		return "invalid_signature"
	case OutcomeAmountMismatch:
		return "amount_mismatch"
	default:
		return "store_error"
	}
}

// Ack returns the fixed acknowledgement body for the provider.
func (o Outcome) Ack() string {
	switch o {
	case OutcomeSuccess, OutcomeIgnored:
		return AckSuccess
	case OutcomeBadRequest:
		return "bad_request"
	case OutcomeNotFound:
		return "not_found"
	case OutcomeInvalidSignature:
		return "invalid_sign"
	case OutcomeAmountMismatch:
		return "amount_mismatch"
	default:
		return "error"
	}
}

// HTTPStatus returns the status code sent with Ack.
func (o Outcome) HTTPStatus() int {
	switch o {
	case OutcomeSuccess, OutcomeIgnored:
		return http.StatusOK
	case OutcomeNotFound:
		return http.StatusNotFound
	case OutcomeBadRequest, OutcomeInvalidSignature, OutcomeAmountMismatch:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Acknowledged reports whether the provider will treat the delivery as done.
func (o Outcome) Acknowledged() bool {
	return o == OutcomeSuccess || o == OutcomeIgnored
}
