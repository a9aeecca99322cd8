package billing

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/ManuelReschke/PayLedger/internal/pkg/env"
)

const (
	defaultZPayGatewayURL = "https://zpayz.cn/submit.php"

	notifyPath = "/api/checkout/providers/zpay/webhook"
	returnPath = "/payment/success"
)

const (
	PaymentMethodAlipay = "alipay"
	PaymentMethodWxpay  = "wxpay"
)

// ProviderConfig holds the merchant credentials and callback URLs of the
// payment provider.
type ProviderConfig struct {
	PID        string
	Key        string
	GatewayURL string
	NotifyURL  string
	ReturnURL  string
}

// NewProviderConfigFromEnv reads ZPAY_* settings. Callback URLs default to
// PUBLIC_DOMAIN based paths.
func NewProviderConfigFromEnv() ProviderConfig {
	base := strings.TrimRight(env.GetEnv("PUBLIC_DOMAIN", ""), "/")
	notifyURL := strings.TrimSpace(env.GetEnv("ZPAY_NOTIFY_URL", ""))
	if notifyURL == "" && base != "" {
		notifyURL = base + notifyPath
	}
	returnURL := strings.TrimSpace(env.GetEnv("ZPAY_RETURN_URL", ""))
	if returnURL == "" && base != "" {
		returnURL = base + returnPath
	}

	return ProviderConfig{
		PID:        strings.TrimSpace(env.GetEnv("ZPAY_PID", "")),
		Key:        strings.TrimSpace(env.GetEnv("ZPAY_KEY", "")),
		GatewayURL: strings.TrimSpace(env.GetEnv("ZPAY_GATEWAY_URL", defaultZPayGatewayURL)),
		NotifyURL:  notifyURL,
		ReturnURL:  returnURL,
	}
}

// Validate reports missing settings without revealing their values.
func (c ProviderConfig) Validate() error {
	var missing []string
	if c.PID == "" {
		missing = append(missing, "ZPAY_PID")
	}
	if c.Key == "" {
		missing = append(missing, "ZPAY_KEY")
	}
	if c.NotifyURL == "" {
		missing = append(missing, "ZPAY_NOTIFY_URL")
	}
	if c.ReturnURL == "" {
		missing = append(missing, "ZPAY_RETURN_URL")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrProviderNotConfigured, strings.Join(missing, ", "))
	}
	if _, err := url.ParseRequestURI(c.GatewayURL); err != nil {
		return fmt.Errorf("%w: invalid ZPAY_GATEWAY_URL: %v", ErrProviderNotConfigured, err)
	}
	return nil
}

func normalizePaymentMethod(method string) (string, error) {
	switch m := strings.ToLower(strings.TrimSpace(method)); m {
	case "":
		return PaymentMethodAlipay, nil
	case PaymentMethodAlipay, PaymentMethodWxpay:
		return m, nil
	default:
		return "", ErrInvalidPaymentMethod
	}
}
