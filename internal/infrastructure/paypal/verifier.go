// Package paypal talks to PayPal's instant payment notification (IPN)
// verification endpoint.
package paypal

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/spendenwerk/fundraising-backend/internal/config"
)

const (
	notifyValidateCommand = "_notify-validate"
	verifiedResponse      = "VERIFIED"

	// cap on how much of the response body we read; the real answer is a
	// single word
	maxResponseBytes = 1024
)

// Verifier confirms an IPN message by echoing it back to PayPal. Per the IPN
// protocol the received parameters are re-POSTed unchanged, plus
// cmd=_notify-validate, and PayPal answers with the literal body VERIFIED or
// FAIL.
type Verifier struct {
	baseURL        string
	accountAddress string
	itemName       string
	httpClient     *http.Client
}

func NewVerifier(cfg config.PayPalConfig) *Verifier {
	return &Verifier{
		baseURL:        cfg.BaseURL,
		accountAddress: cfg.AccountAddress,
		itemName:       cfg.ItemName,
		httpClient: &http.Client{
			Timeout: cfg.VerificationTimeout,
		},
	}
}

// ReceiverMatches checks the declared receiver address without a round trip.
func (v *Verifier) ReceiverMatches(params map[string]string) bool {
	return params["receiver_email"] == v.accountAddress
}

// ItemNameMatches checks the declared item name without a round trip. An
// absent item_name is accepted; single payments do not carry one.
func (v *Verifier) ItemNameMatches(params map[string]string) bool {
	name, ok := params["item_name"]
	return !ok || name == v.itemName
}

// Verify re-POSTs the notification to the verification endpoint. A nil
// return means PayPal answered VERIFIED. One outbound call, no retries;
// timeouts and transport errors fail closed.
func (v *Verifier) Verify(ctx context.Context, params map[string]string) error {
	form := url.Values{}
	for key, value := range params {
		form.Set(key, value)
	}
	form.Set("cmd", notifyValidateCommand)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.baseURL, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("build verification request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := v.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("verification request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("read verification response: %w", err)
	}

	if answer := strings.TrimSpace(string(body)); answer != verifiedResponse {
		return fmt.Errorf("payment provider did not confirm the notification: %q", answer)
	}

	return nil
}
