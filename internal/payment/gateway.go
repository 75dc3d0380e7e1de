package payment

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"tajer-be/internal/logger"

	"go.uber.org/zap"
)

// Gateway is the external payment collaborator: it hosts the checkout
// flow and signs the completion webhooks.
type Gateway interface {
	CreateCheckoutSession(ctx context.Context, params SessionParams) (*CheckoutSession, error)
	VerifySignature(signature string, body []byte) error
}

const defaultBaseURL = "https://api.paylane.dev"

type hostedGateway struct {
	apiKey     string
	webhookKey string
	baseURL    string
	successURL string
	cancelURL  string
	httpClient *http.Client
}

// NewHostedGateway wires the provider endpoints. An empty baseURL falls
// back to the production API host.
func NewHostedGateway(apiKey, webhookKey, baseURL, successURL, cancelURL string) Gateway {
	if apiKey == "" {
		logger.L().Warn("payment provider API key is empty")
	}
	if webhookKey == "" {
		logger.L().Warn("payment webhook signing key is empty; all webhooks will be rejected")
	}

	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	return &hostedGateway{
		apiKey:     apiKey,
		webhookKey: webhookKey,
		baseURL:    baseURL,
		successURL: successURL,
		cancelURL:  cancelURL,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

func (g *hostedGateway) CreateCheckoutSession(ctx context.Context, params SessionParams) (*CheckoutSession, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("cart_id", params.CartID),
		zap.String("user_id", params.UserID),
		zap.Float64("amount", params.Amount),
	)

	body := map[string]interface{}{
		"mode":                "payment",
		"amount_total":        params.Amount,
		"currency":            params.Currency,
		"client_reference_id": params.CartID,
		"success_url":         g.successURL,
		"cancel_url":          g.cancelURL,
		"line_items":          params.LineItems,
		"metadata": map[string]string{
			MetaUserID:          params.UserID,
			MetaShippingAddress: params.ShippingAddress,
		},
	}

	jsonBody, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", g.baseURL+"/v1/checkout/sessions", bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, err
	}

	req.SetBasicAuth(g.apiKey, "")
	req.Header.Add("Content-Type", "application/json")

	log.Info("creating checkout session")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		// Timeout or transport failure: the session may or may not exist
		// on the provider side. Surface a retryable error.
		log.Error("checkout session request failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrProviderUnreachable, err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read provider response: %w", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		log.Error("provider returned non-success status",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("response", bodyBytes),
		)
		return nil, fmt.Errorf("provider error: %s", string(bodyBytes))
	}

	var session CheckoutSession
	if err := json.Unmarshal(bodyBytes, &session); err != nil {
		return nil, err
	}

	log.Info("checkout session created",
		zap.String("session_id", session.ID),
	)

	return &session, nil
}

// VerifySignature checks the hex HMAC-SHA256 of the raw body against the
// shared webhook key. Any mismatch, malformed header, or missing key
// fails closed.
func (g *hostedGateway) VerifySignature(signature string, body []byte) error {
	if g.webhookKey == "" || signature == "" {
		return ErrInvalidSignature
	}

	provided, err := hex.DecodeString(signature)
	if err != nil {
		return ErrInvalidSignature
	}

	mac := hmac.New(sha256.New, []byte(g.webhookKey))
	mac.Write(body)

	if !hmac.Equal(provided, mac.Sum(nil)) {
		return ErrInvalidSignature
	}
	return nil
}
