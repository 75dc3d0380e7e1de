package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfig(t *testing.T) {
	t.Setenv("DB_HOST", "localhost")
	t.Setenv("DB_USER", "tajer")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("DB_NAME", "tajer")
	t.Setenv("DB_PORT", "5432")
	t.Setenv("APP_PORT", "8080")
	t.Setenv("APP_ENV", "test")
	t.Setenv("PAYMENT_SECRET_KEY", "sk_test")
	t.Setenv("PAYMENT_WEBHOOK_KEY", "whk_test")
	t.Setenv("PAYMENT_BASE_URL", "https://sandbox.paylane.dev")
	t.Setenv("TAX_PRICE", "14.5")
	t.Setenv("SHIPPING_PRICE", "0")
	t.Setenv("CURRENCY", "")

	cfg := LoadConfig()

	assert.Equal(t, "localhost", cfg.DBHost)
	assert.Equal(t, "sk_test", cfg.ProviderSecretKey)
	assert.Equal(t, "whk_test", cfg.ProviderWebhookKey)
	assert.Equal(t, "https://sandbox.paylane.dev", cfg.ProviderBaseURL)
	assert.Equal(t, 14.5, cfg.TaxPrice)
	assert.Equal(t, 0.0, cfg.ShippingPrice)
	// Currency falls back to the default when unset.
	assert.Equal(t, "egp", cfg.Currency)
}
