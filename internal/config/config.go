package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string
	AppPort    string
	AppEnv     string

	// JWTSecret verifies access tokens issued by the identity service.
	JWTSecret string

	// Payment provider (hosted checkout + signed webhooks).
	ProviderSecretKey  string
	ProviderWebhookKey string
	ProviderBaseURL    string
	CheckoutSuccessURL string
	CheckoutCancelURL  string

	// Checkout pricing inputs. Configurable, not constants.
	Currency      string
	TaxPrice      float64
	ShippingPrice float64
}

func LoadConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		DBHost:             os.Getenv("DB_HOST"),
		DBUser:             os.Getenv("DB_USER"),
		DBPassword:         os.Getenv("DB_PASSWORD"),
		DBName:             os.Getenv("DB_NAME"),
		DBPort:             os.Getenv("DB_PORT"),
		AppPort:            os.Getenv("APP_PORT"),
		AppEnv:             os.Getenv("APP_ENV"),
		JWTSecret:          os.Getenv("SECRET_KEY"),
		ProviderSecretKey:  os.Getenv("PAYMENT_SECRET_KEY"),
		ProviderWebhookKey: os.Getenv("PAYMENT_WEBHOOK_KEY"),
		ProviderBaseURL:    os.Getenv("PAYMENT_BASE_URL"),
		CheckoutSuccessURL: os.Getenv("CHECKOUT_SUCCESS_URL"),
		CheckoutCancelURL:  os.Getenv("CHECKOUT_CANCEL_URL"),
		Currency:           os.Getenv("CURRENCY"),
		TaxPrice:           envFloat("TAX_PRICE"),
		ShippingPrice:      envFloat("SHIPPING_PRICE"),
	}

	if cfg.Currency == "" {
		cfg.Currency = "egp"
	}

	if cfg.DBHost == "" {
		log.Fatal("Environment variables not loaded properly")
	}

	return cfg
}

func envFloat(key string) float64 {
	v := os.Getenv(key)
	if v == "" {
		return 0
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		log.Fatalf("invalid %s: %v", key, err)
	}
	return f
}
