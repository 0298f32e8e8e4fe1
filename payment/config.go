package payment

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config carries the Telr merchant credentials and endpoints. Sandbox mode
// keeps the live endpoint but flags every payment session as a test one.
type Config struct {
	StoreID       int
	AuthKey       string
	APIURL        string
	WebhookSecret string
	Currency      string
	TestMode      int
	Sandbox       bool

	SuccessURL string
	FailureURL string
	CancelURL  string
}

// ConfigFromEnv picks the production endpoint, test mode if needed.
func ConfigFromEnv() (*Config, error) {
	storeID, _ := strconv.Atoi(os.Getenv("TELR_STORE_ID_PROD"))
	cfg := &Config{
		StoreID:       storeID,
		AuthKey:       os.Getenv("TELR_AUTH_KEY_PROD"),
		APIURL:        os.Getenv("TELR_API_URL_PROD"),
		WebhookSecret: os.Getenv("TELR_WEBHOOK_SECRET"),
		Currency:      os.Getenv("TELR_CURRENCY"),
		SuccessURL:    os.Getenv("TELR_SUCCESS_URL"),
		FailureURL:    os.Getenv("TELR_FAILURE_URL"),
		CancelURL:     os.Getenv("TELR_CANCEL_URL"),
	}

	mode := strings.ToLower(os.Getenv("TELR_MODE"))
	if mode == "sandbox" || mode == "dev" {
		cfg.TestMode = 1 // use test mode even on live endpoint
		cfg.Sandbox = true
	}

	if cfg.Currency == "" {
		cfg.Currency = "IQD"
	}
	if cfg.StoreID == 0 || cfg.AuthKey == "" || cfg.APIURL == "" {
		return nil, fmt.Errorf("telr configuration missing")
	}
	if cfg.WebhookSecret == "" && !cfg.Sandbox {
		return nil, fmt.Errorf("telr webhook secret missing")
	}
	return cfg, nil
}
