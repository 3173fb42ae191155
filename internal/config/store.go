package config

import (
	"fmt"
	"strconv"
	"time"
)

// StoreConfig holds the storefront under test and the fixed test inputs
type StoreConfig struct {
	URL         string
	Email       string
	Password    string
	ProductName string
	Quantity    string
	Country     string
	State       string
	Postcode    string
	LoginData   string
	// SettleDelay overrides the fixed pauses after a search. Zero keeps the
	// per-flow defaults.
	SettleDelay time.Duration
	// RecordLoginResults writes PASS/FAIL next to each login data row
	RecordLoginResults bool
}

// LoadStoreConfig loads storefront configuration from environment variables
func LoadStoreConfig(getenv func(string) string) (*StoreConfig, error) {
	config := &StoreConfig{
		URL:         getenv("STORE_URL"),
		Email:       getenv("STORE_EMAIL"),
		Password:    getenv("STORE_PASSWORD"),
		ProductName: getenv("PRODUCT_NAME"),
		Quantity:    getenv("QUANTITY"),
		Country:     getenv("COUNTRY"),
		State:       getenv("STATE"),
		Postcode:    getenv("POSTCODE"),
		LoginData:   getenv("LOGIN_DATA"),
	}

	if config.URL == "" {
		return nil, fmt.Errorf("STORE_URL is required")
	}
	if config.ProductName == "" {
		config.ProductName = "iPhone"
	}
	if config.Quantity == "" {
		config.Quantity = "2"
	}
	if config.Country == "" {
		config.Country = "India"
	}
	if config.State == "" {
		config.State = "Odisha"
	}
	if config.LoginData == "" {
		config.LoginData = "testData/Opencart_Login_Information.xlsx"
	}

	delay, err := durationOrDefault(getenv, "SETTLE_DELAY", 0)
	if err != nil {
		return nil, err
	}
	config.SettleDelay = delay

	if v := getenv("RECORD_LOGIN_RESULTS"); v != "" {
		record, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("RECORD_LOGIN_RESULTS must be a boolean: %w", err)
		}
		config.RecordLoginResults = record
	}

	return config, nil
}
