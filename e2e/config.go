package e2e

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	// GEMINI_API_KEY enables the live vendor scenario; without it the suite
	// runs against the local fake only.
	GeminiAPIKey string `envconfig:"GEMINI_API_KEY"`
	// E2E_VENDOR_TIMEOUT bounds every live vendor call.
	VendorTimeout time.Duration `envconfig:"E2E_VENDOR_TIMEOUT" default:"30s"`
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	return cfg, err
}
