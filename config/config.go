package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/sportsequipment/shopclient/lib/myerrors"
)

const defaultTimeout = 10 * time.Second

// Config carries everything needed to wire up a client against a shop
// backend. All values come from the environment, optionally seeded from a
// .env file in the working directory.
type Config struct {
	// BaseURL overrides the derived API address when set.
	BaseURL string
	// Environment selects the deployment mode: "development" or "production".
	Environment string
	// ProductionHost is the public hostname used in production mode.
	ProductionHost string
	// StateDir keeps session state across invocations. Empty means in-memory only.
	StateDir string
	// Timeout bounds every HTTP call.
	Timeout time.Duration
}

func Load() (Config, error) {
	// Best effort: running without a .env file is perfectly fine.
	_ = godotenv.Load()

	cfg := Config{
		BaseURL:        os.Getenv("SHOP_API_BASE_URL"),
		Environment:    getenvDefault("SHOP_ENV", "development"),
		ProductionHost: os.Getenv("SHOP_PRODUCTION_HOST"),
		StateDir:       os.Getenv("SHOPCLIENT_STATE_DIR"),
		Timeout:        defaultTimeout,
	}

	timeout := os.Getenv("SHOP_HTTP_TIMEOUT")
	if timeout != "" {
		parsed, err := time.ParseDuration(timeout)
		if err != nil {
			return Config{}, myerrors.NewInvalidInputError(fmt.Errorf("error parsing SHOP_HTTP_TIMEOUT %q: %s", timeout, err))
		}
		cfg.Timeout = parsed
	}

	return cfg, nil
}

func getenvDefault(name string, fallback string) string {
	value := os.Getenv(name)
	if value == "" {
		return fallback
	}

	return value
}
