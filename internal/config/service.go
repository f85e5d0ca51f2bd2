package config

import (
	"errors"
	"os"
	"strings"
	"time"
)

// ServiceConfig holds the environment-sourced settings for the HTTP API
// and run store: listen address, database DSN, JWT signing, and the
// directory backtests read candle data from.
type ServiceConfig struct {
	HTTPAddr        string
	DBDSN           string
	JWTIssuer       string
	JWTSecret       string
	JWTTTL          time.Duration
	WebSocketOrigin string
	Mode            string // "development" or "production"
	CandleDataDir   string
}

// LoadServiceConfig reads ServiceConfig from the environment, accumulating
// every missing required variable into one combined error rather than
// failing on the first.
func LoadServiceConfig() (ServiceConfig, error) {
	var c ServiceConfig
	var missing []string

	c.HTTPAddr = os.Getenv("HTTP_ADDR")
	if c.HTTPAddr == "" {
		missing = append(missing, "HTTP_ADDR")
	}
	c.DBDSN = os.Getenv("DB_DSN")
	if c.DBDSN == "" {
		missing = append(missing, "DB_DSN")
	}
	c.JWTIssuer = os.Getenv("JWT_ISSUER")
	if c.JWTIssuer == "" {
		missing = append(missing, "JWT_ISSUER")
	}
	c.JWTSecret = os.Getenv("JWT_SECRET")
	if c.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}

	jwtTTL := os.Getenv("JWT_TTL")
	if jwtTTL == "" {
		missing = append(missing, "JWT_TTL")
	} else {
		d, err := time.ParseDuration(jwtTTL)
		if err != nil {
			return c, err
		}
		c.JWTTTL = d
	}

	c.WebSocketOrigin = os.Getenv("WS_ORIGIN")
	if c.WebSocketOrigin == "" {
		missing = append(missing, "WS_ORIGIN")
	}

	c.Mode = strings.ToLower(strings.TrimSpace(os.Getenv("RUN_MODE")))
	if c.Mode == "" {
		c.Mode = "development"
	}
	if c.Mode != "development" && c.Mode != "production" {
		return c, errors.New("invalid RUN_MODE: use development or production")
	}

	c.CandleDataDir = os.Getenv("CANDLE_DATA_DIR")
	if c.CandleDataDir == "" {
		missing = append(missing, "CANDLE_DATA_DIR")
	}

	if len(missing) > 0 {
		return c, errors.New("missing required env: " + strings.Join(missing, ","))
	}
	return c, nil
}
