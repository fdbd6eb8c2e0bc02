package client

import (
	"time"

	"github.com/spf13/viper"
)

// Config mirrors the browser client's settings: API_BASE_URL, API_TIMEOUT_MS
// and API_RETRY_ATTEMPTS.
type Config struct {
	BaseURL       string
	Timeout       time.Duration
	RetryAttempts uint
}

func LoadConfig() Config {
	v := viper.New()
	v.SetDefault("API_BASE_URL", "http://localhost:8080")
	v.SetDefault("API_TIMEOUT_MS", DefaultTimeout.Milliseconds())
	v.SetDefault("API_RETRY_ATTEMPTS", DefaultMaxAttempts)
	v.AutomaticEnv()

	return Config{
		BaseURL:       v.GetString("API_BASE_URL"),
		Timeout:       time.Duration(v.GetInt64("API_TIMEOUT_MS")) * time.Millisecond,
		RetryAttempts: v.GetUint("API_RETRY_ATTEMPTS"),
	}
}

// NewFromConfig builds a client from cfg; extra options are applied last.
func NewFromConfig(cfg Config, opts ...Option) *Client {
	base := []Option{WithTimeout(cfg.Timeout), WithMaxAttempts(cfg.RetryAttempts)}
	return New(cfg.BaseURL, append(base, opts...)...)
}
