package config

import (
	"log"
	"strings"
	"sync"
	"time"

	"taxinvoice-backend/billing"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Invoice  InvoiceConfig
	Shop     ShopInfo
}

type ServerConfig struct {
	Port            string
	Env             string
	LogLevel        string
	AllowedOrigins  string
	BodyLimitBytes  int
	RateLimitMax    int
	RateLimitWindow time.Duration
	ShutdownTimeout time.Duration
}

type DatabaseConfig struct {
	Driver       string
	URL          string
	Host         string
	Port         string
	User         string
	Password     string
	Name         string
	SSLMode      string
	TimeZone     string
	MaxOpenConns int
	MaxIdleConns int
	ConnMaxLife  time.Duration
}

type InvoiceConfig struct {
	NumberTemplate string
}

// ShopInfo is the seller identity printed on every tax invoice.
type ShopInfo struct {
	Name    string
	Address string
	Phone   string
	Email   string
	GSTIN   string
}

var (
	mu        sync.RWMutex
	appConfig *Config
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("BODY_LIMIT_BYTES", 0)
	v.SetDefault("BODY_LIMIT_MB", 4)
	v.SetDefault("RATE_LIMIT_MAX", 60)
	v.SetDefault("RATE_LIMIT_WINDOW_SECONDS", 60)
	v.SetDefault("SHUTDOWN_TIMEOUT_SECONDS", 10)

	v.SetDefault("DB_DRIVER", "postgres")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_NAME", "taxinvoice")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_TIMEZONE", "Asia/Kolkata")
	v.SetDefault("DB_MAX_OPEN_CONNS", 25)
	v.SetDefault("DB_MAX_IDLE_CONNS", 10)
	v.SetDefault("DB_CONN_MAX_LIFETIME_MINUTES", 60)

	v.SetDefault("INVOICE_NUMBER_TEMPLATE", billing.DefaultInvoiceNumberTemplate)

	v.SetDefault("SHOP_NAME", "Your Shop Name")
	v.SetDefault("SHOP_ADDRESS", "Shop Address Line 1, City - PIN Code")
	v.SetDefault("SHOP_PHONE", "+91 98765 43210")
	v.SetDefault("SHOP_EMAIL", "shop@example.com")
	v.SetDefault("SHOP_GSTIN", "00AAAAA0000A0Z0")
}

// Load reads .env (if present) and the process environment. Environment
// variables win over .env values.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded, using environment: %v", err)
	}

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	cfg := fromViper(v)
	Set(cfg)
	return cfg
}

// Default returns the configuration built from defaults only.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	return fromViper(v)
}

// Get returns the loaded configuration, falling back to Default when Load
// was never called. Safe for concurrent use.
func Get() *Config {
	mu.RLock()
	cfg := appConfig
	mu.RUnlock()
	if cfg != nil {
		return cfg
	}

	mu.Lock()
	defer mu.Unlock()
	if appConfig == nil {
		appConfig = Default()
	}
	return appConfig
}

// Set installs cfg as the process configuration. A nil cfg makes the next
// Get fall back to Default.
func Set(cfg *Config) {
	mu.Lock()
	appConfig = cfg
	mu.Unlock()
}

func fromViper(v *viper.Viper) *Config {
	bodyLimit := v.GetInt("BODY_LIMIT_BYTES")
	if bodyLimit <= 0 {
		bodyLimit = v.GetInt("BODY_LIMIT_MB") * 1024 * 1024
	}

	origins := strings.TrimSpace(v.GetString("ALLOWED_ORIGINS"))
	if origins == "" {
		origins = strings.TrimSpace(v.GetString("CLIENT_URL"))
	}
	if origins == "" {
		origins = "*"
	}

	return &Config{
		Server: ServerConfig{
			Port:            v.GetString("PORT"),
			Env:             strings.ToLower(v.GetString("APP_ENV")),
			LogLevel:        v.GetString("LOG_LEVEL"),
			AllowedOrigins:  origins,
			BodyLimitBytes:  bodyLimit,
			RateLimitMax:    v.GetInt("RATE_LIMIT_MAX"),
			RateLimitWindow: time.Duration(v.GetInt("RATE_LIMIT_WINDOW_SECONDS")) * time.Second,
			ShutdownTimeout: time.Duration(v.GetInt("SHUTDOWN_TIMEOUT_SECONDS")) * time.Second,
		},
		Database: DatabaseConfig{
			Driver:       strings.ToLower(v.GetString("DB_DRIVER")),
			URL:          v.GetString("DATABASE_URL"),
			Host:         v.GetString("DB_HOST"),
			Port:         v.GetString("DB_PORT"),
			User:         v.GetString("DB_USER"),
			Password:     v.GetString("DB_PASSWORD"),
			Name:         v.GetString("DB_NAME"),
			SSLMode:      v.GetString("DB_SSLMODE"),
			TimeZone:     v.GetString("DB_TIMEZONE"),
			MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLife:  time.Duration(v.GetInt("DB_CONN_MAX_LIFETIME_MINUTES")) * time.Minute,
		},
		Invoice: InvoiceConfig{
			NumberTemplate: v.GetString("INVOICE_NUMBER_TEMPLATE"),
		},
		Shop: ShopInfo{
			Name:    v.GetString("SHOP_NAME"),
			Address: v.GetString("SHOP_ADDRESS"),
			Phone:   v.GetString("SHOP_PHONE"),
			Email:   v.GetString("SHOP_EMAIL"),
			GSTIN:   v.GetString("SHOP_GSTIN"),
		},
	}
}

func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}
