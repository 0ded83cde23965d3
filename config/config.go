package config

import (
	"errors"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	DatabaseURL       string `mapstructure:"DATABASE_URL"`
	DatabaseName      string `mapstructure:"DATABASE_NAME"`
	Env               string `mapstructure:"ENV"`
	JWTSecret         string `mapstructure:"JWT_SECRET"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`
	// Comma-separated proxy IPs/CIDRs whose X-Forwarded-For is believed.
	TrustedProxies []string `mapstructure:"TRUSTED_PROXIES"`

	// Storage backend: "memory", "mongo", "postgres" or "supabase".
	StoreBackend string        `mapstructure:"STORE_BACKEND"`
	StoreDelay   time.Duration `mapstructure:"STORE_DELAY"`
	PostgresDSN  string        `mapstructure:"POSTGRES_DSN"`

	// Supabase configuration.
	SupabaseURL        string `mapstructure:"SUPABASE_URL"`
	SupabaseServiceKey string `mapstructure:"SUPABASE_SERVICE_ROLE_KEY"`

	// Redis configuration.
	RedisAddr            string `mapstructure:"REDIS_ADDR"`
	RedisPassword        string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB         int    `mapstructure:"REDIS_CACHE_DB"`
	RedisCheckoutDB      int    `mapstructure:"REDIS_CHECKOUT_DB"`
	RedisReminderQueueDB int    `mapstructure:"REDIS_REMINDER_QUEUE_DB"`

	// Payments.
	PaymentGateway        string        `mapstructure:"PAYMENT_GATEWAY"`
	PaymentDelay          time.Duration `mapstructure:"PAYMENT_DELAY"`
	PaymentSuccessRate    float64       `mapstructure:"PAYMENT_SUCCESS_RATE"`
	PaymentCurrency       string        `mapstructure:"PAYMENT_CURRENCY"`
	StripeKey             string        `mapstructure:"STRIPE_SECRET_KEY"`
	StripePaymentMethod   string        `mapstructure:"STRIPE_PAYMENT_METHOD"`
	CardFingerprintSecret string        `mapstructure:"CARD_FINGERPRINT_SECRET"`

	// Reviews, checkout and reminders.
	ReviewStatsTTL   time.Duration `mapstructure:"REVIEW_STATS_TTL"`
	CheckoutTTL      time.Duration `mapstructure:"CHECKOUT_TTL"`
	ReminderLeadTime time.Duration `mapstructure:"REMINDER_LEAD_TIME"`
	RemindersEnabled bool          `mapstructure:"REMINDERS_ENABLED"`
}

var AppConfig Config

func LoadConfig() {
	// A local .env file is optional; real environment variables win.
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	// Set default values.
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("JWT_SECRET", "")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 200)
	viper.SetDefault("TRUSTED_PROXIES", "")
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("DATABASE_NAME", "ecofix")
	viper.SetDefault("STORE_BACKEND", "memory")
	viper.SetDefault("STORE_DELAY", "0s")
	viper.SetDefault("POSTGRES_DSN", "")
	viper.SetDefault("SUPABASE_URL", "")
	viper.SetDefault("SUPABASE_SERVICE_ROLE_KEY", "")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_CACHE_DB", 0)
	viper.SetDefault("REDIS_CHECKOUT_DB", 1)
	viper.SetDefault("REDIS_REMINDER_QUEUE_DB", 2)
	viper.SetDefault("PAYMENT_GATEWAY", "simulated")
	viper.SetDefault("PAYMENT_DELAY", "1500ms")
	viper.SetDefault("PAYMENT_SUCCESS_RATE", 0.9)
	viper.SetDefault("PAYMENT_CURRENCY", "usd")
	viper.SetDefault("STRIPE_SECRET_KEY", "")
	viper.SetDefault("STRIPE_PAYMENT_METHOD", "pm_card_visa")
	viper.SetDefault("CARD_FINGERPRINT_SECRET", "")
	viper.SetDefault("REVIEW_STATS_TTL", "5m")
	viper.SetDefault("CHECKOUT_TTL", "10m")
	viper.SetDefault("REMINDER_LEAD_TIME", "24h")
	viper.SetDefault("REMINDERS_ENABLED", false)

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := AppConfig.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}
}

// Validate rejects settings that are only tolerable outside production.
func (c Config) Validate() error {
	if c.Env != "production" {
		return nil
	}
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET must be set in production")
	}
	if c.PaymentGateway == "stripe" && c.StripeKey == "" {
		return errors.New("STRIPE_SECRET_KEY must be set when PAYMENT_GATEWAY=stripe")
	}
	return nil
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}

// UsesRedis reports whether checkout sessions and stats caching go through Redis.
func UsesRedis() bool {
	return AppConfig.StoreBackend != "memory"
}
