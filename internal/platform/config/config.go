package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// LedgerConfig holds the ledger tunables. Passed into the engines at
// construction time; nothing reads rates from ambient process state.
type LedgerConfig struct {
	// TransferCommissionRate is the fee fraction on direct transfers.
	TransferCommissionRate decimal.Decimal
	// EscrowCommissionRate is the fee fraction on escrow releases. The
	// two rates are independently configured on purpose.
	EscrowCommissionRate decimal.Decimal
	// MinTransferAmount is the smallest accepted transfer.
	MinTransferAmount decimal.Decimal
	// LockTimeout bounds row-lock acquisition; expiry surfaces as a
	// retryable lock-timeout error.
	LockTimeout time.Duration
	// AuditEpsilon is the tolerated transient audit difference.
	AuditEpsilon decimal.Decimal
	// EscrowExpiry is the default age after which held escrows are swept.
	EscrowExpiry time.Duration
}

// Config holds application configuration.
type Config struct {
	DatabaseURL  string
	Port         string
	IsProduction bool

	// Service-to-service JWT verification.
	JWTSecret string
	JWTIssuer string

	// AdminKeyHash is the bcrypt hash of the admin key required by the
	// privileged treasury endpoints.
	AdminKeyHash string

	// Redis (balance-changed event hook). Empty addr disables publishing.
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// ResolverBaseURL is the marketplace endpoint that maps escrow
	// references to payee user IDs.
	ResolverBaseURL string

	// RateLimit is an ulule/limiter formatted rate, e.g. "300-M".
	RateLimit string

	Ledger LedgerConfig
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_ISSUER", "mali-ledger")
	viper.SetDefault("ADMIN_KEY_HASH", "")
	viper.SetDefault("REDIS_ADDR", "")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("RESOLVER_BASE_URL", "")
	viper.SetDefault("RATE_LIMIT", "300-M")
	viper.SetDefault("TRANSFER_COMMISSION_RATE", "0.001")
	viper.SetDefault("ESCROW_COMMISSION_RATE", "0.05")
	viper.SetDefault("MIN_TRANSFER_AMOUNT", "1")
	viper.SetDefault("LOCK_TIMEOUT", "3s")
	viper.SetDefault("AUDIT_EPSILON", "0.00000001")
	viper.SetDefault("ESCROW_EXPIRY", "720h")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "a-very-secret-key-should-be-longer-and-random" {
		log.Println("Warning: JWT_SECRET not set. Using default insecure key.")
	}
	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")

	cfg.AdminKeyHash = viper.GetString("ADMIN_KEY_HASH")
	if cfg.AdminKeyHash == "" {
		log.Println("Warning: ADMIN_KEY_HASH not set. Treasury endpoints will reject all requests.")
	}

	cfg.RedisAddr = viper.GetString("REDIS_ADDR")
	cfg.RedisPassword = viper.GetString("REDIS_PASSWORD")
	cfg.RedisDB = viper.GetInt("REDIS_DB")
	cfg.ResolverBaseURL = viper.GetString("RESOLVER_BASE_URL")
	cfg.RateLimit = viper.GetString("RATE_LIMIT")

	cfg.Ledger = LedgerConfig{
		TransferCommissionRate: decimalFromEnv("TRANSFER_COMMISSION_RATE", "0.001"),
		EscrowCommissionRate:   decimalFromEnv("ESCROW_COMMISSION_RATE", "0.05"),
		MinTransferAmount:      decimalFromEnv("MIN_TRANSFER_AMOUNT", "1"),
		LockTimeout:            durationFromEnv("LOCK_TIMEOUT", 3*time.Second),
		AuditEpsilon:           decimalFromEnv("AUDIT_EPSILON", "0.00000001"),
		EscrowExpiry:           durationFromEnv("ESCROW_EXPIRY", 720*time.Hour),
	}

	return cfg, nil
}

// decimalFromEnv parses a viper key as a decimal, falling back to def on a
// malformed value.
func decimalFromEnv(key, def string) decimal.Decimal {
	raw := viper.GetString(key)
	d, err := decimal.NewFromString(raw)
	if err != nil {
		log.Printf("Warning: Invalid value for %s ('%s'). Defaulting to %s.\n", key, raw, def)
		return decimal.RequireFromString(def)
	}
	return d
}

func durationFromEnv(key string, def time.Duration) time.Duration {
	raw := viper.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil {
		log.Printf("Warning: Invalid value for %s ('%s'). Defaulting to %s.\n", key, raw, def.String())
		return def
	}
	return d
}
