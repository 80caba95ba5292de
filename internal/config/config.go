package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
)

// Config holds application configuration.
type Config struct {
	AppName     string
	AppVersion  string
	Environment string
	HTTPAddr    string

	DBType            string
	DBHost            string
	DBPort            string
	DBName            string
	DBUser            string
	DBPassword        string
	DBSSLMode         string
	DBMaxIdleConn     int
	DBMaxOpenConn     int
	DBConnMaxLifetime int
	DBConnMaxIdleTime int

	ProcessorAPIKey  string
	ProcessorBaseURL string

	// DefaultCurrency is the currency payouts are issued in when the
	// request does not name one.
	DefaultCurrency string

	// MinimumPayout is the smallest withdrawal a creator may request,
	// in display units.
	MinimumPayout decimal.Decimal

	// SourceHistoryLimit bounds how many records each processor history
	// source is asked for per reconciliation.
	SourceHistoryLimit int
}

var Module = fx.Module("config",
	fx.Provide(Load),
)

// Load loads configuration from environment variables and .env file.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		AppName:            getenv("APP_SERVICE", "pulsefit"),
		AppVersion:         getenv("APP_VERSION", "0.1.0"),
		Environment:        getenv("ENVIRONMENT", "development"),
		HTTPAddr:           getenv("HTTP_ADDR", ":8080"),
		DBType:             getenv("DATABASE_TYPE", "postgres"),
		DBHost:             getenv("DATABASE_HOST", "localhost"),
		DBPort:             getenv("DATABASE_PORT", "5432"),
		DBName:             getenv("DATABASE_NAME", "pulsefit"),
		DBUser:             getenv("DATABASE_USER", "postgres"),
		DBPassword:         getenv("DATABASE_PASSWORD", ""),
		DBSSLMode:          getenv("DATABASE_SSLMODE", "disable"),
		DBMaxIdleConn:      getenvInt("DATABASE_MAX_IDLE_CONN", 2),
		DBMaxOpenConn:      getenvInt("DATABASE_MAX_OPEN_CONN", 10),
		DBConnMaxLifetime:  getenvInt("DATABASE_CONN_MAX_LIFETIME", 3600),
		DBConnMaxIdleTime:  getenvInt("DATABASE_CONN_MAX_IDLE_TIME", 600),
		ProcessorAPIKey:    strings.TrimSpace(getenv("PROCESSOR_API_KEY", "")),
		ProcessorBaseURL:   strings.TrimSpace(getenv("PROCESSOR_BASE_URL", "https://api.stripe.com")),
		DefaultCurrency:    strings.ToLower(getenv("PAYOUT_CURRENCY", "usd")),
		MinimumPayout:      getenvDecimal("PAYOUT_MINIMUM", decimal.NewFromInt(10)),
		SourceHistoryLimit: getenvInt("SOURCE_HISTORY_LIMIT", 100),
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return def
	}
	return parsed
}

func getenvDecimal(key string, def decimal.Decimal) decimal.Decimal {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := decimal.NewFromString(value)
	if err != nil {
		return def
	}
	return parsed
}
