// Package config provides configuration management for the disposition modeling service.
// It loads configuration from environment variables and .env files.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Cache     CacheConfig
	Engine    EngineConfig
	Batch     BatchConfig
	RateLimit RateLimitConfig
	Logging   LoggingConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port string
	Host string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Postgres PostgresConfig
	Redis    RedisConfig
}

// PostgresConfig holds Postgres configuration
type PostgresConfig struct {
	Host           string
	Port           string
	Database       string
	User           string
	Password       string
	MaxConnections int
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host           string
	Port           string
	Password       string
	DB             int
	MaxConnections int
}

// CacheConfig holds reference-data cache configuration
type CacheConfig struct {
	TTL time.Duration
}

// EngineConfig holds the model engine's numeric conventions and hard defaults.
// Two runs with the same EngineConfig and inputs produce identical results;
// nothing in the engine reads ambient state.
type EngineConfig struct {
	// DaysPerMonth converts day counts to whole months
	DaysPerMonth float64
	// ARVUpliftFactor scales an as-is value when no ARV source exists
	ARVUpliftFactor float64
	// DefaultBrokerFeePct applies when no trade-level broker fee is set
	DefaultBrokerFeePct float64
	// DefaultOtherFeePct applies when no trade-level other fee is set
	DefaultOtherFeePct float64
	// DefaultTransferMonths applies when neither dates nor a servicer schedule resolve
	DefaultTransferMonths int
	// DefaultTaxMonthlyRate and DefaultInsuranceMonthlyRate are per-month carry
	// dollars used when neither a square-footage nor property-type model applies
	DefaultTaxMonthlyRate       float64
	DefaultInsuranceMonthlyRate float64
	// TaxRatePerSqft and InsuranceRatePerSqft back the square-footage carry model
	TaxRatePerSqft       float64
	InsuranceRatePerSqft float64
	// TaxMonthlyByPropertyType and InsuranceMonthlyByPropertyType are the
	// carry fallbacks when square footage is unknown
	TaxMonthlyByPropertyType       map[string]float64
	InsuranceMonthlyByPropertyType map[string]float64
	// TrashoutCostPerSqft and RenovationCostPerSqft back the square-footage
	// REO cost model; the per-property-type tables are the fallback
	TrashoutCostPerSqft   float64
	RenovationCostPerSqft float64
	// TrashoutByPropertyType and RenovationByPropertyType are flat fallbacks
	TrashoutByPropertyType   map[string]float64
	RenovationByPropertyType map[string]float64
	// REOHoldingMonthlyRate covers HOA, utilities and preservation per REO month
	REOHoldingMonthlyRate float64
	// IRRTolerance and IRRMaxIterations bound the IRR root finder
	IRRTolerance     float64
	IRRMaxIterations int
}

// BatchConfig holds pool batch computation configuration
type BatchConfig struct {
	Workers       int           // Concurrent per-asset computations in a pool run
	LookupTimeout time.Duration // Bound on each reference-data lookup
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	FreeTier int
	PaidTier int
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string
	Format string
}

// LoadConfig loads configuration from .env file and environment variables
func LoadConfig() (*Config, error) {
	// Load .env file (optional in production)
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("error loading .env file: %w", err)
		}
	}

	config := &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "8080"),
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
		},
		Database: DatabaseConfig{
			Postgres: PostgresConfig{
				Host:           getEnv("POSTGRES_HOST", "localhost"),
				Port:           getEnv("POSTGRES_PORT", "5432"),
				Database:       getEnv("POSTGRES_DB", "dispositions"),
				User:           getEnv("POSTGRES_USER", "dispo"),
				Password:       getEnv("POSTGRES_PASSWORD", ""),
				MaxConnections: getEnvAsInt("POSTGRES_MAX_CONNECTIONS", 50),
			},
			Redis: RedisConfig{
				Host:           getEnv("REDIS_HOST", "localhost"),
				Port:           getEnv("REDIS_PORT", "6379"),
				Password:       getEnv("REDIS_PASSWORD", ""),
				DB:             getEnvAsInt("REDIS_DB", 0),
				MaxConnections: getEnvAsInt("REDIS_MAX_CONNECTIONS", 25),
			},
		},
		Cache: CacheConfig{
			TTL: getEnvAsDuration("CACHE_TTL", 5*time.Minute),
		},
		Engine: LoadEngineConfig(),
		Batch: BatchConfig{
			Workers:       getEnvAsInt("BATCH_WORKERS", 8),
			LookupTimeout: getEnvAsDuration("BATCH_LOOKUP_TIMEOUT", 3*time.Second),
		},
		RateLimit: RateLimitConfig{
			FreeTier: getEnvAsInt("RATE_LIMIT_FREE_TIER", 50),
			PaidTier: getEnvAsInt("RATE_LIMIT_PAID_TIER", 500),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	return config, nil
}

// LoadEngineConfig loads the engine constants, falling back to the documented
// defaults when unset. Percentages are fractions (0.05 = 5%).
func LoadEngineConfig() EngineConfig {
	return EngineConfig{
		DaysPerMonth:                getEnvAsFloat("ENGINE_DAYS_PER_MONTH", 30.44),
		ARVUpliftFactor:             getEnvAsFloat("ENGINE_ARV_UPLIFT_FACTOR", 1.15),
		DefaultBrokerFeePct:         getEnvAsFloat("ENGINE_DEFAULT_BROKER_FEE_PCT", 0.05),
		DefaultOtherFeePct:          getEnvAsFloat("ENGINE_DEFAULT_OTHER_FEE_PCT", 0.01),
		DefaultTransferMonths:       getEnvAsInt("ENGINE_DEFAULT_TRANSFER_MONTHS", 2),
		DefaultTaxMonthlyRate:       getEnvAsFloat("ENGINE_DEFAULT_TAX_MONTHLY", 250),
		DefaultInsuranceMonthlyRate: getEnvAsFloat("ENGINE_DEFAULT_INSURANCE_MONTHLY", 100),
		TaxRatePerSqft:              getEnvAsFloat("ENGINE_TAX_RATE_PER_SQFT", 0.12),
		InsuranceRatePerSqft:        getEnvAsFloat("ENGINE_INSURANCE_RATE_PER_SQFT", 0.05),
		TaxMonthlyByPropertyType: map[string]float64{
			"sfr":          220,
			"condo":        180,
			"multifamily":  420,
			"manufactured": 140,
		},
		InsuranceMonthlyByPropertyType: map[string]float64{
			"sfr":          90,
			"condo":        65,
			"multifamily":  210,
			"manufactured": 75,
		},
		TrashoutCostPerSqft:         getEnvAsFloat("ENGINE_TRASHOUT_PER_SQFT", 1.25),
		RenovationCostPerSqft:       getEnvAsFloat("ENGINE_RENOVATION_PER_SQFT", 20),
		TrashoutByPropertyType: map[string]float64{
			"sfr":          2500,
			"condo":        1500,
			"multifamily":  5000,
			"manufactured": 2000,
		},
		RenovationByPropertyType: map[string]float64{
			"sfr":          35000,
			"condo":        20000,
			"multifamily":  60000,
			"manufactured": 15000,
		},
		REOHoldingMonthlyRate: getEnvAsFloat("ENGINE_REO_HOLDING_MONTHLY", 350),
		IRRTolerance:          getEnvAsFloat("ENGINE_IRR_TOLERANCE", 1e-7),
		IRRMaxIterations:      getEnvAsInt("ENGINE_IRR_MAX_ITERATIONS", 200),
	}
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an environment variable as an integer with a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsFloat gets an environment variable as a float with a default value
func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsDuration gets an environment variable as a duration with a default value
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
