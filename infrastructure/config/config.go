package config

import (
	"fmt"
	"os"
	"strconv"

	domaincfg "promptline/domain/config"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	ServerAddress string
	Environment   string

	// AWS configuration
	AWSRegion     string
	DynamoDBTable string
	IndexName     string // GSI1 - user-level subject listing
	EventBusName  string

	// Lambda configuration
	IsLambda bool

	// Storage backend: "dynamodb" or "memory"
	StorageBackend string

	// Lock configuration
	LockTimeoutMs int

	// Logging
	LogLevel string

	// Authentication
	JWTSecret string
	JWTIssuer string

	// Rate limiting
	RateLimitPerMinute int

	// Feature flags
	EnableMetrics bool
	EnableTracing bool
	EnableCORS    bool

	// Domain thresholds
	Domain *domaincfg.DomainConfig
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	domain := domaincfg.DefaultDomainConfig()
	domain.ImprovingSlopeThreshold = getEnvFloat("IMPROVING_SLOPE_THRESHOLD", domain.ImprovingSlopeThreshold)
	domain.DegradingSlopeThreshold = getEnvFloat("DEGRADING_SLOPE_THRESHOLD", domain.DegradingSlopeThreshold)
	domain.ChangePointThreshold = getEnvFloat("CHANGE_POINT_THRESHOLD", domain.ChangePointThreshold)
	domain.MaxPromptLength = getEnvInt("MAX_PROMPT_LENGTH", domain.MaxPromptLength)

	cfg := &Config{
		ServerAddress: getEnv("SERVER_ADDRESS", ":8080"),
		Environment:   getEnv("ENVIRONMENT", "development"),
		AWSRegion:     getEnv("AWS_REGION", "us-west-2"),
		DynamoDBTable: getEnv("TABLE_NAME", "promptline"),
		IndexName:     getEnv("INDEX_NAME", "UserSubjectIndex"),
		EventBusName:  getEnv("EVENT_BUS_NAME", "promptline-events"),

		IsLambda:       getEnvBool("IS_LAMBDA", os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != ""),
		StorageBackend: getEnv("STORAGE_BACKEND", "dynamodb"),
		LockTimeoutMs:  getEnvInt("LOCK_TIMEOUT_MS", 5000),

		JWTSecret: getEnv("JWT_SECRET", ""),
		JWTIssuer: getEnv("JWT_ISSUER", "promptline"),

		RateLimitPerMinute: getEnvInt("RATE_LIMIT_PER_MINUTE", 120),

		LogLevel:      getEnv("LOG_LEVEL", "info"),
		EnableMetrics: getEnvBool("ENABLE_METRICS", false),
		EnableTracing: getEnvBool("ENABLE_TRACING", false),
		EnableCORS:    getEnvBool("ENABLE_CORS", true),

		Domain: domain,
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Load is an alias for LoadConfig
func Load() (*Config, error) {
	return LoadConfig()
}

// Validate checks if all required configuration is present
func (c *Config) Validate() error {
	if c.StorageBackend != "dynamodb" && c.StorageBackend != "memory" {
		return fmt.Errorf("unknown storage backend %q", c.StorageBackend)
	}
	if c.IsProduction() {
		if c.JWTSecret == "" {
			return fmt.Errorf("JWT_SECRET is required in production")
		}
		if c.DynamoDBTable == "" {
			return fmt.Errorf("TABLE_NAME is required")
		}
		if c.StorageBackend == "memory" {
			return fmt.Errorf("memory storage is not allowed in production")
		}
	}
	if c.Domain.ImprovingSlopeThreshold <= c.Domain.DegradingSlopeThreshold {
		return fmt.Errorf("improving slope threshold must exceed degrading slope threshold")
	}
	return nil
}

// IsDevelopment checks if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction checks if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool gets a boolean environment variable with a default value
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "true" || value == "1" || value == "yes"
}

// getEnvInt gets an integer environment variable with a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvFloat gets a float environment variable with a default value
func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}
