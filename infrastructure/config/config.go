package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"parkwise/domain/core/valueobjects"
	"parkwise/infrastructure/persistence/store"
)

// Store backends.
const (
	StoreDynamoDB = "dynamodb"
	StoreMemory   = "memory"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	ServerAddress string `yaml:"server_address"`
	Environment   string `yaml:"environment"`
	IsLambda      bool   `yaml:"-"`

	// AWS configuration
	AWSRegion        string `yaml:"aws_region"`
	TableName        string `yaml:"table_name"`
	DynamoDBEndpoint string `yaml:"dynamodb_endpoint"`
	StoreBackend     string `yaml:"store_backend"`
	EventBusName     string `yaml:"event_bus_name"`
	MetricsNamespace string `yaml:"metrics_namespace"`

	// Logging
	LogLevel string `yaml:"log_level"`

	// Authentication
	JWTSecret      string `yaml:"jwt_secret"`
	JWTIssuer      string `yaml:"jwt_issuer"`
	JWTTTLHours    int    `yaml:"jwt_ttl_hours"`
	BcryptCost     int    `yaml:"bcrypt_cost"`
	LoginRateLimit int    `yaml:"login_rate_limit"` // attempts per minute per client address

	// Parking
	SlotLayout string `yaml:"slot_layout"`

	// Circuit breaker around the table client
	BreakerMaxRequests      int     `yaml:"breaker_max_requests"`
	BreakerIntervalSeconds  int     `yaml:"breaker_interval_seconds"`
	BreakerTimeoutSeconds   int     `yaml:"breaker_timeout_seconds"`
	BreakerFailureThreshold float64 `yaml:"breaker_failure_threshold"`

	// Feature flags
	EnableMetrics      bool     `yaml:"enable_metrics"`
	EnableTracing      bool     `yaml:"enable_tracing"`
	EnableCORS         bool     `yaml:"enable_cors"`
	CORSAllowedOrigins []string `yaml:"cors_allowed_origins"`

	// ConfigFile is the YAML file the values were read from, if any.
	ConfigFile string `yaml:"-"`
}

// Default returns the configuration used when nothing overrides it.
func Default() *Config {
	return &Config{
		ServerAddress:           ":8080",
		Environment:             "development",
		AWSRegion:               "us-east-1",
		TableName:               "parkwise",
		StoreBackend:            StoreDynamoDB,
		MetricsNamespace:        "Parkwise",
		LogLevel:                "info",
		JWTIssuer:               "parkwise",
		JWTTTLHours:             24,
		BcryptCost:              12,
		LoginRateLimit:          10,
		SlotLayout:              valueobjects.DefaultSlotLayout,
		BreakerMaxRequests:      5,
		BreakerIntervalSeconds:  30,
		BreakerTimeoutSeconds:   60,
		BreakerFailureThreshold: 0.8,
		EnableCORS:              true,
		CORSAllowedOrigins:      []string{"*"},
	}
}

// LoadConfig builds the configuration from defaults, the optional YAML file
// named by CONFIG_FILE, then environment variables, and validates the result.
func LoadConfig() (*Config, error) {
	cfg := Default()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
		cfg.ConfigFile = path
	}
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.ServerAddress = getEnv("SERVER_ADDRESS", c.ServerAddress)
	c.Environment = getEnv("ENVIRONMENT", c.Environment)
	c.IsLambda = os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != ""

	c.AWSRegion = getEnv("AWS_REGION", c.AWSRegion)
	c.TableName = getEnv("TABLE_NAME", c.TableName)
	c.DynamoDBEndpoint = getEnv("DYNAMODB_ENDPOINT", c.DynamoDBEndpoint)
	c.StoreBackend = strings.ToLower(getEnv("STORE_BACKEND", c.StoreBackend))
	c.EventBusName = getEnv("EVENT_BUS_NAME", c.EventBusName)
	c.MetricsNamespace = getEnv("METRICS_NAMESPACE", c.MetricsNamespace)

	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)

	c.JWTSecret = getEnv("JWT_SECRET", c.JWTSecret)
	c.JWTIssuer = getEnv("JWT_ISSUER", c.JWTIssuer)
	c.JWTTTLHours = getEnvInt("JWT_TTL_HOURS", c.JWTTTLHours)
	c.BcryptCost = getEnvInt("BCRYPT_COST", c.BcryptCost)
	c.LoginRateLimit = getEnvInt("LOGIN_RATE_LIMIT", c.LoginRateLimit)

	c.SlotLayout = getEnv("SLOT_LAYOUT", c.SlotLayout)

	c.BreakerMaxRequests = getEnvInt("BREAKER_MAX_REQUESTS", c.BreakerMaxRequests)
	c.BreakerIntervalSeconds = getEnvInt("BREAKER_INTERVAL_SECONDS", c.BreakerIntervalSeconds)
	c.BreakerTimeoutSeconds = getEnvInt("BREAKER_TIMEOUT_SECONDS", c.BreakerTimeoutSeconds)
	c.BreakerFailureThreshold = getEnvFloat("BREAKER_FAILURE_THRESHOLD", c.BreakerFailureThreshold)

	c.EnableMetrics = getEnvBool("ENABLE_METRICS", c.EnableMetrics)
	c.EnableTracing = getEnvBool("ENABLE_TRACING", c.EnableTracing)
	c.EnableCORS = getEnvBool("ENABLE_CORS", c.EnableCORS)
	if origins := os.Getenv("CORS_ALLOWED_ORIGINS"); origins != "" {
		c.CORSAllowedOrigins = splitList(origins)
	}
}

// Validate checks if all required configuration is present
func (c *Config) Validate() error {
	if c.TableName == "" {
		return errors.New("TABLE_NAME is required")
	}
	if c.IsProduction() && c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required in production")
	}
	if c.StoreBackend != StoreDynamoDB && c.StoreBackend != StoreMemory {
		return fmt.Errorf("STORE_BACKEND must be %q or %q, got %q", StoreDynamoDB, StoreMemory, c.StoreBackend)
	}
	if c.IsProduction() && c.StoreBackend == StoreMemory {
		return errors.New("the memory store cannot be used in production")
	}
	if _, err := valueobjects.NewSlotLayout(c.SlotLayout); err != nil {
		return fmt.Errorf("SLOT_LAYOUT: %w", err)
	}
	if c.JWTTTLHours <= 0 {
		return errors.New("JWT_TTL_HOURS must be positive")
	}
	if c.LoginRateLimit < 0 {
		return errors.New("LOGIN_RATE_LIMIT cannot be negative")
	}
	if c.BreakerFailureThreshold <= 0 || c.BreakerFailureThreshold > 1 {
		return errors.New("BREAKER_FAILURE_THRESHOLD must be in (0, 1]")
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

// Layout returns the validated slot layout.
func (c *Config) Layout() valueobjects.SlotLayout {
	return valueobjects.MustSlotLayout(c.SlotLayout)
}

// JWTTTL returns the token lifetime.
func (c *Config) JWTTTL() time.Duration {
	return time.Duration(c.JWTTTLHours) * time.Hour
}

// Breaker returns the circuit breaker settings for the table client.
func (c *Config) Breaker() store.BreakerConfig {
	b := store.DefaultBreakerConfig()
	b.Name = c.TableName
	if c.BreakerMaxRequests > 0 {
		b.MaxRequests = uint32(c.BreakerMaxRequests)
	}
	if c.BreakerIntervalSeconds > 0 {
		b.Interval = time.Duration(c.BreakerIntervalSeconds) * time.Second
	}
	if c.BreakerTimeoutSeconds > 0 {
		b.Timeout = time.Duration(c.BreakerTimeoutSeconds) * time.Second
	}
	b.FailureThreshold = c.BreakerFailureThreshold
	return b
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

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
