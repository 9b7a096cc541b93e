package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gabeliss/tickX/application/ports"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	ServerAddress string
	Environment   string

	// AWS configuration
	AWSRegion        string
	EventsTable      string
	VenuesTable      string
	CityIndex        string // GSI1
	CategoryIndex    string // GSI2
	VenueIndex       string // GSI3
	DynamoDBEndpoint string // local DynamoDB only
	EventBusName     string

	// Ticketmaster
	TicketmasterAPIKey       string
	TicketmasterBaseURL      string
	TicketmasterRateInterval time.Duration

	// Sync
	SyncConfigFile string
	SyncCities     []ports.CityTarget

	// Logging
	LogLevel string

	// Feature flags
	EnableMetrics bool
	EnableTracing bool
	OTELEndpoint  string

	// Timeouts and retries
	RequestTimeout  time.Duration
	SearchTimeout   time.Duration
	BatchMaxRetries int

	CORSOrigins []string
}

// SyncFile is the YAML document naming the cities to sync.
type SyncFile struct {
	Cities []ports.CityTarget `yaml:"cities"`
}

// LoadConfig loads configuration from environment variables. A .env file in
// the working directory is applied first when present; real environment
// variables win over it.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := &Config{
		ServerAddress: getEnv("SERVER_ADDRESS", ":8080"),
		Environment:   getEnv("ENVIRONMENT", "development"),

		AWSRegion:        getEnv("AWS_REGION", "us-east-1"),
		EventsTable:      getEnv("EVENTS_TABLE", "TickX-Events"),
		VenuesTable:      getEnv("VENUES_TABLE", "TickX-Venues"),
		CityIndex:        getEnv("CITY_INDEX", "GSI1"),
		CategoryIndex:    getEnv("CATEGORY_INDEX", "GSI2"),
		VenueIndex:       getEnv("VENUE_INDEX", "GSI3"),
		DynamoDBEndpoint: getEnv("DYNAMODB_ENDPOINT", ""),
		EventBusName:     getEnv("EVENT_BUS_NAME", ""),

		TicketmasterAPIKey:       getEnv("TICKETMASTER_API_KEY", ""),
		TicketmasterBaseURL:      getEnv("TICKETMASTER_BASE_URL", "https://app.ticketmaster.com/discovery/v2"),
		TicketmasterRateInterval: getEnvDuration("TICKETMASTER_RATE_INTERVAL", 220*time.Millisecond),

		SyncConfigFile: getEnv("SYNC_CONFIG_FILE", ""),

		LogLevel:      getEnv("LOG_LEVEL", "info"),
		EnableMetrics: getEnvBool("ENABLE_METRICS", true),
		EnableTracing: getEnvBool("ENABLE_TRACING", false),
		OTELEndpoint:  getEnv("OTEL_ENDPOINT", "localhost:4317"),

		RequestTimeout:  getEnvDuration("REQUEST_TIMEOUT", 10*time.Second),
		SearchTimeout:   getEnvDuration("SEARCH_TIMEOUT", 8*time.Second),
		BatchMaxRetries: getEnvInt("BATCH_MAX_RETRIES", 3),

		CORSOrigins: getEnvList("CORS_ORIGINS", []string{"*"}),
	}

	if cfg.SyncConfigFile != "" {
		cities, err := LoadSyncFile(cfg.SyncConfigFile)
		if err != nil {
			return nil, err
		}
		cfg.SyncCities = cities
	}

	// Validate required configuration
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadSyncFile reads the city list from a YAML file.
func LoadSyncFile(path string) ([]ports.CityTarget, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read sync config %s: %w", path, err)
	}

	var file SyncFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse sync config %s: %w", path, err)
	}
	for i, c := range file.Cities {
		if strings.TrimSpace(c.City) == "" || strings.TrimSpace(c.StateCode) == "" {
			return nil, fmt.Errorf("sync config %s: city %d needs city and stateCode", path, i)
		}
	}
	return file.Cities, nil
}

// Validate checks if all required configuration is present
func (c *Config) Validate() error {
	if c.EventsTable == "" {
		return fmt.Errorf("EVENTS_TABLE is required")
	}
	if c.VenuesTable == "" {
		return fmt.Errorf("VENUES_TABLE is required")
	}
	if c.BatchMaxRetries < 0 {
		return fmt.Errorf("BATCH_MAX_RETRIES must not be negative")
	}
	// Keyword search runs inside the request deadline.
	if c.RequestTimeout > 0 && c.SearchTimeout > c.RequestTimeout {
		return fmt.Errorf("SEARCH_TIMEOUT (%s) must not exceed REQUEST_TIMEOUT (%s)", c.SearchTimeout, c.RequestTimeout)
	}

	if c.IsProduction() {
		if c.TicketmasterAPIKey == "" {
			return fmt.Errorf("TICKETMASTER_API_KEY is required in production")
		}
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

// getEnvDuration accepts Go durations ("250ms") or bare milliseconds.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if ms, err := strconv.Atoi(value); err == nil {
		return time.Duration(ms) * time.Millisecond
	}
	return defaultValue
}

// getEnvList splits a comma separated variable.
func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
