package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Server ServerConfig

	// Database configuration
	Database DatabaseConfig

	// Calendar event sync configuration
	Sync SyncConfig

	// Image storage and search configuration
	Images ImagesConfig

	// Admin access configuration
	Admin AdminConfig

	// Logging configuration
	Log LogConfig
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host         string
	Port         string
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
	MaxLifetime  time.Duration
}

// SyncConfig holds calendar-event sync settings
type SyncConfig struct {
	Enabled      bool
	Interval     time.Duration
	FetchTimeout time.Duration
	LibraryURL   string
	CityFeedURL  string
}

// ImagesConfig holds image storage and search-API settings
type ImagesConfig struct {
	// StorageHost is the host of the owned storage bucket. Only URLs on
	// this host may be persisted into an event's image_url column.
	StorageHost     string
	StorageEndpoint string
	StorageBucket   string
	StorageAPIKey   string
	SearchEndpoint  string
	SearchAPIKey    string
	SearchTimeout   time.Duration
}

// AdminConfig holds the admin allow-list
type AdminConfig struct {
	Emails []string
}

// LogConfig holds logging settings
type LogConfig struct {
	Level  string
	Format string // "json" or "pretty"
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "8080"),
			ReadTimeout:     getDurationEnv("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout:    getDurationEnv("SERVER_WRITE_TIMEOUT", 60*time.Second),
			ShutdownTimeout: getDurationEnv("SERVER_SHUTDOWN_TIMEOUT", 30*time.Second),
		},
		Database: DatabaseConfig{
			Host:         getEnv("DB_HOST", "localhost"),
			Port:         getEnv("DB_PORT", "5432"),
			User:         getEnv("DB_USER", "postgres"),
			Password:     getEnv("DB_PASSWORD", "postgres"),
			Name:         getEnv("DB_NAME", "bonita_forward"),
			SSLMode:      getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns: getIntEnv("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns: getIntEnv("DB_MAX_IDLE_CONNS", 5),
			MaxLifetime:  getDurationEnv("DB_MAX_LIFETIME", 5*time.Minute),
		},
		Sync: SyncConfig{
			Enabled:      getBoolEnv("SYNC_ENABLED", true),
			Interval:     getDurationEnv("SYNC_INTERVAL", 6*time.Hour),
			FetchTimeout: getDurationEnv("SYNC_FETCH_TIMEOUT", 30*time.Second),
			LibraryURL:   getEnv("SYNC_LIBRARY_URL", ""),
			CityFeedURL:  getEnv("SYNC_CITY_FEED_URL", ""),
		},
		Images: ImagesConfig{
			StorageHost:     getEnv("IMAGE_STORAGE_HOST", ""),
			StorageEndpoint: getEnv("IMAGE_STORAGE_ENDPOINT", ""),
			StorageBucket:   getEnv("IMAGE_STORAGE_BUCKET", "event-images"),
			StorageAPIKey:   getEnv("IMAGE_STORAGE_API_KEY", ""),
			SearchEndpoint:  getEnv("IMAGE_SEARCH_ENDPOINT", ""),
			SearchAPIKey:    getEnv("IMAGE_SEARCH_API_KEY", ""),
			SearchTimeout:   getDurationEnv("IMAGE_SEARCH_TIMEOUT", 10*time.Second),
		},
		Admin: AdminConfig{
			Emails: getListEnv("ADMIN_EMAILS"),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	// Validate required configuration
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Database.Host == "" {
		return fmt.Errorf("DB_HOST is required")
	}
	if c.Database.Name == "" {
		return fmt.Errorf("DB_NAME is required")
	}
	if c.Sync.Enabled && c.Sync.Interval < time.Minute {
		return fmt.Errorf("SYNC_INTERVAL must be at least 1m, got %s", c.Sync.Interval)
	}
	return nil
}

// IsAdminEmail reports whether the email is on the admin allow-list.
// Matching is case-insensitive.
func (c *AdminConfig) IsAdminEmail(email string) bool {
	email = strings.ToLower(strings.TrimSpace(email))
	for _, allowed := range c.Emails {
		if strings.ToLower(allowed) == email {
			return true
		}
	}
	return false
}

// GetDSN returns the PostgreSQL connection string
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

// Helper functions for environment variable parsing

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getListEnv(key string) []string {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
