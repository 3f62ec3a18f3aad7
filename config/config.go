package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"leetstreak/database"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

// Config holds all application configuration
type Config struct {
	// Database configuration
	DatabaseURL      string
	DatabaseName     string
	DatabaseMaxConns int32

	// HTTP configuration
	HTTPAddr       string
	AllowedOrigins []string

	// LeetCode profile fetching
	LeetCodeGraphQLURL  string
	ProfileFetchTimeout time.Duration
	ProfileFetchRPS     float64
	ProfileFetchBurst   int

	// Tournament configuration
	DefaultTournamentHours int
	JoinWindow             time.Duration

	// Discord announcements (optional)
	DiscordToken     string
	DiscordChannelID string

	// Logging
	LogLevel string

	// Environment
	Environment string // "development", "production" or "test"
}

var (
	instance *Config
	once     sync.Once
	mu       sync.Mutex
)

// Get returns the global configuration instance
func Get() *Config {
	mu.Lock()
	defer mu.Unlock()

	if instance != nil {
		return instance
	}

	once.Do(func() {
		var err error
		instance, err = load()
		if err != nil {
			panic(fmt.Sprintf("failed to load config: %v", err))
		}
	})
	return instance
}

// SetForTesting replaces the global configuration instance
func SetForTesting(cfg *Config) {
	mu.Lock()
	defer mu.Unlock()
	instance = cfg
}

// NewTestConfig returns a configuration with defaults suitable for tests
func NewTestConfig() *Config {
	return &Config{
		HTTPAddr:               ":0",
		AllowedOrigins:         []string{"http://localhost:5173"},
		LeetCodeGraphQLURL:     "http://127.0.0.1/graphql",
		ProfileFetchTimeout:    time.Second,
		ProfileFetchRPS:        100,
		ProfileFetchBurst:      100,
		DefaultTournamentHours: 7 * 24,
		JoinWindow:             24 * time.Hour,
		LogLevel:               "debug",
		Environment:            "test",
	}
}

// GetDatabaseURL constructs the full database URL by combining base URL and database name
func (c *Config) GetDatabaseURL() string {
	return database.ConstructDatabaseURL(c.DatabaseURL, c.DatabaseName)
}

// IsProduction reports whether the service runs in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// load loads configuration from the environment, reading a .env file first when present
func load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug("No .env file found, reading environment variables directly")
	}

	config := &Config{
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		DatabaseName: os.Getenv("DATABASE_NAME"),

		HTTPAddr:       getEnvWithDefault("HTTP_ADDR", ":8000"),
		AllowedOrigins: splitList(getEnvWithDefault("ALLOWED_ORIGINS", "http://localhost:5173")),

		LeetCodeGraphQLURL:  getEnvWithDefault("LEETCODE_GRAPHQL_URL", "https://leetcode.com/graphql"),
		ProfileFetchTimeout: 10 * time.Second,
		ProfileFetchRPS:     5,
		ProfileFetchBurst:   5,

		DefaultTournamentHours: 7 * 24,
		JoinWindow:             24 * time.Hour,

		DiscordToken:     os.Getenv("DISCORD_TOKEN"),
		DiscordChannelID: os.Getenv("DISCORD_CHANNEL_ID"),

		LogLevel:    getEnvWithDefault("LOG_LEVEL", "info"),
		Environment: os.Getenv("ENVIRONMENT"),
	}

	// Override defaults if environment variables are set
	if timeout := os.Getenv("PROFILE_FETCH_TIMEOUT"); timeout != "" {
		if parsed, err := time.ParseDuration(timeout); err == nil && parsed > 0 {
			config.ProfileFetchTimeout = parsed
		}
	}
	if maxConns := os.Getenv("DATABASE_MAX_CONNS"); maxConns != "" {
		if parsed, err := strconv.ParseInt(maxConns, 10, 32); err == nil && parsed > 0 {
			config.DatabaseMaxConns = int32(parsed)
		}
	}
	if rps := os.Getenv("PROFILE_FETCH_RPS"); rps != "" {
		if parsed, err := strconv.ParseFloat(rps, 64); err == nil && parsed > 0 {
			config.ProfileFetchRPS = parsed
		}
	}
	if burst := os.Getenv("PROFILE_FETCH_BURST"); burst != "" {
		if parsed, err := strconv.Atoi(burst); err == nil && parsed > 0 {
			config.ProfileFetchBurst = parsed
		}
	}
	if hours := os.Getenv("DEFAULT_TOURNAMENT_HOURS"); hours != "" {
		if parsed, err := strconv.Atoi(hours); err == nil && parsed >= 1 {
			config.DefaultTournamentHours = parsed
		}
	}
	if window := os.Getenv("JOIN_WINDOW"); window != "" {
		if parsed, err := time.ParseDuration(window); err == nil && parsed > 0 {
			config.JoinWindow = parsed
		}
	}

	if config.Environment == "" {
		config.Environment = "development"
	}

	if config.Environment != "test" {
		if config.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required")
		}
		if config.DatabaseName != "" && strings.TrimSpace(config.DatabaseName) == "" {
			return nil, fmt.Errorf("DATABASE_NAME cannot be empty when provided")
		}
	}

	return config, nil
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
