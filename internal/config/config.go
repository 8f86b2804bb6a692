// Package config loads and validates application configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Store drivers accepted by STORE_DRIVER.
const (
	DriverFile     = "file"
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
)

// Config holds all configuration values for the API server.
// Values are populated by Load from environment variables.
type Config struct {
	// Port is the TCP port the HTTP server listens on. Defaults to "8080".
	Port string

	// LogLevel controls the minimum log level. Defaults to "info".
	// Valid values: debug, info, warn, error.
	LogLevel string

	// CORSOrigins is the list of allowed cross-origin request origins.
	// Defaults to ["http://localhost:8081"] (Expo dev server).
	// Set CORS_ORIGINS to a comma-separated list to override.
	CORSOrigins []string

	// StoreDriver selects the key-value backend: file, memory, postgres or redis.
	// Defaults to "file".
	StoreDriver string

	// StoreDir is the directory the file backend writes one JSON file per key into.
	// Defaults to "./data".
	StoreDir string

	// DatabaseURL is the Postgres connection string. Required when StoreDriver is postgres.
	DatabaseURL string

	// RedisAddr is the host:port of the Redis server. Defaults to "localhost:6379".
	RedisAddr string

	// RedisKeyPrefix namespaces every key written to Redis. Optional.
	RedisKeyPrefix string

	// StoreTimeout bounds each store round trip. Defaults to 5s; 0 disables it.
	StoreTimeout time.Duration

	// PasswordHasher names how roster passwords are stored: plain or bcrypt.
	// Defaults to "plain" so rosters written by existing devices keep working.
	PasswordHasher string

	// WeatherAPIURL is the OpenWeatherMap API root. Empty means the public endpoint.
	WeatherAPIURL string

	// WeatherAPIKey authenticates weather lookups. Empty serves sample data.
	WeatherAPIKey string

	// AuthRateLimitRPM caps register and login requests per client per minute.
	// Defaults to 10; 0 disables the limiter.
	AuthRateLimitRPM int

	// MaxBodyBytes caps request bodies. Defaults to 1 MiB.
	MaxBodyBytes int64
}

// Load reads configuration from environment variables and returns a Config.
// Returns an error naming every variable that is missing or malformed.
func Load() (Config, error) {
	cfg := Config{
		Port:           getEnv("PORT", "8080"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		CORSOrigins:    splitCSV(getEnv("CORS_ORIGINS", "http://localhost:8081")),
		StoreDriver:    strings.ToLower(getEnv("STORE_DRIVER", DriverFile)),
		StoreDir:       getEnv("STORE_DIR", "./data"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		RedisAddr:      getEnv("REDIS_ADDR", "localhost:6379"),
		RedisKeyPrefix: os.Getenv("REDIS_KEY_PREFIX"),
		PasswordHasher: getEnv("PASSWORD_HASHER", "plain"),
		WeatherAPIURL:  os.Getenv("WEATHER_API_URL"),
		WeatherAPIKey:  os.Getenv("WEATHER_API_KEY"),
	}

	var problems []string

	switch cfg.StoreDriver {
	case DriverFile, DriverMemory, DriverRedis:
	case DriverPostgres:
		if cfg.DatabaseURL == "" {
			problems = append(problems, "DATABASE_URL is required when STORE_DRIVER=postgres")
		}
	default:
		problems = append(problems, fmt.Sprintf("STORE_DRIVER %q is not one of file, memory, postgres, redis", cfg.StoreDriver))
	}

	switch cfg.PasswordHasher {
	case "plain", "bcrypt":
	default:
		problems = append(problems, fmt.Sprintf("PASSWORD_HASHER %q is not one of plain, bcrypt", cfg.PasswordHasher))
	}

	timeout, err := time.ParseDuration(getEnv("STORE_TIMEOUT", "5s"))
	if err != nil || timeout < 0 {
		problems = append(problems, "STORE_TIMEOUT must be a non-negative duration such as 5s")
	}
	cfg.StoreTimeout = timeout

	rpm, err := strconv.Atoi(getEnv("AUTH_RATE_LIMIT_RPM", "10"))
	if err != nil || rpm < 0 {
		problems = append(problems, "AUTH_RATE_LIMIT_RPM must be a non-negative integer")
	}
	cfg.AuthRateLimitRPM = rpm

	maxBody, err := strconv.ParseInt(getEnv("MAX_BODY_BYTES", "1048576"), 10, 64)
	if err != nil || maxBody <= 0 {
		problems = append(problems, "MAX_BODY_BYTES must be a positive integer")
	}
	cfg.MaxBodyBytes = maxBody

	if len(problems) > 0 {
		return Config{}, fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}

	return cfg, nil
}

// getEnv returns the value of the environment variable named by key,
// or fallback if the variable is not set or is empty.
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// splitCSV splits a comma-separated string into a trimmed slice, ignoring empty entries.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
