package app

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	SecretKey string // Required: signing key for the session cookie

	DefaultOrgName string // Optional: name of the clinic ensured at startup (default: Setting)
	AdminEmail     string // Optional: bootstrap admin account (default: admin@setting.local)
	AdminPassword  string // Optional: password for a freshly created bootstrap admin

	SessionTimeout time.Duration // Optional: sliding inactivity window (default: 30m)
	SessionMaxAge  time.Duration // Optional: absolute session lifetime (default: 12h)

	DatabaseFile string // Optional: path to SQLite database file (default: ./setting.db)
	PepperFile   string // Optional: path to the password-hash pepper file (default: ./pepper)
	ResetDB      bool   // Optional: drop and recreate the schema at startup (default: false)

	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 8080)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
}

func LoadConfig() Config {
	// Optional .env for local development; the file not existing is fine.
	_ = godotenv.Load()

	return Config{
		SecretKey: os.Getenv("SECRET_KEY"),

		DefaultOrgName: getEnvOrDefault("DEFAULT_ORG_NAME", "Setting"),
		AdminEmail:     getEnvOrDefault("ADMIN_EMAIL", "admin@setting.local"),
		AdminPassword:  os.Getenv("ADMIN_PASSWORD"),

		SessionTimeout: getEnvDurationOrDefault("SESSION_TIMEOUT", 30*time.Minute),
		SessionMaxAge:  getEnvDurationOrDefault("SESSION_MAX_AGE", 12*time.Hour),

		DatabaseFile: getEnvOrDefault("DATABASE_FILE", "setting.db"),
		PepperFile:   getEnvOrDefault("PEPPER_FILE", "pepper"),
		ResetDB:      getEnvBoolOrDefault("RESET_DB", false),

		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if boolValue, err := strconv.ParseBool(value); err == nil {
		return boolValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Plain integers are read as minutes.
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
