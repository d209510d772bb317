// Package config provides configuration management for the smart agriculture backend.
// It handles loading and validation of configuration values from environment variables,
// with support for required variables, default values, and collective error reporting.
// All problems found while loading are collected and reported together, so a
// misconfigured deployment fails fast with a single, complete message.
package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// PoolConfig represents configuration for the database connection pool.
type PoolConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	MaxSize  int
}

// AuthConfig holds authentication-related configuration.
type AuthConfig struct {
	JWTSecret           string        // Secret key for signing access tokens
	AccessTokenDuration time.Duration // Validity duration for access tokens
}

// ServerConfig holds server-related configuration.
type ServerConfig struct {
	Port string // Port for the HTTP server
}

// MLConfig holds configuration for the external ML microservice.
type MLConfig struct {
	BaseURL string        // Base URL of the recommendation/prediction service
	Timeout time.Duration // Per-call HTTP timeout for outbound requests
}

// ChatConfig holds configuration for the chat endpoint's cooldown gate.
type ChatConfig struct {
	CooldownWindow time.Duration // Minimum elapsed time between accepted chat requests per client
	SweepInterval  time.Duration // How often stale cooldown entries are evicted
}

// AppConfig is the top-level configuration structure for the application.
type AppConfig struct {
	DB     *PoolConfig
	Auth   *AuthConfig
	Server *ServerConfig
	ML     *MLConfig
	Chat   *ChatConfig
}

// Helper function to get a required environment variable.
// Appends an error to the errors slice if the variable is not set.
func getRequiredEnv(key string, errors *[]string) string {
	value, exists := os.LookupEnv(key)
	if !exists {
		*errors = append(*errors, fmt.Sprintf("missing required environment variable: %s", key))
		return ""
	}
	return value
}

// Helper function to get an optional environment variable with a default string value.
func getOptionalEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// Helper function to get an optional environment variable parsed as an int.
// Uses defaultValue if not set. Appends an error if parsing fails.
func getOptionalEnvInt(key string, defaultValue int, errors *[]string) int {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	valueInt, err := strconv.Atoi(valueStr)
	if err != nil {
		*errors = append(*errors, fmt.Sprintf("invalid value for %s: expected integer, got '%s': %v", key, valueStr, err))
		return defaultValue
	}
	return valueInt
}

// Helper function to get an optional environment variable parsed as time.Duration.
// Uses defaultValue if not set. Appends an error if parsing fails.
// `time.ParseDuration` expects a string like "5s", "1h30m".
func getOptionalEnvDuration(key string, defaultValue time.Duration, errors *[]string) time.Duration {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	valueDuration, err := time.ParseDuration(valueStr)
	if err != nil {
		*errors = append(*errors, fmt.Sprintf("invalid value for %s: expected duration string, got '%s': %v", key, valueStr, err))
		return defaultValue
	}
	return valueDuration
}

// clampPoolSize clamps a pool size to the 5..100 range. An out-of-range value
// is not a startup failure; it is clamped and a warning is logged.
func clampPoolSize(size int, varName string) int {
	if size < 5 {
		log.Printf("pool size for %s (%d) is less than minimum 5, clamping to 5", varName, size)
		return 5
	}
	if size > 100 {
		log.Printf("pool size for %s (%d) is greater than maximum 100, clamping to 100", varName, size)
		return 100
	}
	return size
}

// LoadConfig creates and returns an AppConfig by reading and validating environment variables.
// It collects all errors encountered during loading and returns a single error if any exist.
func LoadConfig() (*AppConfig, error) {
	var errors []string

	// Database configuration
	dbUser := getRequiredEnv("DB_USER", &errors)
	dbPassword := getRequiredEnv("DB_PASSWORD", &errors)
	dbName := getRequiredEnv("DB_NAME", &errors)
	dbHost := getOptionalEnv("DB_HOST", "localhost")
	dbPort := getOptionalEnvInt("DB_PORT", 5432, &errors)
	poolSize := clampPoolSize(getOptionalEnvInt("DB_POOL_SIZE", 10, &errors), "DB_POOL_SIZE")

	dbConfig := &PoolConfig{
		Host:     dbHost,
		Port:     dbPort,
		User:     dbUser,
		Password: dbPassword,
		DBName:   dbName,
		MaxSize:  poolSize,
	}

	// Auth configuration
	authConfig := &AuthConfig{
		JWTSecret:           getRequiredEnv("JWT_SECRET", &errors),
		AccessTokenDuration: getOptionalEnvDuration("JWT_ACCESS_TOKEN_DURATION", 15*time.Minute, &errors),
	}

	// Server configuration
	serverConfig := &ServerConfig{
		// The port stays a string because it's only ever used to build a listen address.
		Port: getOptionalEnv("PORT", "5001"),
	}

	// ML microservice configuration
	mlConfig := &MLConfig{
		BaseURL: getOptionalEnv("ML_SERVICE_URL", "http://localhost:5002"),
		Timeout: getOptionalEnvDuration("ML_TIMEOUT", 30*time.Second, &errors),
	}

	// Chat cooldown configuration
	chatConfig := &ChatConfig{
		CooldownWindow: getOptionalEnvDuration("CHAT_COOLDOWN", 5*time.Second, &errors),
		SweepInterval:  getOptionalEnvDuration("CHAT_SWEEP_INTERVAL", time.Minute, &errors),
	}

	if len(errors) > 0 {
		return nil, fmt.Errorf("configuration errors:\n- %s", strings.Join(errors, "\n- "))
	}

	return &AppConfig{
		DB:     dbConfig,
		Auth:   authConfig,
		Server: serverConfig,
		ML:     mlConfig,
		Chat:   chatConfig,
	}, nil
}
