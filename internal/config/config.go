package config

import (
	"errors"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURL    string
	ServerPort     string
	Environment    string
	LogLevel       string
	JWTSecret      string
	JWTIssuer      string
	JWTAudience    string
	JWTExpiryHours int
	CORSOrigins    []string
	SeedDemoUsers  bool
}

func Load() *Config {
	err := godotenv.Load()
	if err != nil {
		log.Println("⚠️  No .env file found, using system environment variables")
	}

	return &Config{
		DatabaseURL:    getEnv("DATABASE_URL", "workplace_tasks.db"),
		ServerPort:     getEnv("SERVER_PORT", "8080"),
		Environment:    getEnv("APP_ENV", "development"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		JWTSecret:      getEnv("JWT_SECRET", "dev-secret-change-me-please-0123456789"),
		JWTIssuer:      getEnv("JWT_ISSUER", "WorkplaceTasks"),
		JWTAudience:    getEnv("JWT_AUDIENCE", "WorkplaceTasksClient"),
		JWTExpiryHours: getEnvInt("JWT_EXPIRY_HOURS", 24),
		CORSOrigins:    getEnvList("CORS_ORIGINS", []string{"http://localhost:5173", "http://localhost:3000"}),
		SeedDemoUsers:  getEnvBool("SEED_DEMO_USERS", true),
	}
}

// IsProduction reports whether APP_ENV is "production".
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

// Validate rejects settings the server must not start with.
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return errors.New("DATABASE_URL must not be empty")
	}
	if c.JWTExpiryHours <= 0 {
		return errors.New("JWT_EXPIRY_HOURS must be positive")
	}
	if c.IsProduction() && len(c.JWTSecret) < 32 {
		return errors.New("JWT_SECRET must be at least 32 characters in production")
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultVal
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("⚠️  Invalid %s=%q, using %d", key, value, defaultVal)
		return defaultVal
	}
	return n
}

func getEnvBool(key string, defaultVal bool) bool {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultVal
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		log.Printf("⚠️  Invalid %s=%q, using %t", key, value, defaultVal)
		return defaultVal
	}
	return b
}

func getEnvList(key string, defaultVal []string) []string {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultVal
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
