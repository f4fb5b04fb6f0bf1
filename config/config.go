package config

import (
	"fmt"
	"os"
	"time"
)

// Config holds application configuration
type Config struct {
	Port         string
	MongoURI     string
	DBName       string
	RedisAddr    string
	RedisPass    string
	JWTKey       string
	LogLevel     string
	SMTPHost     string
	SMTPPort     string
	SMTPUsername string
	SMTPPassword string
	SenderEmail  string
	ContactEmail string
	AdminEmail   string
	AdminPass    string
	QueueLockTTL time.Duration
}

// NewConfig loads configuration from environment variables
func NewConfig() (*Config, error) {
	cfg := &Config{
		Port:         getEnv("PORT", "8080"),
		MongoURI:     os.Getenv("MONGOURI"),
		DBName:       getEnv("DB", "goldenaqar"),
		RedisAddr:    getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPass:    os.Getenv("REDIS_PASS"),
		JWTKey:       os.Getenv("JWT_KEY"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		SMTPHost:     os.Getenv("SMTP_HOST"),
		SMTPPort:     getEnv("SMTP_PORT", "587"),
		SMTPUsername: os.Getenv("SMTP_USERNAME"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),
		SenderEmail:  os.Getenv("SENDER_EMAIL"),
		ContactEmail: os.Getenv("CONTACT_EMAIL"),
		AdminEmail:   os.Getenv("ADMIN_EMAIL"),
		AdminPass:    os.Getenv("ADMIN_PASSWORD"),
	}

	if cfg.MongoURI == "" {
		return nil, fmt.Errorf("MONGOURI is required")
	}
	if cfg.JWTKey == "" {
		return nil, fmt.Errorf("JWT_KEY is required")
	}

	ttl, err := time.ParseDuration(getEnv("QUEUE_LOCK_TTL", "10m"))
	if err != nil {
		return nil, fmt.Errorf("invalid QUEUE_LOCK_TTL: %w", err)
	}
	cfg.QueueLockTTL = ttl

	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}
