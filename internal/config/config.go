package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds application configuration loaded from the environment.
// It is assembled once in main and injected into components; no package
// reads the environment on its own after startup.
type Config struct {
	// Server
	Port        string
	Environment string
	BaseURL     string // public base URL embedded in tracking links
	LogLevel    string
	LogFile     string

	// Auth
	JWTSecret     []byte
	SessionExpiry time.Duration

	// Email
	AWSRegion   string
	SenderEmail string
	SenderName  string

	// Redis (optional - rate limiting and report caching disabled when unset)
	RedisHost     string
	RedisPort     string
	RedisPassword string

	// Tracing (optional)
	OTLPEndpoint string

	// Scoring policy
	Scoring ScoringConfig
	Quiz    QuizConfig
}

// ScoringConfig holds the awareness scoring thresholds and weights
type ScoringConfig struct {
	QuizWeight   float64 // weight of the quiz sub-score in the overall score
	EmailWeight  float64 // weight of the email-behavior sub-score
	HighCutoff   float64 // overall score at or above which awareness is high
	MediumCutoff float64
}

// QuizConfig holds quiz grading policy
type QuizConfig struct {
	PassScore int // minimum percentage to pass
	TimeLimit time.Duration
}

// DefaultScoring returns the standard scoring policy
func DefaultScoring() ScoringConfig {
	return ScoringConfig{
		QuizWeight:   0.4,
		EmailWeight:  0.6,
		HighCutoff:   80,
		MediumCutoff: 50,
	}
}

// DefaultQuiz returns the standard quiz policy
func DefaultQuiz() QuizConfig {
	return QuizConfig{
		PassScore: 70,
		TimeLimit: 10 * time.Minute,
	}
}

// Load reads configuration from environment variables.
// JWT_SECRET is required; everything else has a sensible default.
func Load() (*Config, error) {
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is required")
	}

	cfg := &Config{
		Port:        getEnvOrDefault("PORT", "8080"),
		Environment: getEnvOrDefault("ENVIRONMENT", "development"),
		BaseURL:     getEnvOrDefault("BASE_URL", "http://localhost:8080"),
		LogLevel:    getEnvOrDefault("LOG_LEVEL", "info"),
		LogFile:     getEnvOrDefault("LOG_FILE", "phishaware.log"),

		JWTSecret:     []byte(jwtSecret),
		SessionExpiry: time.Duration(getEnvInt("SESSION_EXPIRY_HOURS", 24)) * time.Hour,

		AWSRegion:   getEnvOrDefault("AWS_REGION", "us-east-1"),
		SenderEmail: getEnvOrDefault("SENDER_EMAIL", "training@phishaware.io"),
		SenderName:  getEnvOrDefault("SENDER_NAME", "Employee Training Portal"),

		RedisHost:     os.Getenv("REDIS_HOST"),
		RedisPort:     getEnvOrDefault("REDIS_PORT", "6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		OTLPEndpoint: os.Getenv("OTLP_ENDPOINT"),

		Scoring: DefaultScoring(),
		Quiz:    DefaultQuiz(),
	}

	return cfg, nil
}

// getEnvOrDefault returns environment variable or default value
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
