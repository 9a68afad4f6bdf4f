package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	InputPath     string
	OutputPath    string
	CSVOutputPath string
	MetricsPath   string

	MaxConcurrency int
	MaxRetries     int
	LogLevel       string
	ValidateOutput bool
	LoadToDB       bool

	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}
	return FromEnv()
}

// FromEnv builds a Config from the process environment only.
func FromEnv() *Config {
	return &Config{
		InputPath:     getEnv("INPUT_PATH", "./property_details.json"),
		OutputPath:    getEnv("OUTPUT_PATH", "./property_details_cleaned.json"),
		CSVOutputPath: getEnv("CSV_OUTPUT_PATH", ""),
		MetricsPath:   getEnv("METRICS_PATH", ""),

		MaxConcurrency: getEnvInt("MAX_CONCURRENCY", 4),
		MaxRetries:     getEnvInt("MAX_RETRIES", 3),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		ValidateOutput: getEnvBool("VALIDATE_OUTPUT", true),
		LoadToDB:       getEnvBool("LOAD_TO_DB", false),

		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "propalyze"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "propalyze"),
		PostgresDB:       getEnv("POSTGRES_DB", "propalyze"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
	}
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return "host=" + c.PostgresHost +
		" port=" + c.PostgresPort +
		" user=" + c.PostgresUser +
		" password=" + c.PostgresPassword +
		" dbname=" + c.PostgresDB +
		" sslmode=" + c.PostgresSSLMode
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		b, err := strconv.ParseBool(strings.TrimSpace(val))
		if err == nil {
			return b
		}
	}
	return fallback
}
