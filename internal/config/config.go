package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

type Config struct {
	HTTPPort       string
	BackendBaseURL string
	BackendToken   string
	JWTSecret      string
	KafkaBrokers   []string
	AuditTopic     string
	Debug          bool
	AdminUser      string
	AdminPassword  string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
}

// Load reads the .env file if one is present near the working directory and
// assembles the configuration from the environment. Missing values fall back
// to development defaults.
func Load() *Config {
	loadDotEnv()

	return &Config{
		HTTPPort:       getenv("HTTP_PORT", "9000"),
		BackendBaseURL: getenv("BACKEND_BASE_URL", "http://localhost:8080/api"),
		BackendToken:   getenv("BACKEND_TOKEN", ""),
		JWTSecret:      getenv("JWT_SECRET", "dev-only-secret"),
		KafkaBrokers:   splitCSV(getenv("KAFKA_BROKERS", "localhost:9092")),
		AuditTopic:     getenv("AUDIT_TOPIC", "gateway_audit"),
		Debug:          getenv("DEBUG", "") == "true",
		AdminUser:      getenv("ADMIN_USER", ""),
		AdminPassword:  getenv("ADMIN_PASSWORD", ""),

		DBHost:     getenv("DB_HOST", "localhost"),
		DBPort:     getenv("DB_PORT", "5432"),
		DBUser:     getenv("POSTGRES_USER", "postgres"),
		DBPassword: getenv("POSTGRES_PASSWORD", "postgres"),
		DBName:     getenv("POSTGRES_DB", "gateway"),
	}
}

func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName)
}

func loadDotEnv() {
	wd, err := os.Getwd()
	if err != nil {
		return
	}

	possiblePaths := []string{
		filepath.Join(wd, ".env"),
		filepath.Join(wd, "..", ".env"),
		filepath.Join(wd, "..", "..", ".env"),
	}

	for _, envPath := range possiblePaths {
		if err := godotenv.Load(envPath); err == nil {
			zap.L().Info("loaded environment", zap.String("path", envPath))
			return
		}
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
