package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env  string
	Port string

	MongoURI          string
	MongoDB           string
	MongoTransactions bool
	RedisAddr         string

	JWTSecret      string
	AdminUsername  string
	AdminPassword  string
	PasswordPepper string

	WizardTTL  time.Duration
	CatalogTTL time.Duration

	RateLimitRPS   float64
	RateLimitBurst int
	AllowedOrigins string
	TrustedProxies string

	RetakeAfterDays int
	RetakeCron      string
}

// Load reads an optional .env file and then the environment
func Load() *Config {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv builds the config from the process environment only
func FromEnv() *Config {
	return &Config{
		Env:  getEnv("APP_ENV", "development"),
		Port: getEnv("PORT", "8080"),

		MongoURI:          getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:           getEnv("MONGO_DB", "academyhub"),
		MongoTransactions: getBool("MONGO_TRANSACTIONS", true),
		RedisAddr:         strings.TrimPrefix(getEnv("REDIS_URI", "localhost:6379"), "redis://"),

		JWTSecret:      getEnv("JWT_SECRET", "super-secret-key-change-in-production"),
		AdminUsername:  getEnv("ADMIN_USERNAME", "admin"),
		AdminPassword:  getEnv("ADMIN_PASSWORD", "password123"),
		PasswordPepper: getEnv("PASSWORD_PEPPER", ""),

		WizardTTL:  getDuration("WIZARD_TTL", 24*time.Hour),
		CatalogTTL: getDuration("CATALOG_TTL", 10*time.Minute),

		RateLimitRPS:   getFloat("RATE_LIMIT_RPS", 5),
		RateLimitBurst: getInt("RATE_LIMIT_BURST", 20),
		AllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
		TrustedProxies: getEnv("TRUSTED_PROXIES", ""),

		RetakeAfterDays: getInt("RETAKE_AFTER_DAYS", 90),
		RetakeCron:      getEnv("RETAKE_CRON", "0 3 * * *"),
	}
}

func (c *Config) IsProduction() bool {
	return c.Env == "production" || c.Env == "prod"
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getInt(key string, defaultVal int) int {
	if n, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return n
	}
	return defaultVal
}

func getFloat(key string, defaultVal float64) float64 {
	if f, err := strconv.ParseFloat(os.Getenv(key), 64); err == nil {
		return f
	}
	return defaultVal
}

func getBool(key string, defaultVal bool) bool {
	if b, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return b
	}
	return defaultVal
}

func getDuration(key string, defaultVal time.Duration) time.Duration {
	if d, err := time.ParseDuration(os.Getenv(key)); err == nil && d > 0 {
		return d
	}
	return defaultVal
}
