package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"

	"github.com/avstrong/stayhub/internal/logger"
)

type Config struct {
	Host              string
	Port              string
	ReadHeaderTimeout time.Duration
	LivenessEndpoint  string

	BackendURL     string
	BackendTimeout time.Duration

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CacheTTL      time.Duration

	// RateLimit uses the limiter format, e.g. "30-M".
	RateLimit string

	Currency currency.Unit
	Locale   language.Tag

	Log logger.Config
}

// Load reads an optional .env file and then the process environment.
func Load(files ...string) (*Config, error) {
	if err := godotenv.Load(files...); err != nil && len(files) > 0 {
		return nil, fmt.Errorf("load env files %v: %w", files, err)
	}

	return fromEnv()
}

//nolint:gomnd
func fromEnv() (*Config, error) {
	var err error

	conf := &Config{
		Host:             getEnv("HOST", "localhost"),
		Port:             getEnv("PORT", "8092"),
		LivenessEndpoint: getEnv("LIVENESS_ENDPOINT", "/liveness"),
		BackendURL:       getEnv("STAYHUB_API_URL", "http://localhost:8080/api/v1"),
		RedisAddr:        os.Getenv("REDIS_ADDR"),
		RedisPassword:    os.Getenv("REDIS_PASSWORD"),
		RateLimit:        getEnv("RATE_LIMIT", "60-M"),
		Log: logger.Config{
			Level:      getEnv("LOG_LEVEL", "info"),
			Format:     getEnv("LOG_FORMAT", "text"),
			File:       os.Getenv("LOG_FILE"),
			MaxSizeMB:  100,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
	}

	if conf.ReadHeaderTimeout, err = getDuration("READ_HEADER_TIMEOUT", 20*time.Second); err != nil {
		return nil, err
	}

	if conf.BackendTimeout, err = getDuration("STAYHUB_API_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}

	if conf.CacheTTL, err = getDuration("CACHE_TTL", 5*time.Minute); err != nil {
		return nil, err
	}

	if conf.RedisDB, err = strconv.Atoi(getEnv("REDIS_DB", "0")); err != nil {
		return nil, fmt.Errorf("parse REDIS_DB: %w", err)
	}

	if conf.Currency, err = currency.ParseISO(getEnv("CURRENCY", "COP")); err != nil {
		return nil, fmt.Errorf("parse CURRENCY: %w", err)
	}

	if conf.Locale, err = language.Parse(getEnv("LOCALE", "es-CO")); err != nil {
		return nil, fmt.Errorf("parse LOCALE: %w", err)
	}

	return conf, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}

	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}

	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}

	return d, nil
}
