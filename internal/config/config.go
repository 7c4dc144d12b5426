package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port              string
	DBURL             string
	RedisURL          string
	ScanInterval      time.Duration
	NearbyRadiusM     float64
	WorkerConcurrency int
	RateLimitRPS      float64
	RateLimitBurst    int
	CORSOrigins       []string
	GinMode           string
}

func Load() *Config {
	return &Config{
		Port:              envOrDefault("PORT", "8000"),
		DBURL:             os.Getenv("DB_URL"),
		RedisURL:          envOrDefault("REDIS_URL", "redis://localhost:6379/0"),
		ScanInterval:      time.Duration(envOrDefaultInt("SCAN_INTERVAL_SECONDS", 60)) * time.Second,
		NearbyRadiusM:     envOrDefaultFloat("NEARBY_RADIUS_METERS", 100),
		WorkerConcurrency: envOrDefaultInt("WORKER_CONCURRENCY", 10),
		RateLimitRPS:      envOrDefaultFloat("RATE_LIMIT_RPS", 20),
		RateLimitBurst:    envOrDefaultInt("RATE_LIMIT_BURST", 40),
		CORSOrigins:       splitCSV(os.Getenv("CORS_ORIGINS")),
		GinMode:           envOrDefault("GIN_MODE", "release"),
	}
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envOrDefaultInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return i
}

func envOrDefaultFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}

func splitCSV(v string) []string {
	if strings.TrimSpace(v) == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
