package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "REDIS_URL", "SCAN_INTERVAL_SECONDS", "NEARBY_RADIUS_METERS", "CORS_ORIGINS"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	if cfg.Port != "8000" {
		t.Errorf("Port = %q", cfg.Port)
	}
	if cfg.RedisURL != "redis://localhost:6379/0" {
		t.Errorf("RedisURL = %q", cfg.RedisURL)
	}
	if cfg.ScanInterval != 60*time.Second {
		t.Errorf("ScanInterval = %v", cfg.ScanInterval)
	}
	if cfg.NearbyRadiusM != 100 {
		t.Errorf("NearbyRadiusM = %v", cfg.NearbyRadiusM)
	}
	if cfg.CORSOrigins != nil {
		t.Errorf("CORSOrigins = %v", cfg.CORSOrigins)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9001")
	t.Setenv("SCAN_INTERVAL_SECONDS", "5")
	t.Setenv("NEARBY_RADIUS_METERS", "250.5")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example ,")

	cfg := Load()
	if cfg.Port != "9001" {
		t.Errorf("Port = %q", cfg.Port)
	}
	if cfg.ScanInterval != 5*time.Second {
		t.Errorf("ScanInterval = %v", cfg.ScanInterval)
	}
	if cfg.NearbyRadiusM != 250.5 {
		t.Errorf("NearbyRadiusM = %v", cfg.NearbyRadiusM)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[0] != "https://a.example" || cfg.CORSOrigins[1] != "https://b.example" {
		t.Errorf("CORSOrigins = %v", cfg.CORSOrigins)
	}
}

func TestLoadIgnoresMalformedNumbers(t *testing.T) {
	t.Setenv("SCAN_INTERVAL_SECONDS", "soon")
	t.Setenv("NEARBY_RADIUS_METERS", "wide")

	cfg := Load()
	if cfg.ScanInterval != 60*time.Second {
		t.Errorf("ScanInterval = %v, want default", cfg.ScanInterval)
	}
	if cfg.NearbyRadiusM != 100 {
		t.Errorf("NearbyRadiusM = %v, want default", cfg.NearbyRadiusM)
	}
}
