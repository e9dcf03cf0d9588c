package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad_DefaultValues(t *testing.T) {
	os.Clearenv()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if cfg.Server.Port != "8080" {
		t.Errorf("Expected SERVER_PORT default '8080', got '%s'", cfg.Server.Port)
	}

	if cfg.Database.Host != "localhost" {
		t.Errorf("Expected DB_HOST default 'localhost', got '%s'", cfg.Database.Host)
	}

	if cfg.Database.Name != "homecare_db" {
		t.Errorf("Expected DB_NAME default 'homecare_db', got '%s'", cfg.Database.Name)
	}

	if cfg.Database.ConnMaxLifetime != time.Hour {
		t.Errorf("Expected DB_CONN_MAX_LIFETIME default 1h, got %v", cfg.Database.ConnMaxLifetime)
	}

	if !cfg.Auth.TrustHeaders {
		t.Error("Expected AUTH_TRUST_HEADERS default true")
	}

	if cfg.Log.Level != "info" {
		t.Errorf("Expected LOG_LEVEL default 'info', got '%s'", cfg.Log.Level)
	}

	if cfg.Metrics.Prefix != "homecare" {
		t.Errorf("Expected METRICS_PREFIX default 'homecare', got '%s'", cfg.Metrics.Prefix)
	}
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	os.Clearenv()
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("DB_MAX_OPEN_CONNS", "25")
	t.Setenv("AUTH_TRUST_HEADERS", "false")
	t.Setenv("DB_CONN_MAX_LIFETIME", "30m")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if cfg.Server.Port != "9090" {
		t.Errorf("Expected SERVER_PORT '9090', got '%s'", cfg.Server.Port)
	}

	if cfg.Database.MaxOpenConns != 25 {
		t.Errorf("Expected DB_MAX_OPEN_CONNS 25, got %d", cfg.Database.MaxOpenConns)
	}

	if cfg.Auth.TrustHeaders {
		t.Error("Expected AUTH_TRUST_HEADERS false")
	}

	if cfg.Database.ConnMaxLifetime != 30*time.Minute {
		t.Errorf("Expected DB_CONN_MAX_LIFETIME 30m, got %v", cfg.Database.ConnMaxLifetime)
	}
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	os.Clearenv()
	t.Setenv("DB_MAX_IDLE_CONNS", "not-a-number")
	t.Setenv("AUTH_TRUST_HEADERS", "not-a-bool")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if cfg.Database.MaxIdleConns != 10 {
		t.Errorf("Expected fallback DB_MAX_IDLE_CONNS 10, got %d", cfg.Database.MaxIdleConns)
	}

	if !cfg.Auth.TrustHeaders {
		t.Error("Expected fallback AUTH_TRUST_HEADERS true")
	}
}
