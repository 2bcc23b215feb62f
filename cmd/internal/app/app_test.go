package app

import (
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, key := range []string{
		"PAGO_HTTP_ADDR", "PAGO_LOG_LEVEL", "PAGO_MONGO_URI", "PAGO_MONGO_DB",
		"PAGO_READINESS_REQUIRE_DB", "PAGO_REQUIRE_TOKEN_SECRET",
	} {
		t.Setenv(key, "")
	}

	cfg := LoadConfig()
	if cfg.HTTPAddr != "0.0.0.0:8080" {
		t.Fatalf("HTTPAddr = %q", cfg.HTTPAddr)
	}
	if cfg.MongoURI != "" || cfg.MongoDatabase != "pago" {
		t.Fatalf("mongo defaults: uri=%q db=%q", cfg.MongoURI, cfg.MongoDatabase)
	}
	if cfg.ReadinessRequireDB || cfg.RequireTokenSecret {
		t.Fatalf("policy flags should default to false: %+v", cfg)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("PAGO_HTTP_ADDR", "127.0.0.1:9999")
	t.Setenv("PAGO_HTTP_READ_TIMEOUT", "30s")
	t.Setenv("PAGO_MONGO_URI", "mongodb://localhost:27017")
	t.Setenv("PAGO_MONGO_DB", "pago_test")
	t.Setenv("PAGO_REQUIRE_TOKEN_SECRET", "true")

	cfg := LoadConfig()
	if cfg.HTTPAddr != "127.0.0.1:9999" {
		t.Fatalf("HTTPAddr = %q", cfg.HTTPAddr)
	}
	if cfg.ReadTimeout != 30*time.Second {
		t.Fatalf("ReadTimeout = %v", cfg.ReadTimeout)
	}
	if cfg.MongoURI != "mongodb://localhost:27017" || cfg.MongoDatabase != "pago_test" {
		t.Fatalf("mongo overrides not applied: %+v", cfg)
	}
	if !cfg.RequireTokenSecret {
		t.Fatal("RequireTokenSecret should be true")
	}
}

func TestValidateSecurityConfig(t *testing.T) {
	t.Run("policy off", func(t *testing.T) {
		t.Setenv("PAGO_TOKEN_SECRET", "")
		if err := ValidateSecurityConfig(Config{RequireTokenSecret: false}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("policy on, secret missing", func(t *testing.T) {
		t.Setenv("PAGO_TOKEN_SECRET", "")
		if err := ValidateSecurityConfig(Config{RequireTokenSecret: true}); err == nil {
			t.Fatal("expected error for missing secret")
		}
	})

	t.Run("policy on, secret too short", func(t *testing.T) {
		t.Setenv("PAGO_TOKEN_SECRET", "short")
		if err := ValidateSecurityConfig(Config{RequireTokenSecret: true}); err == nil {
			t.Fatal("expected error for short secret")
		}
	})

	t.Run("policy on, secret ok", func(t *testing.T) {
		t.Setenv("PAGO_TOKEN_SECRET", "0123456789abcdef0123456789abcdef")
		if err := ValidateSecurityConfig(Config{RequireTokenSecret: true}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}

func TestNonZeroHelpers(t *testing.T) {
	if got := nonZeroDuration(0, 5*time.Second); got != 5*time.Second {
		t.Fatalf("nonZeroDuration(0)=%v", got)
	}
	if got := nonZeroDuration(2*time.Second, 5*time.Second); got != 2*time.Second {
		t.Fatalf("nonZeroDuration(2s)=%v", got)
	}
	if got := nonZeroInt(0, 7); got != 7 {
		t.Fatalf("nonZeroInt(0)=%d", got)
	}
	if got := nonZeroInt(3, 7); got != 3 {
		t.Fatalf("nonZeroInt(3)=%d", got)
	}
}
