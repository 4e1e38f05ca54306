package config

import (
	"context"
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
)

var validSecret = base64.StdEncoding.EncodeToString([]byte(strings.Repeat("x", 32)))

func TestLoadWith_Defaults(t *testing.T) {
	cfg, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET": validSecret,
	}))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Port != "8080" || cfg.StorageDriver != DriverPostgres || cfg.LogLevel != "info" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.TokenTTL() != 7*24*time.Hour {
		t.Fatalf("expected a 7 day token ttl, got %s", cfg.TokenTTL())
	}
	if cfg.Login.MaxAttempts != 5 || cfg.Login.LockoutWindow != 15*time.Minute {
		t.Fatalf("unexpected login defaults: %+v", cfg.Login)
	}
	if cfg.Redis.Addr != "" {
		t.Fatalf("redis must be opt-in, got %q", cfg.Redis.Addr)
	}
	if cfg.Bootstrap.Enabled() {
		t.Fatalf("bootstrap must be disabled by default")
	}
	key, err := cfg.SigningKey()
	if err != nil || len(key) != 32 {
		t.Fatalf("unexpected signing key: %v (%d bytes)", err, len(key))
	}
}

func TestLoadWith_Overrides(t *testing.T) {
	cfg, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET":               validSecret,
		"JWT_EXPIRATION_MS":        "1500",
		"STORAGE_DRIVER":           "memory",
		"LOGIN_MAX_ATTEMPTS":       "0",
		"LOGIN_LOCKOUT_WINDOW":     "1h",
		"AUDIT_WORKERS":            "2",
		"BOOTSTRAP_ADMIN_USERNAME": "root",
		"BOOTSTRAP_ADMIN_EMAIL":    "root@example.com",
		"BOOTSTRAP_ADMIN_PASSWORD": "changeme",
	}))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.TokenTTL() != 1500*time.Millisecond {
		t.Fatalf("unexpected ttl: %s", cfg.TokenTTL())
	}
	if cfg.StorageDriver != DriverMemory || cfg.Audit.Workers != 2 || cfg.Login.LockoutWindow != time.Hour {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	if !cfg.Bootstrap.Enabled() {
		t.Fatalf("bootstrap should be enabled")
	}
}

func TestLoadWith_Invalid(t *testing.T) {
	cases := map[string]map[string]string{
		"missing secret": {},
		"short secret":   {"JWT_SECRET": base64.StdEncoding.EncodeToString([]byte("short"))},
		"bad ttl":        {"JWT_SECRET": validSecret, "JWT_EXPIRATION_MS": "0"},
		"bad driver":     {"JWT_SECRET": validSecret, "STORAGE_DRIVER": "sqlite"},
		"bad attempts":   {"JWT_SECRET": validSecret, "LOGIN_MAX_ATTEMPTS": "-1"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := LoadWith(context.Background(), envconfig.MapLookuper(env)); err == nil {
				t.Fatalf("expected an error")
			}
		})
	}
}
