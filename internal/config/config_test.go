package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/PraneethJain/simplipy-backend/internal/config"
)

const testCfg = `{
  "server": {
    "port": 8080,
    "read_timeout": "10s",
    "shutdown_timeout": "5s",
    "max_body_bytes": 65536
  },
  "db": {
    "driver": "pgx",
    "ping_timeout": "5s"
  },
  "jwt": {
    "jti_length": 16,
    "issuer": "simplipy-backend",
    "ttl": "24h"
  },
  "session": {
    "max_sessions": 100,
    "idle_ttl": "1h",
    "reap_interval": "5m"
  }
}`

func writeCfg(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestNew(t *testing.T) {
	cfg, err := config.New(writeCfg(t, testCfg))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if got, want := cfg.Server.Port, 8080; got != want {
		t.Errorf("server port = %d, want %d", got, want)
	}
	if got, want := cfg.Server.ReadTimeout.Duration, 10*time.Second; got != want {
		t.Errorf("read timeout = %v, want %v", got, want)
	}
	if got, want := cfg.DB.Driver, "pgx"; got != want {
		t.Errorf("db driver = %q, want %q", got, want)
	}
	if got, want := cfg.JWT.TTL.Duration, 24*time.Hour; got != want {
		t.Errorf("jwt ttl = %v, want %v", got, want)
	}
	if got, want := cfg.Session.MaxSessions, 100; got != want {
		t.Errorf("max sessions = %d, want %d", got, want)
	}
	if got, want := cfg.Session.ReapInterval.Duration, 5*time.Minute; got != want {
		t.Errorf("reap interval = %v, want %v", got, want)
	}
}

func TestNew_EnvOverridesPort(t *testing.T) {
	t.Setenv("PORT", "9090")

	cfg, err := config.New(writeCfg(t, testCfg))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if got, want := cfg.Server.Port, 9090; got != want {
		t.Errorf("server port = %d, want %d", got, want)
	}
}

func TestNew_BadPortEnv(t *testing.T) {
	t.Setenv("PORT", "not-a-number")

	if _, err := config.New(writeCfg(t, testCfg)); err == nil {
		t.Error("New: want error for non-numeric PORT, got nil")
	}
}

func TestNew_MissingFile(t *testing.T) {
	if _, err := config.New(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Error("New: want error for missing file, got nil")
	}
}

func TestNew_MalformedJSON(t *testing.T) {
	if _, err := config.New(writeCfg(t, "{not json")); err == nil {
		t.Error("New: want error for malformed json, got nil")
	}
}
