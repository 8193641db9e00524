// cliparse/cliparse_test.go
package cliparse

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// clearEnv blanks every variable ParseFlags reads for the duration of the test
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"PORT", "DATABASE_URL", "DATABASE_TYPE", "ROUND_DURATION",
		"ROOM_IDLE_TIMEOUT", "DISCARD_STALE_ROUNDS", "ALLOWED_ORIGIN", "PUBLIC_URL",
	} {
		t.Setenv(k, "")
	}
}

func TestParseFlags_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := ParseFlags([]string{})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Port != DefaultPort {
		t.Errorf("expected port %d, got %d", DefaultPort, cfg.Port)
	}
	if cfg.RoundDuration != 10*time.Second {
		t.Errorf("expected 10s rounds, got %v", cfg.RoundDuration)
	}
	if cfg.RoomIdleTimeout != 0 {
		t.Errorf("rooms should never be reaped by default, got %v", cfg.RoomIdleTimeout)
	}
	if cfg.DiscardStaleRounds {
		t.Error("stale rounds should resolve by default")
	}
	if cfg.AllowedOrigin != "*" {
		t.Errorf("expected origin *, got %q", cfg.AllowedOrigin)
	}
	if cfg.DatabaseType != DatabaseSQLite {
		t.Errorf("expected sqlite, got %q", cfg.DatabaseType)
	}
	if cfg.HistoryEnabled() {
		t.Error("history should be disabled without a database URL")
	}
}

func TestParseFlags_EnvVars(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("DATABASE_URL", "postgres://test")
	t.Setenv("DATABASE_TYPE", "postgres")
	t.Setenv("ROUND_DURATION", "3s")
	t.Setenv("ROOM_IDLE_TIMEOUT", "1h")
	t.Setenv("DISCARD_STALE_ROUNDS", "true")

	cfg, err := ParseFlags([]string{})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Port != 9000 {
		t.Errorf("expected port 9000, got %d", cfg.Port)
	}
	if cfg.RoundDuration != 3*time.Second {
		t.Errorf("expected 3s rounds, got %v", cfg.RoundDuration)
	}
	if cfg.RoomIdleTimeout != time.Hour {
		t.Errorf("expected 1h idle timeout, got %v", cfg.RoomIdleTimeout)
	}
	if !cfg.DiscardStaleRounds {
		t.Error("expected DiscardStaleRounds from env")
	}
	if !cfg.HistoryEnabled() {
		t.Error("expected history enabled")
	}
}

func TestParseFlags_CLIOverridesEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("ROUND_DURATION", "3s")

	cfg, err := ParseFlags([]string{"-p", "8080", "-round", "250ms", "-origin", "https://example.com"})
	if err != nil {
		t.Fatal(err)
	}

	// CLI should override env
	if cfg.Port != 8080 {
		t.Errorf("CLI should override env: expected 8080, got %d", cfg.Port)
	}
	if cfg.RoundDuration != 250*time.Millisecond {
		t.Errorf("CLI should override env: expected 250ms, got %v", cfg.RoundDuration)
	}
	if cfg.AllowedOrigin != "https://example.com" {
		t.Errorf("unexpected origin %q", cfg.AllowedOrigin)
	}
}

func TestParseFlags_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		args []string
	}{
		{"bad port env", map[string]string{"PORT": "abc"}, nil},
		{"bad round env", map[string]string{"ROUND_DURATION": "soon"}, nil},
		{"negative round", nil, []string{"-round", "-1s"}},
		{"negative ttl", nil, []string{"-room-ttl", "-5m"}},
		{"unknown db type", nil, []string{"-t", "mysql"}},
		{"bad discard flag", nil, []string{"-discard-stale", "maybe"}},
		{"unknown flag", nil, []string{"-nope"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if _, err := ParseFlags(tt.args); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestLoadEnvFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("ROUND_DURATION=7s\nPORT=4100\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	// godotenv does not override variables that are already set,
	// and clearEnv set them to "", so unset them for this test.
	os.Unsetenv("ROUND_DURATION")
	os.Unsetenv("PORT")
	t.Cleanup(func() {
		os.Unsetenv("ROUND_DURATION")
		os.Unsetenv("PORT")
	})

	if err := LoadEnvFile(path); err != nil {
		t.Fatal(err)
	}

	cfg, err := ParseFlags(nil)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.RoundDuration != 7*time.Second {
		t.Errorf("expected 7s from .env, got %v", cfg.RoundDuration)
	}
	if cfg.Port != 4100 {
		t.Errorf("expected port 4100 from .env, got %d", cfg.Port)
	}
}

func TestLoadEnvFile_Missing(t *testing.T) {
	if err := LoadEnvFile(filepath.Join(t.TempDir(), "nope.env")); err != nil {
		t.Errorf("missing .env should not be an error, got %v", err)
	}
}
