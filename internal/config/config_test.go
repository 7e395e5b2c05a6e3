package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Addr() != ":8000" {
		t.Errorf("Addr = %q, want :8000", cfg.Addr())
	}
	if !cfg.IsDevelopment() || cfg.LogFormat != "text" || cfg.LogLevel != "info" {
		t.Errorf("unexpected logging defaults: %+v", cfg)
	}
	if cfg.MaxUploadBytes != 0 || cfg.ReadTimeout != 0 || cfg.WriteTimeout != 0 {
		t.Errorf("streaming limits should default to unlimited: %+v", cfg)
	}
	if cfg.ShutdownTimeout != 15*time.Second {
		t.Errorf("ShutdownTimeout = %v", cfg.ShutdownTimeout)
	}
	if !reflect.DeepEqual(cfg.CORSAllowedOrigins, []string{"*"}) {
		t.Errorf("CORSAllowedOrigins = %v", cfg.CORSAllowedOrigins)
	}
	if cfg.SpoolDir != filepath.Clean(os.TempDir()) {
		t.Errorf("SpoolDir = %q", cfg.SpoolDir)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	chdir(t, t.TempDir())
	spool := t.TempDir()
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("APP_ENV", "production")
	t.Setenv("MAX_UPLOAD_BYTES", "1048576")
	t.Setenv("SPOOL_DIR", spool)
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.example, http://b.example")
	t.Setenv("WRITE_TIMEOUT", "2m")

	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.ServerPort != "9090" || cfg.MaxUploadBytes != 1<<20 || cfg.SpoolDir != spool {
		t.Errorf("env overrides not applied: %+v", cfg)
	}
	if cfg.LogFormat != "json" {
		t.Errorf("production should default to json logs, got %q", cfg.LogFormat)
	}
	if cfg.WriteTimeout != 2*time.Minute {
		t.Errorf("WriteTimeout = %v", cfg.WriteTimeout)
	}
	want := []string{"http://a.example", "http://b.example"}
	if !reflect.DeepEqual(cfg.CORSAllowedOrigins, want) {
		t.Errorf("CORSAllowedOrigins = %v, want %v", cfg.CORSAllowedOrigins, want)
	}
}

func TestLoadEnvFileAndFlags(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	envFile := filepath.Join(dir, "relay.env")
	if err := os.WriteFile(envFile, []byte("SERVER_PORT=7000\nLOG_LEVEL=debug\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load([]string{"--config", envFile, "--port", "7100", "--cors-origin", "http://c.example"})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.ServerPort != "7100" {
		t.Errorf("flag should win over env file, got port %q", cfg.ServerPort)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("env file value missing, got level %q", cfg.LogLevel)
	}
	if !reflect.DeepEqual(cfg.CORSAllowedOrigins, []string{"http://c.example"}) {
		t.Errorf("CORSAllowedOrigins = %v", cfg.CORSAllowedOrigins)
	}
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		args []string
	}{
		{"empty port", nil, []string{"--port="}},
		{"negative cap", map[string]string{"MAX_UPLOAD_BYTES": "-1"}, nil},
		{"missing spool dir", map[string]string{"SPOOL_DIR": "/does/not/exist"}, nil},
		{"missing explicit config", nil, []string{"--config", "/does/not/exist.env"}},
		{"unknown flag", nil, []string{"--nope"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chdir(t, t.TempDir())
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if _, err := Load(tt.args); err == nil {
				t.Error("expected error")
			}
		})
	}
}

// chdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatal(err)
		}
	})
}
