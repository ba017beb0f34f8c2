package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/saulo-duarte/mockprep/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	dir := t.TempDir()

	cfg, err := config.Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Mode != config.ProductionMode {
		t.Errorf("expected production mode, got %q", cfg.Mode)
	}
	if cfg.RequestTimeout != 15*time.Second {
		t.Errorf("expected 15s timeout, got %v", cfg.RequestTimeout)
	}
	if cfg.ThumbnailSize != 320 {
		t.Errorf("expected thumbnail size 320, got %d", cfg.ThumbnailSize)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Run("EnvOverridesDefaults", func(t *testing.T) {
		t.Setenv("MOCKPREP_API_BASE_URL", "https://api.example.test")
		t.Setenv("MOCKPREP_MODE", "debug")

		cfg, err := config.Load(t.TempDir())
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if cfg.APIBaseURL != "https://api.example.test" {
			t.Errorf("env override ignored, got %q", cfg.APIBaseURL)
		}
		if !cfg.IsDebugMode() {
			t.Error("expected debug mode")
		}
	})

	t.Run("FileOverridesDefaults", func(t *testing.T) {
		dir := t.TempDir()
		body := "LISTEN_ADDR: \":9999\"\nSTALE_POLICY: latest-dispatch\n"
		if err := os.WriteFile(filepath.Join(dir, "mockprep.yaml"), []byte(body), 0o600); err != nil {
			t.Fatal(err)
		}

		cfg, err := config.Load(dir)
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if cfg.ListenAddr != ":9999" {
			t.Errorf("expected :9999, got %q", cfg.ListenAddr)
		}
		if cfg.StalePolicy != "latest-dispatch" {
			t.Errorf("expected latest-dispatch, got %q", cfg.StalePolicy)
		}
	})

	t.Run("InvalidMode", func(t *testing.T) {
		t.Setenv("MOCKPREP_MODE", "staging")

		if _, err := config.Load(t.TempDir()); err == nil {
			t.Error("expected an error for an unknown mode")
		}
	})
}
