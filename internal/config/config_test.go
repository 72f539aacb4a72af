package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "config.yaml"))
	if err != nil {
		t.Fatalf("Load on a missing file returned error: %v", err)
	}

	if cfg.Paths.InputFolder != "data/raw" {
		t.Errorf("input_folder = %q, want data/raw", cfg.Paths.InputFolder)
	}
	if cfg.Station.Name != "REMOTE_MOBILE_01" {
		t.Errorf("station name = %q, want REMOTE_MOBILE_01", cfg.Station.Name)
	}
	if cfg.Pipeline.Retry.MaxAttempts != 5 {
		t.Errorf("max_attempts = %d, want 5", cfg.Pipeline.Retry.MaxAttempts)
	}
	if cfg.Pipeline.Retry.BaseDelayS != 1.0 || cfg.Pipeline.Retry.MaxDelayS != 30.0 {
		t.Errorf("retry delays = %g/%g, want 1.0/30.0",
			cfg.Pipeline.Retry.BaseDelayS, cfg.Pipeline.Retry.MaxDelayS)
	}
	if cfg.Pipeline.FailureRate != 0.3 {
		t.Errorf("failure_rate = %g, want 0.3", cfg.Pipeline.FailureRate)
	}
	if cfg.Transport.Mode != "simulate" {
		t.Errorf("transport mode = %q, want simulate", cfg.Transport.Mode)
	}
}

func TestLoadMergesFileOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte(`
station:
  name: TRUCK_42
pipeline:
  retry:
    max_attempts: 2
`)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Station.Name != "TRUCK_42" {
		t.Errorf("station name = %q, want TRUCK_42", cfg.Station.Name)
	}
	if cfg.Pipeline.Retry.MaxAttempts != 2 {
		t.Errorf("max_attempts = %d, want 2", cfg.Pipeline.Retry.MaxAttempts)
	}
	// Untouched sections keep their defaults.
	if cfg.Paths.OutputFolder != "data/processed" {
		t.Errorf("output_folder = %q, want data/processed", cfg.Paths.OutputFolder)
	}
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("pipeline: ["), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Load accepted malformed YAML")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"zero attempts", func(c *Config) { c.Pipeline.Retry.MaxAttempts = 0 }, true},
		{"negative base delay", func(c *Config) { c.Pipeline.Retry.BaseDelayS = -1 }, true},
		{"negative max delay", func(c *Config) { c.Pipeline.Retry.MaxDelayS = -0.5 }, true},
		{"failure rate above one", func(c *Config) { c.Pipeline.FailureRate = 1.5 }, true},
		{"failure rate negative", func(c *Config) { c.Pipeline.FailureRate = -0.1 }, true},
		{"failure rate one", func(c *Config) { c.Pipeline.FailureRate = 1.0 }, false},
		{"negative max files", func(c *Config) { c.Pipeline.MaxFiles = -1 }, true},
		{"unknown transport", func(c *Config) { c.Transport.Mode = "carrier-pigeon" }, true},
		{"minio transport", func(c *Config) { c.Transport.Mode = "minio" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
