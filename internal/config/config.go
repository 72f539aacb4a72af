package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the gateway's externally supplied configuration. Everything
// here has a documented default so the pipeline runs without a file.
type Config struct {
	Paths struct {
		InputFolder   string `yaml:"input_folder"`
		OutputFolder  string `yaml:"output_folder"`
		ReportsFolder string `yaml:"reports_folder"`
	} `yaml:"paths"`

	Station struct {
		Name string `yaml:"name"`
	} `yaml:"station"`

	Pipeline struct {
		// MaxFiles caps a run; 0 processes every discovered record.
		MaxFiles int `yaml:"max_files"`

		Retry struct {
			MaxAttempts int     `yaml:"max_attempts"`
			BaseDelayS  float64 `yaml:"base_delay_s"`
			MaxDelayS   float64 `yaml:"max_delay_s"`
		} `yaml:"retry"`

		// FailureRate is the simulated per-attempt drop probability.
		FailureRate float64 `yaml:"failure_rate"`
	} `yaml:"pipeline"`

	Transport struct {
		// Mode selects the transport: "simulate" or "minio".
		Mode string `yaml:"mode"`

		Minio struct {
			Endpoint  string `yaml:"endpoint"`
			AccessKey string `yaml:"accessKey"`
			SecretKey string `yaml:"secretKey"`
			Bucket    string `yaml:"bucket"`
			Region    string `yaml:"region"`
			UseSSL    bool   `yaml:"useSSL"`
		} `yaml:"minio"`
	} `yaml:"transport"`

	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
}

// Default returns the built-in configuration.
func Default() Config {
	var c Config
	c.Paths.InputFolder = "data/raw"
	c.Paths.OutputFolder = "data/processed"
	c.Paths.ReportsFolder = "reports"
	c.Station.Name = "REMOTE_MOBILE_01"
	c.Pipeline.MaxFiles = 0
	c.Pipeline.Retry.MaxAttempts = 5
	c.Pipeline.Retry.BaseDelayS = 1.0
	c.Pipeline.Retry.MaxDelayS = 30.0
	c.Pipeline.FailureRate = 0.3
	c.Transport.Mode = "simulate"
	c.Transport.Minio.Bucket = "medcloud-scans"
	c.Log.Level = "info"
	return c
}

// Load reads a YAML config file and merges it over the defaults. A missing
// file is not an error: the defaults are returned as-is.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("could not read config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("could not parse config: %w", err)
	}

	return cfg, nil
}

// Validate rejects out-of-range tuning values before any record is
// processed.
func (c Config) Validate() error {
	if c.Pipeline.Retry.MaxAttempts < 1 {
		return fmt.Errorf("config: retry max_attempts must be at least 1, got %d", c.Pipeline.Retry.MaxAttempts)
	}
	if c.Pipeline.Retry.BaseDelayS < 0 {
		return fmt.Errorf("config: retry base_delay_s must not be negative, got %g", c.Pipeline.Retry.BaseDelayS)
	}
	if c.Pipeline.Retry.MaxDelayS < 0 {
		return fmt.Errorf("config: retry max_delay_s must not be negative, got %g", c.Pipeline.Retry.MaxDelayS)
	}
	if c.Pipeline.FailureRate < 0 || c.Pipeline.FailureRate > 1 {
		return fmt.Errorf("config: failure_rate must be in [0,1], got %g", c.Pipeline.FailureRate)
	}
	if c.Pipeline.MaxFiles < 0 {
		return fmt.Errorf("config: max_files must not be negative, got %d", c.Pipeline.MaxFiles)
	}
	switch c.Transport.Mode {
	case "simulate", "minio":
	default:
		return fmt.Errorf("config: unknown transport mode %q", c.Transport.Mode)
	}
	return nil
}

// BaseDelay returns the retry base delay as a duration.
func (c Config) BaseDelay() time.Duration {
	return time.Duration(c.Pipeline.Retry.BaseDelayS * float64(time.Second))
}

// MaxDelay returns the retry delay cap as a duration.
func (c Config) MaxDelay() time.Duration {
	return time.Duration(c.Pipeline.Retry.MaxDelayS * float64(time.Second))
}
