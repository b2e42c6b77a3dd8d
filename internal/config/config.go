package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	APIBaseURL   string
	StateDir     string
	PollInterval time.Duration
	MetricsAddr  string
}

// configFile is the YAML shape; durations are strings like "30s".
type configFile struct {
	APIBaseURL   string `yaml:"api_base_url"`
	StateDir     string `yaml:"state_dir"`
	PollInterval string `yaml:"poll_interval"`
	MetricsAddr  string `yaml:"metrics_addr"`
}

// Load resolves configuration in increasing precedence: defaults, the YAML
// config file, then environment variables (a .env file is folded into the
// environment first). A missing config file or .env is fine.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		APIBaseURL:   "http://localhost:8000",
		PollInterval: 10 * time.Second,
		MetricsAddr:  ":9464",
	}

	configDir, err := os.UserConfigDir()
	if err == nil {
		cfg.StateDir = filepath.Join(configDir, "campusbites", "state")

		path := filepath.Join(configDir, "campusbites", "config.yaml")
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("read config file: %w", err)
		default:
			var file configFile
			if err := yaml.Unmarshal(data, &file); err != nil {
				return nil, fmt.Errorf("parse %s: %w", path, err)
			}
			if file.APIBaseURL != "" {
				cfg.APIBaseURL = file.APIBaseURL
			}
			if file.StateDir != "" {
				cfg.StateDir = file.StateDir
			}
			if file.PollInterval != "" {
				interval, err := time.ParseDuration(file.PollInterval)
				if err != nil {
					return nil, fmt.Errorf("parse poll_interval in %s: %w", path, err)
				}
				cfg.PollInterval = interval
			}
			if file.MetricsAddr != "" {
				cfg.MetricsAddr = file.MetricsAddr
			}
		}
	}

	if v := os.Getenv("CAMPUSBITES_API_URL"); v != "" {
		cfg.APIBaseURL = v
	}
	if v := os.Getenv("CAMPUSBITES_STATE_DIR"); v != "" {
		cfg.StateDir = v
	}
	if v := os.Getenv("CAMPUSBITES_POLL_INTERVAL"); v != "" {
		interval, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("parse CAMPUSBITES_POLL_INTERVAL: %w", err)
		}
		cfg.PollInterval = interval
	}
	if v := os.Getenv("CAMPUSBITES_METRICS_ADDR"); v != "" {
		cfg.MetricsAddr = v
	}

	if cfg.StateDir == "" {
		return nil, errors.New("state dir is not set and no user config dir is available")
	}

	return cfg, nil
}
