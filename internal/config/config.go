package config

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Config holds the overall configuration for the application.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Storage  StorageConfig  `yaml:"storage"`
	Demo     DemoConfig     `yaml:"demo"`
	Ledger   LedgerConfig   `yaml:"ledger"`
	Onramp   OnrampConfig   `yaml:"onramp"`
	Jupiter  JupiterConfig  `yaml:"jupiter"`
	PriceSvc PriceSvcConfig `yaml:"priceService"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ServerConfig holds the server-specific configuration.
type ServerConfig struct {
	Port         string `yaml:"port"`
	ReadTimeout  int    `yaml:"readTimeout"`
	WriteTimeout int    `yaml:"writeTimeout"`
	IdleTimeout  int    `yaml:"idleTimeout"`
}

// StorageConfig holds the local snapshot storage configuration.
type StorageConfig struct {
	Dir string `yaml:"dir"`
	Key string `yaml:"key"`
}

// DemoConfig controls the demo-enablement flag and seeding.
type DemoConfig struct {
	Enabled bool   `yaml:"enabled"`
	Minimal bool   `yaml:"minimal"`
	Seed    string `yaml:"seed"`
	// SimulatedDelayMs is applied to onboarding actions for UX realism.
	SimulatedDelayMs int64 `yaml:"simulatedDelayMs"`
}

// LedgerConfig holds ledger tunables.
type LedgerConfig struct {
	SwapFeeRate float64 `yaml:"swapFeeRate"`
}

// OnrampConfig bounds on-ramp submissions in fiat units.
type OnrampConfig struct {
	MinAmount float64 `yaml:"minAmount"`
	MaxAmount float64 `yaml:"maxAmount"`
	// ProcessingFeeRate is quoted in the payment callback breakdown.
	ProcessingFeeRate float64 `yaml:"processingFeeRate"`
}

// JupiterConfig holds the configuration for the Jupiter lite API client.
type JupiterConfig struct {
	BaseURL              string  `yaml:"baseURL"`
	RequestTimeoutMillis int64   `yaml:"requestTimeoutMillis"`
	RatePerSecond        float64 `yaml:"ratePerSecond"`
	Burst                int     `yaml:"burst"`
}

// PriceSvcConfig holds configuration for the TokenPriceService.
type PriceSvcConfig struct {
	CacheTTLMinutes      int   `yaml:"cacheTTLMinutes"`
	RequestTimeoutMillis int64 `yaml:"requestTimeoutMillis"`
	RefreshOnStartup     bool  `yaml:"refreshOnStartup"`
}

// LoggingConfig holds the configuration for logging.
type LoggingConfig struct {
	Level string `yaml:"level"` // e.g., "debug", "info", "warn", "error"
	File  string `yaml:"file"`
}

// LoadConfig loads configuration from a YAML file and applies defaults.
func LoadConfig(path string) (*Config, error) {
	logrus.Infof("Loading configuration from path: %s", path)
	data, err := os.ReadFile(path)
	if err != nil {
		logrus.Errorf("Failed to read config file %s: %v", path, err)
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		logrus.Errorf("Failed to unmarshal config data from %s: %v", path, err)
		return nil, fmt.Errorf("failed to unmarshal config data from %s: %w", path, err)
	}

	cfg.applyDefaults()
	logrus.Info("Configuration loaded successfully.")
	return &cfg, nil
}

// Default returns a usable configuration without a file, mostly for tests
// and first runs.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Server.Port == "" {
		c.Server.Port = ":8080"
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 10
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 10
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = 60
	}

	if c.Storage.Dir == "" {
		c.Storage.Dir = "data"
	}
	// Storage.Key empty means the fixed default key; resolved by storage.

	if c.Demo.Seed == "" {
		c.Demo.Seed = "lazorkit-demo-seed"
	}

	if c.Ledger.SwapFeeRate <= 0 || c.Ledger.SwapFeeRate >= 1 {
		if c.Ledger.SwapFeeRate != 0 {
			logrus.Warnf("Invalid swapFeeRate %v, defaulting to 0.05", c.Ledger.SwapFeeRate)
		}
		c.Ledger.SwapFeeRate = 0.05
	}

	if c.Onramp.MinAmount <= 0 {
		c.Onramp.MinAmount = 20
	}
	if c.Onramp.MaxAmount <= 0 {
		c.Onramp.MaxAmount = 500
	}
	if c.Onramp.ProcessingFeeRate <= 0 {
		c.Onramp.ProcessingFeeRate = 0.029
	}

	if c.Jupiter.BaseURL == "" {
		c.Jupiter.BaseURL = "https://lite-api.jup.ag"
		logrus.Infof("Jupiter.BaseURL not set, defaulting to %s", c.Jupiter.BaseURL)
	}
	if c.Jupiter.RequestTimeoutMillis == 0 {
		c.Jupiter.RequestTimeoutMillis = 10000
	}
	if c.Jupiter.RatePerSecond == 0 {
		c.Jupiter.RatePerSecond = 5
	}
	if c.Jupiter.Burst == 0 {
		c.Jupiter.Burst = 5
	}

	if c.PriceSvc.CacheTTLMinutes == 0 {
		c.PriceSvc.CacheTTLMinutes = 5
		logrus.Infof("CacheTTLMinutes for PriceSvc not set, defaulting to %d minutes", c.PriceSvc.CacheTTLMinutes)
	}
	if c.PriceSvc.RequestTimeoutMillis == 0 {
		if c.Jupiter.RequestTimeoutMillis != 0 {
			c.PriceSvc.RequestTimeoutMillis = c.Jupiter.RequestTimeoutMillis
		} else {
			c.PriceSvc.RequestTimeoutMillis = 10000
		}
	}

	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
}
