package workload

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

var ErrInvalidConfig = errors.New("workload: invalid config")

// Config describes one deterministic soak run against a head.
type Config struct {
	// Seed makes the run reproducible.
	Seed int64 `yaml:"seed"`
	// Nodes is the size of the caller-owned node pool.
	Nodes int `yaml:"nodes"`
	// Operations is the number of add or del steps.
	Operations int `yaml:"operations"`
	// ExpiryRange bounds expirations to [0, ExpiryRange). Small ranges force ties.
	ExpiryRange int64 `yaml:"expiry_range"`
	// DelRatio is the chance of removing a queued node instead of adding one.
	DelRatio float64 `yaml:"del_ratio"`
	// Augmented runs the head with a subtree-size augmentation.
	Augmented bool `yaml:"augmented"`
	// VerifyEvery runs a full structural check every n steps, zero disables it.
	VerifyEvery int `yaml:"verify_every"`

	LogPrefix string `yaml:"log_prefix"`
	LogDebug  bool   `yaml:"log_debug"`
}

func Default() *Config {
	return &Config{
		Seed:        1,
		Nodes:       1024,
		Operations:  100_000,
		ExpiryRange: 4096,
		DelRatio:    0.5,
		Augmented:   false,
		VerifyEvery: 1000,
		LogPrefix:   "soak",
		LogDebug:    false,
	}
}

// Load reads a YAML file on top of Default(). A missing file yields the defaults.
//
//	TIMERQUEUE_SEED overrides seed
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if err := applyEnv(cfg); err != nil {
				return nil, err
			}
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv("TIMERQUEUE_SEED"); v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("%w: TIMERQUEUE_SEED=%q is not an integer", ErrInvalidConfig, v)
		}
		cfg.Seed = seed
	}
	return nil
}

// Validate returns the first inconsistent value.
func (c *Config) Validate() error {
	if c.Nodes < 1 {
		return fmt.Errorf("%w: nodes must be at least 1", ErrInvalidConfig)
	}
	if c.Operations < 0 {
		return fmt.Errorf("%w: operations must be >= 0", ErrInvalidConfig)
	}
	if c.ExpiryRange < 1 {
		return fmt.Errorf("%w: expiry_range must be at least 1", ErrInvalidConfig)
	}
	if c.DelRatio < 0 || c.DelRatio > 1 {
		return fmt.Errorf("%w: del_ratio must be between 0 and 1", ErrInvalidConfig)
	}
	if c.VerifyEvery < 0 {
		return fmt.Errorf("%w: verify_every must be >= 0", ErrInvalidConfig)
	}
	return nil
}
