package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"adaptive-mm/infrastructure/logger"
	"adaptive-mm/sim"
	"adaptive-mm/strategy"
	"adaptive-mm/strategy/adaptive"
)

// AppConfig holds the main runtime configuration.
type AppConfig struct {
	Env      string          `yaml:"env"`
	Log      logger.Config   `yaml:"log"`
	Strategy strategy.Config `yaml:"strategy"`
	Adaptive AdaptiveConfig  `yaml:"adaptive"`
	Backtest sim.Config      `yaml:"backtest"`
	Metrics  MetricsConfig   `yaml:"metrics"`
}

// AdaptiveConfig 自适应开关与参数。
type AdaptiveConfig struct {
	Enabled         bool `yaml:"enabled"`
	adaptive.Config `yaml:",inline"`
}

type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

// Default 返回全部默认值，YAML 只需覆盖关心的字段。
func Default() AppConfig {
	return AppConfig{
		Env:      "dev",
		Log:      logger.DefaultConfig(),
		Strategy: strategy.DefaultConfig(),
		Adaptive: AdaptiveConfig{Enabled: true, Config: adaptive.DefaultConfig()},
		Backtest: sim.DefaultConfig(),
		Metrics:  MetricsConfig{Addr: ":9101"},
	}
}

// Load reads YAML config from path over the defaults and applies validation.
func Load(path string) (AppConfig, error) {
	cfg := Default()
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("parse yaml: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadWithEnvOverrides loads config then overrides fields from MM_* env vars if present.
func LoadWithEnvOverrides(path string) (AppConfig, error) {
	cfg, err := Load(path)
	if err != nil {
		return cfg, err
	}
	if v := os.Getenv("MM_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("MM_METRICS_ADDR"); v != "" {
		cfg.Metrics.Addr = v
		cfg.Metrics.Enabled = true
	}
	if v := os.Getenv("MM_SEED"); v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return cfg, fmt.Errorf("MM_SEED: %w", err)
		}
		cfg.Adaptive.Seed = seed
	}
	return cfg, Validate(cfg)
}
