package config

import (
	"fmt"

	"go.uber.org/zap/zapcore"
)

// ErrInvalid 用于参数验证错误。
type ErrInvalid string

func (e ErrInvalid) Error() string { return string(e) }

// Validate ensures required fields are present and every section is consistent.
func Validate(cfg AppConfig) error {
	if cfg.Env == "" {
		return ErrInvalid("env is required")
	}
	if _, err := zapcore.ParseLevel(cfg.Log.Level); cfg.Log.Level != "" && err != nil {
		return ErrInvalid(fmt.Sprintf("log.level %q is invalid", cfg.Log.Level))
	}
	if cfg.Log.Format != "" && cfg.Log.Format != "json" && cfg.Log.Format != "console" {
		return ErrInvalid(fmt.Sprintf("log.format %q must be json or console", cfg.Log.Format))
	}
	if err := cfg.Strategy.Validate(); err != nil {
		return section("strategy", err)
	}
	if cfg.Adaptive.Enabled {
		if err := cfg.Adaptive.Config.Validate(); err != nil {
			return section("adaptive", err)
		}
	}
	if err := cfg.Backtest.Validate(); err != nil {
		return section("backtest", err)
	}
	if cfg.Metrics.Enabled && cfg.Metrics.Addr == "" {
		return ErrInvalid("metrics.addr is required when metrics are enabled")
	}
	return nil
}

func section(name string, err error) error {
	return ErrInvalid(name + ": " + err.Error())
}
