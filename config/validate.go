package config

import (
	"fmt"

	"github.com/caasmo/notefold/crypto"
)

// Validate checks a loaded configuration for values that would fail at
// runtime in ways that are hard to trace back to the config file.
func Validate(cfg *Config) error {
	if cfg.DbFile == "" {
		return fmt.Errorf("db_file must not be empty")
	}

	if cfg.Server.Addr == "" {
		return fmt.Errorf("server.addr must not be empty")
	}
	if cfg.Server.BaseURL == "" {
		return fmt.Errorf("server.base_url must not be empty")
	}
	if cfg.Server.MaxConns <= 0 {
		return fmt.Errorf("server.max_conns must be positive, got %d", cfg.Server.MaxConns)
	}

	if len(cfg.Jwt.AuthSecret) < crypto.MinKeyLength {
		return fmt.Errorf("jwt.auth_secret must be at least %d characters", crypto.MinKeyLength)
	}
	if cfg.Jwt.AuthTokenDuration.Duration <= 0 {
		return fmt.Errorf("jwt.auth_token_duration must be positive")
	}

	if cfg.Otp.CodeLength < 4 {
		return fmt.Errorf("otp.code_length must be at least 4, got %d", cfg.Otp.CodeLength)
	}
	if cfg.Otp.Expiry.Duration <= 0 {
		return fmt.Errorf("otp.expiry must be positive")
	}
	if cfg.Otp.SweepInterval.Duration <= 0 {
		return fmt.Errorf("otp.sweep_interval must be positive")
	}

	if cfg.Scheduler.Interval.Duration <= 0 {
		return fmt.Errorf("scheduler.interval must be positive")
	}
	if cfg.Scheduler.MaxJobsPerTick <= 0 {
		return fmt.Errorf("scheduler.max_jobs_per_tick must be positive")
	}
	if cfg.Scheduler.ConcurrencyMultiplier <= 0 {
		return fmt.Errorf("scheduler.concurrency_multiplier must be positive")
	}

	if cfg.BackupLocal.Enabled {
		if cfg.BackupLocal.SourcePath == "" {
			return fmt.Errorf("backup_local.source_path must not be empty")
		}
		if cfg.BackupLocal.BackupDir == "" {
			return fmt.Errorf("backup_local.backup_dir must not be empty")
		}
		switch cfg.BackupLocal.Strategy {
		case "online", "vacuum":
		default:
			return fmt.Errorf("backup_local.strategy must be \"online\" or \"vacuum\", got %q", cfg.BackupLocal.Strategy)
		}
	}

	for name, p := range cfg.OAuth2Providers {
		if p.AuthURL == "" || p.TokenURL == "" {
			return fmt.Errorf("oauth2 provider %s: auth_url and token_url must not be empty", name)
		}
		if p.JwksURL == "" {
			return fmt.Errorf("oauth2 provider %s: jwks_url must not be empty", name)
		}
		if len(p.Issuers) == 0 {
			return fmt.Errorf("oauth2 provider %s: at least one issuer required", name)
		}
	}

	return nil
}
