package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
)

// envOverrides collects the secrets that may be supplied through the
// environment instead of the TOML file, so the file can be committed
// without credentials.
type envOverrides struct {
	JwtAuthSecret      string `env:"NOTEFOLD_JWT_SECRET"`
	SmtpUsername       string `env:"NOTEFOLD_SMTP_USERNAME"`
	SmtpPassword       string `env:"NOTEFOLD_SMTP_PASSWORD"`
	GoogleClientID     string `env:"OAUTH2_GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `env:"OAUTH2_GOOGLE_CLIENT_SECRET"`
}

// Load reads a TOML config file, applies environment overrides and
// validates the result. Values absent from the file keep their defaults.
// An empty path skips the file and uses defaults plus the environment.
func Load(path string) (*Config, error) {
	cfg := NewDefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: failed to read %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: failed to unmarshal TOML: %w", err)
		}
		cfg.Source = path
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("config: validation failed: %w", err)
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) error {
	var ov envOverrides
	if err := env.Parse(&ov); err != nil {
		return fmt.Errorf("config: failed to parse environment overrides: %w", err)
	}

	if ov.JwtAuthSecret != "" {
		cfg.Jwt.AuthSecret = ov.JwtAuthSecret
	}
	if ov.SmtpUsername != "" {
		cfg.Smtp.Username = ov.SmtpUsername
	}
	if ov.SmtpPassword != "" {
		cfg.Smtp.Password = ov.SmtpPassword
	}

	if google, ok := cfg.OAuth2Providers[OAuth2ProviderGoogle]; ok {
		if ov.GoogleClientID != "" {
			google.ClientID = ov.GoogleClientID
		}
		if ov.GoogleClientSecret != "" {
			google.ClientSecret = ov.GoogleClientSecret
		}
		cfg.OAuth2Providers[OAuth2ProviderGoogle] = google
	}

	return nil
}
