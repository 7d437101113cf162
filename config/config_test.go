package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDuration_UnmarshalText(t *testing.T) {
	testCases := []struct {
		name      string
		input     string
		want      time.Duration
		expectErr bool
	}{
		{name: "minutes", input: "10m", want: 10 * time.Minute},
		{name: "composite", input: "1h30m", want: 90 * time.Minute},
		{name: "seconds", input: "45s", want: 45 * time.Second},
		{name: "invalid", input: "not-a-duration", expectErr: true},
		{name: "empty", input: "", expectErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var d Duration
			err := d.UnmarshalText([]byte(tc.input))
			if (err != nil) != tc.expectErr {
				t.Fatalf("UnmarshalText() error = %v, expectErr %v", err, tc.expectErr)
			}
			if !tc.expectErr && d.Duration != tc.want {
				t.Errorf("UnmarshalText() got = %v, want %v", d.Duration, tc.want)
			}
		})
	}
}

func TestDuration_MarshalText(t *testing.T) {
	d := Duration{Duration: 10 * time.Minute}
	got, err := d.MarshalText()
	if err != nil {
		t.Fatalf("MarshalText() returned an unexpected error: %v", err)
	}
	if string(got) != "10m0s" {
		t.Errorf("MarshalText() got = %q, want %q", string(got), "10m0s")
	}
}

func TestNewDefaultConfigValidates(t *testing.T) {
	cfg := NewDefaultConfig()
	if err := Validate(cfg); err != nil {
		t.Errorf("default config failed validation: %v", err)
	}
}

func TestLoadAppliesFileAndDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
db_file = "test.db"

[jwt]
auth_secret = "0123456789abcdef0123456789abcdef"
auth_token_duration = "168h"

[otp]
expiry = "5m"
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.DbFile != "test.db" {
		t.Errorf("DbFile = %q, want test.db", cfg.DbFile)
	}
	if cfg.Otp.Expiry.Duration != 5*time.Minute {
		t.Errorf("Otp.Expiry = %v, want 5m", cfg.Otp.Expiry.Duration)
	}
	// Untouched values keep their defaults.
	if cfg.Otp.CodeLength != 6 {
		t.Errorf("Otp.CodeLength = %d, want default 6", cfg.Otp.CodeLength)
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("Server.Addr = %q, want default :8080", cfg.Server.Addr)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[jwt]
auth_secret = "0123456789abcdef0123456789abcdef"
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	t.Setenv("OAUTH2_GOOGLE_CLIENT_ID", "client-from-env")
	t.Setenv("NOTEFOLD_SMTP_PASSWORD", "smtp-secret")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if got := cfg.OAuth2Providers[OAuth2ProviderGoogle].ClientID; got != "client-from-env" {
		t.Errorf("google client id = %q, want client-from-env", got)
	}
	if cfg.Smtp.Password != "smtp-secret" {
		t.Errorf("smtp password = %q, want smtp-secret", cfg.Smtp.Password)
	}
}

func TestValidateRejects(t *testing.T) {
	testCases := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "short jwt secret", mutate: func(c *Config) { c.Jwt.AuthSecret = "short" }},
		{name: "zero otp expiry", mutate: func(c *Config) { c.Otp.Expiry = Duration{} }},
		{name: "empty addr", mutate: func(c *Config) { c.Server.Addr = "" }},
		{name: "bad backup strategy", mutate: func(c *Config) {
			c.BackupLocal.Enabled = true
			c.BackupLocal.Strategy = "tarball"
		}},
		{name: "provider without issuer", mutate: func(c *Config) {
			p := c.OAuth2Providers[OAuth2ProviderGoogle]
			p.Issuers = nil
			c.OAuth2Providers[OAuth2ProviderGoogle] = p
		}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := NewDefaultConfig()
			tc.mutate(cfg)
			if err := Validate(cfg); err == nil {
				t.Error("Validate() succeeded, want error")
			}
		})
	}
}
