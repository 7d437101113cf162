package config

import (
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"
)

const (
	OAuth2ProviderGoogle = "google"
)

// Duration wraps time.Duration so values can be written as "10m" in TOML.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", string(text), err)
	}
	d.Duration = parsed
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// LogLevel wraps slog.Level for TOML ("debug", "info", "warn", "error").
type LogLevel struct {
	slog.Level
}

func (l *LogLevel) UnmarshalText(text []byte) error {
	return l.Level.UnmarshalText(text)
}

func (l LogLevel) MarshalText() ([]byte, error) {
	return l.Level.MarshalText()
}

type Server struct {
	Addr                    string   `toml:"addr"`
	BaseURL                 string   `toml:"base_url"`
	FrontendURL             string   `toml:"frontend_url"`
	MaxConns                int      `toml:"max_conns"`
	ShutdownGracefulTimeout Duration `toml:"shutdown_graceful_timeout"`
	ReadTimeout             Duration `toml:"read_timeout"`
	ReadHeaderTimeout       Duration `toml:"read_header_timeout"`
	WriteTimeout            Duration `toml:"write_timeout"`
	IdleTimeout             Duration `toml:"idle_timeout"`
	ClientIpProxyHeader     string   `toml:"client_ip_proxy_header"`
}

type Jwt struct {
	AuthSecret        string   `toml:"auth_secret"`
	AuthTokenDuration Duration `toml:"auth_token_duration"`
}

type Otp struct {
	CodeLength    int      `toml:"code_length"`
	Expiry        Duration `toml:"expiry"`
	SweepInterval Duration `toml:"sweep_interval"`
}

type Smtp struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	Username string `toml:"username"`
	Password string `toml:"password"`
	From     string `toml:"from"`
	FromName string `toml:"from_name"`
}

type OAuth2Provider struct {
	Name            string   `toml:"name"`
	DisplayName     string   `toml:"display_name"`
	ClientID        string   `toml:"client_id"`
	ClientSecret    string   `toml:"client_secret"`
	RedirectURLPath string   `toml:"redirect_url_path"`
	AuthURL         string   `toml:"auth_url"`
	TokenURL        string   `toml:"token_url"`
	JwksURL         string   `toml:"jwks_url"`
	Issuers         []string `toml:"issuers"`
	Scopes          []string `toml:"scopes"`
	PKCE            bool     `toml:"pkce"`
}

type Scheduler struct {
	Interval              Duration `toml:"interval"`
	MaxJobsPerTick        int      `toml:"max_jobs_per_tick"`
	ConcurrencyMultiplier int      `toml:"concurrency_multiplier"`
}

type BackupLocal struct {
	Enabled       bool     `toml:"enabled"`
	SourcePath    string   `toml:"source_path"`
	BackupDir     string   `toml:"backup_dir"`
	Strategy      string   `toml:"strategy"` // "online" or "vacuum"
	PagesPerStep  int      `toml:"pages_per_step"`
	SleepInterval Duration `toml:"sleep_interval"`
	Interval      Duration `toml:"interval"`
}

type Log struct {
	Level LogLevel `toml:"level"`
}

type Config struct {
	DbFile string `toml:"db_file"`

	Server          Server                    `toml:"server"`
	Jwt             Jwt                       `toml:"jwt"`
	Otp             Otp                       `toml:"otp"`
	Smtp            Smtp                      `toml:"smtp"`
	OAuth2Providers map[string]OAuth2Provider `toml:"oauth2_providers"`
	Scheduler       Scheduler                 `toml:"scheduler"`
	BackupLocal     BackupLocal               `toml:"backup_local"`
	Log             Log                       `toml:"log"`

	// Source is the path the config was loaded from, empty for defaults.
	Source string `toml:"-"`
}

// RedirectURL resolves a provider's absolute callback URL against the
// server base URL.
func (c *Config) RedirectURL(p OAuth2Provider) string {
	return c.Server.BaseURL + p.RedirectURLPath
}

// Provider holds the current Config and allows atomic hot swaps. Handlers
// call Get on every request, so a reload never requires a restart.
type Provider struct {
	current atomic.Pointer[Config]
}

func NewProvider(cfg *Config) *Provider {
	p := &Provider{}
	p.current.Store(cfg)
	return p
}

func (p *Provider) Get() *Config {
	return p.current.Load()
}

func (p *Provider) Update(cfg *Config) {
	p.current.Store(cfg)
}
