package config

import (
	"log/slog"
	"time"

	"github.com/caasmo/notefold/crypto"
)

// NewDefaultConfig creates a new Config with sensible defaults.
// All secret values are randomly generated.
func NewDefaultConfig() *Config {
	return &Config{
		DbFile: "notefold.db",
		Server: Server{
			Addr:                    ":8080",
			BaseURL:                 "http://localhost:8080",
			FrontendURL:             "http://localhost:5173",
			MaxConns:                512,
			ShutdownGracefulTimeout: Duration{Duration: 15 * time.Second},
			ReadTimeout:             Duration{Duration: 2 * time.Second},
			ReadHeaderTimeout:       Duration{Duration: 2 * time.Second},
			WriteTimeout:            Duration{Duration: 3 * time.Second},
			IdleTimeout:             Duration{Duration: 1 * time.Minute},
			ClientIpProxyHeader:     "",
		},
		Jwt: Jwt{
			AuthSecret:        crypto.RandomString(32, crypto.AlphanumericAlphabet),
			AuthTokenDuration: Duration{Duration: 7 * 24 * time.Hour},
		},
		Otp: Otp{
			CodeLength:    6,
			Expiry:        Duration{Duration: 10 * time.Minute},
			SweepInterval: Duration{Duration: 1 * time.Hour},
		},
		Smtp: Smtp{
			Port:     587,
			FromName: "Notefold",
		},
		Scheduler: Scheduler{
			Interval:              Duration{Duration: 60 * time.Second},
			MaxJobsPerTick:        10,
			ConcurrencyMultiplier: 2,
		},
		BackupLocal: BackupLocal{
			Enabled:       false,
			SourcePath:    "notefold.db",
			BackupDir:     "backups",
			Strategy:      "online",
			PagesPerStep:  100,
			SleepInterval: Duration{Duration: 10 * time.Millisecond},
			Interval:      Duration{Duration: 24 * time.Hour},
		},
		Log: Log{
			Level: LogLevel{Level: slog.LevelInfo},
		},
		OAuth2Providers: map[string]OAuth2Provider{
			OAuth2ProviderGoogle: {
				Name:            OAuth2ProviderGoogle,
				DisplayName:     "Google",
				RedirectURLPath: "/api/auth/google/callback",
				AuthURL:         "https://accounts.google.com/o/oauth2/v2/auth",
				TokenURL:        "https://oauth2.googleapis.com/token",
				JwksURL:         "https://www.googleapis.com/oauth2/v3/certs",
				Issuers:         []string{"https://accounts.google.com", "accounts.google.com"},
				Scopes:          []string{"openid", "email", "profile"},
				PKCE:            true,
				ClientID:        "",
				ClientSecret:    "",
			},
		},
	}
}
