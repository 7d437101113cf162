package notefold

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	phuslog "github.com/phuslu/log"

	"github.com/caasmo/notefold/config"
	"github.com/caasmo/notefold/core"
	"github.com/caasmo/notefold/db"
	"github.com/caasmo/notefold/mail"
	"github.com/caasmo/notefold/oauth2"
	"github.com/caasmo/notefold/otp"
	"github.com/caasmo/notefold/queue"
	"github.com/caasmo/notefold/queue/executor"
	"github.com/caasmo/notefold/queue/handlers"
	scl "github.com/caasmo/notefold/queue/scheduler"
	"github.com/caasmo/notefold/server"
)

// New assembles the application: configuration, database, mailer, OTP
// issuer, OAuth2 bridge, routes, job scheduler and HTTP server. configPath
// may be empty, in which case defaults plus environment overrides apply.
func New(configPath string, opts ...core.Option) (*core.App, *server.Server, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	configProvider := config.NewProvider(cfg)

	// Default logger at the configured level, JSON to stderr. A WithLogger
	// option from the caller is applied later and wins.
	defaultLogger := slog.New(phuslog.SlogNewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.Log.Level.Level,
	}))

	allOpts := append([]core.Option{
		core.WithConfigProvider(configProvider),
		core.WithLogger(defaultLogger),
	}, opts...)
	app, err := core.NewApp(allOpts...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize app: %w", err)
	}
	if app.DbAuth() == nil {
		return nil, nil, errors.New("no database configured, use a WithDb option")
	}
	if app.Router() == nil {
		return nil, nil, errors.New("no router configured, use a WithRouter option")
	}

	mailer, err := mail.New(configProvider)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create mailer: %w", err)
	}

	issuer, err := otp.NewIssuer(app.DbOtp(), mailer, configProvider, app.Logger())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create otp issuer: %w", err)
	}
	app.SetOtpIssuer(issuer)

	// The Google bridge needs provider credentials; without them the
	// google routes stay unregistered.
	if p, ok := cfg.OAuth2Providers[config.OAuth2ProviderGoogle]; ok && p.ClientID != "" {
		bridge, err := oauth2.NewGoogle(configProvider)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create google bridge: %w", err)
		}
		app.SetOauthBridge(bridge)
	} else {
		app.Logger().Warn("google oauth2 not configured, external login disabled")
	}

	routes(app)

	scheduler, err := setupScheduler(app, configProvider)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to setup scheduler: %w", err)
	}

	if err := seedRecurrentJobs(app.DbQueue(), cfg); err != nil {
		return nil, nil, fmt.Errorf("failed to seed recurrent jobs: %w", err)
	}

	srv := server.NewServer(configProvider, app.Router(), app.Logger(), reloadFunc(configProvider, app.Logger()))
	srv.AddDaemon(scheduler)

	return app, srv, nil
}

// setupScheduler wires the job handlers into a scheduler daemon.
func setupScheduler(app *core.App, provider *config.Provider) (*scl.Scheduler, error) {
	scheduler := scl.NewScheduler(provider, app.DbQueue(), executor.NewExecutor(nil), app.Logger())

	scheduler.Executor().Register(queue.JobTypeOtpSweep, handlers.NewOtpSweepHandler(app.DbOtp(), app.Logger()))

	if provider.Get().BackupLocal.Enabled {
		scheduler.Executor().Register(queue.JobTypeBackupLocal, handlers.NewBackupHandler(provider, app.Logger()))
	}

	return scheduler, nil
}

// seedRecurrentJobs inserts the recurring housekeeping jobs. A pending job
// of the same type from a previous run is fine; the unique constraint
// rejects the duplicate and the error is ignored.
func seedRecurrentJobs(dbQueue db.DbQueue, cfg *config.Config) error {
	jobs := []db.Job{
		{
			JobType:   queue.JobTypeOtpSweep,
			Recurrent: true,
			Interval:  cfg.Otp.SweepInterval.Duration,
		},
	}
	if cfg.BackupLocal.Enabled {
		jobs = append(jobs, db.Job{
			JobType:   queue.JobTypeBackupLocal,
			Recurrent: true,
			Interval:  cfg.BackupLocal.Interval.Duration,
		})
	}

	for _, job := range jobs {
		if err := dbQueue.InsertJob(job); err != nil {
			if errors.Is(err, db.ErrConstraintUnique) {
				continue
			}
			return err
		}
	}
	return nil
}

// reloadFunc re-reads the config file the process started with and swaps
// it into the provider. Runs on SIGHUP.
func reloadFunc(provider *config.Provider, logger *slog.Logger) func() error {
	return func() error {
		source := provider.Get().Source
		cfg, err := config.Load(source)
		if err != nil {
			return fmt.Errorf("reload of %q failed: %w", source, err)
		}
		provider.Update(cfg)
		logger.Info("configuration reloaded", "source", source)
		return nil
	}
}
