package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/multierr"
	"gorm.io/gorm"

	"unified-calendar/config"
	_ "unified-calendar/docs" // Swagger docs
	"unified-calendar/internal/calendar"
	"unified-calendar/internal/credential"
	"unified-calendar/internal/httpserver"
	"unified-calendar/internal/middleware"
	"unified-calendar/internal/provider"
	"unified-calendar/internal/provider/google"
	"unified-calendar/internal/provider/microsoft"
	"unified-calendar/pkg/datemath"
	"unified-calendar/pkg/encrypter"
	"unified-calendar/pkg/gcalendar"
	"unified-calendar/pkg/log"
	"unified-calendar/pkg/msgraph"
	"unified-calendar/pkg/oauth"
	"unified-calendar/pkg/postgres"
)

// @title       Unified Calendar API
// @description Aggregates Google and Microsoft calendars per user, detects conflicts and answers invitations.
// @version     1
// @host        localhost:8080
// @BasePath    /
// @schemes     http
func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() (err error) {
	// 1. Configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// 2. Logger
	logger := log.Init(log.ZapConfig{
		Level:        cfg.Logger.Level,
		Mode:         cfg.Logger.Mode,
		Encoding:     cfg.Logger.Encoding,
		ColorEnabled: cfg.Logger.ColorEnabled,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info(ctx, "Starting Unified Calendar...")
	logger.Infof(ctx, "Environment: %s", cfg.Environment.Name)

	// 3. Time zone for relative dates and all-day events
	dates, err := datemath.NewParser(cfg.Calendar.DefaultTimeZone)
	if err != nil {
		logger.Warnf(ctx, "Invalid timezone %q, falling back to UTC: %v", cfg.Calendar.DefaultTimeZone, err)
		dates, _ = datemath.NewParser("UTC")
	}

	// 4. Storage
	enc, err := encrypter.New(cfg.Encryption.Key)
	if err != nil {
		return fmt.Errorf("failed to init encrypter: %w", err)
	}

	var db *gorm.DB
	if cfg.Database.Driver == config.DriverPostgres {
		db, err = postgres.Connect(ctx, postgres.Config{
			DSN:             cfg.Database.DSN,
			MaxOpenConns:    cfg.Database.MaxOpenConns,
			MaxIdleConns:    cfg.Database.MaxIdleConns,
			ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		})
		if err != nil {
			return err
		}
		defer func() {
			err = multierr.Append(err, postgres.Close(db))
		}()

		version, mErr := postgres.Migrate(db, cfg.Database.MigrationsDir)
		if mErr != nil {
			return fmt.Errorf("failed to migrate: %w", mErr)
		}
		logger.Infof(ctx, "Database migrated to version %d", version)
	}

	// 5. Providers
	oauthManager := oauth.NewManager(oauth.Config{
		Google:    oauthProvider(cfg.OAuth.Google),
		Microsoft: oauthProvider(cfg.OAuth.Microsoft),
	}, nil)

	var graphOpts []msgraph.Option
	if cfg.Calendar.MicrosoftBaseURL != "" {
		graphOpts = append(graphOpts, msgraph.WithBaseURL(cfg.Calendar.MicrosoftBaseURL))
	}
	gcal, err := gcalendar.NewClient(ctx)
	if err != nil {
		return err
	}
	adapters := provider.NewRegistry(
		google.New(logger, gcal, cfg.Calendar.GoogleCalendarID, dates.Location()),
		microsoft.New(logger, msgraph.NewClient(graphOpts...), dates.Location()),
	)

	// 6. HTTP Server
	credentialCfg := credential.DefaultConfig()
	credentialCfg.RefreshMargin = cfg.Calendar.RefreshMargin

	httpServer, err := httpserver.New(logger, httpserver.Config{
		Logger:          logger,
		Port:            cfg.HTTPServer.Port,
		Mode:            cfg.HTTPServer.Mode,
		Environment:     cfg.Environment.Name,
		ShutdownTimeout: cfg.HTTPServer.ShutdownTimeout,
		PostgresDB:      db,
		Encrypter:       enc,
		Refresher:       oauthManager,
		Adapters:        adapters,
		Dates:           dates,
		Credential:      credentialCfg,
		Calendar: calendar.Config{
			ProviderTimeout: cfg.Calendar.ProviderTimeout,
			MaxParallel:     cfg.Calendar.MaxParallel,
		},
		Middleware: middleware.Config{
			InternalKey:     cfg.Middleware.InternalKey,
			RateLimitPerMin: cfg.Middleware.RateLimitPerMin,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to initialize HTTP server: %w", err)
	}

	// 7. Run
	start := time.Now()
	if err := httpServer.Run(ctx); err != nil {
		return fmt.Errorf("failed to run server: %w", err)
	}

	logger.Infof(context.Background(), "Server stopped gracefully after %s", time.Since(start).Round(time.Second))
	return nil
}

func oauthProvider(c config.OAuthProviderConfig) oauth.ProviderConfig {
	return oauth.ProviderConfig{
		ClientID:     c.ClientID,
		ClientSecret: c.ClientSecret,
		RedirectURL:  c.RedirectURL,
		Scopes:       c.Scopes,
		Tenant:       c.Tenant,
	}
}
