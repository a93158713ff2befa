package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/RicardoTrinityBI/gmailsink/internal/config"
	"github.com/RicardoTrinityBI/gmailsink/internal/gmail"
	"github.com/RicardoTrinityBI/gmailsink/internal/google"
	"github.com/RicardoTrinityBI/gmailsink/internal/ingest"
	"github.com/RicardoTrinityBI/gmailsink/internal/instrumentation"
	"github.com/RicardoTrinityBI/gmailsink/internal/logging"
	"github.com/RicardoTrinityBI/gmailsink/internal/server"
	"github.com/RicardoTrinityBI/gmailsink/internal/warehouse"
)

// shutdownTimeout bounds telemetry flush and listener shutdown at exit.
const shutdownTimeout = 10 * time.Second

func newSyncCmd() *cobra.Command {
	var (
		windowDays  int
		maxResults  int64
		concurrency int
		batchSize   int
		dryRun      bool
		metricsAddr string
	)

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Fetch Gmail bodies and load them into Snowflake",
		Long: `Fetch the previous day's Gmail messages for every configured mailbox
and append their bodies to the Snowflake target table.

Connection settings come from the environment (SNOWFLAKE_*, EMAILS,
GOOGLE_APPLICATION_CREDENTIALS); flags override the tuning knobs.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}

			// Flags win over env when set.
			flags := cmd.Flags()
			if flags.Changed("window-days") {
				cfg.Sync.WindowDays = windowDays
			}
			if flags.Changed("max-results") {
				cfg.Sync.MaxResults = maxResults
			}
			if flags.Changed("concurrency") {
				cfg.Sync.Concurrency = concurrency
			}
			if flags.Changed("batch-size") {
				cfg.Sync.BatchSize = batchSize
			}
			if flags.Changed("dry-run") {
				cfg.Sync.DryRun = dryRun
			}

			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return runSync(ctx, cfg, metricsAddr)
		},
	}

	cmd.Flags().IntVar(&windowDays, "window-days", config.DefaultWindowDays, "how many past days of mail to fetch")
	cmd.Flags().Int64Var(&maxResults, "max-results", config.DefaultMaxResults, "maximum messages to list per mailbox")
	cmd.Flags().IntVar(&concurrency, "concurrency", config.DefaultConcurrency, "parallel body fetches per mailbox")
	cmd.Flags().IntVar(&batchSize, "batch-size", config.DefaultBatchSize, "rows per warehouse insert statement")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "fetch bodies but skip the warehouse load")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address during the run (e.g. :9090)")

	return cmd
}

func runSync(ctx context.Context, cfg *config.Config, metricsAddr string) error {
	logger := logging.NewLogger()
	slog.SetDefault(logger)

	instrConfig := instrumentation.DefaultConfig()
	instrConfig.ServiceVersion = version
	if err := instrConfig.Validate(); err != nil {
		return fmt.Errorf("invalid instrumentation configuration: %w", err)
	}

	provider, err := instrumentation.NewProvider(ctx, instrConfig)
	if err != nil {
		return fmt.Errorf("failed to initialize instrumentation: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := provider.Shutdown(shutdownCtx); err != nil {
			logger.Warn("failed to shut down instrumentation", logging.Err(err))
		}
	}()

	// Optional metrics listener, useful for long multi-mailbox runs.
	var metricsServer *server.MetricsServer
	if metricsAddr != "" {
		metricsServer, err = server.NewMetricsServer(metricsAddr, provider)
		if err != nil {
			return fmt.Errorf("failed to create metrics server: %w", err)
		}
		go func() {
			if err := metricsServer.Start(); err != nil && err != http.ErrServerClosed {
				logger.Warn("metrics server stopped", logging.Err(err))
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := metricsServer.Shutdown(shutdownCtx); err != nil {
				logger.Warn("failed to shut down metrics server", logging.Err(err))
			}
		}()
	}

	impersonator, err := google.NewImpersonator(cfg.Google.Credentials)
	if err != nil {
		return fmt.Errorf("failed to prepare service-account credentials: %w", err)
	}
	logger.Info("service account ready", slog.String("client_email", impersonator.Email()))

	var loader ingest.Loader
	if cfg.Sync.DryRun {
		loader = noopLoader{}
	} else {
		store, err := warehouse.Open(ctx, warehouse.Config{
			User:      cfg.Snowflake.User,
			Password:  cfg.Snowflake.Password,
			Account:   cfg.Snowflake.Account,
			Warehouse: cfg.Snowflake.Warehouse,
			Database:  cfg.Snowflake.Database,
			Schema:    cfg.Snowflake.Schema,
			Table:     cfg.Snowflake.Table,
		})
		if err != nil {
			return fmt.Errorf("failed to connect to Snowflake: %w", err)
		}
		defer func() {
			if err := store.Close(); err != nil {
				logger.Warn("failed to close Snowflake connection", logging.Err(err))
			}
		}()
		loader = store
	}

	factory := func(ctx context.Context, user string) (ingest.MailClient, error) {
		httpClient, err := impersonator.Delegated(ctx, user)
		if err != nil {
			return nil, err
		}
		return gmail.NewClient(ctx, httpClient, user, gmail.Options{
			PageSize:      cfg.Sync.PageSize,
			PageDelay:     cfg.Sync.PageDelay,
			RetryAttempts: cfg.Sync.RetryAttempts,
			RetryDelay:    cfg.Sync.RetryDelay,
		})
	}

	pipeline := ingest.New(factory, loader, cfg.Sync,
		ingest.WithLogger(logger),
		ingest.WithMetrics(provider.Metrics()),
		ingest.WithTracer(provider.Tracer("ingest")),
	)

	stats, err := pipeline.Run(ctx, cfg.Google.Users)
	if err != nil {
		return fmt.Errorf("sync failed: %w", err)
	}

	fmt.Printf("Synced %d mailboxes: %d bodies loaded (%d rows inserted, %d skipped mailboxes)\n",
		stats.UsersProcessed, stats.BodiesFetched, stats.RowsInserted, stats.UsersSkipped)
	return nil
}

// noopLoader satisfies ingest.Loader for dry runs.
type noopLoader struct{}

func (noopLoader) InsertBodies(_ context.Context, rows []warehouse.Row, _ int) (int64, error) {
	return int64(len(rows)), nil
}
