package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"golang.org/x/sync/errgroup"

	"github.com/RicardoTrinityBI/gmailsink/internal/config"
	"github.com/RicardoTrinityBI/gmailsink/internal/gmail"
	"github.com/RicardoTrinityBI/gmailsink/internal/instrumentation"
	"github.com/RicardoTrinityBI/gmailsink/internal/logging"
	"github.com/RicardoTrinityBI/gmailsink/internal/warehouse"
)

// insertedDateLayout is the date format written to the warehouse.
const insertedDateLayout = "2006-01-02"

// MailClient is the slice of the Gmail client the pipeline needs.
type MailClient interface {
	ListMessageIDs(ctx context.Context, query string, max int64) ([]string, error)
	FetchBody(ctx context.Context, messageID string) (gmail.Body, error)
}

// ClientFactory builds a delegated mail client for one mailbox owner.
type ClientFactory func(ctx context.Context, user string) (MailClient, error)

// Loader is the slice of the warehouse store the pipeline needs.
type Loader interface {
	InsertBodies(ctx context.Context, rows []warehouse.Row, batchSize int) (int64, error)
}

// Stats summarizes one sync run.
type Stats struct {
	UsersProcessed int
	UsersSkipped   int
	MessagesListed int
	BodiesFetched  int
	FetchFailures  int
	RowsInserted   int64
}

// Pipeline runs the Gmail-to-warehouse sync: list each mailbox's day window,
// fetch bodies concurrently, and load everything in one batched insert.
type Pipeline struct {
	newClient ClientFactory
	loader    Loader
	cfg       config.Sync

	logger  *slog.Logger
	metrics *instrumentation.Metrics
	tracer  trace.Tracer
	now     func() time.Time
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the pipeline logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) { p.logger = logger }
}

// WithMetrics sets the metrics recorder.
func WithMetrics(m *instrumentation.Metrics) Option {
	return func(p *Pipeline) { p.metrics = m }
}

// WithTracer sets the tracer for run and per-mailbox spans.
func WithTracer(t trace.Tracer) Option {
	return func(p *Pipeline) { p.tracer = t }
}

// WithClock overrides the clock, for tests.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) { p.now = now }
}

// New creates a Pipeline.
func New(factory ClientFactory, loader Loader, cfg config.Sync, opts ...Option) *Pipeline {
	p := &Pipeline{
		newClient: factory,
		loader:    loader,
		cfg:       cfg,
		logger:    slog.Default(),
		metrics:   &instrumentation.Metrics{},
		tracer:    noop.NewTracerProvider().Tracer("ingest"),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run syncs all mailboxes and loads the collected bodies. Mailboxes whose
// delegation fails are skipped; the run fails only when configuration is
// empty, every mailbox was skipped, or the warehouse load fails.
func (p *Pipeline) Run(ctx context.Context, users []string) (Stats, error) {
	if len(users) == 0 {
		return Stats{}, fmt.Errorf("no mailboxes configured")
	}

	ctx, span := p.tracer.Start(ctx, "sync.run")
	defer span.End()

	query := gmail.DayWindowQuery(p.now(), p.cfg.WindowDays)
	runDate := p.now().UTC().Format(insertedDateLayout)
	logger := logging.WithOperation(p.logger, "sync")
	logger.Info("starting sync", slog.String("query", query), slog.Int("mailboxes", len(users)))

	var stats Stats
	var rows []warehouse.Row

	for _, user := range users {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		userRows, listed, failures, err := p.syncUser(ctx, user, query, runDate)
		if err != nil {
			logger.Warn("skipping mailbox",
				logging.UserHash(user),
				logging.Status(logging.StatusSkipped),
				logging.Err(err))
			stats.UsersSkipped++
			continue
		}

		stats.UsersProcessed++
		stats.MessagesListed += listed
		stats.BodiesFetched += len(userRows)
		stats.FetchFailures += failures
		rows = append(rows, userRows...)
	}

	if stats.UsersProcessed == 0 {
		return stats, fmt.Errorf("all %d mailboxes were skipped", stats.UsersSkipped)
	}

	if p.cfg.DryRun {
		logger.Info("dry run, skipping warehouse load", logging.Count(len(rows)))
		return stats, nil
	}

	inserted, err := p.loader.InsertBodies(ctx, rows, p.cfg.BatchSize)
	if err != nil {
		return stats, fmt.Errorf("failed to load bodies into warehouse: %w", err)
	}
	stats.RowsInserted = inserted
	p.metrics.AddRowsInserted(ctx, inserted)

	logger.Info("sync complete",
		slog.Int("users_processed", stats.UsersProcessed),
		slog.Int("users_skipped", stats.UsersSkipped),
		slog.Int("messages_listed", stats.MessagesListed),
		slog.Int("bodies_fetched", stats.BodiesFetched),
		slog.Int("fetch_failures", stats.FetchFailures),
		slog.Int64("rows_inserted", stats.RowsInserted))

	return stats, nil
}

// syncUser lists one mailbox's day window and fetches the bodies
// concurrently. The returned error marks the whole mailbox as skipped;
// individual message failures are logged, counted, and dropped.
func (p *Pipeline) syncUser(ctx context.Context, user, query, runDate string) ([]warehouse.Row, int, int, error) {
	ctx, span := p.tracer.Start(ctx, "sync.user")
	defer span.End()

	start := p.now()
	logger := p.logger.With(logging.UserHash(user))

	client, err := p.newClient(ctx, user)
	if err != nil {
		p.metrics.RecordUserSync(ctx, instrumentation.StatusError, time.Since(start))
		return nil, 0, 0, fmt.Errorf("failed to create mail client: %w", err)
	}

	listStart := p.now()
	ids, err := client.ListMessageIDs(ctx, query, p.cfg.MaxResults)
	if err != nil {
		p.metrics.RecordGmailOperation(ctx, "list", instrumentation.StatusError, time.Since(listStart))
		if len(ids) == 0 {
			// Nothing listed at all usually means the delegation grant is
			// missing for this mailbox; skip it and keep the run going.
			p.metrics.RecordUserSync(ctx, instrumentation.StatusError, time.Since(start))
			return nil, 0, 0, fmt.Errorf("failed to list messages: %w", err)
		}
		logger.Warn("listing ended early, loading partial results",
			logging.Operation("list"),
			logging.Count(len(ids)),
			logging.Err(err))
	} else {
		p.metrics.RecordGmailOperation(ctx, "list", instrumentation.StatusSuccess, time.Since(listStart))
	}
	p.metrics.AddMessagesListed(ctx, int64(len(ids)))
	logger.Info("listed messages", logging.Count(len(ids)))

	var (
		mu       sync.Mutex
		rows     []warehouse.Row
		failures int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.cfg.Concurrency)

	for _, id := range ids {
		g.Go(func() error {
			fetchStart := time.Now()
			body, err := client.FetchBody(gctx, id)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				p.metrics.RecordGmailOperation(gctx, "get", instrumentation.StatusError, time.Since(fetchStart))
				p.metrics.RecordBodyFetch(gctx, instrumentation.StatusError)
				logger.Warn("failed to fetch message body",
					logging.MessageID(id),
					logging.Err(err))
				mu.Lock()
				failures++
				mu.Unlock()
				return nil
			}

			p.metrics.RecordGmailOperation(gctx, "get", instrumentation.StatusSuccess, time.Since(fetchStart))
			p.metrics.RecordBodyFetch(gctx, instrumentation.StatusSuccess)

			mu.Lock()
			rows = append(rows, warehouse.Row{
				ID:           body.ID,
				Body:         body.Text,
				InsertedDate: runDate,
			})
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		p.metrics.RecordUserSync(ctx, instrumentation.StatusError, time.Since(start))
		return nil, 0, 0, err
	}

	p.metrics.RecordUserSync(ctx, instrumentation.StatusSuccess, time.Since(start))
	return rows, len(ids), failures, nil
}
