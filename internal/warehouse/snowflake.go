package warehouse

import (
	"context"
	"database/sql"
	"fmt"

	sf "github.com/snowflakedb/gosnowflake"
)

// Config holds the Snowflake connection settings.
type Config struct {
	User      string
	Password  string
	Account   string
	Warehouse string
	Database  string
	Schema    string

	// Table is the target table, expected to have columns
	// (id, email_body, inserted_date).
	Table string
}

// Row is one loaded email body.
type Row struct {
	// ID is the Gmail message id.
	ID string

	// Body is the extracted message body, possibly empty.
	Body string

	// InsertedDate is the run date in YYYY-MM-DD form.
	InsertedDate string
}

// Store loads rows into a Snowflake table over database/sql.
type Store struct {
	db    *sql.DB
	table string
}

// Open connects to Snowflake and verifies the connection with a ping.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.Table == "" {
		return nil, fmt.Errorf("warehouse table name is required")
	}

	dsn, err := sf.DSN(&sf.Config{
		Account:   cfg.Account,
		User:      cfg.User,
		Password:  cfg.Password,
		Database:  cfg.Database,
		Schema:    cfg.Schema,
		Warehouse: cfg.Warehouse,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build Snowflake DSN: %w", err)
	}

	db, err := sql.Open("snowflake", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open Snowflake connection: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping Snowflake: %w", err)
	}

	return &Store{db: db, table: cfg.Table}, nil
}

// Close releases the connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

// InsertBodies appends rows to the target table in multi-row batches inside
// a single transaction, so a partial run never leaves a half-loaded day.
// Returns the number of rows inserted.
func (s *Store) InsertBodies(ctx context.Context, rows []Row, batchSize int) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	if batchSize < 1 {
		batchSize = len(rows)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var inserted int64
	for start := 0; start < len(rows); start += batchSize {
		end := start + batchSize
		if end > len(rows) {
			end = len(rows)
		}

		query, args, err := buildInsert(s.table, rows[start:end])
		if err != nil {
			return 0, err
		}

		res, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return 0, fmt.Errorf("failed to insert batch into %s: %w", s.table, err)
		}

		n, err := res.RowsAffected()
		if err != nil {
			// The driver reports affected rows for DML; fall back to the
			// batch length if it ever cannot.
			n = int64(end - start)
		}
		inserted += n
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit insert transaction: %w", err)
	}

	return inserted, nil
}
