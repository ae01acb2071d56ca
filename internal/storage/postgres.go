package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog"

	"github.com/nookly/lead-monitor/internal/core/domain"
	"github.com/nookly/lead-monitor/migrations"
)

const (
	maxConnectionRetries = 5
	connectionRetrySleep = 2 * time.Second
	migrationLockID      = 1000
)

// PostgresStore persists thread records in a single table with the
// nested document parts as jsonb.
type PostgresStore struct {
	pool   *pgxpool.Pool
	logger *zerolog.Logger
}

// NewPostgresStore connects to dsn with retries and runs migrations.
func NewPostgresStore(ctx context.Context, dsn string, logger *zerolog.Logger) (*PostgresStore, error) {
	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse db config: %w", err)
	}

	pool, err := connectWithRetries(ctx, config)
	if err != nil {
		return nil, err
	}

	store := &PostgresStore{pool: pool, logger: logger}

	if err := store.migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return store, nil
}

func connectWithRetries(ctx context.Context, config *pgxpool.Config) (*pgxpool.Pool, error) {
	var (
		pool *pgxpool.Pool
		err  error
	)

	for i := 0; i < maxConnectionRetries; i++ {
		pool, err = pgxpool.NewWithConfig(ctx, config)
		if err == nil {
			if err = pool.Ping(ctx); err == nil {
				return pool, nil
			}
		}

		if pool != nil {
			pool.Close()
		}

		time.Sleep(connectionRetrySleep)
	}

	return nil, fmt.Errorf("failed to connect to database after retries: %w", err)
}

type gooseLogger struct {
	logger *zerolog.Logger
}

func (l *gooseLogger) Fatalf(format string, v ...interface{}) {
	l.logger.Fatal().Msgf(format, v...)
}

func (l *gooseLogger) Printf(format string, v ...interface{}) {
	l.logger.Info().Msgf(format, v...)
}

// migrate runs goose migrations under an advisory lock so concurrent
// instances never race on schema changes.
func (s *PostgresStore) migrate(ctx context.Context) error {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, "SELECT pg_advisory_lock($1)", migrationLockID); err != nil {
		return fmt.Errorf("acquire advisory lock: %w", err)
	}

	defer func() {
		//nolint:errcheck // advisory unlock in defer is best-effort, lock released on connection close anyway
		_, _ = conn.Exec(ctx, "SELECT pg_advisory_unlock($1)", migrationLockID)
	}()

	dbSQL := stdlib.OpenDB(*s.pool.Config().ConnConfig)

	defer func() {
		_ = dbSQL.Close()
	}()

	goose.SetBaseFS(migrations.FS)
	goose.SetLogger(&gooseLogger{logger: s.logger})

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}

	if err := goose.Up(dbSQL, "."); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	return nil
}

func (s *PostgresStore) Write(ctx context.Context, record domain.ThreadRecord) error {
	post, err := json.Marshal(record.Post)
	if err != nil {
		return fmt.Errorf("encoding post of %s: %w", record.ID, err)
	}

	comments, err := json.Marshal(record.Comments)
	if err != nil {
		return fmt.Errorf("encoding comments of %s: %w", record.ID, err)
	}

	assessment, err := json.Marshal(record.Assessment)
	if err != nil {
		return fmt.Errorf("encoding assessment of %s: %w", record.ID, err)
	}

	const query = `
		INSERT INTO thread_records
			(id, thread_id, subreddit, post, comments, assessment, tier, observed_at, drafted_response)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (thread_id) DO NOTHING`

	_, err = s.pool.Exec(ctx, query,
		record.ID,
		record.ThreadID,
		record.Subreddit,
		post,
		comments,
		assessment,
		string(record.Tier),
		record.ObservedAt,
		record.DraftedResponse,
	)
	if err != nil {
		return fmt.Errorf("inserting record %s: %w", record.ID, err)
	}

	return nil
}

func (s *PostgresStore) ReadRecent(ctx context.Context, tier domain.PriorityTier, limit int) ([]domain.ThreadRecord, error) {
	const query = `
		SELECT id, thread_id, subreddit, post, comments, assessment, tier, observed_at, drafted_response
		FROM thread_records
		WHERE tier = $1
		ORDER BY observed_at DESC
		LIMIT $2`

	rows, err := s.pool.Query(ctx, query, string(tier), limit)
	if err != nil {
		return nil, fmt.Errorf("querying %s records: %w", tier, err)
	}
	defer rows.Close()

	var records []domain.ThreadRecord

	for rows.Next() {
		var (
			record             domain.ThreadRecord
			tierText           string
			post, comm, assess []byte
		)

		if err := rows.Scan(
			&record.ID,
			&record.ThreadID,
			&record.Subreddit,
			&post,
			&comm,
			&assess,
			&tierText,
			&record.ObservedAt,
			&record.DraftedResponse,
		); err != nil {
			return nil, fmt.Errorf("scanning record: %w", err)
		}

		if err := json.Unmarshal(post, &record.Post); err != nil {
			return nil, fmt.Errorf("decoding post of %s: %w", record.ID, err)
		}

		if len(comm) > 0 {
			if err := json.Unmarshal(comm, &record.Comments); err != nil {
				return nil, fmt.Errorf("decoding comments of %s: %w", record.ID, err)
			}
		}

		if err := json.Unmarshal(assess, &record.Assessment); err != nil {
			return nil, fmt.Errorf("decoding assessment of %s: %w", record.ID, err)
		}

		record.Tier = domain.PriorityTier(tierText)
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating %s records: %w", tier, err)
	}

	return records, nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
