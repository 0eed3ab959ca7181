// pkg/store/postgres.go
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/catalogkit/colmatch/pkg/config"
	"github.com/catalogkit/colmatch/pkg/model"
)

// PostgresStore implements Store on PostgreSQL, for deployments where
// several engine instances share one learning state
type PostgresStore struct {
	db     *sqlx.DB
	logger *zap.Logger
	cfg    *config.PostgresConfig
}

// NewPostgresStore creates and initializes a new PostgreSQL-backed store
func NewPostgresStore(ctx context.Context, cfg *config.PostgresConfig) (*PostgresStore, error) {
	logger := zap.L().Named("postgres-store")

	logger.Info("Connecting to PostgreSQL",
		zap.String("host", cfg.Host),
		zap.Int("port", cfg.Port),
		zap.String("database", cfg.Database),
		zap.String("user", cfg.User))

	db, err := sqlx.Open("postgres", cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize PostgreSQL connection: %w", err)
	}

	ApplyConnectionSettings(
		db,
		cfg.MaxOpenConns,
		cfg.MaxIdleConns,
		cfg.ConnMaxLifetime,
		cfg.ConnMaxIdleTime,
	)

	if cfg.StatementTimeout > 0 {
		_, err = db.ExecContext(
			ctx,
			fmt.Sprintf("SET statement_timeout = %d", cfg.StatementTimeout.Milliseconds()),
		)
		if err != nil {
			logger.Warn("Failed to set statement timeout", zap.Error(err))
		}
	}

	if err := PingWithTimeout(ctx, db, 5*time.Second); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}

	store := &PostgresStore{
		db:     db,
		logger: logger,
		cfg:    cfg,
	}

	if err := store.setupTables(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to setup store tables: %w", err)
	}

	LogConnectionStats(logger, cfg.Database, db)
	return store, nil
}

// setupTables ensures the pattern table and correction log exist
func (s *PostgresStore) setupTables(ctx context.Context) error {
	setupCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	createSQL := `
		CREATE TABLE IF NOT EXISTS learned_patterns (
			source_key TEXT NOT NULL,
			target_column TEXT NOT NULL,
			frequency BIGINT NOT NULL CHECK (frequency >= 1),
			last_used TIMESTAMP WITH TIME ZONE NOT NULL,
			PRIMARY KEY (source_key, target_column)
		);
		CREATE TABLE IF NOT EXISTS correction_records (
			id TEXT PRIMARY KEY,
			recorded_at TIMESTAMP WITH TIME ZONE NOT NULL,
			source_header TEXT NOT NULL,
			language TEXT NOT NULL,
			target_column TEXT NOT NULL,
			template TEXT NOT NULL,
			confidence_before DOUBLE PRECISION NOT NULL
		);
	`
	if _, err := s.db.ExecContext(setupCtx, createSQL); err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}

	s.logger.Info("Ensured store tables exist")
	return nil
}

// Lookup returns patterns for a key, frequency descending, most recent
// first on ties
func (s *PostgresStore) Lookup(ctx context.Context, key string) ([]model.LearnedPattern, error) {
	query := `
		SELECT source_key, target_column, frequency, last_used
		FROM learned_patterns
		WHERE source_key = $1
		ORDER BY frequency DESC, last_used DESC, target_column ASC
	`
	return s.queryPatterns(ctx, query, key)
}

// Reinforce upserts the (key, target) pair; the conflict clause makes
// the increment atomic under concurrent writers
func (s *PostgresStore) Reinforce(ctx context.Context, key, target string) error {
	query := `
		INSERT INTO learned_patterns (source_key, target_column, frequency, last_used)
		VALUES ($1, $2, 1, $3)
		ON CONFLICT (source_key, target_column)
		DO UPDATE SET frequency = learned_patterns.frequency + 1, last_used = EXCLUDED.last_used
	`
	if _, err := s.db.ExecContext(ctx, query, key, target, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to reinforce pattern: %w", err)
	}
	return nil
}

// Patterns returns every learned pattern for statistics
func (s *PostgresStore) Patterns(ctx context.Context) ([]model.LearnedPattern, error) {
	query := `
		SELECT source_key, target_column, frequency, last_used
		FROM learned_patterns
		ORDER BY frequency DESC, last_used DESC, source_key ASC, target_column ASC
	`
	return s.queryPatterns(ctx, query)
}

// ResetPatterns wipes all learned patterns
func (s *PostgresStore) ResetPatterns(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM learned_patterns"); err != nil {
		return fmt.Errorf("failed to reset patterns: %w", err)
	}
	s.logger.Warn("Learned patterns reset")
	return nil
}

// AppendCorrection appends one immutable correction record
func (s *PostgresStore) AppendCorrection(ctx context.Context, rec model.CorrectionRecord) error {
	query := `
		INSERT INTO correction_records
		(id, recorded_at, source_header, language, target_column, template, confidence_before)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := s.db.ExecContext(ctx, query,
		rec.ID,
		rec.RecordedAt.UTC(),
		rec.SourceHeader,
		string(rec.Language),
		rec.TargetColumn,
		rec.Template,
		rec.ConfidenceBefore,
	)
	if err != nil {
		return fmt.Errorf("failed to append correction record: %w", err)
	}
	return nil
}

// RecentCorrections returns records newest first; limit <= 0 returns all
func (s *PostgresStore) RecentCorrections(ctx context.Context, limit int) ([]model.CorrectionRecord, error) {
	query := `
		SELECT id, recorded_at, source_header, language, target_column, template, confidence_before
		FROM correction_records
		ORDER BY recorded_at DESC, id ASC
	`
	args := []interface{}{}
	if limit > 0 {
		query += " LIMIT $1"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query correction records: %w", err)
	}
	defer rows.Close()

	var out []model.CorrectionRecord
	for rows.Next() {
		var rec model.CorrectionRecord
		var language string
		if err := rows.Scan(&rec.ID, &rec.RecordedAt, &rec.SourceHeader, &language,
			&rec.TargetColumn, &rec.Template, &rec.ConfidenceBefore); err != nil {
			return nil, fmt.Errorf("failed to scan correction record: %w", err)
		}
		rec.Language = model.Language(language)
		out = append(out, rec)
	}
	return out, rows.Err()
}

// CountCorrections returns the number of recorded corrections
func (s *PostgresStore) CountCorrections(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM correction_records").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count correction records: %w", err)
	}
	return count, nil
}

// ResetCorrections wipes the correction log
func (s *PostgresStore) ResetCorrections(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM correction_records"); err != nil {
		return fmt.Errorf("failed to reset correction records: %w", err)
	}
	s.logger.Warn("Correction log reset")
	return nil
}

// Validate verifies the PostgreSQL connection and table access
func (s *PostgresStore) Validate() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var version string
	if err := s.db.QueryRowContext(ctx, "SELECT version()").Scan(&version); err != nil {
		return fmt.Errorf("failed to query PostgreSQL version: %w", err)
	}

	var count int64
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM learned_patterns").Scan(&count); err != nil {
		return fmt.Errorf("pattern table validation failed: %w", err)
	}

	s.logger.Info("PostgreSQL store validated",
		zap.String("database", s.cfg.Database),
		zap.String("host", s.cfg.Host),
		zap.Int64("patterns", count))
	return nil
}

// Close closes the database connection
func (s *PostgresStore) Close() error {
	s.logger.Info("Closing PostgreSQL store")
	LogConnectionStats(s.logger, s.cfg.Database, s.db)
	return s.db.Close()
}

func (s *PostgresStore) queryPatterns(ctx context.Context, query string, args ...interface{}) ([]model.LearnedPattern, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query patterns: %w", err)
	}
	defer rows.Close()

	var out []model.LearnedPattern
	for rows.Next() {
		var p model.LearnedPattern
		if err := rows.Scan(&p.SourceKey, &p.TargetColumn, &p.Frequency, &p.LastUsed); err != nil {
			return nil, fmt.Errorf("failed to scan pattern: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
