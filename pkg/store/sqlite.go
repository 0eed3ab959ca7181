// pkg/store/sqlite.go
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/catalogkit/colmatch/pkg/config"
	"github.com/catalogkit/colmatch/pkg/model"
)

// SQLiteStore implements Store on an embedded SQLite database. It is
// the default durable backend: a single file, no server, transactional
// upserts
type SQLiteStore struct {
	db     *sqlx.DB
	logger *zap.Logger
	cfg    *config.SQLiteConfig
}

// NewSQLiteStore opens (or creates) the database file and ensures the
// engine tables exist
func NewSQLiteStore(ctx context.Context, cfg *config.SQLiteConfig) (*SQLiteStore, error) {
	logger := zap.L().Named("sqlite-store")

	logger.Info("Opening SQLite store", zap.String("path", cfg.Path))

	db, err := sqlx.Open("sqlite", cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	// A single writer connection sidesteps SQLITE_BUSY under
	// concurrent reinforcement
	db.SetMaxOpenConns(1)

	if err := PingWithTimeout(ctx, db, 5*time.Second); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to SQLite: %w", err)
	}

	store := &SQLiteStore{
		db:     db,
		logger: logger,
		cfg:    cfg,
	}

	if err := store.setupTables(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to setup store tables: %w", err)
	}

	return store, nil
}

// setupTables ensures the pattern table and correction log exist
func (s *SQLiteStore) setupTables(ctx context.Context) error {
	setupCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	createSQL := `
		CREATE TABLE IF NOT EXISTS learned_patterns (
			source_key TEXT NOT NULL,
			target_column TEXT NOT NULL,
			frequency INTEGER NOT NULL CHECK (frequency >= 1),
			last_used TIMESTAMP NOT NULL,
			PRIMARY KEY (source_key, target_column)
		);
		CREATE TABLE IF NOT EXISTS correction_records (
			id TEXT PRIMARY KEY,
			recorded_at TIMESTAMP NOT NULL,
			source_header TEXT NOT NULL,
			language TEXT NOT NULL,
			target_column TEXT NOT NULL,
			template TEXT NOT NULL,
			confidence_before DOUBLE NOT NULL
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
func (s *SQLiteStore) Lookup(ctx context.Context, key string) ([]model.LearnedPattern, error) {
	query := `
		SELECT source_key, target_column, frequency, last_used
		FROM learned_patterns
		WHERE source_key = ?
		ORDER BY frequency DESC, last_used DESC, target_column ASC
	`
	return s.queryPatterns(ctx, query, key)
}

// Reinforce upserts the (key, target) pair in one atomic statement;
// concurrent increments serialize inside SQLite
func (s *SQLiteStore) Reinforce(ctx context.Context, key, target string) error {
	query := `
		INSERT INTO learned_patterns (source_key, target_column, frequency, last_used)
		VALUES (?, ?, 1, ?)
		ON CONFLICT (source_key, target_column)
		DO UPDATE SET frequency = frequency + 1, last_used = excluded.last_used
	`
	if _, err := s.db.ExecContext(ctx, query, key, target, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to reinforce pattern: %w", err)
	}
	return nil
}

// Patterns returns every learned pattern for statistics
func (s *SQLiteStore) Patterns(ctx context.Context) ([]model.LearnedPattern, error) {
	query := `
		SELECT source_key, target_column, frequency, last_used
		FROM learned_patterns
		ORDER BY frequency DESC, last_used DESC, source_key ASC, target_column ASC
	`
	return s.queryPatterns(ctx, query)
}

// ResetPatterns wipes all learned patterns
func (s *SQLiteStore) ResetPatterns(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM learned_patterns"); err != nil {
		return fmt.Errorf("failed to reset patterns: %w", err)
	}
	s.logger.Warn("Learned patterns reset")
	return nil
}

// AppendCorrection appends one immutable correction record
func (s *SQLiteStore) AppendCorrection(ctx context.Context, rec model.CorrectionRecord) error {
	query := `
		INSERT INTO correction_records
		(id, recorded_at, source_header, language, target_column, template, confidence_before)
		VALUES (?, ?, ?, ?, ?, ?, ?)
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
func (s *SQLiteStore) RecentCorrections(ctx context.Context, limit int) ([]model.CorrectionRecord, error) {
	query := `
		SELECT id, recorded_at, source_header, language, target_column, template, confidence_before
		FROM correction_records
		ORDER BY recorded_at DESC, id ASC
	`
	args := []interface{}{}
	if limit > 0 {
		query += " LIMIT ?"
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
func (s *SQLiteStore) CountCorrections(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM correction_records").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count correction records: %w", err)
	}
	return count, nil
}

// ResetCorrections wipes the correction log
func (s *SQLiteStore) ResetCorrections(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM correction_records"); err != nil {
		return fmt.Errorf("failed to reset correction records: %w", err)
	}
	s.logger.Warn("Correction log reset")
	return nil
}

// Validate verifies the database is reachable and writable
func (s *SQLiteStore) Validate() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("SQLite ping failed: %w", err)
	}

	var count int64
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM learned_patterns").Scan(&count); err != nil {
		return fmt.Errorf("pattern table validation failed: %w", err)
	}

	s.logger.Info("SQLite store validated",
		zap.String("path", s.cfg.Path),
		zap.Int64("patterns", count))
	return nil
}

// Close closes the database
func (s *SQLiteStore) Close() error {
	s.logger.Info("Closing SQLite store")
	return s.db.Close()
}

func (s *SQLiteStore) queryPatterns(ctx context.Context, query string, args ...interface{}) ([]model.LearnedPattern, error) {
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
