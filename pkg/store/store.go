// pkg/store/store.go
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/catalogkit/colmatch/pkg/model"
)

// PatternStore is the read/write surface of the learned-pattern table.
// Lookup returns patterns for a key ordered by frequency descending,
// most recently used first on ties. Reinforce upserts the pair,
// incrementing frequency atomically so concurrent writers never lose
// updates
type PatternStore interface {
	Lookup(ctx context.Context, key string) ([]model.LearnedPattern, error)
	Reinforce(ctx context.Context, key, target string) error

	// Patterns returns every learned pattern, for statistics
	Patterns(ctx context.Context) ([]model.LearnedPattern, error)

	// ResetPatterns wipes all learned patterns. Explicit admin path only
	ResetPatterns(ctx context.Context) error
}

// CorrectionLog is the append-only correction history. Records are
// never updated or deleted outside of an explicit reset
type CorrectionLog interface {
	AppendCorrection(ctx context.Context, rec model.CorrectionRecord) error

	// RecentCorrections returns records newest first; limit <= 0 returns all
	RecentCorrections(ctx context.Context, limit int) ([]model.CorrectionRecord, error)

	CountCorrections(ctx context.Context) (int64, error)

	// ResetCorrections wipes the correction log. Explicit admin path only
	ResetCorrections(ctx context.Context) error
}

// Store combines the pattern table and correction log behind one
// durable backend
type Store interface {
	PatternStore
	CorrectionLog

	// Validate verifies the backend is reachable and writable
	Validate() error

	// Close releases backend resources
	Close() error
}

// PingWithTimeout attempts to ping a database with a timeout
func PingWithTimeout(ctx context.Context, db *sqlx.DB, timeout time.Duration) error {
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		errCh <- db.PingContext(pingCtx)
	}()

	select {
	case err := <-errCh:
		return err
	case <-pingCtx.Done():
		return fmt.Errorf("ping timed out after %v: %w", timeout, pingCtx.Err())
	}
}

// ApplyConnectionSettings configures database connection pool settings
func ApplyConnectionSettings(db *sqlx.DB, maxOpen, maxIdle int, maxLifetime, maxIdleTime time.Duration) {
	if maxOpen > 0 {
		db.SetMaxOpenConns(maxOpen)
	}
	if maxIdle > 0 {
		db.SetMaxIdleConns(maxIdle)
	}
	if maxLifetime > 0 {
		db.SetConnMaxLifetime(maxLifetime)
	}
	if maxIdleTime > 0 {
		db.SetConnMaxIdleTime(maxIdleTime)
	}
}

// LogConnectionStats logs connection pool statistics
func LogConnectionStats(logger *zap.Logger, name string, db *sqlx.DB) {
	stats := db.Stats()
	logger.Debug("Connection pool stats",
		zap.String("backend", name),
		zap.Int("openConnections", stats.OpenConnections),
		zap.Int("inUse", stats.InUse),
		zap.Int("idle", stats.Idle),
		zap.Int("maxOpen", stats.MaxOpenConnections),
	)
}
