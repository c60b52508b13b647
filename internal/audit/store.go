package audit

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

// Store persists audit events in PostgreSQL
type Store struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// StoreConfig contains database configuration
type StoreConfig struct {
	DatabaseURL     string        `yaml:"database_url" mapstructure:"database_url"`
	MaxOpenConns    int           `yaml:"max_open_conns" mapstructure:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns" mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime" mapstructure:"conn_max_lifetime"`
}

const schema = `
CREATE TABLE IF NOT EXISTS compliance_events (
	id               BIGSERIAL PRIMARY KEY,
	created_at       TIMESTAMPTZ NOT NULL DEFAULT now(),
	event_type       TEXT NOT NULL,
	pii_types        TEXT[] NOT NULL DEFAULT '{}',
	instance_count   INTEGER NOT NULL DEFAULT 0,
	confidence       DOUBLE PRECISION NOT NULL DEFAULT 0,
	compliant        BOOLEAN NOT NULL DEFAULT true,
	action           TEXT NOT NULL DEFAULT '',
	masked_chars     INTEGER NOT NULL DEFAULT 0,
	scan_duration_ms DOUBLE PRECISION NOT NULL DEFAULT 0,
	user_id          TEXT NOT NULL DEFAULT '',
	document_type    TEXT NOT NULL DEFAULT '',
	document_id      TEXT NOT NULL DEFAULT '',
	file_name        TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_compliance_events_user ON compliance_events (user_id, created_at DESC);
CREATE INDEX IF NOT EXISTS idx_compliance_events_created ON compliance_events (created_at DESC);`

// NewStore creates a new audit store instance
func NewStore(config *StoreConfig, logger *zap.Logger) (*Store, error) {
	db, err := sqlx.Connect("postgres", config.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if config.MaxOpenConns > 0 {
		db.SetMaxOpenConns(config.MaxOpenConns)
	}
	if config.MaxIdleConns > 0 {
		db.SetMaxIdleConns(config.MaxIdleConns)
	}
	if config.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(config.ConnMaxLifetime)
	}

	store := &Store{
		db:     db,
		logger: logger,
	}

	if err := store.initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize store: %w", err)
	}

	logger.Info("Audit store initialized successfully",
		zap.String("database_url", maskDatabaseURL(config.DatabaseURL)))

	return store, nil
}

// initialize checks database connection and ensures the schema exists
func (s *Store) initialize() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}

	return nil
}

// Insert adds a new event to the audit trail
func (s *Store) Insert(ctx context.Context, event *Event) error {
	query := `
		INSERT INTO compliance_events (
			created_at, event_type, pii_types, instance_count, confidence,
			compliant, action, masked_chars, scan_duration_ms,
			user_id, document_type, document_id, file_name)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id`

	err := s.db.QueryRowContext(ctx, query,
		event.Timestamp,
		event.Type,
		event.PIITypes,
		event.InstanceCount,
		event.Confidence,
		event.Compliant,
		event.Action,
		event.MaskedChars,
		event.ScanDurationMS,
		event.UserID,
		event.DocumentType,
		event.DocumentID,
		event.FileName,
	).Scan(&event.ID)

	if err != nil {
		s.logger.Error("Failed to insert audit event",
			zap.Error(err),
			zap.String("event_type", string(event.Type)))
		return fmt.Errorf("failed to insert audit event: %w", err)
	}

	s.logger.Debug("Audit event recorded",
		zap.Int64("id", event.ID),
		zap.String("event_type", string(event.Type)),
		zap.Int("instance_count", event.InstanceCount))

	return nil
}

// RecentByUser returns a user's most recent events, newest first
func (s *Store) RecentByUser(ctx context.Context, userID string, limit int) ([]*Event, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT id, created_at, event_type, pii_types, instance_count, confidence,
		       compliant, action, masked_chars, scan_duration_ms,
		       user_id, document_type, document_id, file_name
		FROM compliance_events
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2`

	var events []*Event
	if err := s.db.SelectContext(ctx, &events, query, userID, limit); err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}

	return events, nil
}

// Since returns every event recorded after the given time, oldest first
func (s *Store) Since(ctx context.Context, after time.Time) ([]*Event, error) {
	query := `
		SELECT id, created_at, event_type, pii_types, instance_count, confidence,
		       compliant, action, masked_chars, scan_duration_ms,
		       user_id, document_type, document_id, file_name
		FROM compliance_events
		WHERE created_at > $1
		ORDER BY created_at ASC`

	var events []*Event
	if err := s.db.SelectContext(ctx, &events, query, after); err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}

	return events, nil
}

// Stats aggregates the audit trail
func (s *Store) Stats(ctx context.Context) (*Stats, error) {
	query := `
		SELECT
			count(*) AS total_events,
			count(*) FILTER (WHERE NOT compliant) AS non_compliant,
			coalesce(avg(confidence), 0) AS avg_confidence,
			coalesce(sum(instance_count), 0) AS total_instances,
			count(DISTINCT user_id) AS distinct_users
		FROM compliance_events`

	var stats Stats
	if err := s.db.GetContext(ctx, &stats, query); err != nil {
		return nil, fmt.Errorf("failed to query stats: %w", err)
	}

	return &stats, nil
}

// Close releases the database connection pool
func (s *Store) Close() error {
	return s.db.Close()
}

// maskDatabaseURL masks sensitive information in database URL for logging
func maskDatabaseURL(url string) string {
	// Simple masking - replace password with ***
	if strings.Contains(url, "@") {
		parts := strings.Split(url, "@")
		if len(parts) >= 2 {
			userPart := parts[0]
			if strings.Contains(userPart, ":") {
				userParts := strings.Split(userPart, ":")
				if len(userParts) >= 3 {
					userParts[len(userParts)-1] = "***"
					parts[0] = strings.Join(userParts, ":")
				}
			}
			return strings.Join(parts, "@")
		}
	}
	return url
}
