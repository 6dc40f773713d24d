package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	sqlitemigrate "github.com/louisbranch/vergence/internal/platform/storage/sqlitemigrate"
	"github.com/louisbranch/vergence/internal/storage"
	"github.com/louisbranch/vergence/internal/storage/sqlite/migrations"
	_ "modernc.org/sqlite"
)

const (
	defaultListLimit = 100
	maxListLimit     = 1000
)

// Store provides SQLite-backed persistence for runtime telemetry events.
type Store struct {
	sqlDB *sql.DB
}

// Open opens and migrates a telemetry SQLite store.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	store := &Store{sqlDB: sqlDB}
	if err := sqlitemigrate.ApplyMigrations(sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return store, nil
}

// Close releases the underlying SQLite connection.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// AppendTelemetryEvent records one operational event.
func (s *Store) AppendTelemetryEvent(ctx context.Context, evt storage.TelemetryEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(evt.EventName) == "" {
		return fmt.Errorf("event name is required")
	}
	if strings.TrimSpace(evt.Severity) == "" {
		return fmt.Errorf("severity is required")
	}
	if evt.Timestamp.IsZero() {
		evt.Timestamp = time.Now().UTC()
	}
	if len(evt.AttributesJSON) == 0 && len(evt.Attributes) > 0 {
		payload, err := json.Marshal(evt.Attributes)
		if err != nil {
			return fmt.Errorf("marshal telemetry attributes: %w", err)
		}
		evt.AttributesJSON = payload
	}

	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO telemetry_events (
		    timestamp, event_name, severity, system_serial, session_id, trace_id, span_id, attributes_json
		 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		timeToUnixMillis(evt.Timestamp),
		evt.EventName,
		evt.Severity,
		evt.SystemSerial,
		evt.SessionID,
		evt.TraceID,
		evt.SpanID,
		evt.AttributesJSON,
	)
	if err != nil {
		return fmt.Errorf("append telemetry event: %w", err)
	}
	return nil
}

// ListTelemetryEvents returns events with seq > afterSeq in ascending
// sequence order, at most limit rows.
func (s *Store) ListTelemetryEvents(ctx context.Context, afterSeq uint64, limit int) ([]storage.TelemetryEvent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT seq, timestamp, event_name, severity, system_serial, session_id, trace_id, span_id, attributes_json
		 FROM telemetry_events
		 WHERE seq > ?
		 ORDER BY seq
		 LIMIT ?`,
		int64(afterSeq),
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list telemetry events: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	events := make([]storage.TelemetryEvent, 0)
	for rows.Next() {
		var evt storage.TelemetryEvent
		var seq int64
		var timestamp int64
		if err := rows.Scan(
			&seq,
			&timestamp,
			&evt.EventName,
			&evt.Severity,
			&evt.SystemSerial,
			&evt.SessionID,
			&evt.TraceID,
			&evt.SpanID,
			&evt.AttributesJSON,
		); err != nil {
			return nil, fmt.Errorf("scan telemetry event: %w", err)
		}
		if seq > 0 {
			evt.Seq = uint64(seq)
		}
		evt.Timestamp = unixMillisToTime(timestamp)
		if len(evt.AttributesJSON) > 0 {
			if err := json.Unmarshal(evt.AttributesJSON, &evt.Attributes); err != nil {
				return nil, fmt.Errorf("decode telemetry attributes: %w", err)
			}
		}
		events = append(events, evt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate telemetry events: %w", err)
	}
	return events, nil
}

func timeToUnixMillis(value time.Time) int64 {
	if value.IsZero() {
		return 0
	}
	return value.UTC().UnixMilli()
}

func unixMillisToTime(value int64) time.Time {
	if value <= 0 {
		return time.Time{}
	}
	return time.UnixMilli(value).UTC()
}

var _ storage.TelemetryStore = (*Store)(nil)
