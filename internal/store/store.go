// Package store owns the users table of an embedded SQLite database and the
// four record operations issued against it.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const (
	// DriverName is the database/sql driver registered by go-sqlite3.
	DriverName = "sqlite3"

	// MemoryPath opens a private in-memory database.
	MemoryPath = ":memory:"

	instrumentationName = "github.com/qntx/userdb/internal/store"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS users (
	id      INTEGER PRIMARY KEY AUTOINCREMENT,
	name    TEXT    NOT NULL,
	age     INTEGER NOT NULL,
	address TEXT    NOT NULL
)`

// Store wraps the single connection used for every record operation. It is
// not safe for concurrent use.
type Store struct {
	db     *sqlx.DB
	path   string
	active atomic.Bool

	logger *slog.Logger
	tracer trace.Tracer
	meter  metric.Meter
	inst   instruments
}

// Option configures a Store.
type Option func(*Store)

// WithLogger logs every statement at debug level and failures at error level.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithTracer records one span per statement.
func WithTracer(tracer trace.Tracer) Option {
	return func(s *Store) {
		if tracer != nil {
			s.tracer = tracer
		}
	}
}

// WithMeter records statement counters and durations.
func WithMeter(meter metric.Meter) Option {
	return func(s *Store) {
		if meter != nil {
			s.meter = meter
		}
	}
}

// Open opens the database file at path, creating its parent directory when
// needed. The pool is limited to one connection, so MemoryPath yields one
// database shared by every call on the returned Store.
func Open(ctx context.Context, path string, opts ...Option) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("open store: empty path")
	}
	if path != MemoryPath {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("open store: create parent dir: %w", err)
		}
	}

	db, err := sql.Open(DriverName, path)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("open store %s: %w", path, err)
	}

	s := New(db, opts...)
	s.path = path
	return s, nil
}

// New wraps an open handle. The Store owns db from here on and closes it in
// Close.
func New(db *sql.DB, opts ...Option) *Store {
	s := &Store{
		db:     sqlx.NewDb(db, DriverName),
		logger: slog.New(slog.DiscardHandler),
		tracer: otel.Tracer(instrumentationName),
		meter:  otel.Meter(instrumentationName),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.inst = newInstruments(s.meter)
	return s
}

// Close releases the connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file path, or "" for a Store built with New.
func (s *Store) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

// EnsureSchema creates the users table if it does not exist yet.
func (s *Store) EnsureSchema(ctx context.Context) error {
	err := s.observe(ctx, "schema", func(ctx context.Context) error {
		_, err := s.db.ExecContext(ctx, schemaSQL)
		return err
	})
	if err != nil {
		return &SchemaError{Err: err}
	}
	return nil
}
