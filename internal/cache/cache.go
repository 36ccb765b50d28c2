// Package cache stores the most recent upstream responses so the gateway can
// serve a real observation instead of the static fallback table when the WHO
// API goes away between requests. SQLite is the default backend; postgres and
// mysql are selectable for deployments that already run a database server.
package cache

import (
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// CountryListDocument is the document name under which the country list body
// is cached.
const CountryListDocument = "country-list"

// Config selects and configures the cache backend
type Config struct {
	// Driver is sqlite, postgres or mysql; empty means sqlite
	Driver string
	// Path is the database file for sqlite
	Path string
	// URL is the DSN for postgres/mysql
	URL string
	// TTL is how long a cached body stays servable; zero means no expiry
	TTL time.Duration
}

// Store is a read-through cache of raw upstream response bodies
type Store struct {
	db      *sql.DB
	dialect Dialect
	ttl     time.Duration
}

// Open connects to the configured backend and creates the cache tables
func Open(cfg Config) (*Store, error) {
	var dialect Dialect
	switch strings.ToLower(cfg.Driver) {
	case "sqlite", "sqlite3", "":
		dialect = sqliteDialect{}
	case "postgres", "postgresql":
		dialect = postgresDialect{}
	case "mysql":
		dialect = mysqlDialect{}
	default:
		return nil, fmt.Errorf("unsupported cache driver: %s", cfg.Driver)
	}

	db, err := sql.Open(dialect.DriverName(), dialect.DSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping cache database: %w", err)
	}

	s := &Store{db: db, dialect: dialect, ttl: cfg.TTL}
	if err := s.createTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create cache tables: %w", err)
	}

	return s, nil
}

// Close closes the underlying database
func (s *Store) Close() error {
	return s.db.Close()
}

// createTables creates the two cache tables if missing. The DDL sticks to
// the type subset all three backends accept.
func (s *Store) createTables() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS cached_documents (
			name VARCHAR(64) PRIMARY KEY,
			body TEXT NOT NULL,
			fetched_at BIGINT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS cached_observations (
			country VARCHAR(16) NOT NULL,
			sex VARCHAR(16) NOT NULL,
			body TEXT NOT NULL,
			fetched_at BIGINT NOT NULL,
			PRIMARY KEY (country, sex)
		)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// PutDocument stores a named response body, replacing any prior copy
func (s *Store) PutDocument(name string, body []byte) error {
	query := s.dialect.RewriteQuery(s.dialect.UpsertDocument())
	if _, err := s.db.Exec(query, name, string(body), time.Now().Unix()); err != nil {
		return fmt.Errorf("failed to cache document %s: %w", name, err)
	}
	return nil
}

// GetDocument returns a cached body if present and not expired
func (s *Store) GetDocument(name string) ([]byte, bool, error) {
	query := s.dialect.RewriteQuery(
		`SELECT body, fetched_at FROM cached_documents WHERE name = ?`)

	var body string
	var fetchedAt int64
	err := s.db.QueryRow(query, name).Scan(&body, &fetchedAt)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read cached document %s: %w", name, err)
	}

	if s.expired(fetchedAt) {
		return nil, false, nil
	}
	return []byte(body), true, nil
}

// PutObservation stores the raw life-expectancy envelope for a country/sex pair
func (s *Store) PutObservation(countryCode, sexCode string, body []byte) error {
	query := s.dialect.RewriteQuery(s.dialect.UpsertObservation())
	if _, err := s.db.Exec(query, countryCode, sexCode, string(body), time.Now().Unix()); err != nil {
		return fmt.Errorf("failed to cache observation %s/%s: %w", countryCode, sexCode, err)
	}
	return nil
}

// GetObservation returns a cached envelope if present and not expired
func (s *Store) GetObservation(countryCode, sexCode string) ([]byte, bool, error) {
	query := s.dialect.RewriteQuery(
		`SELECT body, fetched_at FROM cached_observations WHERE country = ? AND sex = ?`)

	var body string
	var fetchedAt int64
	err := s.db.QueryRow(query, countryCode, sexCode).Scan(&body, &fetchedAt)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read cached observation %s/%s: %w", countryCode, sexCode, err)
	}

	if s.expired(fetchedAt) {
		return nil, false, nil
	}
	return []byte(body), true, nil
}

func (s *Store) expired(fetchedAt int64) bool {
	if s.ttl <= 0 {
		return false
	}
	return time.Since(time.Unix(fetchedAt, 0)) > s.ttl
}
