package cache

import (
	"regexp"
	"strconv"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// Dialect covers the per-database differences the cache store needs: driver
// and DSN selection, placeholder style and upsert syntax.
type Dialect interface {
	DriverName() string
	DSN(cfg Config) string

	// RewriteQuery converts ? placeholders to the driver's style
	RewriteQuery(query string) string

	// UpsertDocument and UpsertObservation return the dialect's insert-or-
	// replace statements for the two cache tables, with ? placeholders.
	UpsertDocument() string
	UpsertObservation() string
}

// placeholderRegexp matches ? placeholders
var placeholderRegexp = regexp.MustCompile(`\?`)

// rewritePlaceholdersToNumbered converts ? placeholders to $1, $2, etc.
func rewritePlaceholdersToNumbered(query string) string {
	counter := 0
	return placeholderRegexp.ReplaceAllStringFunc(query, func(string) string {
		counter++
		return "$" + strconv.Itoa(counter)
	})
}

type sqliteDialect struct{}

func (sqliteDialect) DriverName() string { return "sqlite3" }

func (sqliteDialect) DSN(cfg Config) string { return cfg.Path }

func (sqliteDialect) RewriteQuery(query string) string { return query }

func (sqliteDialect) UpsertDocument() string {
	return `INSERT INTO cached_documents (name, body, fetched_at) VALUES (?, ?, ?)
		ON CONFLICT (name) DO UPDATE SET body = excluded.body, fetched_at = excluded.fetched_at`
}

func (sqliteDialect) UpsertObservation() string {
	return `INSERT INTO cached_observations (country, sex, body, fetched_at) VALUES (?, ?, ?, ?)
		ON CONFLICT (country, sex) DO UPDATE SET body = excluded.body, fetched_at = excluded.fetched_at`
}

type postgresDialect struct{}

func (postgresDialect) DriverName() string { return "postgres" }

func (postgresDialect) DSN(cfg Config) string { return cfg.URL }

func (postgresDialect) RewriteQuery(query string) string {
	return rewritePlaceholdersToNumbered(query)
}

func (postgresDialect) UpsertDocument() string {
	return `INSERT INTO cached_documents (name, body, fetched_at) VALUES (?, ?, ?)
		ON CONFLICT (name) DO UPDATE SET body = EXCLUDED.body, fetched_at = EXCLUDED.fetched_at`
}

func (postgresDialect) UpsertObservation() string {
	return `INSERT INTO cached_observations (country, sex, body, fetched_at) VALUES (?, ?, ?, ?)
		ON CONFLICT (country, sex) DO UPDATE SET body = EXCLUDED.body, fetched_at = EXCLUDED.fetched_at`
}

type mysqlDialect struct{}

func (mysqlDialect) DriverName() string { return "mysql" }

func (mysqlDialect) DSN(cfg Config) string { return cfg.URL }

func (mysqlDialect) RewriteQuery(query string) string { return query }

func (mysqlDialect) UpsertDocument() string {
	return `INSERT INTO cached_documents (name, body, fetched_at) VALUES (?, ?, ?)
		ON DUPLICATE KEY UPDATE body = VALUES(body), fetched_at = VALUES(fetched_at)`
}

func (mysqlDialect) UpsertObservation() string {
	return `INSERT INTO cached_observations (country, sex, body, fetched_at) VALUES (?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE body = VALUES(body), fetched_at = VALUES(fetched_at)`
}
