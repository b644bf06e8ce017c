package repository

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/XSAM/otelsql"
	"github.com/aaravmahajanofficial/storefront-cart/internal/config"
	"github.com/aaravmahajanofficial/storefront-cart/internal/utils"
	"github.com/lib/pq"
	"go.opentelemetry.io/otel/attribute"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

var (
	ErrNotFound = errors.New("record not found")
	ErrConflict = errors.New("record already exists")
)

//go:embed schema/postgres.sql
var postgresSchema string

//go:embed schema/sqlite.sql
var sqliteSchema string

// Dialect hides the few places where Postgres and SQLite disagree.
type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite"
)

// Rebind rewrites $N placeholders into positional ? for SQLite, expanding
// args to match. Postgres queries pass through untouched.
func (d Dialect) Rebind(query string, args []any) (string, []any) {
	if d != DialectSQLite || !strings.Contains(query, "$") {
		return query, args
	}

	var b strings.Builder
	b.Grow(len(query))
	out := make([]any, 0, len(args))

	for i := 0; i < len(query); i++ {
		c := query[i]
		if c != '$' {
			b.WriteByte(c)
			continue
		}

		j := i + 1
		for j < len(query) && query[j] >= '0' && query[j] <= '9' {
			j++
		}
		if j == i+1 {
			b.WriteByte(c)
			continue
		}

		n, _ := strconv.Atoi(query[i+1 : j])
		if n >= 1 && n <= len(args) {
			out = append(out, args[n-1])
		}
		b.WriteByte('?')
		i = j - 1
	}

	return b.String(), out
}

// ForUpdate is the row lock suffix. SQLite transactions are opened with
// BEGIN IMMEDIATE and already hold the write lock.
func (d Dialect) ForUpdate() string {
	if d == DialectPostgres {
		return " FOR UPDATE"
	}
	return ""
}

func (d Dialect) Like() string {
	if d == DialectPostgres {
		return "ILIKE"
	}
	return "LIKE"
}

func (d Dialect) schema() string {
	if d == DialectSQLite {
		return sqliteSchema
	}
	return postgresSchema
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// boundQuerier applies the dialect to every statement.
type boundQuerier struct {
	q       querier
	dialect Dialect
}

func (b boundQuerier) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	query, args = b.dialect.Rebind(query, args)
	return b.q.ExecContext(ctx, query, args...)
}

func (b boundQuerier) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	query, args = b.dialect.Rebind(query, args)
	return b.q.QueryContext(ctx, query, args...)
}

func (b boundQuerier) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	query, args = b.dialect.Rebind(query, args)
	return b.q.QueryRowContext(ctx, query, args...)
}

type Repository struct {
	DB      *sql.DB
	Dialect Dialect
}

// New opens the configured store with tracing enabled on every statement.
func New(cfg *config.Database) (*Repository, error) {
	var driverName, dsn, system string
	var dialect Dialect

	switch cfg.Driver {
	case config.DriverPostgres:
		driverName, dsn, system, dialect = "postgres", cfg.GetDSN(), "postgresql", DialectPostgres
	case config.DriverSQLite:
		if dir := filepath.Dir(cfg.SQLitePath); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("failed to create sqlite directory: %w", err)
			}
		}
		driverName, dsn, system, dialect = "sqlite", cfg.SQLiteDSN(), "sqlite", DialectSQLite
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	db, err := otelsql.Open(driverName, dsn, otelsql.WithAttributes(attribute.String("db.system", system)))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	ctx, cancel := utils.WithDBTimeout(context.Background())
	defer cancel()

	// Test the connection to make sure DB is reachable
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	slog.Info("Database connection established", slog.String("driver", driverName))

	return &Repository{DB: db, Dialect: dialect}, nil
}

// Migrate applies the embedded schema. Every statement is idempotent.
func (r *Repository) Migrate(ctx context.Context) error {
	if _, err := r.DB.ExecContext(ctx, r.Dialect.schema()); err != nil {
		return fmt.Errorf("failed to apply %s schema: %w", r.Dialect, err)
	}

	return nil
}

func (r *Repository) Close() error {
	return r.DB.Close()
}

func withTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		code := liteErr.Code()
		if code == sqlite3.SQLITE_CONSTRAINT_UNIQUE || code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY {
			return true
		}
		return code&0xff == sqlite3.SQLITE_CONSTRAINT && strings.Contains(liteErr.Error(), "UNIQUE")
	}

	return false
}

// placeholders returns "$start, $start+1, ..." for n values.
func placeholders(start, n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = "$" + strconv.Itoa(start+i)
	}
	return strings.Join(parts, ", ")
}
