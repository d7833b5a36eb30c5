package store

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/cockroachdb/errors"
	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

// Dialect is a supported SQL backend.
type Dialect string

const (
	SQLite   Dialect = "sqlite"
	Postgres Dialect = "postgres"
	MySQL    Dialect = "mysql"
)

// Params holds connection details for a backend
type Params struct {
	Type     Dialect
	Path     string // sqlite file; empty means the XDG data file
	Host     string
	Port     int
	User     string
	Password string
	Database string
}

// DefaultSQLitePath returns the XDG-compliant store location.
func DefaultSQLitePath() (string, error) {
	return xdg.DataFile("ezmoji/store.db")
}

// SQLStore keeps keys in a single kv table.
type SQLStore struct {
	db      *sql.DB
	dialect Dialect
	q       queries
	log     *zap.SugaredLogger
}

type queries struct {
	create []string
	get    string
	set    string
	del    string
	keys   string
}

func queriesFor(d Dialect) (queries, error) {
	switch d {
	case SQLite:
		return queries{
			create: []string{`CREATE TABLE IF NOT EXISTS kv (
				k TEXT PRIMARY KEY,
				v TEXT NOT NULL,
				updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
			)`},
			get:  `SELECT v FROM kv WHERE k = ?`,
			set:  `INSERT INTO kv (k, v, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP) ON CONFLICT (k) DO UPDATE SET v = excluded.v, updated_at = CURRENT_TIMESTAMP`,
			del:  `DELETE FROM kv WHERE k = ?`,
			keys: `SELECT k FROM kv WHERE k LIKE ? ESCAPE '!' ORDER BY k`,
		}, nil
	case Postgres:
		return queries{
			create: []string{`CREATE TABLE IF NOT EXISTS kv (
				k TEXT PRIMARY KEY,
				v TEXT NOT NULL,
				updated_at TIMESTAMPTZ DEFAULT now()
			)`},
			get:  `SELECT v FROM kv WHERE k = $1`,
			set:  `INSERT INTO kv (k, v, updated_at) VALUES ($1, $2, now()) ON CONFLICT (k) DO UPDATE SET v = EXCLUDED.v, updated_at = now()`,
			del:  `DELETE FROM kv WHERE k = $1`,
			keys: `SELECT k FROM kv WHERE k LIKE $1 ESCAPE '!' ORDER BY k`,
		}, nil
	case MySQL:
		return queries{
			create: []string{`CREATE TABLE IF NOT EXISTS kv (
				k VARCHAR(191) PRIMARY KEY,
				v LONGTEXT NOT NULL,
				updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
			)`},
			get:  `SELECT v FROM kv WHERE k = ?`,
			set:  `INSERT INTO kv (k, v) VALUES (?, ?) ON DUPLICATE KEY UPDATE v = VALUES(v)`,
			del:  `DELETE FROM kv WHERE k = ?`,
			keys: `SELECT k FROM kv WHERE k LIKE ? ESCAPE '!' ORDER BY k`,
		}, nil
	default:
		return queries{}, errors.Newf("unknown store type: %s", d)
	}
}

// Open connects to the backend described by p and prepares the kv table.
func Open(ctx context.Context, p Params, log *zap.SugaredLogger) (*SQLStore, error) {
	var (
		db  *sql.DB
		err error
	)
	switch p.Type {
	case "", SQLite:
		p.Type = SQLite
		db, err = openSQLite(p)
	case Postgres:
		db, err = openPostgres(p)
	case MySQL:
		db, err = openMySQL(p)
	default:
		return nil, WrapConnectionError(errors.Newf("unknown store type: %s", p.Type))
	}
	if err != nil {
		return nil, WrapConnectionError(err)
	}

	if p.Type != SQLite {
		// Configure connection pooling
		db.SetMaxOpenConns(5)
		db.SetMaxIdleConns(2)
		db.SetConnMaxLifetime(5 * time.Minute)

		pingCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
		defer cancel()
		if err := db.PingContext(pingCtx); err != nil {
			db.Close()
			return nil, WrapConnectionError(err)
		}
	}

	s, err := New(ctx, db, p.Type, log)
	if err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// New wraps an open database and creates the kv table if needed.
func New(ctx context.Context, db *sql.DB, d Dialect, log *zap.SugaredLogger) (*SQLStore, error) {
	q, err := queriesFor(d)
	if err != nil {
		return nil, WrapConnectionError(err)
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	for _, stmt := range q.create {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return nil, WrapConnectionError(errors.Wrap(err, "create kv table"))
		}
	}
	return &SQLStore{db: db, dialect: d, q: q, log: log}, nil
}

func openSQLite(p Params) (*sql.DB, error) {
	path := p.Path
	if path == "" {
		var err error
		if path, err = DefaultSQLitePath(); err != nil {
			return nil, err
		}
	}
	path = strings.TrimPrefix(path, "sqlite://")

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if path == ":memory:" {
		// every pooled connection would otherwise get its own empty database
		db.SetMaxOpenConns(1)
	}
	// Apply SQLite pragmas for better performance and safety
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "pragma journal_mode")
	}
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "pragma busy_timeout")
	}
	return db, nil
}

func openPostgres(p Params) (*sql.DB, error) {
	port := p.Port
	if port == 0 {
		port = 5432
	}
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(p.User, p.Password),
		Host:     fmt.Sprintf("%s:%d", p.Host, port),
		Path:     "/" + p.Database,
		RawQuery: "sslmode=prefer",
	}
	connConfig, err := pgx.ParseConfig(u.String())
	if err != nil {
		return nil, err
	}
	return sql.Open("pgx", stdlib.RegisterConnConfig(connConfig))
}

func openMySQL(p Params) (*sql.DB, error) {
	port := p.Port
	if port == 0 {
		port = 3306
	}
	cfg := mysql.NewConfig()
	cfg.User = p.User
	cfg.Passwd = p.Password
	cfg.Net = "tcp"
	cfg.Addr = fmt.Sprintf("%s:%d", p.Host, port)
	cfg.DBName = p.Database
	cfg.ParseTime = true
	return sql.Open("mysql", cfg.FormatDSN())
}

// Dialect returns the backend kind.
func (s *SQLStore) Dialect() Dialect { return s.dialect }

// Close closes the database connection
func (s *SQLStore) Close() error {
	return s.db.Close()
}

func (s *SQLStore) Get(ctx context.Context, key string) (string, error) {
	var v string
	err := s.db.QueryRowContext(ctx, s.q.get, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", errors.Wrapf(ErrNotFound, "%q", key)
	}
	if err != nil {
		return "", WrapQueryError("get", key, err)
	}
	return v, nil
}

func (s *SQLStore) Set(ctx context.Context, key, value string) error {
	if _, err := s.db.ExecContext(ctx, s.q.set, key, value); err != nil {
		return WrapQueryError("set", key, err)
	}
	s.log.Debugw("store set", "key", key, "bytes", len(value))
	return nil
}

func (s *SQLStore) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, s.q.del, key); err != nil {
		return WrapQueryError("delete", key, err)
	}
	return nil
}

// likeEscaper makes a prefix literal inside LIKE ... ESCAPE '!'.
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// Keys lists keys starting with prefix.
func (s *SQLStore) Keys(ctx context.Context, prefix string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, s.q.keys, likeEscaper.Replace(prefix)+"%")
	if err != nil {
		return nil, WrapQueryError("keys", prefix, err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, WrapQueryError("keys", prefix, err)
		}
		// LIKE folds case on sqlite and mysql
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, WrapQueryError("keys", prefix, err)
	}
	return keys, nil
}
