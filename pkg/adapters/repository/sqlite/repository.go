package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"github.com/pkg/errors"
	_ "github.com/tursodatabase/libsql-client-go/libsql" // Turso driver
	driver "modernc.org/sqlite"                          // Local SQLite driver

	"github.com/wadjakorntonsri/go-shortlink/pkg/core/domain"
)

// Legacy schema: existing database files from earlier deployments must keep
// working, so column names and constraints stay exactly as they were.
const schema = `
	CREATE TABLE IF NOT EXISTS links (
		short_link  TEXT UNIQUE,
		url         TEXT,
		deletion_id TEXT UNIQUE,
		clicks      INTEGER DEFAULT 0,
		timestamp   INTEGER,
		PRIMARY KEY (short_link)
	);`

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbURL string) (*SQLiteRepository, error) {
	driverName := "sqlite"
	if strings.Contains(dbURL, "libsql://") || strings.Contains(dbURL, "wss://") {
		driverName = "libsql"
	}

	db, err := sql.Open(driverName, dbURL)
	if err != nil {
		return nil, errors.Wrap(err, "open database")
	}

	if err := db.Ping(); err != nil {
		return nil, errors.Wrap(err, "ping database")
	}

	if err := migrate(db); err != nil {
		return nil, errors.Wrap(err, "migrate")
	}

	return &SQLiteRepository{db: db}, nil
}

// migrate is idempotent and runs once at startup.
func migrate(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}

func (r *SQLiteRepository) Create(ctx context.Context, link *domain.Link) error {
	query := `INSERT INTO links (short_link, url, deletion_id, clicks, timestamp)
			  VALUES (?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		link.ShortCode, link.TargetURL, link.DeletionToken, link.Clicks, link.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return errors.Wrap(domain.ErrConflict, err.Error())
		}
		return errors.Wrap(err, "insert link")
	}
	return nil
}

func (r *SQLiteRepository) GetByShortCode(ctx context.Context, code string) (*domain.Link, error) {
	query := `SELECT short_link, url, deletion_id, clicks, timestamp
			  FROM links WHERE short_link = ?`

	var link domain.Link
	err := r.db.QueryRowContext(ctx, query, code).Scan(
		&link.ShortCode, &link.TargetURL, &link.DeletionToken, &link.Clicks, &link.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "select link")
	}
	return &link, nil
}

func (r *SQLiteRepository) Exists(ctx context.Context, code string) (bool, error) {
	query := `SELECT count(short_link) FROM links WHERE short_link = ?`

	var count int
	if err := r.db.QueryRowContext(ctx, query, code).Scan(&count); err != nil {
		return false, errors.Wrap(err, "count link")
	}
	return count > 0, nil
}

// IncrementClicks updates the counter in-place so concurrent resolutions of
// the same code cannot lose an increment.
func (r *SQLiteRepository) IncrementClicks(ctx context.Context, code string) error {
	query := `UPDATE links SET clicks = clicks + 1 WHERE short_link = ?`

	res, err := r.db.ExecContext(ctx, query, code)
	if err != nil {
		return errors.Wrap(err, "increment clicks")
	}
	return requireRow(res)
}

func (r *SQLiteRepository) Delete(ctx context.Context, code string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM links WHERE short_link = ?`, code)
	if err != nil {
		return errors.Wrap(err, "delete link")
	}
	return requireRow(res)
}

func (r *SQLiteRepository) Dump(ctx context.Context) ([]domain.Link, error) {
	query := `SELECT short_link, url, deletion_id, clicks, timestamp
			  FROM links ORDER BY timestamp`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, errors.Wrap(err, "dump links")
	}
	defer rows.Close()

	var links []domain.Link
	for rows.Next() {
		var link domain.Link
		if err := rows.Scan(
			&link.ShortCode, &link.TargetURL, &link.DeletionToken, &link.Clicks, &link.CreatedAt,
		); err != nil {
			return nil, errors.Wrap(err, "scan link")
		}
		links = append(links, link)
	}
	return links, rows.Err()
}

func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

func requireRow(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "rows affected")
	}
	if affected == 0 {
		return domain.ErrLinkNotFound
	}
	return nil
}

// isUniqueViolation classifies driver errors for a UNIQUE or PRIMARY KEY
// constraint failure. The libsql driver only exposes message text, hence the
// string fallback.
func isUniqueViolation(err error) bool {
	var se *driver.Error
	if errors.As(err, &se) {
		// SQLITE_CONSTRAINT_PRIMARYKEY, SQLITE_CONSTRAINT_UNIQUE
		return se.Code() == 1555 || se.Code() == 2067
	}
	return strings.Contains(err.Error(), "UNIQUE constraint")
}
