package persistence

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore persists a Document as rows in a cells table, keyed by
// the workbook version the rows belong to. Connect/ping/close lifecycle
// is modeled on the teacher's sqlOpen builtin (open a driver handle,
// PingContext it before trusting it, always release it on every exit
// path) adapted from database/sql to the native pgx driver.
type PostgresStore struct {
	Version string
	pool    *pgxpool.Pool
}

// OpenPostgresStore connects to dsn, pings it, and returns a PostgresStore
// scoped to the given workbook version. The caller must call Close when
// done with it.
func OpenPostgresStore(ctx context.Context, dsn string, version string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	store := &PostgresStore{Version: version, pool: pool}
	if err := store.ensureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return store, nil
}

// Close releases the underlying connection pool.
func (s *PostgresStore) Close() {
	s.pool.Close()
}

func (s *PostgresStore) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS cells (
	version     TEXT NOT NULL,
	name        TEXT NOT NULL,
	string_form TEXT NOT NULL,
	PRIMARY KEY (version, name)
)`
	if _, err := s.pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("create cells table: %w", err)
	}
	return nil
}

// Save replaces every row belonging to doc.Version with the contents of
// doc, inside a single transaction so a failed save never leaves a
// partial document behind.
func (s *PostgresStore) Save(ctx context.Context, doc Document) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM cells WHERE version = $1`, doc.Version); err != nil {
		return fmt.Errorf("clear previous version: %w", err)
	}
	for name, rec := range doc.Cells {
		if _, err := tx.Exec(ctx,
			`INSERT INTO cells (version, name, string_form) VALUES ($1, $2, $3)`,
			doc.Version, name, rec.StringForm); err != nil {
			return fmt.Errorf("insert cell %s: %w", name, err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Load reads every row belonging to Version into a Document. A version with
// no rows at all is indistinguishable from a version that was never saved,
// so it is reported the same way a file store reports a missing file: as a
// read/write failure, not as an empty-but-valid document.
func (s *PostgresStore) Load(ctx context.Context) (Document, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT name, string_form FROM cells WHERE version = $1`, s.Version)
	if err != nil {
		return Document{}, fmt.Errorf("query cells: %w", err)
	}
	defer rows.Close()

	doc := Document{Version: s.Version, Cells: make(map[string]CellRecord)}
	for rows.Next() {
		var name, stringForm string
		if err := rows.Scan(&name, &stringForm); err != nil {
			return Document{}, fmt.Errorf("scan cell row: %w", err)
		}
		doc.Cells[name] = CellRecord{StringForm: stringForm}
	}
	if err := rows.Err(); err != nil {
		return Document{}, fmt.Errorf("iterate cell rows: %w", err)
	}
	if len(doc.Cells) == 0 {
		return Document{}, fmt.Errorf("no rows found for version %q", s.Version)
	}
	return doc, nil
}
