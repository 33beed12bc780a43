// Package store persists chart series in a SQLite database.
package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	_ "modernc.org/sqlite"

	"github.com/paulhankin/chartapprox/approx"
	"github.com/paulhankin/chartapprox/series"
)

// ErrNotFound is returned when no series has the requested name.
var ErrNotFound = errors.New("series not found")

const schema = `
CREATE TABLE IF NOT EXISTS series (
	series_id TEXT PRIMARY KEY,
	name      TEXT NOT NULL UNIQUE
);
CREATE TABLE IF NOT EXISTS points (
	series_id TEXT    NOT NULL REFERENCES series(series_id) ON DELETE CASCADE,
	idx       INTEGER NOT NULL,
	x         REAL    NOT NULL,
	y         REAL    NOT NULL,
	PRIMARY KEY (series_id, idx)
);
`

// Store is a series database. It is safe for concurrent use.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, errors.Wrapf(err, "open %v", path)
	}
	// One writer at a time; also keeps the pragmas on a single connection.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "create schema")
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Put stores s, replacing any series with the same name. If s.ID is empty
// a new id is assigned.
func (s *Store) Put(ctx context.Context, sr *series.Series) error {
	if sr.Name == "" {
		return errors.New("series has no name")
	}
	if sr.ID == "" {
		sr.ID = uuid.New().String()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin transaction")
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM series WHERE name = ? OR series_id = ?`, sr.Name, sr.ID); err != nil {
		return errors.Wrapf(err, "replace series %q", sr.Name)
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO series (series_id, name) VALUES (?, ?)`, sr.ID, sr.Name); err != nil {
		return errors.Wrapf(err, "insert series %q", sr.Name)
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO points (series_id, idx, x, y) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return errors.Wrap(err, "prepare points insert")
	}
	defer stmt.Close()
	for i, p := range sr.Points {
		if _, err := stmt.ExecContext(ctx, sr.ID, i, p.X, p.Y); err != nil {
			return errors.Wrapf(err, "insert point %d of %q", i, sr.Name)
		}
	}
	return errors.Wrap(tx.Commit(), "commit")
}

// Get loads the named series.
func (s *Store) Get(ctx context.Context, name string) (*series.Series, error) {
	sr := &series.Series{Name: name}
	err := s.db.QueryRowContext(ctx, `SELECT series_id FROM series WHERE name = ?`, name).Scan(&sr.ID)
	if err == sql.ErrNoRows {
		return nil, errors.Wrapf(ErrNotFound, "%q", name)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "query series %q", name)
	}

	rows, err := s.db.QueryContext(ctx, `SELECT x, y FROM points WHERE series_id = ? ORDER BY idx`, sr.ID)
	if err != nil {
		return nil, errors.Wrapf(err, "query points of %q", name)
	}
	defer rows.Close()
	for rows.Next() {
		var p approx.Point
		if err := rows.Scan(&p.X, &p.Y); err != nil {
			return nil, errors.Wrap(err, "scan point")
		}
		sr.Points = append(sr.Points, p)
	}
	return sr, errors.Wrap(rows.Err(), "read points")
}

// List returns the stored series names in ascending order.
func (s *Store) List(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name FROM series ORDER BY name`)
	if err != nil {
		return nil, errors.Wrap(err, "query series")
	}
	defer rows.Close()
	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, errors.Wrap(err, "scan series name")
		}
		names = append(names, name)
	}
	return names, errors.Wrap(rows.Err(), "read series")
}

// Delete removes the named series and its points.
func (s *Store) Delete(ctx context.Context, name string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM series WHERE name = ?`, name)
	if err != nil {
		return errors.Wrapf(err, "delete series %q", name)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "rows affected")
	}
	if n == 0 {
		return errors.Wrapf(ErrNotFound, "%q", name)
	}
	return nil
}
