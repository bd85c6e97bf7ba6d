// Package sqlite persists an indexed taxonomy tree to a single SQLite table.
// The materialized ancestry column is what keeps descendant tests a cheap
// prefix comparison after a reload instead of a recursive parent-chain walk.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // pure go sqlite driver

	"taxfilter/pkg/taxonomy"
)

const schema = `CREATE TABLE IF NOT EXISTS taxonomy (
	id INTEGER PRIMARY KEY,
	ancestry TEXT,
	name TEXT NOT NULL UNIQUE,
	rank TEXT
)`

const nameIndex = `CREATE UNIQUE INDEX IF NOT EXISTS taxonomy_name_idx ON taxonomy(name)`

// Store is a SQLite-backed taxonomy store.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore opens (creating if needed) the taxonomy database at path.
func NewStore(path string) (*Store, error) {
	if path == "" {
		path = "taxonomy.db"
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil && !errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("create dirs: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("create taxonomy table: %w", err)
	}
	if _, err := db.Exec(nameIndex); err != nil {
		return nil, fmt.Errorf("create name index: %w", err)
	}
	return &Store{db: db, path: path}, nil
}

// Save writes every node of an indexed tree in one transaction, replacing any
// previous contents. A tree that failed to index cannot be saved, and a save
// that fails leaves the stored rows untouched.
func (s *Store) Save(ctx context.Context, tree *taxonomy.Tree) (retErr error) {
	if !tree.Indexed() {
		return fmt.Errorf("save taxonomy: tree is not indexed")
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()
	if _, err := tx.ExecContext(ctx, `DELETE FROM taxonomy`); err != nil {
		retErr = fmt.Errorf("clear taxonomy: %w", err)
		return retErr
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO taxonomy(id, ancestry, name, rank) VALUES(?,?,?,?)`)
	if err != nil {
		retErr = err
		return retErr
	}
	defer func() { _ = stmt.Close() }()
	if err := tree.Nodes(func(n *taxonomy.Node) error {
		_, err := stmt.ExecContext(ctx, n.ID, n.AncestryString(), n.Name, n.Rank)
		return err
	}); err != nil {
		retErr = fmt.Errorf("insert taxonomy rows: %w", err)
		return retErr
	}
	if err := tx.Commit(); err != nil {
		retErr = err
		return retErr
	}
	return nil
}

// Load rebuilds the full tree, indices and ancestry paths included, from the
// stored rows. The returned tree is indexed and read-only; a snapshot that
// does not validate is rejected whole.
func (s *Store) Load(ctx context.Context) (*taxonomy.Tree, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, ancestry, name, rank FROM taxonomy`)
	if err != nil {
		return nil, fmt.Errorf("select taxonomy: %w", err)
	}
	defer func() { _ = rows.Close() }()

	tree := taxonomy.NewTree()
	for rows.Next() {
		var (
			id       int64
			ancestry sql.NullString
			name     string
			rank     sql.NullString
		)
		if err := rows.Scan(&id, &ancestry, &name, &rank); err != nil {
			return nil, fmt.Errorf("scan taxonomy row: %w", err)
		}
		if err := tree.RestoreNode(id, name, rank.String, ancestry.String); err != nil {
			return nil, fmt.Errorf("restore node %d: %w", id, err)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read taxonomy rows: %w", err)
	}
	if tree.Len() == 0 {
		return nil, fmt.Errorf("load taxonomy: %w: store is empty", taxonomy.ErrNotFound)
	}
	if err := tree.FinishRestore(); err != nil {
		return nil, err
	}
	return tree, nil
}

// DB exposes the underlying sql.DB for integration testing hooks.
func (s *Store) DB() *sql.DB { return s.db }

// Path returns the configured database path.
func (s *Store) Path() string { return s.path }

// Close releases the database handle.
func (s *Store) Close() error { return s.db.Close() }
