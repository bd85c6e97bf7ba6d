// Package postgres provides a Postgres-backed taxonomy store mirroring the
// SQLite schema, for deployments that keep the tree in a shared database.
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver

	"taxfilter/pkg/taxonomy"
)

const (
	defaultDriver = "pgx"
	defaultDSN    = "postgres://localhost/taxfilter?sslmode=disable"
)

// sqlOpen is swappable for tests.
var sqlOpen = sql.Open

const schema = `CREATE TABLE IF NOT EXISTS taxonomy (
	id BIGINT PRIMARY KEY,
	ancestry TEXT,
	name TEXT NOT NULL UNIQUE,
	rank TEXT
)`

// Store is a Postgres-backed taxonomy store.
type Store struct {
	db *sql.DB
}

// NewStore opens a Postgres connection using the provided DSN (falls back to
// defaultDSN) and ensures the taxonomy table exists.
func NewStore(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		dsn = defaultDSN
	}
	db, err := sqlOpen(defaultDriver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return nil, fmt.Errorf("create taxonomy table: %w", err)
	}
	return &Store{db: db}, nil
}

// Save writes every node of an indexed tree in one transaction, replacing any
// previous contents.
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
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO taxonomy(id, ancestry, name, rank) VALUES($1,$2,$3,$4)`)
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

// Load rebuilds the full indexed tree from the stored rows.
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

// Close releases the database handle.
func (s *Store) Close() error { return s.db.Close() }
