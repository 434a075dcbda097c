package knowledge

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// SQLiteFile is the database filename inside the data directory.
const SQLiteFile = "nexus.db"

// openDB is a package-level var to allow test injection.
var openDB = sql.Open

// storeHooks let tests inject failures into the save transaction.
type storeHooks struct {
	beginTx func(db *sql.DB) (*sql.Tx, error)
	commit  func(tx *sql.Tx) error
}

// SQLiteStore persists the graph in two tables, rewritten in a single
// transaction on every save.
type SQLiteStore struct {
	db    *sql.DB
	hooks storeHooks
}

// NewSQLiteStore opens (creating if needed) dataDir/nexus.db with WAL mode
// and runs migrations.
func NewSQLiteStore(dataDir string) (*SQLiteStore, error) {
	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		return nil, fmt.Errorf("knowledge: create data dir: %w", err)
	}

	db, err := openDB("sqlite", filepath.Join(dataDir, SQLiteFile))
	if err != nil {
		return nil, fmt.Errorf("knowledge: open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA foreign_keys = ON",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("knowledge: pragma %q: %w", p, err)
		}
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("knowledge: migration: %w", err)
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS nodes (
			id       TEXT    PRIMARY KEY,
			position INTEGER NOT NULL,
			type     TEXT    NOT NULL,
			insights TEXT    NOT NULL DEFAULT '[]',
			metadata TEXT
		);

		CREATE TABLE IF NOT EXISTS links (
			id       TEXT    PRIMARY KEY,
			position INTEGER NOT NULL,
			source   TEXT    NOT NULL REFERENCES nodes(id) ON DELETE CASCADE,
			target   TEXT    NOT NULL REFERENCES nodes(id) ON DELETE CASCADE,
			type     TEXT    NOT NULL,
			metadata TEXT
		);

		CREATE INDEX IF NOT EXISTS idx_links_source ON links(source);
		CREATE INDEX IF NOT EXISTS idx_links_target ON links(target);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Load reads every node and link in position order.
func (s *SQLiteStore) Load() (Snapshot, error) {
	snap := Snapshot{Nodes: []Node{}, Links: []Link{}}

	rows, err := s.db.Query(`SELECT id, type, insights, metadata FROM nodes ORDER BY position`)
	if err != nil {
		return Snapshot{}, fmt.Errorf("querying nodes: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			n        Node
			insights string
			meta     sql.NullString
		)
		if err := rows.Scan(&n.ID, &n.Type, &insights, &meta); err != nil {
			return Snapshot{}, fmt.Errorf("scanning node: %w", err)
		}
		if err := json.Unmarshal([]byte(insights), &n.Insights); err != nil {
			return Snapshot{}, fmt.Errorf("decoding insights of %q: %w", n.ID, err)
		}
		if meta.Valid {
			n.Metadata = &NodeMetadata{}
			if err := json.Unmarshal([]byte(meta.String), n.Metadata); err != nil {
				return Snapshot{}, fmt.Errorf("decoding metadata of %q: %w", n.ID, err)
			}
		}
		snap.Nodes = append(snap.Nodes, n)
	}
	if err := rows.Err(); err != nil {
		return Snapshot{}, err
	}

	linkRows, err := s.db.Query(`SELECT id, source, target, type, metadata FROM links ORDER BY position`)
	if err != nil {
		return Snapshot{}, fmt.Errorf("querying links: %w", err)
	}
	defer linkRows.Close()
	for linkRows.Next() {
		var (
			l    Link
			meta sql.NullString
		)
		if err := linkRows.Scan(&l.ID, &l.Source, &l.Target, &l.Type, &meta); err != nil {
			return Snapshot{}, fmt.Errorf("scanning link: %w", err)
		}
		if meta.Valid {
			l.Metadata = &LinkMetadata{}
			if err := json.Unmarshal([]byte(meta.String), l.Metadata); err != nil {
				return Snapshot{}, fmt.Errorf("decoding metadata of link %q: %w", l.ID, err)
			}
		}
		snap.Links = append(snap.Links, l)
	}
	if err := linkRows.Err(); err != nil {
		return Snapshot{}, err
	}

	return snap.normalize(), nil
}

// Save replaces the stored graph with snap in one transaction.
func (s *SQLiteStore) Save(snap Snapshot) error {
	tx, err := s.beginTx()
	if err != nil {
		return fmt.Errorf("save: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	// Links first so the foreign keys never dangle.
	if _, err := tx.Exec(`DELETE FROM links`); err != nil {
		return fmt.Errorf("save: clear links: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM nodes`); err != nil {
		return fmt.Errorf("save: clear nodes: %w", err)
	}

	nodeStmt, err := tx.Prepare(`INSERT INTO nodes (id, position, type, insights, metadata) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("save: prepare nodes: %w", err)
	}
	defer nodeStmt.Close()
	for i, n := range snap.Nodes {
		insights, err := json.Marshal(cloneInsights(n.Insights))
		if err != nil {
			return fmt.Errorf("save: encode insights of %q: %w", n.ID, err)
		}
		meta, err := nullableJSON(n.Metadata)
		if err != nil {
			return fmt.Errorf("save: encode metadata of %q: %w", n.ID, err)
		}
		if _, err := nodeStmt.Exec(n.ID, i, n.Type, string(insights), meta); err != nil {
			return fmt.Errorf("save: insert node %q: %w", n.ID, err)
		}
	}

	linkStmt, err := tx.Prepare(`INSERT INTO links (id, position, source, target, type, metadata) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("save: prepare links: %w", err)
	}
	defer linkStmt.Close()
	for i, l := range snap.Links {
		meta, err := nullableJSON(l.Metadata)
		if err != nil {
			return fmt.Errorf("save: encode metadata of link %q: %w", l.ID, err)
		}
		if _, err := linkStmt.Exec(l.ID, i, l.Source, l.Target, l.Type, meta); err != nil {
			return fmt.Errorf("save: insert link %q: %w", l.ID, err)
		}
	}

	if err := s.commit(tx); err != nil {
		return fmt.Errorf("save: commit: %w", err)
	}
	return nil
}

func (s *SQLiteStore) beginTx() (*sql.Tx, error) {
	if s.hooks.beginTx != nil {
		return s.hooks.beginTx(s.db)
	}
	return s.db.Begin()
}

func (s *SQLiteStore) commit(tx *sql.Tx) error {
	if s.hooks.commit != nil {
		return s.hooks.commit(tx)
	}
	return tx.Commit()
}

// nullableJSON encodes v, mapping a nil pointer to SQL NULL.
func nullableJSON[T any](v *T) (any, error) {
	if v == nil {
		return nil, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}
