// Package db persists generated corpora in a local DuckDB database.
// Session rows are stored inline; full-session content lives in the
// CAS and is referenced by hash.
package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/marcboeker/go-duckdb"

	"github.com/cratelore/cratelore/internal/cas"
	"github.com/cratelore/cratelore/internal/corpus"
)

type DB struct {
	conn *sql.DB
}

func New(dbPath string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}

	conn, err := sql.Open("duckdb", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.initSchema(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}

	return db, nil
}

func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) initSchema() error {
	queries := []string{
		`CREATE SEQUENCE IF NOT EXISTS seq_crate_id START 1;`,

		`CREATE TABLE IF NOT EXISTS crates (
			id INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			version TEXT NOT NULL,
			generated_at TIMESTAMP,
			last_used_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			UNIQUE(name, version)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_crates_name ON crates (name)`,

		`CREATE TABLE IF NOT EXISTS sessions (
			crate_id INTEGER NOT NULL REFERENCES crates(id),
			position INTEGER NOT NULL,
			title TEXT NOT NULL,
			description TEXT NOT NULL,
			link TEXT NOT NULL,
			UNIQUE(crate_id, position)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_crate ON sessions (crate_id)`,

		`CREATE TABLE IF NOT EXISTS full_sessions (
			crate_id INTEGER NOT NULL REFERENCES crates(id),
			position INTEGER NOT NULL,
			link TEXT NOT NULL,
			content_hash TEXT NOT NULL,
			UNIQUE(crate_id, position)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_full_sessions_crate ON full_sessions (crate_id)`,
	}

	for _, q := range queries {
		if _, err := db.conn.Exec(q); err != nil {
			return fmt.Errorf("executing %q: %w", q, err)
		}
	}
	return nil
}

// --- Crate operations ---

type Crate struct {
	ID          int
	Name        string
	Version     string
	GeneratedAt *time.Time
	LastUsedAt  time.Time
}

func (db *DB) UpsertCrate(name, version string) (*Crate, error) {
	var c Crate
	err := db.conn.QueryRow(
		`SELECT id, name, version, generated_at, last_used_at FROM crates WHERE name = ? AND version = ?`,
		name, version,
	).Scan(&c.ID, &c.Name, &c.Version, &c.GeneratedAt, &c.LastUsedAt)

	if err == nil {
		return &c, nil
	}
	if err != sql.ErrNoRows {
		return nil, fmt.Errorf("checking crate: %w", err)
	}

	_, err = db.conn.Exec(
		`INSERT INTO crates (id, name, version) VALUES (nextval('seq_crate_id'), ?, ?)`,
		name, version,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting crate: %w", err)
	}

	var id int
	if err := db.conn.QueryRow("SELECT currval('seq_crate_id')").Scan(&id); err != nil {
		return nil, fmt.Errorf("getting crate id: %w", err)
	}

	return &Crate{ID: id, Name: name, Version: version, LastUsedAt: time.Now()}, nil
}

func (db *DB) GetCrate(name, version string) (*Crate, error) {
	var c Crate
	err := db.conn.QueryRow(
		`SELECT id, name, version, generated_at, last_used_at FROM crates WHERE name = ? AND version = ?`,
		name, version,
	).Scan(&c.ID, &c.Name, &c.Version, &c.GeneratedAt, &c.LastUsedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// GetLatestCrate returns the most recently generated crate with the given name.
func (db *DB) GetLatestCrate(name string) (*Crate, error) {
	var c Crate
	err := db.conn.QueryRow(
		`SELECT id, name, version, generated_at, last_used_at
		 FROM crates WHERE name = ? AND generated_at IS NOT NULL
		 ORDER BY generated_at DESC, id DESC LIMIT 1`, name,
	).Scan(&c.ID, &c.Name, &c.Version, &c.GeneratedAt, &c.LastUsedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (db *DB) TouchCrate(crateID int) error {
	_, err := db.conn.Exec(`UPDATE crates SET last_used_at = CURRENT_TIMESTAMP WHERE id = ?`, crateID)
	return err
}

func (db *DB) ListCrates() ([]Crate, error) {
	rows, err := db.conn.Query(`SELECT id, name, version, generated_at, last_used_at FROM crates ORDER BY name, version`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var crates []Crate
	for rows.Next() {
		var c Crate
		if err := rows.Scan(&c.ID, &c.Name, &c.Version, &c.GeneratedAt, &c.LastUsedAt); err != nil {
			return nil, err
		}
		crates = append(crates, c)
	}
	return crates, nil
}

// --- Corpus operations ---

// SaveCrateDocs replaces any stored corpus for the crate with docs and
// marks it generated.
func (db *DB) SaveCrateDocs(docs *corpus.CrateDocs) error {
	c, err := db.UpsertCrate(docs.CrateName, docs.CrateVersion)
	if err != nil {
		return err
	}

	if err := db.deleteCorpus(c.ID); err != nil {
		return err
	}

	for i, s := range docs.Sessions {
		_, err := db.conn.Exec(
			`INSERT INTO sessions (crate_id, position, title, description, link) VALUES (?, ?, ?, ?, ?)`,
			c.ID, i, s.Title, s.Description, s.Link,
		)
		if err != nil {
			return fmt.Errorf("inserting session: %w", err)
		}
	}

	for i, fs := range docs.FullSessions {
		hash, err := cas.Write(fs.Content)
		if err != nil {
			return err
		}
		_, err = db.conn.Exec(
			`INSERT INTO full_sessions (crate_id, position, link, content_hash) VALUES (?, ?, ?, ?)`,
			c.ID, i, fs.Link, hash,
		)
		if err != nil {
			return fmt.Errorf("inserting full session: %w", err)
		}
	}

	_, err = db.conn.Exec(`UPDATE crates SET generated_at = CURRENT_TIMESTAMP WHERE id = ?`, c.ID)
	return err
}

// LoadCrateDocs reads a stored corpus. Returns nil when the crate has
// no generated corpus.
func (db *DB) LoadCrateDocs(name, version string) (*corpus.CrateDocs, error) {
	c, err := db.GetCrate(name, version)
	if err != nil {
		return nil, err
	}
	if c == nil || c.GeneratedAt == nil {
		return nil, nil
	}

	docs := &corpus.CrateDocs{CrateName: c.Name, CrateVersion: c.Version}

	rows, err := db.conn.Query(
		`SELECT title, description, link FROM sessions WHERE crate_id = ? ORDER BY position`, c.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var s corpus.SessionEntry
		if err := rows.Scan(&s.Title, &s.Description, &s.Link); err != nil {
			return nil, err
		}
		docs.Sessions = append(docs.Sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	frows, err := db.conn.Query(
		`SELECT link, content_hash FROM full_sessions WHERE crate_id = ? ORDER BY position`, c.ID)
	if err != nil {
		return nil, err
	}
	defer frows.Close()
	for frows.Next() {
		var link, hash string
		if err := frows.Scan(&link, &hash); err != nil {
			return nil, err
		}
		content, err := cas.Read(hash)
		if err != nil {
			return nil, err
		}
		docs.FullSessions = append(docs.FullSessions, corpus.FullSessionEntry{Content: content, Link: link})
	}
	if err := frows.Err(); err != nil {
		return nil, err
	}

	if err := db.TouchCrate(c.ID); err != nil {
		return nil, err
	}
	return docs, nil
}

func (db *DB) deleteCorpus(crateID int) error {
	if _, err := db.conn.Exec(`DELETE FROM sessions WHERE crate_id = ?`, crateID); err != nil {
		return err
	}
	if _, err := db.conn.Exec(`DELETE FROM full_sessions WHERE crate_id = ?`, crateID); err != nil {
		return err
	}
	return nil
}

// DeleteCrate removes a crate and its corpus. CAS content is left in
// place since other crates may share it.
func (db *DB) DeleteCrate(name, version string) error {
	c, err := db.GetCrate(name, version)
	if err != nil {
		return err
	}
	if c == nil {
		return nil
	}
	if err := db.deleteCorpus(c.ID); err != nil {
		return err
	}
	_, err = db.conn.Exec(`DELETE FROM crates WHERE id = ?`, c.ID)
	return err
}
