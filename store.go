package main

import (
	"database/sql"
	"fmt"
	"log"
	"sync"

	_ "github.com/mattn/go-sqlite3"
)

// schemaDDL creates the three persisted relations described in spec
// §3. No indexes are created here on purpose: spec §3 requires the
// lookup indexes to be built only after every shard has finished
// writing, so that bulk index construction can be amortized over the
// whole ingest rather than paid per insert.
const schemaDDL = `
CREATE TABLE IF NOT EXISTS PAGES (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	page_title TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS LINKS (
	page_id INTEGER NOT NULL,
	link_title TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS REDIRECTS (
	page_title TEXT NOT NULL,
	redirect_title TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS LANGUAGE_CODES (
	code TEXT NOT NULL,
	name TEXT NOT NULL
);
`

// indexDDL is applied once after every shard of every dump has been
// ingested, per spec §4.E/§4.G.
const indexDDL = `
CREATE UNIQUE INDEX IF NOT EXISTS idx_pages_title ON PAGES (page_title);
CREATE INDEX IF NOT EXISTS idx_links_page_id ON LINKS (page_id);
CREATE INDEX IF NOT EXISTS idx_redirects_title ON REDIRECTS (page_title);
`

// Store is a thin layer over an embedded SQLite database holding the
// PAGES / LINKS / REDIRECTS / LANGUAGE_CODES relations. writeMu is the
// single exclusive writer lease described in spec §4.D: the store is
// tuned for ingest throughput with durability relaxed (synchronous
// writes off), so only one goroutine may hold an open write
// transaction at a time.
type Store struct {
	db *sql.DB

	writeMu sync.Mutex

	insertPage     *sql.Stmt
	insertLink     *sql.Stmt
	insertRedirect *sql.Stmt

	pageIDQuery    *sql.Stmt
	redirectQuery  *sql.Stmt
	outLinksQuery  *sql.Stmt
	languagesQuery *sql.Stmt
}

// openStore creates (or opens) a SQLite database file at path, tuned
// for bulk ingest: journaling and synchronous writes are both
// disabled, since a crash mid-seed is handled by deleting the catalog
// and re-running seed from scratch (spec §5, crash semantics).
func openStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", "file:"+path+"?_journal=OFF&_sync=OFF")
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schemaDDL); err != nil {
		db.Close()
		return nil, err
	}

	s := &Store{db: db}
	if err := s.prepare(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// openStoreReadOnly opens an existing catalog for querying only, the
// posture the path engine and the HTTP/CLI front-ends run under.
func openStoreReadOnly(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", "file:"+path+"?mode=ro&immutable=true")
	if err != nil {
		return nil, err
	}

	s := &Store{db: db}
	if err := s.prepare(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) prepare() error {
	var err error
	if s.insertPage, err = s.db.Prepare("INSERT INTO PAGES (page_title) VALUES (?)"); err != nil {
		return err
	}
	if s.insertLink, err = s.db.Prepare("INSERT INTO LINKS (page_id, link_title) VALUES (?, ?)"); err != nil {
		return err
	}
	if s.insertRedirect, err = s.db.Prepare("INSERT INTO REDIRECTS (page_title, redirect_title) VALUES (?, ?)"); err != nil {
		return err
	}
	if s.pageIDQuery, err = s.db.Prepare("SELECT id FROM PAGES WHERE page_title = ?"); err != nil {
		return err
	}
	if s.redirectQuery, err = s.db.Prepare("SELECT redirect_title FROM REDIRECTS WHERE page_title = ?"); err != nil {
		return err
	}
	if s.outLinksQuery, err = s.db.Prepare("SELECT link_title FROM LINKS WHERE page_id = ?"); err != nil {
		return err
	}
	if s.languagesQuery, err = s.db.Prepare("SELECT code, name FROM LANGUAGE_CODES"); err != nil {
		return err
	}
	return nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// seedLanguageCodes loads the static ISO-639 code->name table (an
// external collaborator per spec §1) into LANGUAGE_CODES once, ahead
// of any shard parsing.
func (s *Store) seedLanguageCodes(codes map[string]string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	insert, err := tx.Prepare("INSERT INTO LANGUAGE_CODES (code, name) VALUES (?, ?)")
	if err != nil {
		tx.Rollback()
		return err
	}
	for code, name := range codes {
		if _, err := insert.Exec(code, name); err != nil {
			tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

// writeShardResult drains one worker's pending_links and
// pending_redirects maps into the store, per spec §4.D. It acquires
// writeMu, the store's single writer lease, and holds it for the whole
// write.
func (s *Store) writeShardResult(result *shardResult) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	for title, links := range result.pendingLinks {
		id, err := s.getOrCreatePageID(title)
		if err != nil {
			// A failing page insert aborts the page (spec §4.D): skip
			// its links entirely and move on to the next page.
			log.Print("failed to insert page ", title, ": ", err)
			continue
		}

		tx, err := s.db.Begin()
		if err != nil {
			return err
		}
		linkStmt := tx.Stmt(s.insertLink)
		for link := range links {
			if _, err := linkStmt.Exec(id, link); err != nil {
				// A failing link insert logs and continues (spec §4.D).
				log.Print("failed to insert link ", link, " for page ", title, ": ", err)
			}
		}
		if err := tx.Commit(); err != nil {
			return err
		}
	}

	if len(result.pendingRedirects) > 0 {
		tx, err := s.db.Begin()
		if err != nil {
			return err
		}
		redirectStmt := tx.Stmt(s.insertRedirect)
		for title, target := range result.pendingRedirects {
			if _, err := redirectStmt.Exec(title, target); err != nil {
				log.Print("failed to insert redirect ", title, " -> ", target, ": ", err)
			}
		}
		if err := tx.Commit(); err != nil {
			return err
		}
	}

	return nil
}

// getOrCreatePageID returns the PAGES.id for title, inserting a new
// row if one does not already exist. This is the single-writer-safe
// choice spec §4.D calls for: insert then select by unique key, rather
// than relying on a driver-reported last-insert-id that could belong
// to a concurrent writer under a different store implementation.
func (s *Store) getOrCreatePageID(title string) (PageID, error) {
	var id PageID
	err := s.pageIDQuery.QueryRow(title).Scan(&id)
	if err == nil {
		return id, nil
	}
	if err != sql.ErrNoRows {
		return 0, err
	}
	if _, err := s.insertPage.Exec(title); err != nil {
		return 0, err
	}
	if err := s.pageIDQuery.QueryRow(title).Scan(&id); err != nil {
		return 0, fmt.Errorf("inserted page %q but could not read back its id: %w", title, err)
	}
	return id, nil
}

// buildIndexes applies the deferred index DDL (spec §4.E/§4.G),
// creating b-tree indexes on the three key columns once every shard of
// every dump has finished writing.
func (s *Store) buildIndexes() error {
	_, err := s.db.Exec(indexDDL)
	return err
}
