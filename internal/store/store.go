package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// Store is the embedded local datastore for sources and saved articles.
// Reads go through a read-only connection; writes are serialized on a
// single-connection pool so transactions never contend.
type Store struct {
	readDB  *sql.DB
	writeDB *sql.DB
}

func Open(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("creating store dir: %w", err)
	}

	writeDB, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening write db: %w", err)
	}
	writeDB.SetMaxOpenConns(1)

	readDB, err := sql.Open("sqlite", dbPath+"?mode=ro")
	if err != nil {
		writeDB.Close()
		return nil, fmt.Errorf("opening read db: %w", err)
	}

	s := &Store{readDB: readDB, writeDB: writeDB}
	if err := s.init(); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) init() error {
	_, err := s.writeDB.Exec(`
		CREATE TABLE IF NOT EXISTS sources (
			id       TEXT PRIMARY KEY,
			name     TEXT NOT NULL,
			url      TEXT NOT NULL DEFAULT '',
			category TEXT NOT NULL DEFAULT '',
			selected INTEGER NOT NULL DEFAULT 0
		);
		CREATE INDEX IF NOT EXISTS idx_sources_name ON sources(name);

		CREATE TABLE IF NOT EXISTS articles (
			source_id     TEXT NOT NULL DEFAULT '',
			source_name   TEXT NOT NULL,
			author        TEXT NOT NULL DEFAULT '',
			title         TEXT NOT NULL,
			description   TEXT NOT NULL DEFAULT '',
			url           TEXT NOT NULL,
			thumbnail_url TEXT NOT NULL DEFAULT '',
			published_at  DATETIME NOT NULL,
			saved         INTEGER NOT NULL DEFAULT 0,
			UNIQUE(source_name, url, published_at)
		);
		CREATE INDEX IF NOT EXISTS idx_articles_published ON articles(published_at DESC);
	`)
	if err != nil {
		return fmt.Errorf("initializing schema: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	var errs []error
	if s.readDB != nil {
		errs = append(errs, s.readDB.Close())
	}
	if s.writeDB != nil {
		errs = append(errs, s.writeDB.Close())
	}
	for _, e := range errs {
		if e != nil {
			return e
		}
	}
	return nil
}

// UpsertSources writes sources in a single transaction. Re-upserting an
// existing id updates its fields rather than duplicating the row.
func (s *Store) UpsertSources(sources []Source) error {
	tx, err := s.writeDB.Begin()
	if err != nil {
		return fmt.Errorf("upserting sources: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO sources (id, name, url, category, selected)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			url = excluded.url,
			category = excluded.category,
			selected = excluded.selected
	`)
	if err != nil {
		return fmt.Errorf("upserting sources: %w", err)
	}
	defer stmt.Close()

	for _, src := range sources {
		if _, err := stmt.Exec(src.ID, src.Name, src.URL, src.Category, src.Selected); err != nil {
			return fmt.Errorf("upserting source %s: %w", src.ID, err)
		}
	}
	return tx.Commit()
}

// Sources returns all sources, or only the selected subset, sorted by name.
func (s *Store) Sources(onlySelected bool) ([]Source, error) {
	query := "SELECT id, name, url, category, selected FROM sources"
	if onlySelected {
		query += " WHERE selected = 1"
	}
	query += " ORDER BY name ASC"

	rows, err := s.readDB.Query(query)
	if err != nil {
		return nil, fmt.Errorf("querying sources: %w", err)
	}
	defer rows.Close()

	var sources []Source
	for rows.Next() {
		var src Source
		if err := rows.Scan(&src.ID, &src.Name, &src.URL, &src.Category, &src.Selected); err != nil {
			return nil, fmt.Errorf("scanning source: %w", err)
		}
		sources = append(sources, src)
	}
	return sources, rows.Err()
}

// UpsertArticles writes articles in a single transaction, keyed by
// (source_name, url, published_at). A row that has been saved stays saved
// even if the incoming record carries saved = false.
func (s *Store) UpsertArticles(articles []Article) error {
	tx, err := s.writeDB.Begin()
	if err != nil {
		return fmt.Errorf("upserting articles: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO articles (source_id, source_name, author, title, description, url, thumbnail_url, published_at, saved)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(source_name, url, published_at) DO UPDATE SET
			source_id = excluded.source_id,
			author = excluded.author,
			title = excluded.title,
			description = excluded.description,
			thumbnail_url = excluded.thumbnail_url,
			saved = MAX(saved, excluded.saved)
	`)
	if err != nil {
		return fmt.Errorf("upserting articles: %w", err)
	}
	defer stmt.Close()

	for _, a := range articles {
		_, err := stmt.Exec(a.SourceID, a.SourceName, a.Author, a.Title, a.Description,
			a.URL, a.ThumbnailURL, a.PublishedAt, a.Saved)
		if err != nil {
			return fmt.Errorf("upserting article %s: %w", a.URL, err)
		}
	}
	return tx.Commit()
}

// SavedArticles returns the saved subset, newest first.
func (s *Store) SavedArticles() ([]Article, error) {
	rows, err := s.readDB.Query(`
		SELECT source_id, source_name, author, title, description, url, thumbnail_url, published_at, saved
		FROM articles
		WHERE saved = 1
		ORDER BY published_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("querying saved articles: %w", err)
	}
	defer rows.Close()

	var articles []Article
	for rows.Next() {
		var a Article
		err := rows.Scan(&a.SourceID, &a.SourceName, &a.Author, &a.Title, &a.Description,
			&a.URL, &a.ThumbnailURL, &a.PublishedAt, &a.Saved)
		if err != nil {
			return nil, fmt.Errorf("scanning article: %w", err)
		}
		articles = append(articles, a)
	}
	return articles, rows.Err()
}

// DeleteArticle removes one article by its identity triple.
func (s *Store) DeleteArticle(a Article) error {
	_, err := s.writeDB.Exec(
		"DELETE FROM articles WHERE source_name = ? AND url = ? AND published_at = ?",
		a.SourceName, a.URL, a.PublishedAt,
	)
	if err != nil {
		return fmt.Errorf("deleting article %s: %w", a.URL, err)
	}
	return nil
}

// DeleteSource removes a source and all of its articles in one transaction.
func (s *Store) DeleteSource(id string) error {
	tx, err := s.writeDB.Begin()
	if err != nil {
		return fmt.Errorf("deleting source %s: %w", id, err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		DELETE FROM articles
		WHERE source_id = ?
		   OR source_name IN (SELECT name FROM sources WHERE id = ?)
	`, id, id)
	if err != nil {
		return fmt.Errorf("deleting articles for source %s: %w", id, err)
	}
	if _, err := tx.Exec("DELETE FROM sources WHERE id = ?", id); err != nil {
		return fmt.Errorf("deleting source %s: %w", id, err)
	}
	return tx.Commit()
}

// PruneUnsaved deletes article rows that were never marked saved. Normal
// operation keeps transient fetches in memory only, so this clears rows
// left behind by imports or older versions.
func (s *Store) PruneUnsaved() (int64, error) {
	res, err := s.writeDB.Exec("DELETE FROM articles WHERE saved = 0")
	if err != nil {
		return 0, fmt.Errorf("pruning articles: %w", err)
	}
	return res.RowsAffected()
}

// Stats reports row counts and the database file size.
func (s *Store) Stats(dbPath string) (sources, articles int, size int64, err error) {
	if err = s.readDB.QueryRow("SELECT COUNT(*) FROM sources").Scan(&sources); err != nil {
		return 0, 0, 0, fmt.Errorf("counting sources: %w", err)
	}
	if err = s.readDB.QueryRow("SELECT COUNT(*) FROM articles").Scan(&articles); err != nil {
		return 0, 0, 0, fmt.Errorf("counting articles: %w", err)
	}
	info, err := os.Stat(dbPath)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("reading db size: %w", err)
	}
	return sources, articles, info.Size(), nil
}
