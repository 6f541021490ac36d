package store

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/jobsift/jobsift/internal/model"
)

// SQLiteStore persists seen listings in a SQLite database. Two tables share
// the file: seen_listings is the write-once dedup index, listing_status is
// the user-editable ledger written only by the review flow.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath and ensures
// the schema exists.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// Verify the connection is alive.
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging sqlite db: %w", err)
	}

	schema := []string{
		`CREATE TABLE IF NOT EXISTS seen_listings (
			url        TEXT PRIMARY KEY,
			title      TEXT NOT NULL,
			title_hash TEXT NOT NULL,
			company    TEXT NOT NULL,
			source     TEXT NOT NULL,
			first_seen DATETIME DEFAULT CURRENT_TIMESTAMP,
			score      REAL DEFAULT 0
		)`,
		`CREATE INDEX IF NOT EXISTS idx_seen_company_hash
			ON seen_listings (company, title_hash)`,
		`CREATE TABLE IF NOT EXISTS listing_status (
			url        TEXT PRIMARY KEY,
			status     TEXT NOT NULL,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
	}
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("creating schema: %w", err)
		}
	}

	return &SQLiteStore{db: db}, nil
}

// HasURL returns true if a listing with the given url has already been recorded.
func (s *SQLiteStore) HasURL(url string) (bool, error) {
	var exists int
	err := s.db.QueryRow("SELECT 1 FROM seen_listings WHERE url = ?", url).Scan(&exists)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking seen url %s: %w", url, err)
	}
	return true, nil
}

// HasTitleHash returns true if an entry with the same company and normalized
// title hash exists. Company matching is exact.
func (s *SQLiteStore) HasTitleHash(company, titleHash string) (bool, error) {
	var exists int
	err := s.db.QueryRow(
		"SELECT 1 FROM seen_listings WHERE company = ? AND title_hash = ?",
		company, titleHash,
	).Scan(&exists)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking seen title hash for %s: %w", company, err)
	}
	return true, nil
}

// Insert records a new seen entry. If the url already exists the call is a no-op.
func (s *SQLiteStore) Insert(e model.SeenEntry) error {
	firstSeen := e.FirstSeen
	if firstSeen.IsZero() {
		firstSeen = time.Now().UTC()
	}
	_, err := s.db.Exec(
		`INSERT OR IGNORE INTO seen_listings (url, title, title_hash, company, source, first_seen, score)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.URL, e.Title, e.TitleHash, e.Company, e.Source, firstSeen, e.Score,
	)
	if err != nil {
		return fmt.Errorf("inserting seen entry %s: %w", e.URL, err)
	}
	return nil
}

// Clear wipes both the dedup index and the status ledger.
func (s *SQLiteStore) Clear() error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("starting clear transaction: %w", err)
	}
	for _, table := range []string{"seen_listings", "listing_status"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			tx.Rollback()
			return fmt.Errorf("clearing %s: %w", table, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing clear: %w", err)
	}
	return nil
}

// SetStatus records the user's status for a listing, replacing any prior value.
func (s *SQLiteStore) SetStatus(url string, status model.Status) error {
	if !status.Valid() {
		return fmt.Errorf("unknown status %q for %s", status, url)
	}
	_, err := s.db.Exec(
		"INSERT OR REPLACE INTO listing_status (url, status, updated_at) VALUES (?, ?, ?)",
		url, string(status), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("setting status for %s: %w", url, err)
	}
	return nil
}

// Status returns the ledger status for a url, defaulting to StatusNew when
// the user has never touched the entry.
func (s *SQLiteStore) Status(url string) (model.Status, error) {
	var status string
	err := s.db.QueryRow("SELECT status FROM listing_status WHERE url = ?", url).Scan(&status)
	if err == sql.ErrNoRows {
		return model.StatusNew, nil
	}
	if err != nil {
		return "", fmt.Errorf("reading status for %s: %w", url, err)
	}
	return model.Status(status), nil
}

// Recent returns up to limit seen entries, newest first, with their ledger status.
func (s *SQLiteStore) Recent(limit int) ([]model.SeenEntry, error) {
	rows, err := s.db.Query(
		`SELECT s.url, s.title, s.title_hash, s.company, s.source, s.first_seen, s.score,
		        COALESCE(st.status, 'new')
		 FROM seen_listings s
		 LEFT JOIN listing_status st ON st.url = s.url
		 ORDER BY s.first_seen DESC, s.url
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("listing recent entries: %w", err)
	}
	defer rows.Close()

	var entries []model.SeenEntry
	for rows.Next() {
		var e model.SeenEntry
		var status string
		if err := rows.Scan(&e.URL, &e.Title, &e.TitleHash, &e.Company, &e.Source,
			&e.FirstSeen, &e.Score, &status); err != nil {
			return nil, fmt.Errorf("scanning seen entry: %w", err)
		}
		e.Status = model.Status(status)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating seen entries: %w", err)
	}
	return entries, nil
}

// CountsByStatus returns how many entries sit in each status bucket.
func (s *SQLiteStore) CountsByStatus() (map[model.Status]int, error) {
	rows, err := s.db.Query(
		`SELECT COALESCE(st.status, 'new') AS status, COUNT(*)
		 FROM seen_listings s
		 LEFT JOIN listing_status st ON st.url = s.url
		 GROUP BY status`,
	)
	if err != nil {
		return nil, fmt.Errorf("counting by status: %w", err)
	}
	defer rows.Close()

	counts := make(map[model.Status]int)
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("scanning status count: %w", err)
		}
		counts[model.Status(status)] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating status counts: %w", err)
	}
	return counts, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
