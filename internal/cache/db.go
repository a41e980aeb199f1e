package cache

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// DB wraps the SQLite database holding scraped threads, profiles and
// local state such as history and watched threads.
type DB struct {
	db *sql.DB
}

// Open creates or opens the SQLite cache database and runs migrations.
func Open(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(wal)&_pragma=foreign_keys(on)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating database: %w", err)
	}
	return &DB{db: db}, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

func migrate(db *sql.DB) error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS threads (
			video_id TEXT PRIMARY KEY,
			title TEXT,
			payload TEXT NOT NULL,
			fetched_at INTEGER NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			name TEXT,
			avatar_url TEXT,
			joined TEXT,
			about TEXT,
			fetched_at INTEGER NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS history (
			video_id TEXT PRIMARY KEY,
			title TEXT,
			owner_name TEXT,
			comment_count INTEGER DEFAULT 0,
			visited_at INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_history_visited ON history(visited_at)`,

		`CREATE TABLE IF NOT EXISTS watched_threads (
			video_id TEXT PRIMARY KEY,
			title TEXT,
			last_checked INTEGER NOT NULL DEFAULT 0,
			created_at INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_watched_last_checked ON watched_threads(last_checked)`,

		`CREATE TABLE IF NOT EXISTS seen_comments (
			video_id TEXT NOT NULL,
			comment_id TEXT NOT NULL,
			PRIMARY KEY (video_id, comment_id)
		)`,

		`CREATE TABLE IF NOT EXISTS notifications (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			video_id TEXT NOT NULL,
			comment_id TEXT NOT NULL,
			video_title TEXT,
			author_name TEXT,
			text_preview TEXT,
			created_at INTEGER NOT NULL,
			read INTEGER DEFAULT 0,
			UNIQUE (video_id, comment_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_notifications_read ON notifications(read)`,
	}

	for _, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return fmt.Errorf("executing migration: %w\nSQL: %s", err, m)
		}
	}
	return nil
}

func nullStr(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
