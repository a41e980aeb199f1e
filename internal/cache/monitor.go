package cache

import (
	"database/sql"
	"fmt"
	"time"
)

// WatchedThread is a video whose comment thread is polled for new replies.
type WatchedThread struct {
	VideoID     string
	Title       string
	LastChecked time.Time // zero until the first scan
	CreatedAt   time.Time
}

// Notification is a new comment found on a watched thread.
type Notification struct {
	ID          int64
	VideoID     string
	CommentID   string
	VideoTitle  string
	AuthorName  string
	TextPreview string
	CreatedAt   time.Time
	Read        bool
}

// SetWatched starts or stops watching a thread. Unwatching also forgets
// the thread's seen comments so a later watch seeds afresh.
func (d *DB) SetWatched(videoID, title string, watched bool) error {
	if watched {
		_, err := d.db.Exec(`INSERT INTO watched_threads (video_id, title, last_checked, created_at)
			VALUES (?, ?, 0, ?)
			ON CONFLICT(video_id) DO UPDATE SET title = excluded.title`,
			videoID, nullStr(title), time.Now().Unix())
		return err
	}

	tx, err := d.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if _, err := tx.Exec(`DELETE FROM watched_threads WHERE video_id = ?`, videoID); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM seen_comments WHERE video_id = ?`, videoID); err != nil {
		return err
	}
	return tx.Commit()
}

// IsWatched reports whether a thread is being watched.
func (d *DB) IsWatched(videoID string) bool {
	var n int
	d.db.QueryRow(`SELECT COUNT(*) FROM watched_threads WHERE video_id = ?`, videoID).Scan(&n)
	return n > 0
}

// WatchedThreads returns threads due for checking, ordered by oldest check first.
func (d *DB) WatchedThreads(limit int) ([]WatchedThread, error) {
	rows, err := d.db.Query(`SELECT video_id, title, last_checked, created_at
		FROM watched_threads ORDER BY last_checked ASC, created_at ASC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []WatchedThread
	for rows.Next() {
		var w WatchedThread
		var title sql.NullString
		var lastChecked, createdAt int64
		if err := rows.Scan(&w.VideoID, &title, &lastChecked, &createdAt); err != nil {
			return nil, err
		}
		w.Title = title.String
		if lastChecked > 0 {
			w.LastChecked = time.Unix(0, lastChecked)
		}
		w.CreatedAt = time.Unix(createdAt, 0)
		result = append(result, w)
	}
	return result, rows.Err()
}

// MarkChecked records that a watched thread was just scanned.
func (d *DB) MarkChecked(videoID string, at time.Time) error {
	_, err := d.db.Exec(`UPDATE watched_threads SET last_checked = ? WHERE video_id = ?`, at.UnixNano(), videoID)
	return err
}

// SeenComments returns the ids of every comment already seen on a thread.
func (d *DB) SeenComments(videoID string) (map[string]bool, error) {
	rows, err := d.db.Query(`SELECT comment_id FROM seen_comments WHERE video_id = ?`, videoID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	seen := make(map[string]bool)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		seen[id] = true
	}
	return seen, rows.Err()
}

// MarkSeen adds comment ids to a thread's seen set.
func (d *DB) MarkSeen(videoID string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	tx, err := d.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT OR IGNORE INTO seen_comments (video_id, comment_id) VALUES (?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, id := range ids {
		if _, err := stmt.Exec(videoID, id); err != nil {
			return fmt.Errorf("marking %s seen: %w", id, err)
		}
	}
	return tx.Commit()
}

// AddNotification inserts a new notification. Duplicates are ignored.
func (d *DB) AddNotification(n Notification) error {
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}
	_, err := d.db.Exec(`INSERT OR IGNORE INTO notifications
		(video_id, comment_id, video_title, author_name, text_preview, created_at, read)
		VALUES (?, ?, ?, ?, ?, ?, 0)`,
		n.VideoID, n.CommentID, nullStr(n.VideoTitle), nullStr(n.AuthorName), nullStr(n.TextPreview), n.CreatedAt.Unix())
	return err
}

// Notifications returns the newest notifications first.
func (d *DB) Notifications(limit int) ([]Notification, error) {
	rows, err := d.db.Query(`SELECT id, video_id, comment_id, video_title, author_name, text_preview, created_at, read
		FROM notifications ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Notification
	for rows.Next() {
		var n Notification
		var title, author, preview sql.NullString
		var createdAt int64
		var read int
		if err := rows.Scan(&n.ID, &n.VideoID, &n.CommentID, &title, &author, &preview, &createdAt, &read); err != nil {
			return nil, err
		}
		n.VideoTitle = title.String
		n.AuthorName = author.String
		n.TextPreview = preview.String
		n.CreatedAt = time.Unix(createdAt, 0)
		n.Read = read != 0
		result = append(result, n)
	}
	return result, rows.Err()
}

// MarkRead marks one notification as read.
func (d *DB) MarkRead(id int64) error {
	_, err := d.db.Exec(`UPDATE notifications SET read = 1 WHERE id = ?`, id)
	return err
}

// MarkAllRead marks every notification as read.
func (d *DB) MarkAllRead() error {
	_, err := d.db.Exec(`UPDATE notifications SET read = 1 WHERE read = 0`)
	return err
}

// UnreadCount returns the count of unread notifications.
func (d *DB) UnreadCount() int {
	var count int
	d.db.QueryRow(`SELECT COUNT(*) FROM notifications WHERE read = 0`).Scan(&count)
	return count
}
