package cache

import (
	"database/sql"
	"time"
)

// HistoryEntry is a thread the user has opened.
type HistoryEntry struct {
	VideoID      string
	Title        string
	OwnerName    string
	CommentCount int
	VisitedAt    time.Time
}

// TouchHistory records a visit, moving the thread to the top of the history.
func (d *DB) TouchHistory(e HistoryEntry) error {
	if e.VisitedAt.IsZero() {
		e.VisitedAt = time.Now()
	}
	_, err := d.db.Exec(`INSERT INTO history (video_id, title, owner_name, comment_count, visited_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(video_id) DO UPDATE SET
			title = excluded.title,
			owner_name = excluded.owner_name,
			comment_count = excluded.comment_count,
			visited_at = excluded.visited_at`,
		e.VideoID, nullStr(e.Title), nullStr(e.OwnerName), e.CommentCount, e.VisitedAt.UnixNano())
	return err
}

// History returns recently opened threads, newest first.
func (d *DB) History(limit int) ([]HistoryEntry, error) {
	rows, err := d.db.Query(`SELECT video_id, title, owner_name, comment_count, visited_at
		FROM history ORDER BY visited_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []HistoryEntry
	for rows.Next() {
		var e HistoryEntry
		var title, owner sql.NullString
		var visited int64
		if err := rows.Scan(&e.VideoID, &title, &owner, &e.CommentCount, &visited); err != nil {
			return nil, err
		}
		e.Title = title.String
		e.OwnerName = owner.String
		e.VisitedAt = time.Unix(0, visited)
		result = append(result, e)
	}
	return result, rows.Err()
}

// RemoveHistory forgets a thread.
func (d *DB) RemoveHistory(videoID string) error {
	_, err := d.db.Exec(`DELETE FROM history WHERE video_id = ?`, videoID)
	return err
}
