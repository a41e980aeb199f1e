package cache

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/fragmede/iwaraterm/internal/api"
)

// GetThread retrieves a cached comment thread. Returns (thread, isFresh, error).
// Returns nil thread on cache miss.
func (d *DB) GetThread(videoID string, ttl time.Duration) (*api.Thread, bool, error) {
	row := d.db.QueryRow(`SELECT payload, fetched_at FROM threads WHERE video_id = ?`, videoID)

	var payload string
	var fetchedAt int64
	err := row.Scan(&payload, &fetchedAt)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var thread api.Thread
	if err := json.Unmarshal([]byte(payload), &thread); err != nil {
		return nil, false, err
	}
	isFresh := time.Since(time.Unix(fetchedAt, 0)) < ttl
	return &thread, isFresh, nil
}

// PutThread stores a thread with all of its pages merged.
func (d *DB) PutThread(t *api.Thread) error {
	payload, err := json.Marshal(t)
	if err != nil {
		return err
	}
	_, err = d.db.Exec(`INSERT OR REPLACE INTO threads (video_id, title, payload, fetched_at) VALUES (?, ?, ?, ?)`,
		t.VideoID, nullStr(t.Title), string(payload), time.Now().Unix())
	return err
}

// InvalidateThread drops a cached thread so the next read refetches it.
func (d *DB) InvalidateThread(videoID string) error {
	_, err := d.db.Exec(`DELETE FROM threads WHERE video_id = ?`, videoID)
	return err
}
