package cache

import (
	"database/sql"
	"time"

	"github.com/fragmede/iwaraterm/internal/api"
)

// GetUser retrieves a cached user profile.
func (d *DB) GetUser(id string, ttl time.Duration) (*api.User, bool, error) {
	row := d.db.QueryRow(`SELECT id, name, avatar_url, joined, about, fetched_at FROM users WHERE id = ?`, id)

	var user api.User
	var name, avatar, joined, about sql.NullString
	var fetchedAt int64

	err := row.Scan(&user.ID, &name, &avatar, &joined, &about, &fetchedAt)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	user.Name = name.String
	user.AvatarURL = avatar.String
	user.Joined = joined.String
	user.About = about.String
	isFresh := time.Since(time.Unix(fetchedAt, 0)) < ttl
	return &user, isFresh, nil
}

// PutUser stores a user profile in the cache.
func (d *DB) PutUser(user *api.User) error {
	_, err := d.db.Exec(`INSERT OR REPLACE INTO users (id, name, avatar_url, joined, about, fetched_at) VALUES (?, ?, ?, ?, ?, ?)`,
		user.ID, nullStr(user.Name), nullStr(user.AvatarURL), nullStr(user.Joined), nullStr(user.About), time.Now().Unix())
	return err
}
