package domain

import "time"

// TrackedStory is a user's standing subscription to a keyword. At most one
// story exists per (user, keyword) pair; creation is find-or-create.
type TrackedStory struct {
	ID           string     `db:"id"`
	UserID       string     `db:"user_id"`
	Keyword      string     `db:"keyword"`
	CreatedAt    time.Time  `db:"created_at"`
	LastUpdated  time.Time  `db:"last_updated"`
	LastPolledAt *time.Time `db:"last_polled_at"`
	IsPolling    bool       `db:"is_polling"`

	Articles []Article `db:"-"`
}
