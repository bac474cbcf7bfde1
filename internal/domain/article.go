package domain

import "time"

// Article is a news article discovered for one or more tracked stories.
// Articles are shared across stories: storing the same URL twice resolves to
// a single row, and rows are immutable after first insert.
type Article struct {
	ID          string    `db:"id"`
	Title       string    `db:"title"`
	Summary     string    `db:"summary"`
	Content     string    `db:"content"`
	Source      string    `db:"source"`
	URL         string    `db:"url"`
	Image       string    `db:"image"`
	PublishedAt time.Time `db:"published_at"`
	CreatedAt   time.Time `db:"created_at"`

	// AddedAt is when the article was linked to the story it was loaded
	// for. Zero when the article is read outside a story context.
	AddedAt time.Time `db:"added_at"`
}
