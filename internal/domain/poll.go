package domain

import "time"

// StoryUpdate is the event published when a discovery pass attaches new
// articles to a story.
type StoryUpdate struct {
	StoryID     string    `json:"story_id"`
	Keyword     string    `json:"keyword"`
	NewArticles int       `json:"new_articles"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// PollStats holds statistics about one polling cycle.
type PollStats struct {
	StoriesPolled  int
	StoriesSkipped int
	StoriesUpdated int
	NewArticles    int
	Errors         int
	Duration       time.Duration
}
