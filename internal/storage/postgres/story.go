package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"story_tracker/internal/domain"
)

type StoryStore struct {
	db *sqlx.DB
}

func NewStoryStore(db *sqlx.DB) *StoryStore {
	return &StoryStore{db: db}
}

const storyColumns = "id, user_id, keyword, created_at, last_updated, last_polled_at, is_polling"

// FindOrCreate returns the story for (userID, keyword), inserting it first
// if none exists. The unique constraint on (user_id, keyword) makes
// concurrent creates converge on one row; created reports whether this call
// inserted it.
func (s *StoryStore) FindOrCreate(ctx context.Context, story *domain.TrackedStory) (*domain.TrackedStory, bool, error) {
	query := `
		INSERT INTO tracked_stories (
			id, user_id, keyword, created_at, last_updated, last_polled_at, is_polling
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7
		)
		ON CONFLICT (user_id, keyword) DO NOTHING
		RETURNING ` + storyColumns

	exec := GetExecutor(ctx, s.db)

	var created domain.TrackedStory
	err := sqlx.GetContext(ctx, exec, &created, query,
		uuid.NewString(),
		story.UserID,
		story.Keyword,
		story.CreatedAt,
		story.LastUpdated,
		story.LastPolledAt,
		story.IsPolling,
	)
	if err == nil {
		return &created, true, nil
	}
	if err != sql.ErrNoRows {
		return nil, false, err
	}

	existing, err := s.findByUserAndKeyword(ctx, story.UserID, story.Keyword)
	if err != nil {
		return nil, false, err
	}
	return existing, false, nil
}

func (s *StoryStore) findByUserAndKeyword(ctx context.Context, userID, keyword string) (*domain.TrackedStory, error) {
	query := `SELECT ` + storyColumns + ` FROM tracked_stories WHERE user_id = $1 AND keyword = $2`

	var story domain.TrackedStory
	err := sqlx.GetContext(ctx, GetExecutor(ctx, s.db), &story, query, userID, keyword)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &story, nil
}

// GetByID returns a story by id alone, with no ownership check.
func (s *StoryStore) GetByID(ctx context.Context, storyID string) (*domain.TrackedStory, error) {
	query := `SELECT ` + storyColumns + ` FROM tracked_stories WHERE id = $1`

	var story domain.TrackedStory
	err := s.db.GetContext(ctx, &story, query, storyID)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &story, nil
}

// ListByUser returns all stories owned by userID, newest-created first.
func (s *StoryStore) ListByUser(ctx context.Context, userID string) ([]domain.TrackedStory, error) {
	query := `SELECT ` + storyColumns + ` FROM tracked_stories WHERE user_id = $1 ORDER BY created_at DESC`

	var stories []domain.TrackedStory
	err := s.db.SelectContext(ctx, &stories, query, userID)
	return stories, err
}

// ListPolling returns all stories with polling enabled.
func (s *StoryStore) ListPolling(ctx context.Context) ([]domain.TrackedStory, error) {
	query := `SELECT ` + storyColumns + ` FROM tracked_stories WHERE is_polling = TRUE`

	var stories []domain.TrackedStory
	err := s.db.SelectContext(ctx, &stories, query)
	return stories, err
}

// Delete removes a story owned by userID, cascading its links. Returns
// false when no row matched either the id or the owner.
func (s *StoryStore) Delete(ctx context.Context, userID, storyID string) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM tracked_stories WHERE id = $1 AND user_id = $2",
		storyID, userID,
	)
	if err != nil {
		return false, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// SetPolling flips is_polling for a story owned by userID. Enabling also
// stamps last_polled_at. Misses map to domain.ErrNotFound.
func (s *StoryStore) SetPolling(ctx context.Context, userID, storyID string, enable bool, now time.Time) (*domain.TrackedStory, error) {
	query := `
		UPDATE tracked_stories
		SET is_polling = $3,
		    last_polled_at = CASE WHEN $3 THEN $4 ELSE last_polled_at END
		WHERE id = $1 AND user_id = $2
		RETURNING ` + storyColumns

	var story domain.TrackedStory
	err := s.db.GetContext(ctx, &story, query, storyID, userID, enable, now)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &story, nil
}

// TouchPolled sets last_polled_at. Called after every polling attempt,
// successful or not.
func (s *StoryStore) TouchPolled(ctx context.Context, storyID string, now time.Time) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE tracked_stories SET last_polled_at = $2 WHERE id = $1",
		storyID, now,
	)
	return err
}

// TouchUpdated sets last_updated. Called only when a discovery pass created
// new links.
func (s *StoryStore) TouchUpdated(ctx context.Context, storyID string, now time.Time) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE tracked_stories SET last_updated = $2 WHERE id = $1",
		storyID, now,
	)
	return err
}
