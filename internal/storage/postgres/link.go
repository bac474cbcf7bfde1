package postgres

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
)

type LinkStore struct {
	db *sqlx.DB
}

func NewLinkStore(db *sqlx.DB) *LinkStore {
	return &LinkStore{db: db}
}

// Link attaches an article to a story. The composite primary key absorbs
// repeats: created reports whether this call inserted the link.
func (s *LinkStore) Link(ctx context.Context, storyID, articleID string, addedAt time.Time) (bool, error) {
	query := `
		INSERT INTO tracked_story_articles (tracked_story_id, article_id, added_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (tracked_story_id, article_id) DO NOTHING`

	res, err := GetExecutor(ctx, s.db).ExecContext(ctx, query, storyID, articleID, addedAt)
	if err != nil {
		return false, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// ArticleIDs returns the set of article ids already linked to a story.
func (s *LinkStore) ArticleIDs(ctx context.Context, storyID string) (map[string]struct{}, error) {
	query := `SELECT article_id FROM tracked_story_articles WHERE tracked_story_id = $1`

	var ids []string
	if err := s.db.SelectContext(ctx, &ids, query, storyID); err != nil {
		return nil, err
	}

	known := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		known[id] = struct{}{}
	}
	return known, nil
}
