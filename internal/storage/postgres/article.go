package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"story_tracker/internal/domain"
)

type ArticleStore struct {
	db *sqlx.DB
}

func NewArticleStore(db *sqlx.DB) *ArticleStore {
	return &ArticleStore{db: db}
}

// Upsert stores an article keyed by its URL and returns the row id. A URL
// seen before returns the existing id without a second write; the unique
// constraint on url makes concurrent first sightings resolve to one row.
func (s *ArticleStore) Upsert(ctx context.Context, article *domain.Article) (string, error) {
	if article.URL == "" {
		return "", fmt.Errorf("%w: article url is required", domain.ErrValidation)
	}

	query := `
		INSERT INTO articles (
			id, title, summary, content, source, url, image, published_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8
		)
		ON CONFLICT (url) DO NOTHING
		RETURNING id`

	exec := GetExecutor(ctx, s.db)

	var id string
	err := exec.QueryRowxContext(ctx, query,
		uuid.NewString(),
		article.Title,
		article.Summary,
		article.Content,
		article.Source,
		article.URL,
		article.Image,
		article.PublishedAt,
	).Scan(&id)

	if err == sql.ErrNoRows {
		err = exec.QueryRowxContext(ctx,
			"SELECT id FROM articles WHERE url = $1",
			article.URL,
		).Scan(&id)
	}

	if err != nil {
		return "", err
	}

	return id, nil
}

// ListByStory returns the articles linked to a story, newest link first.
// Each article carries the added_at of its link.
func (s *ArticleStore) ListByStory(ctx context.Context, storyID string) ([]domain.Article, error) {
	query := `
		SELECT a.id, a.title, a.summary, a.content, a.source, a.url,
		       a.image, a.published_at, a.created_at, l.added_at
		FROM articles a
		INNER JOIN tracked_story_articles l ON l.article_id = a.id
		WHERE l.tracked_story_id = $1
		ORDER BY l.added_at DESC`

	var articles []domain.Article
	err := s.db.SelectContext(ctx, &articles, query, storyID)
	return articles, err
}

// Count returns the total number of stored articles.
func (s *ArticleStore) Count(ctx context.Context) (int, error) {
	var count int
	err := s.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM articles")
	return count, err
}
