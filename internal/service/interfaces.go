package service

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"time"

	"story_tracker/internal/domain"
)

type ArticleStore interface {
	Upsert(ctx context.Context, article *domain.Article) (string, error)
	ListByStory(ctx context.Context, storyID string) ([]domain.Article, error)
}

type StoryStore interface {
	FindOrCreate(ctx context.Context, story *domain.TrackedStory) (*domain.TrackedStory, bool, error)
	GetByID(ctx context.Context, storyID string) (*domain.TrackedStory, error)
	ListByUser(ctx context.Context, userID string) ([]domain.TrackedStory, error)
	Delete(ctx context.Context, userID, storyID string) (bool, error)
	SetPolling(ctx context.Context, userID, storyID string, enable bool, now time.Time) (*domain.TrackedStory, error)
	TouchUpdated(ctx context.Context, storyID string, now time.Time) error
}

type LinkStore interface {
	Link(ctx context.Context, storyID, articleID string, addedAt time.Time) (bool, error)
	ArticleIDs(ctx context.Context, storyID string) (map[string]struct{}, error)
}

type Source interface {
	ID() string
	Name() string
	FetchArticles(ctx context.Context, keyword string) ([]domain.Article, error)
}

type Discoverer interface {
	DiscoverAndLink(ctx context.Context, storyID, keyword string) (int, error)
}

type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type Publisher interface {
	Publish(ctx context.Context, update *domain.StoryUpdate) error
	Close() error
}
