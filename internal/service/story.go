package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"story_tracker/internal/domain"
)

// StoryService manages the tracked-story lifecycle: creation, reads,
// deletion, and the polling toggle. Every owner-scoped miss comes back as
// domain.ErrNotFound without distinguishing "doesn't exist" from "not
// yours".
type StoryService struct {
	stories   StoryStore
	articles  ArticleStore
	links     LinkStore
	discovery Discoverer
	txManager TransactionManager
	logger    *slog.Logger
}

func NewStoryService(
	stories StoryStore,
	articles ArticleStore,
	links LinkStore,
	discovery Discoverer,
	txManager TransactionManager,
	logger *slog.Logger,
) *StoryService {
	return &StoryService{
		stories:   stories,
		articles:  articles,
		links:     links,
		discovery: discovery,
		txManager: txManager,
		logger:    logger,
	}
}

// Create finds or creates the story for (userID, keyword). An existing story
// is returned unchanged. A new story optionally links the article that
// prompted tracking, then runs one synchronous discovery pass so it is
// non-empty from the start.
func (s *StoryService) Create(ctx context.Context, userID, keyword, sourceArticleID string, enablePolling bool) (*domain.TrackedStory, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", domain.ErrValidation)
	}
	if keyword == "" {
		return nil, fmt.Errorf("%w: keyword is required", domain.ErrValidation)
	}

	now := time.Now().UTC()
	candidate := &domain.TrackedStory{
		UserID:      userID,
		Keyword:     keyword,
		CreatedAt:   now,
		LastUpdated: now,
		IsPolling:   enablePolling,
	}
	if enablePolling {
		candidate.LastPolledAt = &now
	}

	var story *domain.TrackedStory
	var created bool
	err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		var err error
		story, created, err = s.stories.FindOrCreate(txCtx, candidate)
		if err != nil {
			return fmt.Errorf("find or create story: %w", err)
		}

		if created && sourceArticleID != "" {
			if _, err := s.links.Link(txCtx, story.ID, sourceArticleID, now); err != nil {
				return fmt.Errorf("link source article: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if created {
		s.logger.Info("tracked story created",
			"story_id", story.ID,
			"user_id", userID,
			"keyword", keyword,
			"polling", enablePolling,
		)
		if err := s.runDiscovery(ctx, story.ID, story.Keyword); err != nil {
			return nil, err
		}
	} else {
		s.logger.Debug("keyword already tracked", "story_id", story.ID, "user_id", userID)
	}

	return s.withArticles(ctx, story)
}

// Stories returns all stories owned by userID, newest-created first, each
// with its linked articles.
func (s *StoryService) Stories(ctx context.Context, userID string) ([]domain.TrackedStory, error) {
	stories, err := s.stories.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list stories: %w", err)
	}

	for i := range stories {
		articles, err := s.articles.ListByStory(ctx, stories[i].ID)
		if err != nil {
			return nil, fmt.Errorf("load story articles: %w", err)
		}
		stories[i].Articles = articles
	}

	return stories, nil
}

// StoryDetail returns a story by id with its linked articles. Detail reads
// are not ownership-scoped: a story id alone is enough, as for a shared
// link.
func (s *StoryService) StoryDetail(ctx context.Context, storyID string) (*domain.TrackedStory, error) {
	story, err := s.stories.GetByID(ctx, storyID)
	if err != nil {
		return nil, err
	}
	return s.withArticles(ctx, story)
}

// Delete removes a story owned by userID, cascading its article links.
// Returns false, not an error, when nothing matched.
func (s *StoryService) Delete(ctx context.Context, userID, storyID string) (bool, error) {
	deleted, err := s.stories.Delete(ctx, userID, storyID)
	if err != nil {
		return false, fmt.Errorf("delete story: %w", err)
	}
	if deleted {
		s.logger.Info("tracked story deleted", "story_id", storyID, "user_id", userID)
	}
	return deleted, nil
}

// SetPolling toggles continuous tracking for a story owned by userID.
// Enabling stamps last_polled_at and runs one immediate discovery pass.
func (s *StoryService) SetPolling(ctx context.Context, userID, storyID string, enable bool) (*domain.TrackedStory, error) {
	story, err := s.stories.SetPolling(ctx, userID, storyID, enable, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	s.logger.Info("polling toggled", "story_id", storyID, "user_id", userID, "enabled", enable)

	if enable {
		if err := s.runDiscovery(ctx, story.ID, story.Keyword); err != nil {
			return nil, err
		}
	}

	return s.withArticles(ctx, story)
}

// runDiscovery executes one discovery pass for a lifecycle operation. A
// fetch failure degrades to "nothing new" so the operation still succeeds;
// store failures propagate.
func (s *StoryService) runDiscovery(ctx context.Context, storyID, keyword string) error {
	newLinks, err := s.discovery.DiscoverAndLink(ctx, storyID, keyword)
	if err != nil {
		if errors.Is(err, domain.ErrFetchFailed) {
			s.logger.Warn("discovery fetch failed, continuing",
				"story_id", storyID,
				"keyword", keyword,
				"error", err,
			)
			return nil
		}
		return err
	}

	s.logger.Debug("discovery pass done", "story_id", storyID, "new_links", newLinks)
	return nil
}

func (s *StoryService) withArticles(ctx context.Context, story *domain.TrackedStory) (*domain.TrackedStory, error) {
	articles, err := s.articles.ListByStory(ctx, story.ID)
	if err != nil {
		return nil, fmt.Errorf("load story articles: %w", err)
	}
	story.Articles = articles
	return story, nil
}
