package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"story_tracker/internal/domain"
)

// DiscoveryService runs discovery passes: fetch candidate articles for a
// keyword, store them, and link the ones the story hasn't seen yet. It is
// the single code path behind both the scheduler and the lifecycle
// operations that fetch on demand.
type DiscoveryService struct {
	source    Source
	articles  ArticleStore
	stories   StoryStore
	links     LinkStore
	publisher Publisher
	logger    *slog.Logger
}

func NewDiscoveryService(
	source Source,
	articles ArticleStore,
	stories StoryStore,
	links LinkStore,
	publisher Publisher,
	logger *slog.Logger,
) *DiscoveryService {
	return &DiscoveryService{
		source:    source,
		articles:  articles,
		stories:   stories,
		links:     links,
		publisher: publisher,
		logger:    logger.With("source", source.ID()),
	}
}

// DiscoverAndLink fetches candidates for the keyword and links the new ones
// to the story, returning the number of links created. A candidate already
// linked is skipped, so re-discovering the same article is a no-op. The
// story's last_updated moves only when at least one link was created;
// last_polled_at is the scheduler's to manage, never touched here.
func (s *DiscoveryService) DiscoverAndLink(ctx context.Context, storyID, keyword string) (int, error) {
	if storyID == "" {
		return 0, fmt.Errorf("%w: story id is required", domain.ErrValidation)
	}
	if keyword == "" {
		return 0, fmt.Errorf("%w: keyword is required", domain.ErrValidation)
	}

	candidates, err := s.source.FetchArticles(ctx, keyword)
	if err != nil {
		return 0, fmt.Errorf("fetch articles: %w", err)
	}

	if len(candidates) == 0 {
		s.logger.Debug("no candidates for keyword", "story_id", storyID, "keyword", keyword)
		return 0, nil
	}

	known, err := s.links.ArticleIDs(ctx, storyID)
	if err != nil {
		return 0, fmt.Errorf("load linked articles: %w", err)
	}

	now := time.Now().UTC()
	newLinks := 0

	for i := range candidates {
		candidate := &candidates[i]

		// Store before link: a link must never reference an article
		// row that doesn't exist yet.
		articleID, err := s.articles.Upsert(ctx, candidate)
		if err != nil {
			if errors.Is(err, domain.ErrValidation) {
				s.logger.Warn("skipping invalid candidate",
					"story_id", storyID,
					"title", candidate.Title,
					"error", err,
				)
				continue
			}
			return newLinks, fmt.Errorf("store article: %w", err)
		}

		if _, linked := known[articleID]; linked {
			continue
		}

		created, err := s.links.Link(ctx, storyID, articleID, now)
		if err != nil {
			return newLinks, fmt.Errorf("link article: %w", err)
		}
		if created {
			known[articleID] = struct{}{}
			newLinks++
		}
	}

	if newLinks == 0 {
		return 0, nil
	}

	if err := s.stories.TouchUpdated(ctx, storyID, now); err != nil {
		return newLinks, fmt.Errorf("update story timestamp: %w", err)
	}

	if s.publisher != nil {
		update := &domain.StoryUpdate{
			StoryID:     storyID,
			Keyword:     keyword,
			NewArticles: newLinks,
			UpdatedAt:   now,
		}
		if err := s.publisher.Publish(ctx, update); err != nil {
			// Push notification is best effort; the links are in.
			s.logger.Error("publish story update failed", "story_id", storyID, "error", err)
		}
	}

	s.logger.Info("discovery pass complete",
		"story_id", storyID,
		"keyword", keyword,
		"candidates", len(candidates),
		"new_links", newLinks,
	)

	return newLinks, nil
}
