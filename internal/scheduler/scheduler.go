package scheduler

//go:generate mockgen -source=scheduler.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"story_tracker/internal/domain"
)

// Discoverer runs one discovery pass for a story.
type Discoverer interface {
	DiscoverAndLink(ctx context.Context, storyID, keyword string) (int, error)
}

// StoryStore is the slice of story persistence the scheduler needs.
type StoryStore interface {
	ListPolling(ctx context.Context) ([]domain.TrackedStory, error)
	TouchPolled(ctx context.Context, storyID string, now time.Time) error
}

// Config controls cycle pacing and per-story processing.
type Config struct {
	Interval     time.Duration
	Cooldown     time.Duration
	StoryTimeout time.Duration
	Workers      int
}

// Scheduler drives recurring polling cycles over all polling-enabled
// stories. Stories are processed independently: one story's failure is
// logged and counted, never fatal to the cycle or the loop.
type Scheduler struct {
	stories   StoryStore
	discovery Discoverer
	cfg       Config
	logger    *slog.Logger

	stop     chan struct{}
	stopOnce sync.Once
}

func NewScheduler(stories StoryStore, discovery Discoverer, cfg Config, logger *slog.Logger) *Scheduler {
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	if cfg.StoryTimeout <= 0 {
		cfg.StoryTimeout = 8 * time.Second
	}
	return &Scheduler{
		stories:   stories,
		discovery: discovery,
		cfg:       cfg,
		logger:    logger,
		stop:      make(chan struct{}),
	}
}

// Start runs one cycle immediately, then repeats on the configured
// interval until the context is cancelled or Stop is called. Stop is
// graceful: an in-flight cycle finishes before the loop exits.
func (s *Scheduler) Start(ctx context.Context) error {
	s.logger.Info("scheduler started",
		"interval", s.cfg.Interval,
		"cooldown", s.cfg.Cooldown,
		"workers", s.cfg.Workers,
	)

	s.runCycle(ctx)

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("scheduler stopped")
			return ctx.Err()
		case <-s.stop:
			s.logger.Info("scheduler stopped")
			return nil
		case <-ticker.C:
			s.runCycle(ctx)
		}
	}
}

// Stop signals the loop to exit after the current cycle. Safe to call more
// than once.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() { close(s.stop) })
}

func (s *Scheduler) runCycle(ctx context.Context) {
	stats, err := s.RunCycle(ctx)
	if err != nil {
		s.logger.Error("polling cycle failed", "error", err)
		return
	}

	s.logger.Info("polling cycle complete",
		"polled", stats.StoriesPolled,
		"skipped", stats.StoriesSkipped,
		"updated", stats.StoriesUpdated,
		"new_articles", stats.NewArticles,
		"errors", stats.Errors,
		"duration", stats.Duration,
	)
}

type storyResult struct {
	newLinks int
	err      error
}

// RunCycle executes one full pass: select polling-enabled stories, drop the
// ones inside the cooldown window, process the rest concurrently up to the
// worker bound, and aggregate stats. Exposed for ad-hoc invocation.
func (s *Scheduler) RunCycle(ctx context.Context) (*domain.PollStats, error) {
	start := time.Now()

	stories, err := s.stories.ListPolling(ctx)
	if err != nil {
		return nil, fmt.Errorf("list polling stories: %w", err)
	}

	stats := &domain.PollStats{}
	now := time.Now().UTC()

	eligible := make([]domain.TrackedStory, 0, len(stories))
	for _, story := range stories {
		if story.LastPolledAt != nil && now.Sub(*story.LastPolledAt) < s.cfg.Cooldown {
			stats.StoriesSkipped++
			s.logger.Debug("story inside cooldown, skipping",
				"story_id", story.ID,
				"last_polled_at", story.LastPolledAt,
			)
			continue
		}
		eligible = append(eligible, story)
	}

	results := make(chan storyResult)
	sem := make(chan struct{}, s.cfg.Workers)
	var wg sync.WaitGroup

	for i := range eligible {
		story := eligible[i]
		wg.Add(1)
		go func() {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			results <- s.pollStory(ctx, story)
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	// Single aggregation point: per-story results arrive over the
	// channel, counters are only touched here.
	for res := range results {
		stats.StoriesPolled++
		if res.err != nil {
			stats.Errors++
			continue
		}
		if res.newLinks > 0 {
			stats.StoriesUpdated++
			stats.NewArticles += res.newLinks
		}
	}

	stats.Duration = time.Since(start)
	return stats, nil
}

func (s *Scheduler) pollStory(ctx context.Context, story domain.TrackedStory) storyResult {
	storyCtx, cancel := context.WithTimeout(ctx, s.cfg.StoryTimeout)
	defer cancel()

	newLinks, err := s.discovery.DiscoverAndLink(storyCtx, story.ID, story.Keyword)
	if err != nil {
		s.logger.Error("story poll failed",
			"story_id", story.ID,
			"keyword", story.Keyword,
			"error", err,
		)
	}

	// The attempt happened, so last_polled_at advances whether it
	// succeeded, found nothing, or failed.
	if touchErr := s.stories.TouchPolled(ctx, story.ID, time.Now().UTC()); touchErr != nil {
		s.logger.Error("update last_polled_at failed", "story_id", story.ID, "error", touchErr)
		if err == nil {
			err = touchErr
		}
	}

	return storyResult{newLinks: newLinks, err: err}
}
