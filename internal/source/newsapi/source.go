package newsapi

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"

	"story_tracker/internal/domain"
)

const (
	SourceID   = "newsapi"
	SourceName = "NewsAPI"

	everythingPath = "/v2/everything"
)

// Config holds NewsAPI source configuration.
type Config struct {
	BaseURL        string
	APIKey         string
	PageSize       int
	Language       string
	Timeout        time.Duration
	MaxAttempts    int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

// Source fetches keyword-matching articles from the NewsAPI everything
// endpoint.
type Source struct {
	client   *resty.Client
	pageSize int
	language string
	logger   *slog.Logger
}

// New creates a new NewsAPI source.
func New(cfg Config, logger *slog.Logger) *Source {
	retries := cfg.MaxAttempts - 1
	if retries < 0 {
		retries = 0
	}

	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetRetryCount(retries).
		SetRetryWaitTime(cfg.InitialBackoff).
		SetRetryMaxWaitTime(cfg.MaxBackoff).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", "StoryTracker/1.0").
		SetHeader("X-Api-Key", cfg.APIKey)

	return &Source{
		client:   client,
		pageSize: cfg.PageSize,
		language: cfg.Language,
		logger:   logger.With("source", SourceID),
	}
}

// ID returns the source identifier.
func (s *Source) ID() string {
	return SourceID
}

// Name returns human-readable name.
func (s *Source) Name() string {
	return SourceName
}

// FetchArticles fetches articles matching the keyword, newest first. Errors
// from the provider or transport are wrapped in domain.ErrFetchFailed.
func (s *Source) FetchArticles(ctx context.Context, keyword string) ([]domain.Article, error) {
	var apiResp apiResponse

	resp, err := s.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"q":        keyword,
			"pageSize": strconv.Itoa(s.pageSize),
			"language": s.language,
			"sortBy":   "publishedAt",
		}).
		SetResult(&apiResp).
		SetError(&apiResp).
		Get(everythingPath)
	if err != nil {
		return nil, fmt.Errorf("%w: execute request: %v", domain.ErrFetchFailed, err)
	}

	if resp.IsError() {
		return nil, fmt.Errorf("%w: status %d: %s", domain.ErrFetchFailed, resp.StatusCode(), apiResp.Message)
	}

	if apiResp.Status != "ok" {
		return nil, fmt.Errorf("%w: provider error %s: %s", domain.ErrFetchFailed, apiResp.Code, apiResp.Message)
	}

	s.logger.Debug("fetched articles",
		"keyword", keyword,
		"count", len(apiResp.Articles),
		"total_results", apiResp.TotalResults,
	)

	return s.transform(apiResp.Articles), nil
}

func (s *Source) transform(articles []apiArticle) []domain.Article {
	result := make([]domain.Article, 0, len(articles))

	for _, a := range articles {
		if a.URL == "" {
			s.logger.Warn("article missing url, skipping", "title", a.Title)
			continue
		}

		publishedAt, err := time.Parse(time.RFC3339, a.PublishedAt)
		if err != nil {
			publishedAt = time.Now().UTC()
		}

		source := a.Source.Name
		if source == "" {
			source = "Unknown Source"
		}

		content := a.Content
		if content == "" {
			content = a.Description
		}

		result = append(result, domain.Article{
			Title:       a.Title,
			Summary:     a.Description,
			Content:     content,
			Source:      source,
			URL:         a.URL,
			Image:       a.URLToImage,
			PublishedAt: publishedAt,
		})
	}

	return result
}
