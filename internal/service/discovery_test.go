package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"story_tracker/internal/domain"
	"story_tracker/internal/service/mocks"
)

type DiscoveryServiceTestSuite struct {
	suite.Suite
	ctrl *gomock.Controller

	source    *mocks.MockSource
	articles  *mocks.MockArticleStore
	stories   *mocks.MockStoryStore
	links     *mocks.MockLinkStore
	publisher *mocks.MockPublisher

	service *DiscoveryService
	logger  *slog.Logger
}

func (s *DiscoveryServiceTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())

	s.source = mocks.NewMockSource(s.ctrl)
	s.articles = mocks.NewMockArticleStore(s.ctrl)
	s.stories = mocks.NewMockStoryStore(s.ctrl)
	s.links = mocks.NewMockLinkStore(s.ctrl)
	s.publisher = mocks.NewMockPublisher(s.ctrl)

	s.logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	s.source.EXPECT().ID().Return("test-source").AnyTimes()
	s.source.EXPECT().Name().Return("Test Source").AnyTimes()

	s.service = NewDiscoveryService(
		s.source,
		s.articles,
		s.stories,
		s.links,
		s.publisher,
		s.logger,
	)
}

func (s *DiscoveryServiceTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func TestDiscoveryServiceTestSuite(t *testing.T) {
	suite.Run(t, new(DiscoveryServiceTestSuite))
}

func (s *DiscoveryServiceTestSuite) TestDiscoverAndLink_NewArticles() {
	ctx := context.Background()
	now := time.Now()

	candidates := []domain.Article{
		{Title: "A", URL: "https://ex.com/a", PublishedAt: now},
		{Title: "B", URL: "https://ex.com/b", PublishedAt: now},
	}

	s.source.EXPECT().FetchArticles(ctx, "ai").Return(candidates, nil)
	s.links.EXPECT().ArticleIDs(ctx, "story-1").Return(map[string]struct{}{}, nil)

	s.articles.EXPECT().Upsert(ctx, &candidates[0]).Return("art-a", nil)
	s.articles.EXPECT().Upsert(ctx, &candidates[1]).Return("art-b", nil)

	s.links.EXPECT().Link(ctx, "story-1", "art-a", gomock.Any()).Return(true, nil)
	s.links.EXPECT().Link(ctx, "story-1", "art-b", gomock.Any()).Return(true, nil)

	s.stories.EXPECT().TouchUpdated(ctx, "story-1", gomock.Any()).Return(nil)
	s.publisher.EXPECT().Publish(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, update *domain.StoryUpdate) error {
			s.Equal("story-1", update.StoryID)
			s.Equal("ai", update.Keyword)
			s.Equal(2, update.NewArticles)
			return nil
		},
	)

	newLinks, err := s.service.DiscoverAndLink(ctx, "story-1", "ai")

	s.NoError(err)
	s.Equal(2, newLinks)
}

func (s *DiscoveryServiceTestSuite) TestDiscoverAndLink_AlreadyLinkedSkipped() {
	ctx := context.Background()

	candidates := []domain.Article{
		{Title: "A", URL: "https://ex.com/a"},
	}

	s.source.EXPECT().FetchArticles(ctx, "ai").Return(candidates, nil)
	s.links.EXPECT().ArticleIDs(ctx, "story-1").Return(map[string]struct{}{"art-a": {}}, nil)
	s.articles.EXPECT().Upsert(ctx, &candidates[0]).Return("art-a", nil)

	newLinks, err := s.service.DiscoverAndLink(ctx, "story-1", "ai")

	s.NoError(err)
	s.Equal(0, newLinks)
}

func (s *DiscoveryServiceTestSuite) TestDiscoverAndLink_EmptyFetch() {
	ctx := context.Background()

	s.source.EXPECT().FetchArticles(ctx, "ai").Return(nil, nil)

	newLinks, err := s.service.DiscoverAndLink(ctx, "story-1", "ai")

	s.NoError(err)
	s.Equal(0, newLinks)
}

func (s *DiscoveryServiceTestSuite) TestDiscoverAndLink_FetchErrorPropagates() {
	ctx := context.Background()

	fetchErr := fmt.Errorf("%w: status 503", domain.ErrFetchFailed)
	s.source.EXPECT().FetchArticles(ctx, "ai").Return(nil, fetchErr)

	newLinks, err := s.service.DiscoverAndLink(ctx, "story-1", "ai")

	s.Error(err)
	s.True(errors.Is(err, domain.ErrFetchFailed))
	s.Equal(0, newLinks)
}

func (s *DiscoveryServiceTestSuite) TestDiscoverAndLink_InvalidCandidateSkipped() {
	ctx := context.Background()

	candidates := []domain.Article{
		{Title: "no url"},
		{Title: "B", URL: "https://ex.com/b"},
	}

	s.source.EXPECT().FetchArticles(ctx, "ai").Return(candidates, nil)
	s.links.EXPECT().ArticleIDs(ctx, "story-1").Return(map[string]struct{}{}, nil)

	s.articles.EXPECT().Upsert(ctx, &candidates[0]).Return("", fmt.Errorf("%w: article url is required", domain.ErrValidation))
	s.articles.EXPECT().Upsert(ctx, &candidates[1]).Return("art-b", nil)

	s.links.EXPECT().Link(ctx, "story-1", "art-b", gomock.Any()).Return(true, nil)
	s.stories.EXPECT().TouchUpdated(ctx, "story-1", gomock.Any()).Return(nil)
	s.publisher.EXPECT().Publish(ctx, gomock.Any()).Return(nil)

	newLinks, err := s.service.DiscoverAndLink(ctx, "story-1", "ai")

	s.NoError(err)
	s.Equal(1, newLinks)
}

func (s *DiscoveryServiceTestSuite) TestDiscoverAndLink_ConflictAbsorbedNotCounted() {
	ctx := context.Background()

	candidates := []domain.Article{
		{Title: "A", URL: "https://ex.com/a"},
	}

	s.source.EXPECT().FetchArticles(ctx, "ai").Return(candidates, nil)
	s.links.EXPECT().ArticleIDs(ctx, "story-1").Return(map[string]struct{}{}, nil)
	s.articles.EXPECT().Upsert(ctx, &candidates[0]).Return("art-a", nil)

	// A concurrent pass linked the same article first; the insert
	// conflicts and reports nothing created.
	s.links.EXPECT().Link(ctx, "story-1", "art-a", gomock.Any()).Return(false, nil)

	newLinks, err := s.service.DiscoverAndLink(ctx, "story-1", "ai")

	s.NoError(err)
	s.Equal(0, newLinks)
}

func (s *DiscoveryServiceTestSuite) TestDiscoverAndLink_SameArticleTwiceOneLink() {
	ctx := context.Background()

	article := domain.Article{Title: "A", URL: "https://ex.com/a"}

	// First pass links the article.
	s.source.EXPECT().FetchArticles(ctx, "ai").Return([]domain.Article{article}, nil)
	s.links.EXPECT().ArticleIDs(ctx, "story-1").Return(map[string]struct{}{}, nil)
	s.articles.EXPECT().Upsert(ctx, gomock.Any()).Return("art-a", nil)
	s.links.EXPECT().Link(ctx, "story-1", "art-a", gomock.Any()).Return(true, nil)
	s.stories.EXPECT().TouchUpdated(ctx, "story-1", gomock.Any()).Return(nil)
	s.publisher.EXPECT().Publish(ctx, gomock.Any()).Return(nil)

	newLinks, err := s.service.DiscoverAndLink(ctx, "story-1", "ai")
	s.NoError(err)
	s.Equal(1, newLinks)

	// Second pass sees the identical article again and links nothing.
	s.source.EXPECT().FetchArticles(ctx, "ai").Return([]domain.Article{article}, nil)
	s.links.EXPECT().ArticleIDs(ctx, "story-1").Return(map[string]struct{}{"art-a": {}}, nil)
	s.articles.EXPECT().Upsert(ctx, gomock.Any()).Return("art-a", nil)

	newLinks, err = s.service.DiscoverAndLink(ctx, "story-1", "ai")
	s.NoError(err)
	s.Equal(0, newLinks)
}

func (s *DiscoveryServiceTestSuite) TestDiscoverAndLink_PublishErrorTolerated() {
	ctx := context.Background()

	candidates := []domain.Article{
		{Title: "A", URL: "https://ex.com/a"},
	}

	s.source.EXPECT().FetchArticles(ctx, "ai").Return(candidates, nil)
	s.links.EXPECT().ArticleIDs(ctx, "story-1").Return(map[string]struct{}{}, nil)
	s.articles.EXPECT().Upsert(ctx, &candidates[0]).Return("art-a", nil)
	s.links.EXPECT().Link(ctx, "story-1", "art-a", gomock.Any()).Return(true, nil)
	s.stories.EXPECT().TouchUpdated(ctx, "story-1", gomock.Any()).Return(nil)
	s.publisher.EXPECT().Publish(ctx, gomock.Any()).Return(errors.New("broker down"))

	newLinks, err := s.service.DiscoverAndLink(ctx, "story-1", "ai")

	s.NoError(err)
	s.Equal(1, newLinks)
}

func (s *DiscoveryServiceTestSuite) TestDiscoverAndLink_NilPublisher() {
	ctx := context.Background()

	service := NewDiscoveryService(s.source, s.articles, s.stories, s.links, nil, s.logger)

	candidates := []domain.Article{
		{Title: "A", URL: "https://ex.com/a"},
	}

	s.source.EXPECT().FetchArticles(ctx, "ai").Return(candidates, nil)
	s.links.EXPECT().ArticleIDs(ctx, "story-1").Return(map[string]struct{}{}, nil)
	s.articles.EXPECT().Upsert(ctx, &candidates[0]).Return("art-a", nil)
	s.links.EXPECT().Link(ctx, "story-1", "art-a", gomock.Any()).Return(true, nil)
	s.stories.EXPECT().TouchUpdated(ctx, "story-1", gomock.Any()).Return(nil)

	newLinks, err := service.DiscoverAndLink(ctx, "story-1", "ai")

	s.NoError(err)
	s.Equal(1, newLinks)
}

func (s *DiscoveryServiceTestSuite) TestDiscoverAndLink_MissingKeyword() {
	ctx := context.Background()

	newLinks, err := s.service.DiscoverAndLink(ctx, "story-1", "")

	s.Error(err)
	s.True(errors.Is(err, domain.ErrValidation))
	s.Equal(0, newLinks)
}
