// internal/forum/service.go
package forum

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"zenith-forums/internal/client"
	"zenith-forums/internal/jsonapi"
	"zenith-forums/internal/models"
	"zenith-forums/internal/parser"
)

// ForumService exposes the forum use cases to the presentation layer.
// Listings degrade to empty results when the backend cannot be reached;
// single-resource reads report ErrNotFound or ErrUnavailable.
type ForumService interface {
	ListCategories(ctx context.Context) ([]models.Category, error)
	GetCategory(ctx context.Context, slug string) (*models.Category, error)
	ListDiscussions(ctx context.Context, tagSlug string) ([]models.Topic, error)
	GetCategoryPage(ctx context.Context, slug string) (*models.Category, []models.Topic, error)
	GetDiscussion(ctx context.Context, id string) (*models.DiscussionDetail, error)
	SubmitReply(ctx context.Context, discussionID, content string, currentUser *models.User) (*models.Post, error)
	SearchDiscussions(ctx context.Context, query string) ([]models.Topic, error)
	GetUser(ctx context.Context, id string) (*models.User, error)
	ListUserDiscussions(ctx context.Context, username string) ([]models.Topic, error)
	StartDiscussion(ctx context.Context, title, content string, tagIDs []string, currentUser *models.User) (*models.Topic, error)
	Configured() bool
}

type forumService struct {
	client client.FlarumClientInterface
	parser parser.ParserInterface
	logger *zap.Logger
}

func NewForumService(client client.FlarumClientInterface, parser parser.ParserInterface, logger *zap.Logger) ForumService {
	return &forumService{
		client: client,
		parser: parser,
		logger: logger,
	}
}

func (s *forumService) Configured() bool {
	return s.client.Configured()
}

// ListCategories returns the visible top-level categories sorted by position.
func (s *forumService) ListCategories(ctx context.Context) ([]models.Category, error) {
	startTime := time.Now()

	data, err := s.client.Request(ctx, s.client.GetCategoriesEndpoint(), nil)
	if err != nil {
		s.logger.Warn("Failed to fetch categories", zap.Error(err))
		return []models.Category{}, nil
	}

	categories, err := s.parser.ParseCategories(ctx, data)
	if err != nil {
		s.logger.Warn("Failed to parse categories", zap.Error(err))
		return []models.Category{}, nil
	}

	s.logger.Debug("Fetched categories",
		zap.Int("count", len(categories)),
		zap.Duration("elapsed", time.Since(startTime)))
	return categories, nil
}

func (s *forumService) GetCategory(ctx context.Context, slug string) (*models.Category, error) {
	if strings.TrimSpace(slug) == "" {
		return nil, invalid("category slug is required")
	}

	data, err := s.client.Request(ctx, s.client.GetCategoryBySlugEndpoint(slug), nil)
	if err != nil {
		return nil, readError("fetch category", err)
	}

	category, err := s.parser.ParseCategory(ctx, data)
	if err != nil {
		return nil, readError("parse category", err)
	}
	if category == nil {
		return nil, ErrNotFound
	}
	return category, nil
}

// ListDiscussions returns the discussions tagged with tagSlug, most recently
// active first.
func (s *forumService) ListDiscussions(ctx context.Context, tagSlug string) ([]models.Topic, error) {
	return s.listTopics(ctx, "tag", s.client.GetDiscussionsByTagEndpoint(tagSlug))
}

// GetCategoryPage fetches a category and its discussions concurrently.
func (s *forumService) GetCategoryPage(ctx context.Context, slug string) (*models.Category, []models.Topic, error) {
	var (
		category *models.Category
		topics   []models.Topic
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		category, err = s.GetCategory(gctx, slug)
		return err
	})
	g.Go(func() error {
		var err error
		topics, err = s.ListDiscussions(gctx, slug)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return category, topics, nil
}

// GetDiscussion fetches one discussion by id or slug with its full thread.
func (s *forumService) GetDiscussion(ctx context.Context, id string) (*models.DiscussionDetail, error) {
	if strings.TrimSpace(id) == "" {
		return nil, invalid("discussion id is required")
	}

	data, err := s.client.Request(ctx, s.client.GetDiscussionEndpoint(id), nil)
	if err != nil {
		return nil, readError("fetch discussion", err)
	}

	detail, err := s.parser.ParseDiscussionDetail(ctx, data)
	if err != nil {
		return nil, readError("parse discussion", err)
	}
	if detail == nil {
		return nil, ErrNotFound
	}

	s.logger.Debug("Assembled discussion thread",
		zap.String("discussion", detail.Topic.ID),
		zap.Int("posts", len(detail.Posts)))
	return detail, nil
}

// SubmitReply posts content to a discussion as currentUser. The returned
// post always carries currentUser as its author since the backend echo may
// omit or abbreviate it.
func (s *forumService) SubmitReply(ctx context.Context, discussionID, content string, currentUser *models.User) (*models.Post, error) {
	if currentUser == nil {
		return nil, ErrNoSession
	}
	if strings.TrimSpace(discussionID) == "" {
		return nil, invalid("discussion id is required")
	}
	if strings.TrimSpace(content) == "" {
		return nil, invalid("reply content cannot be empty")
	}
	if !s.client.Configured() {
		s.logger.Error("Forum API URL or key is not configured, cannot submit reply")
		return nil, ErrUnavailable
	}

	payload, err := jsonapi.NewDocument("posts", map[string]string{"content": content}, map[string]jsonapi.Relationship{
		"discussion": jsonapi.ToOne("discussions", discussionID),
		"user":       jsonapi.ToOne("users", currentUser.ID),
	})
	if err != nil {
		return nil, fmt.Errorf("build reply: %w", err)
	}

	data, err := s.client.Request(ctx, s.client.GetPostsEndpoint(), &client.RequestOptions{
		Method: http.MethodPost,
		Body:   payload,
	})
	if err != nil {
		return nil, writeError("submit reply", err)
	}

	post, err := s.parser.ParsePost(ctx, data)
	if err != nil || post == nil {
		s.logger.Error("Forum accepted reply but returned no post",
			zap.String("discussion", discussionID), zap.Error(err))
		return nil, ErrWriteRejected
	}

	if parser.IsUnknown(post.Author) || post.Author.ID != currentUser.ID {
		post.Author = *currentUser
	}

	s.logger.Info("Reply submitted",
		zap.String("discussion", discussionID),
		zap.String("post", post.ID),
		zap.String("user", currentUser.ID))
	return post, nil
}

// SearchDiscussions runs a full-text search on the backend. A blank query
// returns no results without contacting it.
func (s *forumService) SearchDiscussions(ctx context.Context, query string) ([]models.Topic, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []models.Topic{}, nil
	}
	return s.listTopics(ctx, "search", s.client.GetSearchEndpoint(query))
}

func (s *forumService) GetUser(ctx context.Context, id string) (*models.User, error) {
	if strings.TrimSpace(id) == "" {
		return nil, invalid("user id is required")
	}

	data, err := s.client.Request(ctx, s.client.GetUserEndpoint(id), nil)
	if err != nil {
		return nil, readError("fetch user", err)
	}

	user, err := s.parser.ParseUser(ctx, data)
	if err != nil {
		return nil, readError("parse user", err)
	}
	if user == nil {
		return nil, ErrNotFound
	}
	return user, nil
}

func (s *forumService) ListUserDiscussions(ctx context.Context, username string) ([]models.Topic, error) {
	if strings.TrimSpace(username) == "" {
		return []models.Topic{}, nil
	}
	return s.listTopics(ctx, "author", s.client.GetUserDiscussionsEndpoint(username))
}

// StartDiscussion creates a discussion with its opening post.
func (s *forumService) StartDiscussion(ctx context.Context, title, content string, tagIDs []string, currentUser *models.User) (*models.Topic, error) {
	if currentUser == nil {
		return nil, ErrNoSession
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, invalid("title is required")
	}
	if strings.TrimSpace(content) == "" {
		return nil, invalid("content is required")
	}
	if !s.client.Configured() {
		s.logger.Error("Forum API URL or key is not configured, cannot start discussion")
		return nil, ErrUnavailable
	}

	tags := make([]jsonapi.Identifier, 0, len(tagIDs))
	for _, id := range tagIDs {
		if id = strings.TrimSpace(id); id != "" {
			tags = append(tags, jsonapi.Identifier{Type: "tags", ID: id})
		}
	}

	payload, err := jsonapi.NewDocument("discussions", map[string]string{"title": title, "content": content}, map[string]jsonapi.Relationship{
		"tags": jsonapi.ToMany(tags),
	})
	if err != nil {
		return nil, fmt.Errorf("build discussion: %w", err)
	}

	data, err := s.client.Request(ctx, s.client.GetDiscussionsEndpoint(), &client.RequestOptions{
		Method: http.MethodPost,
		Body:   payload,
	})
	if err != nil {
		return nil, writeError("start discussion", err)
	}

	topic, err := s.parser.ParseDiscussion(ctx, data)
	if err != nil || topic == nil {
		s.logger.Error("Forum accepted discussion but returned no resource", zap.Error(err))
		return nil, ErrWriteRejected
	}

	if parser.IsUnknown(topic.Author) || topic.Author.ID != currentUser.ID {
		topic.Author = *currentUser
	}
	if topic.FirstPost != nil && parser.IsUnknown(topic.FirstPost.Author) {
		topic.FirstPost.Author = *currentUser
	}

	s.logger.Info("Discussion started",
		zap.String("discussion", topic.ID),
		zap.String("user", currentUser.ID))
	return topic, nil
}

func (s *forumService) listTopics(ctx context.Context, kind, endpoint string) ([]models.Topic, error) {
	data, err := s.client.Request(ctx, endpoint, nil)
	if err != nil {
		s.logger.Warn("Failed to fetch discussions", zap.String("kind", kind), zap.Error(err))
		return []models.Topic{}, nil
	}

	topics, err := s.parser.ParseDiscussions(ctx, data)
	if err != nil {
		s.logger.Warn("Failed to parse discussions", zap.String("kind", kind), zap.Error(err))
		return []models.Topic{}, nil
	}
	return topics, nil
}

