package mocks

import (
	"context"

	"zenith-forums/internal/forum"
	"zenith-forums/internal/models"
	"zenith-forums/internal/moderation"
)

// MockForumService answers with the configured funcs. Unset list funcs
// return empty results; unset single-resource funcs return forum.ErrNotFound.
type MockForumService struct {
	ListCategoriesFunc      func(ctx context.Context) ([]models.Category, error)
	GetCategoryFunc         func(ctx context.Context, slug string) (*models.Category, error)
	ListDiscussionsFunc     func(ctx context.Context, tagSlug string) ([]models.Topic, error)
	GetDiscussionFunc       func(ctx context.Context, id string) (*models.DiscussionDetail, error)
	SubmitReplyFunc         func(ctx context.Context, discussionID, content string, currentUser *models.User) (*models.Post, error)
	SearchDiscussionsFunc   func(ctx context.Context, query string) ([]models.Topic, error)
	GetUserFunc             func(ctx context.Context, id string) (*models.User, error)
	ListUserDiscussionsFunc func(ctx context.Context, username string) ([]models.Topic, error)
	StartDiscussionFunc     func(ctx context.Context, title, content string, tagIDs []string, currentUser *models.User) (*models.Topic, error)
	ConfiguredFunc          func() bool
}

var _ forum.ForumService = (*MockForumService)(nil)

func (m *MockForumService) ListCategories(ctx context.Context) ([]models.Category, error) {
	if m.ListCategoriesFunc == nil {
		return []models.Category{}, nil
	}
	return m.ListCategoriesFunc(ctx)
}

func (m *MockForumService) GetCategory(ctx context.Context, slug string) (*models.Category, error) {
	if m.GetCategoryFunc == nil {
		return nil, forum.ErrNotFound
	}
	return m.GetCategoryFunc(ctx, slug)
}

func (m *MockForumService) ListDiscussions(ctx context.Context, tagSlug string) ([]models.Topic, error) {
	if m.ListDiscussionsFunc == nil {
		return []models.Topic{}, nil
	}
	return m.ListDiscussionsFunc(ctx, tagSlug)
}

func (m *MockForumService) GetCategoryPage(ctx context.Context, slug string) (*models.Category, []models.Topic, error) {
	category, err := m.GetCategory(ctx, slug)
	if err != nil {
		return nil, nil, err
	}
	topics, err := m.ListDiscussions(ctx, slug)
	if err != nil {
		return nil, nil, err
	}
	return category, topics, nil
}

func (m *MockForumService) GetDiscussion(ctx context.Context, id string) (*models.DiscussionDetail, error) {
	if m.GetDiscussionFunc == nil {
		return nil, forum.ErrNotFound
	}
	return m.GetDiscussionFunc(ctx, id)
}

func (m *MockForumService) SubmitReply(ctx context.Context, discussionID, content string, currentUser *models.User) (*models.Post, error) {
	if m.SubmitReplyFunc == nil {
		return nil, forum.ErrUnavailable
	}
	return m.SubmitReplyFunc(ctx, discussionID, content, currentUser)
}

func (m *MockForumService) SearchDiscussions(ctx context.Context, query string) ([]models.Topic, error) {
	if m.SearchDiscussionsFunc == nil {
		return []models.Topic{}, nil
	}
	return m.SearchDiscussionsFunc(ctx, query)
}

func (m *MockForumService) GetUser(ctx context.Context, id string) (*models.User, error) {
	if m.GetUserFunc == nil {
		return nil, forum.ErrNotFound
	}
	return m.GetUserFunc(ctx, id)
}

func (m *MockForumService) ListUserDiscussions(ctx context.Context, username string) ([]models.Topic, error) {
	if m.ListUserDiscussionsFunc == nil {
		return []models.Topic{}, nil
	}
	return m.ListUserDiscussionsFunc(ctx, username)
}

func (m *MockForumService) StartDiscussion(ctx context.Context, title, content string, tagIDs []string, currentUser *models.User) (*models.Topic, error) {
	if m.StartDiscussionFunc == nil {
		return nil, forum.ErrUnavailable
	}
	return m.StartDiscussionFunc(ctx, title, content, tagIDs, currentUser)
}

func (m *MockForumService) Configured() bool {
	if m.ConfiguredFunc == nil {
		return true
	}
	return m.ConfiguredFunc()
}

type MockModerator struct {
	ModerateFunc func(ctx context.Context, input models.ModerationInput) (models.ModerationResult, error)
}

var _ moderation.Moderator = (*MockModerator)(nil)

func (m *MockModerator) Moderate(ctx context.Context, input models.ModerationInput) (models.ModerationResult, error) {
	return m.ModerateFunc(ctx, input)
}

func (m *MockModerator) Name() string { return "mock" }
