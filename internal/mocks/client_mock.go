package mocks

import (
	"context"
	"encoding/json"
	"net/url"
	"sync"

	"zenith-forums/internal/client"
)

// MockFlarumClient records requests and answers them with RequestFunc.
// Endpoint builders return stable, readable paths so tests can route on them.
type MockFlarumClient struct {
	RequestFunc    func(ctx context.Context, endpoint string, opts *client.RequestOptions) (json.RawMessage, error)
	ConfiguredFunc func() bool

	mu    sync.Mutex
	calls []string
}

var _ client.FlarumClientInterface = (*MockFlarumClient)(nil)

func (m *MockFlarumClient) Request(ctx context.Context, endpoint string, opts *client.RequestOptions) (json.RawMessage, error) {
	m.mu.Lock()
	m.calls = append(m.calls, endpoint)
	m.mu.Unlock()
	if m.RequestFunc == nil {
		return nil, nil
	}
	return m.RequestFunc(ctx, endpoint, opts)
}

// Calls returns the endpoints requested so far.
func (m *MockFlarumClient) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

func (m *MockFlarumClient) Configured() bool {
	if m.ConfiguredFunc == nil {
		return true
	}
	return m.ConfiguredFunc()
}

func (m *MockFlarumClient) GetCategoriesEndpoint() string { return "/tags" }

func (m *MockFlarumClient) GetCategoryBySlugEndpoint(slug string) string {
	return "/tags?slug=" + url.QueryEscape(slug)
}

func (m *MockFlarumClient) GetDiscussionsByTagEndpoint(tagSlug string) string {
	return "/discussions?tag=" + url.QueryEscape(tagSlug)
}

func (m *MockFlarumClient) GetDiscussionEndpoint(identifier string) string {
	return "/discussions/" + identifier
}

func (m *MockFlarumClient) GetSearchEndpoint(query string) string {
	return "/discussions?q=" + url.QueryEscape(query)
}

func (m *MockFlarumClient) GetUserEndpoint(userID string) string { return "/users/" + userID }

func (m *MockFlarumClient) GetUserDiscussionsEndpoint(username string) string {
	return "/discussions?author=" + url.QueryEscape(username)
}

func (m *MockFlarumClient) GetPostsEndpoint() string { return "/posts" }

func (m *MockFlarumClient) GetDiscussionsEndpoint() string { return "/discussions" }
