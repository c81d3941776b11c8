// internal/client/interface.go
package client

import (
	"context"
	"encoding/json"
)

type FlarumClientInterface interface {
	Request(ctx context.Context, endpoint string, opts *RequestOptions) (json.RawMessage, error)
	Configured() bool
	GetCategoriesEndpoint() string
	GetCategoryBySlugEndpoint(slug string) string
	GetDiscussionsByTagEndpoint(tagSlug string) string
	GetDiscussionEndpoint(identifier string) string
	GetSearchEndpoint(query string) string
	GetUserEndpoint(userID string) string
	GetUserDiscussionsEndpoint(username string) string
	GetPostsEndpoint() string
	GetDiscussionsEndpoint() string
}
