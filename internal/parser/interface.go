// internal/parser/interface.go
package parser

import (
	"context"
	"encoding/json"

	"zenith-forums/internal/models"
)

// ParserInterface turns raw backend documents into view-models. A nil
// result with a nil error means the primary resource was absent.
type ParserInterface interface {
	ParseCategories(ctx context.Context, data json.RawMessage) ([]models.Category, error)
	ParseCategory(ctx context.Context, data json.RawMessage) (*models.Category, error)
	ParseDiscussions(ctx context.Context, data json.RawMessage) ([]models.Topic, error)
	ParseDiscussion(ctx context.Context, data json.RawMessage) (*models.Topic, error)
	ParseDiscussionDetail(ctx context.Context, data json.RawMessage) (*models.DiscussionDetail, error)
	ParsePost(ctx context.Context, data json.RawMessage) (*models.Post, error)
	ParseUser(ctx context.Context, data json.RawMessage) (*models.User, error)
}
