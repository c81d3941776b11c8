// internal/parser/parser.go
package parser

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"zenith-forums/internal/jsonapi"
	"zenith-forums/internal/models"
)

// FlarumParser implements ParserInterface for Flarum JSON:API documents.
type FlarumParser struct {
	now func() time.Time
}

type Option func(*FlarumParser)

// WithClock replaces the clock used for defaulted timestamps.
func WithClock(now func() time.Time) Option {
	return func(p *FlarumParser) {
		if now != nil {
			p.now = now
		}
	}
}

func NewFlarumParser(opts ...Option) *FlarumParser {
	p := &FlarumParser{now: time.Now}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

var _ ParserInterface = (*FlarumParser)(nil)

func decode(ctx context.Context, data json.RawMessage) (*jsonapi.Document, *jsonapi.Index, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	if len(data) == 0 {
		return nil, nil, nil
	}
	doc, err := jsonapi.Decode(data)
	if err != nil {
		return nil, nil, fmt.Errorf("parse document: %w", err)
	}
	return doc, jsonapi.NewIndex(doc.Included), nil
}

// ParseCategories keeps only visible top-level tags, in backend order.
func (p *FlarumParser) ParseCategories(ctx context.Context, data json.RawMessage) ([]models.Category, error) {
	doc, idx, err := decode(ctx, data)
	if err != nil || doc == nil {
		return []models.Category{}, err
	}

	categories := []models.Category{}
	for _, res := range doc.Resources() {
		if res.Type != "" && res.Type != typeTags {
			continue
		}
		res := res
		var attrs tagAttributes
		if !decodeAttributes(&res, &attrs) || !isPrimaryVisible(attrs) {
			continue
		}
		categories = append(categories, p.categoryFromAttributes(&res, attrs, idx))
	}
	return categories, nil
}

// ParseCategory returns the first tag of the document.
func (p *FlarumParser) ParseCategory(ctx context.Context, data json.RawMessage) (*models.Category, error) {
	doc, idx, err := decode(ctx, data)
	if err != nil || doc == nil {
		return nil, err
	}

	for _, res := range doc.Resources() {
		res := res
		if category, ok := p.TransformCategory(&res, idx); ok {
			return &category, nil
		}
	}
	return nil, nil
}

func (p *FlarumParser) ParseDiscussions(ctx context.Context, data json.RawMessage) ([]models.Topic, error) {
	doc, idx, err := decode(ctx, data)
	if err != nil || doc == nil {
		return []models.Topic{}, err
	}

	topics := []models.Topic{}
	for _, res := range doc.Resources() {
		if res.ID == "" || (res.Type != "" && res.Type != typeDiscussions) {
			continue
		}
		res := res
		topics = append(topics, p.TransformDiscussion(&res, idx))
	}
	return topics, nil
}

func (p *FlarumParser) ParseDiscussion(ctx context.Context, data json.RawMessage) (*models.Topic, error) {
	doc, idx, err := decode(ctx, data)
	if err != nil || doc == nil || doc.Data.One == nil || doc.Data.One.ID == "" {
		return nil, err
	}

	topic := p.TransformDiscussion(doc.Data.One, idx)
	return &topic, nil
}

// ParseDiscussionDetail transforms a single discussion and assembles its
// thread from the side-table.
func (p *FlarumParser) ParseDiscussionDetail(ctx context.Context, data json.RawMessage) (*models.DiscussionDetail, error) {
	doc, idx, err := decode(ctx, data)
	if err != nil || doc == nil || doc.Data.One == nil || doc.Data.One.ID == "" {
		return nil, err
	}

	topic := p.TransformDiscussion(doc.Data.One, idx)
	return &models.DiscussionDetail{
		Topic: topic,
		Posts: p.AssembleThread(doc.Data.One, topic.FirstPost, idx),
	}, nil
}

func (p *FlarumParser) ParsePost(ctx context.Context, data json.RawMessage) (*models.Post, error) {
	doc, idx, err := decode(ctx, data)
	if err != nil || doc == nil {
		return nil, err
	}

	post, ok := p.TransformPost(doc.Data.One, idx)
	if !ok {
		return nil, nil
	}
	return &post, nil
}

func (p *FlarumParser) ParseUser(ctx context.Context, data json.RawMessage) (*models.User, error) {
	doc, _, err := decode(ctx, data)
	if err != nil || doc == nil || doc.Data.One == nil || doc.Data.One.ID == "" {
		return nil, err
	}

	user := p.TransformUser(doc.Data.One)
	if IsUnknown(user) {
		return nil, nil
	}
	return &user, nil
}
