package parser

import (
	"fmt"
	"time"

	"zenith-forums/internal/jsonapi"
	"zenith-forums/internal/models"
)

const (
	UnknownUserID      = "unknown"
	UnknownUsername    = "Unknown User"
	DefaultAvatarURL   = "https://placehold.co/100x100.png"
	UntitledDiscussion = "Untitled Discussion"
)

const (
	typeUsers       = "users"
	typePosts       = "posts"
	typeTags        = "tags"
	typeDiscussions = "discussions"
)

// UnknownUser returns the sentinel substituted for unresolvable authors.
func (p *FlarumParser) UnknownUser() models.User {
	return models.User{
		ID:        UnknownUserID,
		Username:  UnknownUsername,
		AvatarURL: DefaultAvatarURL,
		JoinedAt:  p.now(),
	}
}

// IsUnknown reports whether u is the sentinel user.
func IsUnknown(u models.User) bool {
	return u.ID == UnknownUserID
}

func decodeAttributes(res *jsonapi.Resource, v interface{}) bool {
	if !res.HasAttributes() {
		return false
	}
	return res.DecodeAttributes(v) == nil
}

func parseTime(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05-0700", "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func parseTimePtr(s string) *time.Time {
	t, ok := parseTime(s)
	if !ok {
		return nil
	}
	return &t
}

// TransformUser maps a user resource. It always returns a value: a missing
// resource, missing attributes or missing id yield the sentinel user.
func (p *FlarumParser) TransformUser(res *jsonapi.Resource) models.User {
	if res == nil || res.ID == "" {
		return p.UnknownUser()
	}

	var attrs userAttributes
	if !decodeAttributes(res, &attrs) {
		return p.UnknownUser()
	}

	user := models.User{
		ID:        res.ID,
		Username:  firstNonEmpty(string(attrs.DisplayName), string(attrs.Username), UnknownUsername),
		Handle:    string(attrs.Username),
		AvatarURL: firstNonEmpty(string(attrs.AvatarURL), DefaultAvatarURL),
		Bio:       string(attrs.Bio),
	}

	if joined, ok := parseTime(string(attrs.JoinTime)); ok {
		user.JoinedAt = joined
	} else {
		user.JoinedAt = p.now()
	}

	return user
}

// resolveUser follows a to-one user relationship through the side-table.
func (p *FlarumParser) resolveUser(res *jsonapi.Resource, relationship string, idx *jsonapi.Index) models.User {
	ref, ok := res.One(relationship)
	if !ok || ref.Type != typeUsers {
		return p.UnknownUser()
	}
	return p.TransformUser(idx.Resolve(ref))
}

// TransformPost maps a post resource. The boolean is false only when the
// post resource or its attributes are absent.
func (p *FlarumParser) TransformPost(res *jsonapi.Resource, idx *jsonapi.Index) (models.Post, bool) {
	var attrs postAttributes
	if res == nil || !decodeAttributes(res, &attrs) {
		return models.Post{}, false
	}

	post := models.Post{
		ID:         res.ID,
		Author:     p.resolveUser(res, "user", idx),
		Content:    plainContent(attrs),
		FlagReason: string(attrs.FlagReason),
	}

	if created, ok := parseTime(string(attrs.CreatedAt)); ok {
		post.CreatedAt = created
	}

	if attrs.Votes.Valid && attrs.Votes.Value != 0 {
		post.Upvotes = attrs.Votes.Value
	} else if likes, ok := res.Many("likes"); ok {
		post.Upvotes = len(likes)
	}

	if attrs.IsFlagged.Valid {
		flagged := attrs.IsFlagged.Value
		post.IsFlagged = &flagged
	}

	return post, true
}

// TransformTag maps a tag resource to a summary. The boolean is false only
// when the tag resource or its attributes are absent.
func (p *FlarumParser) TransformTag(res *jsonapi.Resource) (models.CategorySummary, bool) {
	summary, _, ok := decodeTag(res)
	return summary, ok
}

// decodeTag maps a tag resource and also returns its raw attributes, which
// the primary category rule needs.
func decodeTag(res *jsonapi.Resource) (models.CategorySummary, tagAttributes, bool) {
	var attrs tagAttributes
	if res == nil || !decodeAttributes(res, &attrs) {
		return models.CategorySummary{}, attrs, false
	}
	return tagSummary(res.ID, attrs), attrs, true
}

func tagSummary(id string, attrs tagAttributes) models.CategorySummary {
	return models.CategorySummary{
		ID:    id,
		Name:  string(attrs.Name),
		Slug:  string(attrs.Slug),
		Color: string(attrs.Color),
		Icon:  string(attrs.Icon),
	}
}

// TransformDiscussion maps a discussion resource and its relationships.
func (p *FlarumParser) TransformDiscussion(res *jsonapi.Resource, idx *jsonapi.Index) models.Topic {
	var attrs discussionAttributes
	decodeAttributes(res, &attrs)

	topic := models.Topic{
		ID:               res.ID,
		Title:            firstNonEmpty(string(attrs.Title), UntitledDiscussion),
		Slug:             string(attrs.Slug),
		Author:           p.resolveUser(res, "user", idx),
		PostCount:        attrs.CommentCount.Value + 1,
		ViewCount:        attrs.ViewCount.Value,
		Tags:             []models.CategorySummary{},
		LastPostedAt:     parseTimePtr(string(attrs.LastPostedAt)),
		LastPostedUser:   p.resolveUser(res, "lastPostedUser", idx),
		ParticipantCount: attrs.ParticipantCount.Value,
	}

	if created, ok := parseTime(string(attrs.CreatedAt)); ok {
		topic.CreatedAt = created
	}

	if ref, ok := res.One("firstPost"); ok && ref.Type == typePosts {
		if first, ok := p.TransformPost(idx.Resolve(ref), idx); ok {
			// Some backends include the discussion author but not the
			// first post's author.
			if IsUnknown(first.Author) && !IsUnknown(topic.Author) {
				first.Author = p.TransformUser(idx.Find(typeUsers, topic.Author.ID))
			}
			topic.FirstPost = &first
		}
	}

	var tagAttrs []tagAttributes
	if refs, ok := res.Many("tags"); ok {
		for _, ref := range refs {
			if ref.Type != typeTags {
				continue
			}
			summary, ta, ok := decodeTag(idx.Resolve(ref))
			if !ok {
				continue
			}
			topic.Tags = append(topic.Tags, summary)
			tagAttrs = append(tagAttrs, ta)
		}
	}

	topic.Category = primaryCategory(topic.Tags, tagAttrs)

	return topic
}

// primaryCategory picks the main tag: the non-child tag with the lowest
// position, else the first non-child tag, else the first tag.
func primaryCategory(tags []models.CategorySummary, attrs []tagAttributes) *models.CategorySummary {
	if len(tags) == 0 {
		return nil
	}

	best := -1
	for i, a := range attrs {
		if a.IsChild.Value || !a.Position.Valid {
			continue
		}
		if best < 0 || a.Position.Value < attrs[best].Position.Value {
			best = i
		}
	}

	if best < 0 {
		for i, a := range attrs {
			if !a.IsChild.Value {
				best = i
				break
			}
		}
	}

	if best < 0 {
		best = 0
	}

	primary := tags[best]
	return &primary
}

// isPrimaryVisible reports whether a tag is a visible top-level category.
func isPrimaryVisible(attrs tagAttributes) bool {
	return !attrs.IsHidden.Value && attrs.Position.Valid && !attrs.IsChild.Value
}

// TransformCategory maps a tag resource to a full category, resolving its
// last active discussion from the side-table when present.
func (p *FlarumParser) TransformCategory(res *jsonapi.Resource, idx *jsonapi.Index) (models.Category, bool) {
	var attrs tagAttributes
	if res == nil || !decodeAttributes(res, &attrs) {
		return models.Category{}, false
	}
	return p.categoryFromAttributes(res, attrs, idx), true
}

func (p *FlarumParser) categoryFromAttributes(res *jsonapi.Resource, attrs tagAttributes, idx *jsonapi.Index) models.Category {
	category := models.Category{
		CategorySummary: tagSummary(res.ID, attrs),
		TopicCount:      attrs.DiscussionCount.Value,
		DiscussionCount: attrs.DiscussionCount.Value,
		LastPostedAt:    parseTimePtr(string(attrs.LastPostedAt)),
	}

	if attrs.Description.Valid {
		description := attrs.Description.Value
		category.Description = &description
	}

	if attrs.CommentCount.Valid {
		count := attrs.CommentCount.Value
		category.PostCount = &count
	}

	if ref, ok := res.One("lastPostedDiscussion"); ok {
		category.LastTopic = p.lastTopic(ref.ID, string(attrs.Name), idx)
	}

	return category
}

func (p *FlarumParser) lastTopic(discussionID, categoryName string, idx *jsonapi.Index) *models.LastTopic {
	discussion := idx.Find(typeDiscussions, discussionID)
	var attrs discussionAttributes
	if discussion == nil || !decodeAttributes(discussion, &attrs) {
		return &models.LastTopic{
			ID:    discussionID,
			Title: fmt.Sprintf("Last topic in %s", categoryName),
		}
	}

	last := &models.LastTopic{
		ID:        discussionID,
		Title:     firstNonEmpty(string(attrs.Title), UntitledDiscussion),
		CreatedAt: parseTimePtr(string(attrs.CreatedAt)),
	}

	poster, ok := discussion.One("lastPostedUser")
	if !ok {
		poster, ok = discussion.One("user")
	}
	if ok {
		var ua userAttributes
		if decodeAttributes(idx.Find(typeUsers, poster.ID), &ua) {
			last.AuthorName = firstNonEmpty(string(ua.DisplayName), string(ua.Username))
		}
	}

	return last
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
