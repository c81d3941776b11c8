package parser

import (
	"sort"

	"zenith-forums/internal/jsonapi"
	"zenith-forums/internal/models"
)

// AssembleThread builds the flat post list of a discussion. Posts come from
// the discussion's posts relationship, or when that yields nothing, from any
// post in the side-table whose discussion relationship points back at it.
// The result holds each post once, the opening post first and the replies in
// ascending creation order.
func (p *FlarumParser) AssembleThread(discussion *jsonapi.Resource, firstPost *models.Post, idx *jsonapi.Index) []models.Post {
	if discussion == nil {
		return []models.Post{}
	}

	posts := p.threadPosts(discussion, idx)
	if len(posts) == 0 {
		posts = p.backReferencedPosts(discussion.ID, idx)
	}

	firstID := ""
	if firstPost != nil {
		firstID = firstPost.ID
	}

	seen := make(map[string]bool, len(posts)+1)
	if firstID != "" {
		seen[firstID] = true
	}

	replies := make([]models.Post, 0, len(posts))
	var opening *models.Post
	for i := range posts {
		post := posts[i]
		if post.ID == firstID && firstID != "" {
			// Prefer the thread's copy, it carries the resolved author when
			// the discussion include omitted it.
			if opening == nil {
				opening = &post
			}
			continue
		}
		if seen[post.ID] {
			continue
		}
		seen[post.ID] = true
		replies = append(replies, post)
	}

	sort.SliceStable(replies, func(i, j int) bool {
		return replies[i].CreatedAt.Before(replies[j].CreatedAt)
	})

	if opening == nil && firstPost != nil {
		opening = firstPost
	}
	if opening == nil {
		return replies
	}

	if IsUnknown(opening.Author) && firstPost != nil && !IsUnknown(firstPost.Author) {
		opening.Author = firstPost.Author
	}

	thread := make([]models.Post, 0, len(replies)+1)
	thread = append(thread, *opening)
	return append(thread, replies...)
}

func (p *FlarumParser) threadPosts(discussion *jsonapi.Resource, idx *jsonapi.Index) []models.Post {
	refs, ok := discussion.Many("posts")
	if !ok {
		return nil
	}

	posts := make([]models.Post, 0, len(refs))
	for _, ref := range refs {
		if post, ok := p.TransformPost(idx.Find(typePosts, ref.ID), idx); ok {
			posts = append(posts, post)
		}
	}
	return posts
}

func (p *FlarumParser) backReferencedPosts(discussionID string, idx *jsonapi.Index) []models.Post {
	var posts []models.Post
	for _, res := range idx.OfType(typePosts) {
		ref, ok := res.One("discussion")
		if !ok || ref.ID != discussionID {
			continue
		}
		if post, ok := p.TransformPost(res, idx); ok {
			posts = append(posts, post)
		}
	}
	return posts
}

// InsertPost returns a copy of thread with post placed among the replies in
// creation order. An existing post with the same id is replaced. The opening
// post stays at index 0.
func InsertPost(thread []models.Post, post models.Post) []models.Post {
	out := make([]models.Post, 0, len(thread)+1)
	for _, existing := range thread {
		if existing.ID != post.ID {
			out = append(out, existing)
		}
	}

	if len(out) == 0 {
		return append(out, post)
	}

	pos := len(out)
	for i := 1; i < len(out); i++ {
		if post.CreatedAt.Before(out[i].CreatedAt) {
			pos = i
			break
		}
	}

	out = append(out, models.Post{})
	copy(out[pos+1:], out[pos:])
	out[pos] = post
	return out
}
