package parser_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zenith-forums/internal/jsonapi"
	"zenith-forums/internal/models"
	"zenith-forums/internal/parser"
)

var fixedNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func newParser() *parser.FlarumParser {
	return parser.NewFlarumParser(parser.WithClock(func() time.Time { return fixedNow }))
}

const discussionJSON = `{
	"data": {
		"type": "discussions",
		"id": "42",
		"attributes": {
			"title": "Welcome to Zenith",
			"slug": "42-welcome-to-zenith",
			"commentCount": 3,
			"viewCount": 120,
			"participantCount": 2,
			"createdAt": "2024-01-01T10:00:00+00:00",
			"lastPostedAt": "2024-01-03T10:00:00+00:00"
		},
		"relationships": {
			"user": {"data": {"type": "users", "id": "1"}},
			"lastPostedUser": {"data": {"type": "users", "id": "2"}},
			"firstPost": {"data": {"type": "posts", "id": "100"}},
			"tags": {"data": [{"type": "tags", "id": "7"}, {"type": "tags", "id": "8"}, {"type": "tags", "id": "missing"}]},
			"posts": {"data": [
				{"type": "posts", "id": "102"},
				{"type": "posts", "id": "100"},
				{"type": "posts", "id": "101"},
				{"type": "posts", "id": "102"}
			]}
		}
	},
	"included": [
		{"type": "users", "id": "1", "attributes": {"username": "alice", "displayName": "Alice", "avatarUrl": "https://cdn.example.com/a.png", "joinTime": "2023-06-01T00:00:00+00:00"}},
		{"type": "users", "id": "2", "attributes": {"username": "bob"}},
		{"type": "tags", "id": "7", "attributes": {"name": "Support", "slug": "support", "isChild": true, "position": 0}},
		{"type": "tags", "id": "8", "attributes": {"name": "General", "slug": "general", "color": "#336699", "position": 2}},
		{"type": "posts", "id": "100", "attributes": {"contentType": "comment", "contentHtml": "<p>Hello <b>world</b></p>", "createdAt": "2024-01-01T10:00:00+00:00"}, "relationships": {"user": {"data": {"type": "users", "id": "1"}}}},
		{"type": "posts", "id": "101", "attributes": {"contentType": "comment", "contentHtml": "<p>First reply</p>", "createdAt": "2024-01-02T10:00:00+00:00", "votes": "4"}, "relationships": {"user": {"data": {"type": "users", "id": "2"}}}},
		{"type": "posts", "id": "102", "attributes": {"contentType": "comment", "contentHtml": "<p>Later reply</p>", "createdAt": "2024-01-03T10:00:00+00:00"}, "relationships": {"user": {"data": {"type": "users", "id": "404"}}, "likes": {"data": [{"type": "users", "id": "1"}, {"type": "users", "id": "2"}]}}}
	]
}`

func TestTransformUserSentinel(t *testing.T) {
	p := newParser()

	cases := map[string]*jsonapi.Resource{
		"nil resource":       nil,
		"missing id":         {Type: "users", Attributes: json.RawMessage(`{"username":"x"}`)},
		"missing attributes": {Type: "users", ID: "9"},
		"null attributes":    {Type: "users", ID: "9", Attributes: json.RawMessage(`null`)},
	}

	for name, res := range cases {
		t.Run(name, func(t *testing.T) {
			user := p.TransformUser(res)
			assert.Equal(t, parser.UnknownUserID, user.ID)
			assert.Equal(t, parser.UnknownUsername, user.Username)
			assert.Equal(t, parser.DefaultAvatarURL, user.AvatarURL)
			assert.Equal(t, fixedNow, user.JoinedAt)
		})
	}
}

func TestTransformUserFallbacks(t *testing.T) {
	p := newParser()

	user := p.TransformUser(&jsonapi.Resource{Type: "users", ID: "5", Attributes: json.RawMessage(`{"username":"carol","bio":"hi"}`)})
	assert.Equal(t, "5", user.ID)
	assert.Equal(t, "carol", user.Username)
	assert.Equal(t, parser.DefaultAvatarURL, user.AvatarURL)
	assert.Equal(t, fixedNow, user.JoinedAt)
	assert.Equal(t, "hi", user.Bio)
	assert.Equal(t, "carol", user.LoginName())

	named := p.TransformUser(&jsonapi.Resource{Type: "users", ID: "7", Attributes: json.RawMessage(`{"username":"dave","displayName":"Dave Lister"}`)})
	assert.Equal(t, "Dave Lister", named.Username)
	assert.Equal(t, "dave", named.Handle)
	assert.Equal(t, "dave", named.LoginName())

	anon := p.TransformUser(&jsonapi.Resource{Type: "users", ID: "6", Attributes: json.RawMessage(`{}`)})
	assert.Equal(t, "6", anon.ID)
	assert.Equal(t, parser.UnknownUsername, anon.Username)
}

func TestParseDiscussionDetail(t *testing.T) {
	p := newParser()

	detail, err := p.ParseDiscussionDetail(context.Background(), json.RawMessage(discussionJSON))
	require.NoError(t, err)
	require.NotNil(t, detail)

	topic := detail.Topic
	assert.Equal(t, "42", topic.ID)
	assert.Equal(t, "Welcome to Zenith", topic.Title)
	assert.Equal(t, 4, topic.PostCount)
	assert.Equal(t, 120, topic.ViewCount)
	assert.Equal(t, 2, topic.ParticipantCount)
	assert.Equal(t, "Alice", topic.Author.Username)
	assert.Equal(t, "bob", topic.LastPostedUser.Username)
	require.NotNil(t, topic.LastPostedAt)

	require.Len(t, topic.Tags, 2)
	assert.Equal(t, "support", topic.Tags[0].Slug)
	require.NotNil(t, topic.Category)
	assert.Equal(t, "general", topic.Category.Slug)

	require.NotNil(t, topic.FirstPost)
	assert.Equal(t, "Hello world", topic.FirstPost.Content)

	ids := make([]string, 0, len(detail.Posts))
	for _, post := range detail.Posts {
		ids = append(ids, post.ID)
	}
	assert.Equal(t, []string{"100", "101", "102"}, ids)

	assert.Equal(t, 4, detail.Posts[1].Upvotes)
	assert.Equal(t, 2, detail.Posts[2].Upvotes)
	assert.Equal(t, parser.UnknownUserID, detail.Posts[2].Author.ID)
}

func TestThreadOrdering(t *testing.T) {
	p := newParser()

	// The opening post is the newest here and must still lead.
	doc := `{
		"data": {"type": "discussions", "id": "1", "attributes": {"title": "t"}, "relationships": {
			"firstPost": {"data": {"type": "posts", "id": "a"}},
			"posts": {"data": [{"type": "posts", "id": "c"}, {"type": "posts", "id": "a"}, {"type": "posts", "id": "b"}, {"type": "posts", "id": "d"}, {"type": "posts", "id": "b"}]}
		}},
		"included": [
			{"type": "posts", "id": "a", "attributes": {"content": "open", "createdAt": "2024-03-01T00:00:00Z"}},
			{"type": "posts", "id": "b", "attributes": {"content": "b", "createdAt": "2024-01-02T00:00:00Z"}},
			{"type": "posts", "id": "c", "attributes": {"content": "c", "createdAt": "2024-01-03T00:00:00Z"}},
			{"type": "posts", "id": "d", "attributes": {"content": "d", "createdAt": "2024-01-01T00:00:00Z"}}
		]
	}`

	detail, err := p.ParseDiscussionDetail(context.Background(), json.RawMessage(doc))
	require.NoError(t, err)
	require.Len(t, detail.Posts, 4)

	assert.Equal(t, "a", detail.Posts[0].ID)

	seen := map[string]bool{}
	for i, post := range detail.Posts {
		assert.False(t, seen[post.ID], "duplicate post %s", post.ID)
		seen[post.ID] = true
		if i > 1 {
			assert.False(t, post.CreatedAt.Before(detail.Posts[i-1].CreatedAt), "replies out of order at %d", i)
		}
	}
	assert.Equal(t, []string{"d", "b", "c"}, []string{detail.Posts[1].ID, detail.Posts[2].ID, detail.Posts[3].ID})
}

func TestThreadFallsBackToBackReferences(t *testing.T) {
	p := newParser()

	doc := `{
		"data": {"type": "discussions", "id": "9", "attributes": {"title": "fallback", "commentCount": 2}, "relationships": {
			"firstPost": {"data": {"type": "posts", "id": "p1"}},
			"posts": {"data": []}
		}},
		"included": [
			{"type": "posts", "id": "p3", "attributes": {"content": "third", "createdAt": "2024-02-03T00:00:00Z"}, "relationships": {"discussion": {"data": {"type": "discussions", "id": "9"}}}},
			{"type": "posts", "id": "p1", "attributes": {"content": "first", "createdAt": "2024-02-01T00:00:00Z"}, "relationships": {"discussion": {"data": {"type": "discussions", "id": "9"}}}},
			{"type": "posts", "id": "p2", "attributes": {"content": "second", "createdAt": "2024-02-02T00:00:00Z"}, "relationships": {"discussion": {"data": {"type": "discussions", "id": "9"}}}},
			{"type": "posts", "id": "other", "attributes": {"content": "elsewhere", "createdAt": "2024-02-01T00:00:00Z"}, "relationships": {"discussion": {"data": {"type": "discussions", "id": "10"}}}}
		]
	}`

	detail, err := p.ParseDiscussionDetail(context.Background(), json.RawMessage(doc))
	require.NoError(t, err)
	require.Len(t, detail.Posts, 3)
	assert.Equal(t, "p1", detail.Posts[0].ID)
	assert.Equal(t, "p2", detail.Posts[1].ID)
	assert.Equal(t, "p3", detail.Posts[2].ID)
	assert.Equal(t, 3, detail.Topic.PostCount)
}

func TestFirstPostAuthorHeuristic(t *testing.T) {
	p := newParser()

	doc := `{
		"data": {"type": "discussions", "id": "3", "attributes": {"title": "t"}, "relationships": {
			"user": {"data": {"type": "users", "id": "u1"}},
			"firstPost": {"data": {"type": "posts", "id": "f"}}
		}},
		"included": [
			{"type": "users", "id": "u1", "attributes": {"username": "dana"}},
			{"type": "posts", "id": "f", "attributes": {"content": "hi", "createdAt": "2024-02-01T00:00:00Z"}}
		]
	}`

	topic, err := p.ParseDiscussion(context.Background(), json.RawMessage(doc))
	require.NoError(t, err)
	require.NotNil(t, topic.FirstPost)
	assert.Equal(t, "u1", topic.FirstPost.Author.ID)
	assert.Equal(t, "dana", topic.FirstPost.Author.Username)
}

func TestPrimaryCategoryFallbackChain(t *testing.T) {
	p := newParser()

	tags := map[string]string{
		"child":      `{"type": "tags", "id": "child", "attributes": {"name": "Child", "slug": "child", "isChild": true, "position": 1}}`,
		"noPosition": `{"type": "tags", "id": "noPosition", "attributes": {"name": "Loose", "slug": "loose", "position": null}}`,
		"positioned": `{"type": "tags", "id": "positioned", "attributes": {"name": "Main", "slug": "main", "position": 5}}`,
		"child2":     `{"type": "tags", "id": "child2", "attributes": {"name": "Child2", "slug": "child2", "isChild": true}}`,
	}

	build := func(ids ...string) string {
		refs := ""
		included := ""
		for i, id := range ids {
			if i > 0 {
				refs += ","
				included += ","
			}
			refs += `{"type": "tags", "id": "` + id + `"}`
			included += tags[id]
		}
		return `{"data": {"type": "discussions", "id": "1", "attributes": {"title": "t"}, "relationships": {"tags": {"data": [` + refs + `]}}}, "included": [` + included + `]}`
	}

	cases := []struct {
		name string
		ids  []string
		want string
	}{
		{"lowest positioned non-child", []string{"child", "noPosition", "positioned"}, "positioned"},
		{"first non-child", []string{"child", "noPosition"}, "noPosition"},
		{"first tag", []string{"child2", "child"}, "child2"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			topic, err := p.ParseDiscussion(context.Background(), json.RawMessage(build(tc.ids...)))
			require.NoError(t, err)
			require.NotNil(t, topic.Category)
			assert.Equal(t, tc.want, topic.Category.ID)
			assert.Len(t, topic.Tags, len(tc.ids))
		})
	}

	t.Run("no tags", func(t *testing.T) {
		topic, err := p.ParseDiscussion(context.Background(), json.RawMessage(build()))
		require.NoError(t, err)
		assert.Nil(t, topic.Category)
		assert.Empty(t, topic.Tags)
	})
}

func TestTransformTag(t *testing.T) {
	p := newParser()

	doc, err := jsonapi.Decode([]byte(`{"data": [
		{"type": "tags", "id": "8", "attributes": {"name": "General", "slug": "general", "color": "#336699", "icon": "fas fa-comments"}},
		{"type": "tags", "id": "9", "attributes": null},
		{"type": "tags", "id": "10"}
	]}`))
	require.NoError(t, err)
	resources := doc.Resources()

	summary, ok := p.TransformTag(&resources[0])
	require.True(t, ok)
	assert.Equal(t, models.CategorySummary{ID: "8", Name: "General", Slug: "general", Color: "#336699", Icon: "fas fa-comments"}, summary)

	_, ok = p.TransformTag(&resources[1])
	assert.False(t, ok)
	_, ok = p.TransformTag(&resources[2])
	assert.False(t, ok)
	_, ok = p.TransformTag(nil)
	assert.False(t, ok)
}

func TestRelationshipsResolveByType(t *testing.T) {
	p := newParser()

	// Same ids under other types must not be picked up.
	topic, err := p.ParseDiscussion(context.Background(), json.RawMessage(`{
		"data": {"type": "discussions", "id": "1", "attributes": {"title": "t"}, "relationships": {
			"user": {"data": {"type": "posts", "id": "5"}},
			"tags": {"data": [{"type": "users", "id": "5"}, {"type": "tags", "id": "5"}]}
		}},
		"included": [
			{"type": "posts", "id": "5", "attributes": {"content": "x"}},
			{"type": "users", "id": "5", "attributes": {"username": "eve"}},
			{"type": "tags", "id": "5", "attributes": {"name": "Main", "slug": "main", "position": 1}}
		]
	}`))
	require.NoError(t, err)

	assert.True(t, parser.IsUnknown(topic.Author))
	require.Len(t, topic.Tags, 1)
	assert.Equal(t, "Main", topic.Tags[0].Name)
}

func TestPostCountInvariant(t *testing.T) {
	p := newParser()

	for _, replies := range []int{0, 1, 17} {
		raw, err := json.Marshal(map[string]interface{}{
			"data": map[string]interface{}{
				"type":       "discussions",
				"id":         "1",
				"attributes": map[string]interface{}{"commentCount": replies},
			},
		})
		require.NoError(t, err)

		topic, err := p.ParseDiscussion(context.Background(), raw)
		require.NoError(t, err)
		assert.Equal(t, replies+1, topic.PostCount)
		assert.Equal(t, parser.UntitledDiscussion, topic.Title)
	}
}

func TestRetransformIsDeterministic(t *testing.T) {
	p := newParser()

	first, err := p.ParseDiscussionDetail(context.Background(), json.RawMessage(discussionJSON))
	require.NoError(t, err)
	second, err := p.ParseDiscussionDetail(context.Background(), json.RawMessage(discussionJSON))
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

const tagsJSON = `{
	"data": [
		{"type": "tags", "id": "1", "attributes": {"name": "General", "slug": "general", "description": "Talk", "discussionCount": 10, "commentCount": 40, "position": 0, "isChild": false, "isHidden": false, "lastPostedAt": "2024-01-05T00:00:00Z"}, "relationships": {"lastPostedDiscussion": {"data": {"type": "discussions", "id": "50"}}}},
		{"type": "tags", "id": "2", "attributes": {"name": "Hidden", "slug": "hidden", "position": 1, "isHidden": true}},
		{"type": "tags", "id": "3", "attributes": {"name": "Floating", "slug": "floating", "position": null}},
		{"type": "tags", "id": "4", "attributes": {"name": "Child", "slug": "child", "position": 2, "isChild": true}},
		{"type": "tags", "id": "5", "attributes": {"name": "Ideas", "slug": "ideas", "description": null, "discussionCount": 3, "position": 3}, "relationships": {"lastPostedDiscussion": {"data": {"type": "discussions", "id": "99"}}}}
	],
	"included": [
		{"type": "discussions", "id": "50", "attributes": {"title": "Latest news", "createdAt": "2024-01-04T00:00:00Z"}, "relationships": {"user": {"data": {"type": "users", "id": "7"}}, "lastPostedUser": {"data": {"type": "users", "id": "8"}}}},
		{"type": "users", "id": "7", "attributes": {"username": "starter"}},
		{"type": "users", "id": "8", "attributes": {"username": "erin", "displayName": "Erin"}}
	]
}`

func TestParseCategoriesVisibility(t *testing.T) {
	p := newParser()

	categories, err := p.ParseCategories(context.Background(), json.RawMessage(tagsJSON))
	require.NoError(t, err)
	require.Len(t, categories, 2)

	general := categories[0]
	assert.Equal(t, "general", general.Slug)
	require.NotNil(t, general.Description)
	assert.Equal(t, "Talk", *general.Description)
	assert.Equal(t, 10, general.TopicCount)
	require.NotNil(t, general.PostCount)
	assert.Equal(t, 40, *general.PostCount)
	require.NotNil(t, general.LastTopic)
	assert.Equal(t, "Latest news", general.LastTopic.Title)
	assert.Equal(t, "Erin", general.LastTopic.AuthorName)
	require.NotNil(t, general.LastTopic.CreatedAt)

	ideas := categories[1]
	assert.Equal(t, "ideas", ideas.Slug)
	assert.Nil(t, ideas.Description)
	assert.Nil(t, ideas.PostCount)
	require.NotNil(t, ideas.LastTopic)
	assert.Equal(t, "99", ideas.LastTopic.ID)
	assert.Equal(t, "Last topic in Ideas", ideas.LastTopic.Title)
}

func TestParseCategory(t *testing.T) {
	p := newParser()

	category, err := p.ParseCategory(context.Background(), json.RawMessage(tagsJSON))
	require.NoError(t, err)
	require.NotNil(t, category)
	assert.Equal(t, "1", category.ID)

	missing, err := p.ParseCategory(context.Background(), json.RawMessage(`{"data": []}`))
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestParsePostContent(t *testing.T) {
	p := newParser()

	cases := []struct {
		name string
		doc  string
		want string
	}{
		{"stripped comment", `{"data": {"type": "posts", "id": "1", "attributes": {"contentType": "comment", "contentHtml": "<p>a <em>b</em></p>"}}}`, "a b"},
		{"stickied", `{"data": {"type": "posts", "id": "1", "attributes": {"contentType": "discussionStickied", "contentHtml": "<i>pinned"}}}`, "pinned"},
		{"raw fallback", `{"data": {"type": "posts", "id": "1", "attributes": {"contentType": "comment", "content": "plain <b>x</b>"}}}`, "plain x"},
		{"event post", `{"data": {"type": "posts", "id": "1", "attributes": {"contentType": "discussionRenamed", "content": ["old", "new"]}}}`, ""},
		{"other type kept", `{"data": {"type": "posts", "id": "1", "attributes": {"contentType": "custom", "contentHtml": "<b>x</b>"}}}`, "<b>x</b>"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			post, err := p.ParsePost(context.Background(), json.RawMessage(tc.doc))
			require.NoError(t, err)
			require.NotNil(t, post)
			assert.Equal(t, tc.want, post.Content)
			assert.Equal(t, parser.UnknownUserID, post.Author.ID)
		})
	}
}

func TestParsePostFlags(t *testing.T) {
	p := newParser()

	post, err := p.ParsePost(context.Background(), json.RawMessage(`{"data": {"type": "posts", "id": "1", "attributes": {"votes": 0, "isFlagged": "true", "flagReason": "spam"}, "relationships": {"likes": {"data": [{"type": "users", "id": "1"}]}}}}`))
	require.NoError(t, err)
	require.NotNil(t, post)
	assert.Equal(t, 1, post.Upvotes)
	require.NotNil(t, post.IsFlagged)
	assert.True(t, *post.IsFlagged)
	assert.Equal(t, "spam", post.FlagReason)

	bare, err := p.ParsePost(context.Background(), json.RawMessage(`{"data": {"type": "posts", "id": "2", "attributes": {"votes": {"up": 3}}}}`))
	require.NoError(t, err)
	assert.Equal(t, 0, bare.Upvotes)
	assert.Nil(t, bare.IsFlagged)
}

func TestMissingPrimaryResource(t *testing.T) {
	p := newParser()
	ctx := context.Background()

	post, err := p.ParsePost(ctx, json.RawMessage(`{"data": null}`))
	require.NoError(t, err)
	assert.Nil(t, post)

	detail, err := p.ParseDiscussionDetail(ctx, nil)
	require.NoError(t, err)
	assert.Nil(t, detail)

	user, err := p.ParseUser(ctx, json.RawMessage(`{"data": {"type": "users", "id": "1"}}`))
	require.NoError(t, err)
	assert.Nil(t, user)

	topics, err := p.ParseDiscussions(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, topics)
}

func TestParseRejectsMalformedDocument(t *testing.T) {
	p := newParser()

	_, err := p.ParseDiscussions(context.Background(), json.RawMessage(`{"data": 12}`))
	assert.Error(t, err)
}

func TestParseHonoursCancelledContext(t *testing.T) {
	p := newParser()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.ParseCategories(ctx, json.RawMessage(tagsJSON))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestInsertPost(t *testing.T) {
	at := func(day int) time.Time { return time.Date(2024, 1, day, 0, 0, 0, 0, time.UTC) }
	thread := []models.Post{
		{ID: "open", CreatedAt: at(5)},
		{ID: "r1", CreatedAt: at(1)},
		{ID: "r3", CreatedAt: at(3)},
	}

	got := parser.InsertPost(thread, models.Post{ID: "r2", CreatedAt: at(2)})
	assert.Equal(t, []string{"open", "r1", "r2", "r3"}, postIDs(got))
	assert.Len(t, thread, 3)

	got = parser.InsertPost(got, models.Post{ID: "r4", CreatedAt: at(4)})
	assert.Equal(t, []string{"open", "r1", "r2", "r3", "r4"}, postIDs(got))

	got = parser.InsertPost(got, models.Post{ID: "r1", CreatedAt: at(1), Content: "edited"})
	assert.Equal(t, []string{"open", "r1", "r2", "r3", "r4"}, postIDs(got))
	assert.Equal(t, "edited", got[1].Content)

	assert.Equal(t, []string{"solo"}, postIDs(parser.InsertPost(nil, models.Post{ID: "solo"})))
}

func postIDs(posts []models.Post) []string {
	ids := make([]string, 0, len(posts))
	for _, p := range posts {
		ids = append(ids, p.ID)
	}
	return ids
}
