package jsonapi

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodePrimaryShapes(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		count int
		many  bool
	}{
		{"single", `{"data":{"type":"tags","id":"1"}}`, 1, false},
		{"list", `{"data":[{"type":"tags","id":"1"},{"type":"tags","id":"2"}]}`, 2, true},
		{"empty list", `{"data":[]}`, 0, true},
		{"null", `{"data":null}`, 0, false},
		{"absent", `{}`, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Decode([]byte(tt.body))
			require.NoError(t, err)
			assert.Len(t, doc.Resources(), tt.count)
			assert.Equal(t, tt.many, doc.Data.IsMany)
		})
	}
}

func TestDecodeRejectsMalformedBody(t *testing.T) {
	_, err := Decode([]byte(`{"data":`))
	assert.Error(t, err)

	_, err = Decode([]byte(`{"data":"nope"}`))
	assert.Error(t, err)
}

func TestRelationshipAccessors(t *testing.T) {
	doc, err := Decode([]byte(`{"data":{"type":"discussions","id":"1","relationships":{
		"user":{"data":{"type":"users","id":"7"}},
		"lastPostedUser":{"data":null},
		"tags":{"data":[{"type":"tags","id":"1"},{"type":"tags","id":"2"}]},
		"posts":{"links":{"related":"/posts"}}
	}}}`))
	require.NoError(t, err)
	res := doc.Data.One

	user, ok := res.One("user")
	assert.True(t, ok)
	assert.Equal(t, Identifier{Type: "users", ID: "7"}, user)

	_, ok = res.One("lastPostedUser")
	assert.False(t, ok)
	_, ok = res.One("tags")
	assert.False(t, ok)

	tags, ok := res.Many("tags")
	assert.True(t, ok)
	assert.Len(t, tags, 2)

	_, ok = res.Many("posts")
	assert.False(t, ok)
	_, ok = res.Many("missing")
	assert.False(t, ok)

	var nilRes *Resource
	_, ok = nilRes.One("user")
	assert.False(t, ok)
}

func TestHasAttributes(t *testing.T) {
	doc, err := Decode([]byte(`{"data":[
		{"type":"users","id":"1","attributes":{"username":"ada"}},
		{"type":"users","id":"2","attributes":null},
		{"type":"users","id":"3"}
	]}`))
	require.NoError(t, err)

	resources := doc.Resources()
	assert.True(t, resources[0].HasAttributes())
	assert.False(t, resources[1].HasAttributes())
	assert.False(t, resources[2].HasAttributes())

	var attrs struct {
		Username string `json:"username"`
	}
	require.NoError(t, resources[0].DecodeAttributes(&attrs))
	assert.Equal(t, "ada", attrs.Username)
	assert.Error(t, resources[2].DecodeAttributes(&attrs))
}

func TestIndexFirstDuplicateWins(t *testing.T) {
	doc, err := Decode([]byte(`{"data":null,"included":[
		{"type":"users","id":"1","attributes":{"username":"first"}},
		{"type":"posts","id":"1"},
		{"type":"users","id":"1","attributes":{"username":"second"}}
	]}`))
	require.NoError(t, err)

	idx := NewIndex(doc.Included)

	user := idx.Find("users", "1")
	require.NotNil(t, user)
	assert.JSONEq(t, `{"username":"first"}`, string(user.Attributes))

	assert.NotNil(t, idx.Resolve(Identifier{Type: "posts", ID: "1"}))
	assert.Nil(t, idx.Find("tags", "1"))
	assert.Nil(t, idx.Find("users", ""))
	assert.Len(t, idx.OfType("users"), 1)

	var empty *Index
	assert.Nil(t, empty.Find("users", "1"))
	assert.Nil(t, empty.OfType("users"))
}

func TestNewDocumentEncodesWritePayload(t *testing.T) {
	doc, err := NewDocument("discussions", map[string]string{"title": "Hi"}, map[string]Relationship{
		"user":  ToOne("users", "15"),
		"tags":  ToMany(nil),
		"posts": {},
	})
	require.NoError(t, err)

	raw, err := json.Marshal(doc)
	require.NoError(t, err)
	assert.JSONEq(t, `{"data": {
		"type": "discussions",
		"attributes": {"title": "Hi"},
		"relationships": {
			"user": {"data": {"type": "users", "id": "15"}},
			"tags": {"data": []},
			"posts": {"data": null}
		}
	}}`, string(raw))

	decoded, err := Decode(raw)
	require.NoError(t, err)
	user, ok := decoded.Data.One.One("user")
	assert.True(t, ok)
	assert.Equal(t, "15", user.ID)
	tags, ok := decoded.Data.One.Many("tags")
	assert.True(t, ok)
	assert.Empty(t, tags)
}

func TestNewDocumentRejectsUnencodableAttributes(t *testing.T) {
	_, err := NewDocument("posts", map[string]interface{}{"bad": make(chan int)}, nil)
	assert.Error(t, err)
}
