package parser

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// The backend schema for several attributes is not stable across
// deployments and extensions. These types accept the shapes observed in the
// wild and never fail decoding; anything else leaves the field unset.

// optInt is a number that may arrive as a JSON number, a numeric string or null.
type optInt struct {
	Value int
	Valid bool
}

func (o *optInt) UnmarshalJSON(data []byte) error {
	*o = optInt{}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}

	var f float64
	if err := json.Unmarshal(trimmed, &f); err == nil {
		*o = optInt{Value: int(f), Valid: true}
		return nil
	}

	var s string
	if err := json.Unmarshal(trimmed, &s); err == nil {
		if n, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
			*o = optInt{Value: n, Valid: true}
		}
	}
	return nil
}

// optBool accepts true/false, "true"/"false" and 0/1.
type optBool struct {
	Value bool
	Valid bool
}

func (o *optBool) UnmarshalJSON(data []byte) error {
	*o = optBool{}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}

	var b bool
	if err := json.Unmarshal(trimmed, &b); err == nil {
		*o = optBool{Value: b, Valid: true}
		return nil
	}

	var s string
	if err := json.Unmarshal(trimmed, &s); err == nil {
		if v, err := strconv.ParseBool(strings.TrimSpace(s)); err == nil {
			*o = optBool{Value: v, Valid: true}
		}
		return nil
	}

	var f float64
	if err := json.Unmarshal(trimmed, &f); err == nil {
		*o = optBool{Value: f != 0, Valid: true}
	}
	return nil
}

// optString keeps string values and ignores anything else, e.g. the
// structured content of event posts.
type optString string

func (o *optString) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		*o = ""
		return nil
	}
	*o = optString(s)
	return nil
}

// optNullString distinguishes null from an empty string.
type optNullString struct {
	Value string
	Valid bool
}

func (o *optNullString) UnmarshalJSON(data []byte) error {
	*o = optNullString{}
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		return nil
	}
	var s string
	if err := json.Unmarshal(trimmed, &s); err == nil {
		*o = optNullString{Value: s, Valid: true}
	}
	return nil
}

type userAttributes struct {
	Username    optString `json:"username"`
	DisplayName optString `json:"displayName"`
	AvatarURL   optString `json:"avatarUrl"`
	JoinTime    optString `json:"joinTime"`
	Bio         optString `json:"bio"`
}

type postAttributes struct {
	ContentType optString `json:"contentType"`
	ContentHTML optString `json:"contentHtml"`
	Content     optString `json:"content"`
	CreatedAt   optString `json:"createdAt"`
	Votes       optInt    `json:"votes"`
	IsFlagged   optBool   `json:"isFlagged"`
	FlagReason  optString `json:"flagReason"`
}

type tagAttributes struct {
	Name            optString     `json:"name"`
	Slug            optString     `json:"slug"`
	Description     optNullString `json:"description"`
	Color           optString     `json:"color"`
	Icon            optString     `json:"icon"`
	DiscussionCount optInt        `json:"discussionCount"`
	CommentCount    optInt        `json:"commentCount"`
	Position        optInt        `json:"position"`
	IsChild         optBool       `json:"isChild"`
	IsHidden        optBool       `json:"isHidden"`
	LastPostedAt    optString     `json:"lastPostedAt"`
}

type discussionAttributes struct {
	Title            optString `json:"title"`
	Slug             optString `json:"slug"`
	CommentCount     optInt    `json:"commentCount"`
	ViewCount        optInt    `json:"viewCount"`
	ParticipantCount optInt    `json:"participantCount"`
	CreatedAt        optString `json:"createdAt"`
	LastPostedAt     optString `json:"lastPostedAt"`
}
