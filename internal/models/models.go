package models

import "time"

// User represents a forum member summary
// swagger:model User
type User struct {
	// Stable backend identifier, "unknown" for the sentinel user
	ID string `json:"id"`
	// Display name
	Username string `json:"username"`
	// Login name, used by author filters
	Handle string `json:"handle,omitempty"`
	// Avatar image URL
	AvatarURL string `json:"avatar_url"`
	// Account creation timestamp
	JoinedAt time.Time `json:"joined_at"`
	// Profile bio
	Bio string `json:"bio,omitempty"`
}

// LoginName returns the handle the backend filters authors by, falling back
// to the display name when the handle is unknown.
func (u User) LoginName() string {
	if u.Handle != "" {
		return u.Handle
	}
	return u.Username
}

// Post represents a single message in a discussion
// swagger:model Post
type Post struct {
	// Post ID
	ID string `json:"id"`
	// Post author, never empty
	Author User `json:"author"`
	// Plain-text content
	Content string `json:"content"`
	// Creation timestamp
	CreatedAt time.Time `json:"created_at"`
	// Vote or like count
	Upvotes int `json:"upvotes"`
	// Whether the backend flagged the post
	IsFlagged *bool `json:"is_flagged,omitempty"`
	// Reason given for the flag
	FlagReason string `json:"flag_reason,omitempty"`
	// Nested replies (older data shapes only)
	Replies []Post `json:"replies,omitempty"`
}

// CategorySummary is the lightweight identity of a tag
// swagger:model CategorySummary
type CategorySummary struct {
	// Tag ID
	ID string `json:"id"`
	// Tag name
	Name string `json:"name"`
	// URL slug
	Slug string `json:"slug"`
	// Display color
	Color string `json:"color,omitempty"`
	// Icon class
	Icon string `json:"icon,omitempty"`
}

// LastTopic summarizes the most recently active discussion of a category
// swagger:model LastTopic
type LastTopic struct {
	// Discussion ID
	ID string `json:"id"`
	// Discussion title
	Title string `json:"title"`
	// Name of the last poster
	AuthorName string `json:"author_name,omitempty"`
	// Discussion creation timestamp
	CreatedAt *time.Time `json:"created_at,omitempty"`
}

// Category is a primary tag with its counters
// swagger:model Category
type Category struct {
	CategorySummary
	// Tag description
	Description *string `json:"description"`
	// Number of discussions tagged with this category
	TopicCount int `json:"topic_count"`
	// Same as TopicCount, as reported by the backend
	DiscussionCount int `json:"discussion_count"`
	// Number of posts, when the backend reports it
	PostCount *int `json:"post_count,omitempty"`
	// Last activity timestamp
	LastPostedAt *time.Time `json:"last_posted_at,omitempty"`
	// Most recently active discussion
	LastTopic *LastTopic `json:"last_topic,omitempty"`
}

// Topic represents a discussion
// swagger:model Topic
type Topic struct {
	// Discussion ID
	ID string `json:"id"`
	// Discussion title
	Title string `json:"title"`
	// URL slug
	Slug string `json:"slug,omitempty"`
	// Discussion author, never empty
	Author User `json:"author"`
	// Creation timestamp
	CreatedAt time.Time `json:"created_at"`
	// Replies plus the opening post
	PostCount int `json:"post_count"`
	// View counter
	ViewCount int `json:"view_count"`
	// Every tag attached to the discussion
	Tags []CategorySummary `json:"tags"`
	// Opening post
	FirstPost *Post `json:"first_post,omitempty"`
	// Primary tag derived from Tags
	Category *CategorySummary `json:"category,omitempty"`
	// Last activity timestamp
	LastPostedAt *time.Time `json:"last_posted_at,omitempty"`
	// Last poster, never empty
	LastPostedUser User `json:"last_posted_user"`
	// Distinct participants
	ParticipantCount int `json:"participant_count"`
}

// DiscussionDetail is a discussion with its assembled thread
// swagger:model DiscussionDetail
type DiscussionDetail struct {
	// Discussion information
	Topic Topic `json:"topic"`
	// Opening post first, then replies in chronological order
	Posts []Post `json:"posts"`
}
