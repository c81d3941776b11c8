package models

// ModerationInput is the text handed to the moderation collaborator
// swagger:model ModerationInput
type ModerationInput struct {
	// Post content to classify
	PostContent string `json:"post_content"`
	// Policy text the content is judged against
	CommunityGuidelines string `json:"community_guidelines"`
}

// ModerationResult is the collaborator's verdict
// swagger:model ModerationResult
type ModerationResult struct {
	// Whether the post should be flagged
	IsFlagged bool `json:"is_flagged"`
	// Why the post was flagged
	FlagReason string `json:"flag_reason,omitempty"`
	// Confidence between 0 and 1
	ConfidenceScore float64 `json:"confidence_score"`
}
