package models

// HTTPError represents an HTTP error response
// swagger:model HTTPError
type HTTPError struct {
	// HTTP status code
	Code int `json:"code"`
	// Error message
	Message string `json:"message"`
}

// ReplyRequest is the body of the reply endpoint
// swagger:model ReplyRequest
type ReplyRequest struct {
	// Reply content
	Content string `json:"content"`
}

// StartDiscussionRequest is the body of the new discussion endpoint
// swagger:model StartDiscussionRequest
type StartDiscussionRequest struct {
	// Discussion title
	Title string `json:"title"`
	// Opening post content
	Content string `json:"content"`
	// Tag IDs to attach
	TagIDs []string `json:"tag_ids"`
}

// ListResponse wraps list endpoints
// swagger:model ListResponse
type ListResponse struct {
	// Items returned
	Items interface{} `json:"items"`
	// Metadata about the request
	Meta struct {
		// Count of items returned
		Count int `json:"count"`
		// Processing time in milliseconds
		ProcessingTimeMs int64 `json:"processing_time_ms"`
	} `json:"meta"`
}
