// Package dto provides Data Transfer Objects for API requests and responses.
package dto

// SubscribeRequest represents the request body for a subscription.
//
// Email is a pointer so that a missing field can be told apart from an
// empty string, which fails validation with a different message.
type SubscribeRequest struct {
	Email    *string           `json:"email"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// SubscribeResponse represents a successful subscription outcome.
type SubscribeResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// ErrorResponse represents an API error.
type ErrorResponse struct {
	Error string `json:"error"`
}
