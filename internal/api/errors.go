// Package api provides HTTP handlers for the REST API endpoints.
package api

// ErrorResponse is the standard error payload for API endpoints
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
