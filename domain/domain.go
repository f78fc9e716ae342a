// Package domain defines the error taxonomy and the response envelopes
// shared by every handler.
package domain

import "errors"

// Sentinel errors returned by the repositories and services. Controllers
// translate these into HTTP status codes at the boundary so storage-level
// error names never leak to callers.
var (
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("already exists")
	ErrUnauthenticated = errors.New("unauthenticated")
)

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Error builds the standard failure envelope.
func Error(message string) ErrorResponse {
	return ErrorResponse{Success: false, Message: message}
}
