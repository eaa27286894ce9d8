package apperrors

import "errors"

// Common errors
var (
	// Credential errors
	ErrTokenMissing = errors.New("access token missing")
	ErrInvalidToken = errors.New("invalid access token")

	// Resource errors
	ErrResourceNotFound = errors.New("resource not found")
	ErrCourseNotFound   = errors.New("course not found")
	ErrTopicNotFound    = errors.New("discussion topic not found")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")

	// Upstream errors
	ErrUpstreamFailure = errors.New("course directory request failed")

	// Export errors
	ErrExportFailed = errors.New("spreadsheet export failed")
)
