package entities

import "errors"

// Domain errors
var (
	// Session errors
	ErrSessionNotFound = errors.New("session not found")
	ErrNoActiveSession = errors.New("no active session")
	ErrNameRequired    = errors.New("session name is required")

	// Submission errors
	ErrInvalidImageType = errors.New("invalid image type")
	ErrImageTooLarge    = errors.New("image too large")
	ErrEmptyImage       = errors.New("empty image")
	ErrImageUpload      = errors.New("image upload failed")

	// Extraction errors
	ErrExtractionNotConfigured = errors.New("extraction service not configured")
	ErrExtractionFailed        = errors.New("extraction failed")

	// Generic errors
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
)
