package services

import "errors"

// Standard service errors
var (
	// Data errors
	ErrPromptNotFound = errors.New("prompt not found")

	// Store errors
	ErrStoreUnavailable = errors.New("store unavailable")
)
