// Package common defines shared sentinel errors used across the daylog
// packages. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Validation errors (blank content, malformed day keys, bad masks).
	ErrorValidation = errors.New("validation error")

	// Upload errors. A failed batch aborts the whole save.
	ErrorUploadFailed = errors.New("upload failed")

	// Optimistic-concurrency conflict on a record update.
	ErrVersionConflict = errors.New("version conflict")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")

	// Field-mask errors (a path outside the allowed update surface).
	ErrorInvalidMask = errors.New("invalid field mask")
)
