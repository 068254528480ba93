// Package services defines the business logic for batch generation and the
// joke content store. This file centralizes common service-level error values
// so that they can be consistently returned by service methods and checked by
// callers.
//
// These errors are intended for internal use by the service layer and
// translation into user-facing messages or HTTP status codes should be
// performed at the handler layer.
package services

import "errors"

var (
	// ErrInvalidBatchSize is returned when a batch submission's size is not
	// an integer in [1, MaxBatchSize]. No batch record is created.
	ErrInvalidBatchSize = errors.New("batchSize must be an integer between 1 and 1000")

	// ErrBatchNotFound indicates that the requested batch does not exist in
	// the in-memory table (never created, or lost to a process restart).
	ErrBatchNotFound = errors.New("batch not found")

	// ErrEmptyContent is returned when a joke create request is missing
	// setup or punchline text.
	ErrEmptyContent = errors.New("setup and punchline are required")

	// ErrTooLong is returned when joke content exceeds the configured
	// maximum length limit.
	ErrTooLong = errors.New("content too long")

	// ErrInvalidCount is returned when a list request's count is outside
	// [1, 1000].
	ErrInvalidCount = errors.New("count must be an integer between 1 and 1000")
)
