// Package handlers defines HTTP-layer error codes used across all API endpoints.
//
// These symbolic constants are mapped to HTTP responses via the fail() helper
// and give clients a stable, machine-readable error taxonomy alongside the
// human-readable messages.
//
// Conventions:
//   - Codes are lowercase snake_case.
//   - Generic codes (bad_request, not_found, ...) mirror HTTP status semantics.
//   - Domain-specific codes (submit_failed, create_failed, list_failed) are
//     reserved for business errors a status alone cannot convey.
package handlers

const (
	ErrCodeBadRequest  = "bad_request"
	ErrCodeNotFound    = "not_found"
	ErrCodeRateLimited = "too_many_requests"
	ErrCodeInternal    = "internal_error"

	// Domain-specific:
	ErrCodeSubmitFailed     = "submit_failed"
	ErrCodeCreateFailed     = "create_failed"
	ErrCodeListFailed       = "list_failed"
	ErrCodeMethodNotAllowed = "method_not_allowed"
)
