// Package handlers: stable error codes carried in the "code" field of every
// error body. Clients branch on these rather than on messages.
//
//	{
//	  "request_id": "e1b9be03-4999-4289-9f03-999b042d65d6",
//	  "code": "not_found",
//	  "message": "ingredient not found"
//	}
package handlers

const (
	ErrCodeBadRequest       = "bad_request"
	ErrCodeUnauthorized     = "unauthorized"
	ErrCodeNotFound         = "not_found"
	ErrCodeConflict         = "conflict"
	ErrCodeRateLimited      = "rate_limited"
	ErrCodeMethodNotAllowed = "method_not_allowed"
	ErrCodeInternal         = "internal_error"

	// Meal log
	ErrCodeCreateFailed = "create_failed"
	ErrCodeDeleteFailed = "delete_failed"
	ErrCodeListFailed   = "list_failed"

	// Nutrition lookup
	ErrCodeLookupUnavailable = "lookup_unavailable"
	ErrCodeUpstream          = "upstream_error"
)
