package bright

import (
	"errors"
	"fmt"
)

// ErrorCode represents a typed error code reported by the Bright server
type ErrorCode string

const (
	// Validation errors (400)
	ErrorCodeMissingParameter      ErrorCode = "MISSING_PARAMETER"
	ErrorCodeInvalidParameter      ErrorCode = "INVALID_PARAMETER"
	ErrorCodeInvalidRequestBody    ErrorCode = "INVALID_REQUEST_BODY"
	ErrorCodeConflictingParameters ErrorCode = "CONFLICTING_PARAMETERS"
	ErrorCodeInvalidFormat         ErrorCode = "INVALID_FORMAT"
	ErrorCodeParseError            ErrorCode = "PARSE_ERROR"

	// Not found errors (404)
	ErrorCodeIndexNotFound    ErrorCode = "INDEX_NOT_FOUND"
	ErrorCodeDocumentNotFound ErrorCode = "DOCUMENT_NOT_FOUND"

	// Cluster errors (307/503)
	ErrorCodeNotLeader          ErrorCode = "NOT_LEADER"
	ErrorCodeClusterUnavailable ErrorCode = "CLUSTER_UNAVAILABLE"

	// Authorization errors (403)
	ErrorCodeInsufficientPermissions ErrorCode = "INSUFFICIENT_PERMISSIONS"
	ErrorCodeLeaderOnlyOperation     ErrorCode = "LEADER_ONLY_OPERATION"

	// Resource conflict errors (409)
	ErrorCodeResourceAlreadyExists ErrorCode = "RESOURCE_ALREADY_EXISTS"

	// Internal errors (500)
	ErrorCodeUUIDGenerationFailed    ErrorCode = "UUID_GENERATION_FAILED"
	ErrorCodeSerializationFailed     ErrorCode = "SERIALIZATION_FAILED"
	ErrorCodeRaftApplyFailed         ErrorCode = "RAFT_APPLY_FAILED"
	ErrorCodeIndexOperationFailed    ErrorCode = "INDEX_OPERATION_FAILED"
	ErrorCodeDocumentOperationFailed ErrorCode = "DOCUMENT_OPERATION_FAILED"
	ErrorCodeBatchOperationFailed    ErrorCode = "BATCH_OPERATION_FAILED"
	ErrorCodeSearchFailed            ErrorCode = "SEARCH_FAILED"
	ErrorCodeInternalError           ErrorCode = "INTERNAL_ERROR"
)

// Category groups error codes into the classes the server distinguishes
type Category int

const (
	CategoryUnknown Category = iota
	CategoryValidation
	CategoryNotFound
	CategoryCluster
	CategoryAuthorization
	CategoryConflict
	CategoryInternal
)

// String returns a human-readable name for the category
func (c Category) String() string {
	switch c {
	case CategoryValidation:
		return "validation"
	case CategoryNotFound:
		return "not_found"
	case CategoryCluster:
		return "cluster"
	case CategoryAuthorization:
		return "authorization"
	case CategoryConflict:
		return "conflict"
	case CategoryInternal:
		return "internal"
	default:
		return "unknown"
	}
}

// codeCategories maps every defined error code to its category
var codeCategories = map[ErrorCode]Category{
	ErrorCodeMissingParameter:      CategoryValidation,
	ErrorCodeInvalidParameter:      CategoryValidation,
	ErrorCodeInvalidRequestBody:    CategoryValidation,
	ErrorCodeConflictingParameters: CategoryValidation,
	ErrorCodeInvalidFormat:         CategoryValidation,
	ErrorCodeParseError:            CategoryValidation,

	ErrorCodeIndexNotFound:    CategoryNotFound,
	ErrorCodeDocumentNotFound: CategoryNotFound,

	ErrorCodeNotLeader:          CategoryCluster,
	ErrorCodeClusterUnavailable: CategoryCluster,

	ErrorCodeInsufficientPermissions: CategoryAuthorization,
	ErrorCodeLeaderOnlyOperation:     CategoryAuthorization,

	ErrorCodeResourceAlreadyExists: CategoryConflict,

	ErrorCodeUUIDGenerationFailed:    CategoryInternal,
	ErrorCodeSerializationFailed:     CategoryInternal,
	ErrorCodeRaftApplyFailed:         CategoryInternal,
	ErrorCodeIndexOperationFailed:    CategoryInternal,
	ErrorCodeDocumentOperationFailed: CategoryInternal,
	ErrorCodeBatchOperationFailed:    CategoryInternal,
	ErrorCodeSearchFailed:            CategoryInternal,
	ErrorCodeInternalError:           CategoryInternal,
}

// statusCategories is the fallback classification when the server sends no
// recognizable error code. Both 307 and 503 map to the cluster category; the
// status code on the error still distinguishes a redirect from an outage.
var statusCategories = map[int]Category{
	400: CategoryValidation,
	403: CategoryAuthorization,
	404: CategoryNotFound,
	409: CategoryConflict,
	307: CategoryCluster,
	500: CategoryInternal,
	503: CategoryCluster,
}

// Error is the typed error returned for every non-2xx server response.
// Category is always set; Code is empty when the server sent none.
type Error struct {
	Message    string
	StatusCode int
	Code       ErrorCode
	Category   Category
	Details    map[string]any

	// LeaderURL is set on NOT_LEADER errors when the server names the
	// current leader in the error details.
	LeaderURL string
}

func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("bright: %s (status %d, code %s)", e.Message, e.StatusCode, e.Code)
	}
	return fmt.Sprintf("bright: %s (status %d)", e.Message, e.StatusCode)
}

// IsNotFound reports whether the error is in the not-found category
func (e *Error) IsNotFound() bool { return e.Category == CategoryNotFound }

// IsValidation reports whether the error is in the validation category
func (e *Error) IsValidation() bool { return e.Category == CategoryValidation }

// IsCluster reports whether the error is in the cluster category
func (e *Error) IsCluster() bool { return e.Category == CategoryCluster }

// IsAuthorization reports whether the error is in the authorization category
func (e *Error) IsAuthorization() bool { return e.Category == CategoryAuthorization }

// IsConflict reports whether the error is in the conflict category
func (e *Error) IsConflict() bool { return e.Category == CategoryConflict }

// IsInternal reports whether the error is in the internal category
func (e *Error) IsInternal() bool { return e.Category == CategoryInternal }

// IsNotFound reports whether err is a Bright error in the not-found category
func IsNotFound(err error) bool {
	var be *Error
	return errors.As(err, &be) && be.IsNotFound()
}

// errorEnvelope is the wire format of a server error response
type errorEnvelope struct {
	Message string         `json:"error"`
	Code    ErrorCode      `json:"code,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

// classify turns a wire-level error into a typed Error. Classification is
// layered: a known code wins, then the status code, then the generic
// unknown category with the raw code and details passed through.
func classify(statusCode int, env errorEnvelope) *Error {
	e := &Error{
		Message:    env.Message,
		StatusCode: statusCode,
		Code:       env.Code,
		Details:    env.Details,
	}

	if cat, ok := codeCategories[env.Code]; ok {
		e.Category = cat
		if env.Code == ErrorCodeNotLeader {
			if leader, ok := env.Details["leaderUrl"].(string); ok {
				e.LeaderURL = leader
			}
		}
		return e
	}

	// Unknown or missing code: fall back to the status code. Unknown codes
	// from newer servers degrade to their status category instead of
	// failing classification.
	if cat, ok := statusCategories[statusCode]; ok {
		e.Category = cat
		return e
	}

	e.Category = CategoryUnknown
	return e
}
