package errors

import "fmt"

// ErrorCode represents a newsctl error code.
type ErrorCode string

const (
	ErrInvalidRequest     ErrorCode = "INVALID_REQUEST"
	ErrNotFound           ErrorCode = "NOT_FOUND"
	ErrAlreadyExists      ErrorCode = "ALREADY_EXISTS"
	ErrMissingFrontmatter ErrorCode = "MISSING_FRONTMATTER"
	ErrBadBundle          ErrorCode = "BAD_BUNDLE"
	ErrBundleCollision    ErrorCode = "BUNDLE_COLLISION"
	ErrValidationFailed   ErrorCode = "VALIDATION_FAILED"
	ErrFatal              ErrorCode = "FATAL"
	ErrInternal           ErrorCode = "INTERNAL"
)

// NewsError represents a structured error with code, status, and details.
// Status follows HTTP conventions so the MCP and web surfaces can reuse it.
type NewsError struct {
	Code    ErrorCode
	Status  int
	Message string
	Details map[string]any
}

// Error implements the error interface.
func (e *NewsError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewInvalidRequest creates a 400 error for invalid request parameters.
func NewInvalidRequest(msg string) *NewsError {
	return &NewsError{
		Code:    ErrInvalidRequest,
		Status:  400,
		Message: msg,
	}
}

// NewNotFound creates a 404 error for a missing post, bundle, or index.
func NewNotFound(identifier string) *NewsError {
	return &NewsError{
		Code:    ErrNotFound,
		Status:  404,
		Message: fmt.Sprintf("not found: %s", identifier),
		Details: map[string]any{"identifier": identifier},
	}
}

// NewAlreadyExists creates a 409 error for a destination file collision.
func NewAlreadyExists(path string) *NewsError {
	return &NewsError{
		Code:    ErrAlreadyExists,
		Status:  409,
		Message: fmt.Sprintf("refusing to overwrite existing file: %s", path),
		Details: map[string]any{"path": path},
	}
}

// NewMissingFrontmatter creates a 422 error for a post without a header block.
func NewMissingFrontmatter(filename string) *NewsError {
	return &NewsError{
		Code:    ErrMissingFrontmatter,
		Status:  422,
		Message: fmt.Sprintf("missing frontmatter in %s", filename),
		Details: map[string]any{"filename": filename},
	}
}

// NewBadBundle creates a 422 error for a bundle that cannot be imported.
func NewBadBundle(bundle, reason string) *NewsError {
	return &NewsError{
		Code:    ErrBadBundle,
		Status:  422,
		Message: fmt.Sprintf("bad bundle %s: %s", bundle, reason),
		Details: map[string]any{"bundle": bundle, "reason": reason},
	}
}

// NewBundleCollision creates a 409 error for an import destination collision.
func NewBundleCollision(bundle, path string) *NewsError {
	return &NewsError{
		Code:    ErrBundleCollision,
		Status:  409,
		Message: fmt.Sprintf("bundle %s collides with existing file: %s", bundle, path),
		Details: map[string]any{"bundle": bundle, "path": path},
	}
}

// NewValidationFailed creates a 422 error summarizing hard validation errors.
func NewValidationFailed(count int) *NewsError {
	return &NewsError{
		Code:    ErrValidationFailed,
		Status:  422,
		Message: fmt.Sprintf("validation failed with %d error(s)", count),
		Details: map[string]any{"errors": count},
	}
}

// NewFatal creates a 500 error for an unrecoverable filesystem condition.
// The current operation aborts; previously persisted state is untouched.
func NewFatal(msg string, err error) *NewsError {
	if err != nil {
		msg = fmt.Sprintf("%s: %v", msg, err)
	}
	return &NewsError{
		Code:    ErrFatal,
		Status:  500,
		Message: msg,
	}
}

// NewInternal creates a 500 error for unexpected internal errors.
func NewInternal(err error) *NewsError {
	msg := "internal error"
	if err != nil {
		msg = err.Error()
	}
	return &NewsError{
		Code:    ErrInternal,
		Status:  500,
		Message: msg,
	}
}

// Is checks if an error is a NewsError with the given code.
func Is(err error, code ErrorCode) bool {
	if nErr, ok := err.(*NewsError); ok {
		return nErr.Code == code
	}
	return false
}
