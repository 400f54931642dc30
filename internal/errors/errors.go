package errors

import "fmt"

// ErrorCode represents a moodcal error code.
type ErrorCode string

const (
	ErrInvalidRequest ErrorCode = "INVALID_REQUEST" // 400
	ErrNotFound       ErrorCode = "NOT_FOUND"       // 404
	ErrFileNotFound   ErrorCode = "FILE_NOT_FOUND"  // 404
	ErrIDCollision    ErrorCode = "ID_COLLISION"    // 409
	ErrNoteTooLarge   ErrorCode = "NOTE_TOO_LARGE"  // 413
	ErrCancelled      ErrorCode = "CANCELLED"       // 499
	ErrInternal       ErrorCode = "INTERNAL"        // 500
)

// MoodError represents a structured error with code, status, and details.
type MoodError struct {
	Code    ErrorCode
	Status  int
	Message string
	Details map[string]any
}

// Error implements the error interface.
func (e *MoodError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewInvalidRequest creates a 400 error for invalid request parameters.
func NewInvalidRequest(msg string) *MoodError {
	return &MoodError{
		Code:    ErrInvalidRequest,
		Status:  400,
		Message: msg,
	}
}

// NewNotFound creates a 404 error for when an entry cannot be found.
func NewNotFound(id string) *MoodError {
	return &MoodError{
		Code:    ErrNotFound,
		Status:  404,
		Message: fmt.Sprintf("entry not found: %s", id),
		Details: map[string]any{"id": id},
	}
}

// NewFileNotFound creates a 404 error for a missing import file.
func NewFileNotFound(path string) *MoodError {
	return &MoodError{
		Code:    ErrFileNotFound,
		Status:  404,
		Message: fmt.Sprintf("file not found: %s", path),
		Details: map[string]any{"path": path},
	}
}

// NewIDCollision creates a 409 error when an imported entry id already exists.
func NewIDCollision(id string) *MoodError {
	return &MoodError{
		Code:    ErrIDCollision,
		Status:  409,
		Message: fmt.Sprintf("entry with id %q already exists", id),
		Details: map[string]any{"id": id},
	}
}

// NewNoteTooLarge creates a 413 error when a note exceeds the configured limit.
func NewNoteTooLarge(max, actual int) *MoodError {
	return &MoodError{
		Code:    ErrNoteTooLarge,
		Status:  413,
		Message: fmt.Sprintf("note exceeds maximum size: %d chars (max %d)", actual, max),
		Details: map[string]any{"max_chars": max, "actual_chars": actual},
	}
}

// NewCancelled creates a 499 error for an operation interrupted by context cancellation.
func NewCancelled(op string) *MoodError {
	return &MoodError{
		Code:    ErrCancelled,
		Status:  499,
		Message: fmt.Sprintf("%s cancelled", op),
	}
}

// NewInternal creates a 500 error for unexpected internal errors.
func NewInternal(err error) *MoodError {
	msg := "internal error"
	if err != nil {
		msg = err.Error()
	}
	return &MoodError{
		Code:    ErrInternal,
		Status:  500,
		Message: msg,
	}
}

// Is checks if an error is a MoodError with the given code.
func Is(err error, code ErrorCode) bool {
	if mErr, ok := err.(*MoodError); ok {
		return mErr.Code == code
	}
	return false
}
