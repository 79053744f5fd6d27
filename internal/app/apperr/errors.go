package apperr

import "fmt"

type Code string

const (
	CodeNotFound          Code = "NOT_FOUND"
	CodeDuplicateEmail    Code = "DUPLICATE_EMAIL"
	CodeDuplicateCategory Code = "DUPLICATE_CATEGORY"
	CodeStorageFailure    Code = "STORAGE_FAILURE"
	CodeInvalidFormat     Code = "INVALID_FORMAT"
	CodeValidation        Code = "VALIDATION_ERROR"
)

// Error is an application-layer error the presentation layer branches on by Code.
type Error struct {
	Code    Code
	Message string
	Details map[string]any
	// Err is the underlying cause, if any (e.g. the medium's quota error).
	Err error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	msg := e.Message
	if msg == "" {
		msg = string(e.Code)
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is matches any *Error carrying the same Code, so callers can write
// errors.Is(err, apperr.ErrNotFound).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || e == nil || t == nil {
		return false
	}
	return e.Code == t.Code
}

var (
	ErrNotFound          = &Error{Code: CodeNotFound}
	ErrDuplicateEmail    = &Error{Code: CodeDuplicateEmail}
	ErrDuplicateCategory = &Error{Code: CodeDuplicateCategory}
	ErrStorageFailure    = &Error{Code: CodeStorageFailure}
	ErrInvalidFormat     = &Error{Code: CodeInvalidFormat}
	ErrValidation        = &Error{Code: CodeValidation}
)

// NotFound reports that no record of the given kind has id.
func NotFound(kind string, id any) *Error {
	return &Error{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s not found", kind),
		Details: map[string]any{"id": fmt.Sprint(id)},
	}
}

func StorageFailure(key string, err error) *Error {
	return &Error{
		Code:    CodeStorageFailure,
		Message: "failed to save data; storage might be full",
		Details: map[string]any{"key": key},
		Err:     err,
	}
}

func Validation(field, reason string) *Error {
	return &Error{
		Code:    CodeValidation,
		Message: "invalid " + field,
		Details: map[string]any{field: reason},
	}
}
