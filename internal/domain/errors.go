package domain

import (
	"errors"
	"net/http"
	"strings"
)

// Error codes shown to API clients.
const (
	CodeValidationFailed   = "VALIDATION_FAILED"
	CodeInvalidID          = "INVALID_ID"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeForbidden          = "FORBIDDEN"
	CodeUserNotFound       = "USER_NOT_FOUND"
	CodeUserAlreadyExists  = "USER_ALREADY_EXISTS"
	CodeOperationFailed    = "OPERATION_FAILED"
	CodeUploadNotFound     = "UPLOAD_NOT_FOUND"
	CodeTooManyRequests    = "TOO_MANY_REQUESTS"
	CodeServerBusy         = "SERVER_BUSY"
	CodeTimeout            = "TIMEOUT"
	CodePayloadTooLarge    = "PAYLOAD_TOO_LARGE"
	CodeNotFound           = "NOT_FOUND"
	CodeInternal           = "INTERNAL_SERVER_ERROR"
	CodeGroupNotFound      = "GROUP_NOT_FOUND"
	CodeGroupAlreadyExists = "GROUP_ALREADY_EXISTS"
	CodeCategoryNotFound   = "CATEGORY_NOT_FOUND"
	CodeSortNotFound       = "SORT_NOT_FOUND"
	CodeSortAlreadyExists  = "SORT_ALREADY_EXISTS"
	CodePlantationNotFound = "PLANTATION_NOT_FOUND"
	CodePlantationExists   = "PLANTATION_ALREADY_EXISTS"
)

var messages = map[string]string{
	CodeValidationFailed:   "Request validation failed",
	CodeInvalidID:          "Invalid identifier",
	CodeUnauthorized:       "Authentication required",
	CodeForbidden:          "Operation not permitted",
	CodeUserNotFound:       "Invalid email or password",
	CodeUserAlreadyExists:  "User already exists",
	CodeOperationFailed:    "Operation failed",
	CodeUploadNotFound:     "File not found",
	CodeTooManyRequests:    "Too many requests",
	CodeServerBusy:         "Server busy",
	CodeTimeout:            "Request timed out",
	CodePayloadTooLarge:    "Request body too large",
	CodeNotFound:           "Resource not found",
	CodeInternal:           "Internal server error",
	CodeGroupNotFound:      "Group not found",
	CodeGroupAlreadyExists: "Group already exists",
	CodeCategoryNotFound:   "Category not found",
	CodeSortNotFound:       "Sort not found",
	CodeSortAlreadyExists:  "Sort already exists",
	CodePlantationNotFound: "Plantation not found",
	CodePlantationExists:   "Plantation already exists",
}

// Message returns the human text for code, falling back to the code itself.
func Message(code string) string {
	if m, ok := messages[code]; ok {
		return m
	}
	return strings.ReplaceAll(strings.ToLower(code), "_", " ")
}

// ModelCode builds "<MODEL>_<SUFFIX>", e.g. ModelCode("Group", "NOT_FOUND").
func ModelCode(model, suffix string) string {
	return strings.ToUpper(model) + "_" + suffix
}

// Error is the single error type crossing the service boundary.
type Error struct {
	Status   int
	Code     string
	Messages []string
	Err      error
}

func (e *Error) Error() string {
	if len(e.Messages) > 0 {
		return e.Code + ": " + strings.Join(e.Messages, "; ")
	}
	return e.Code
}

func (e *Error) Unwrap() error { return e.Err }

func newError(status int, code string, msgs []string) *Error {
	if len(msgs) == 0 {
		msgs = []string{Message(code)}
	}
	return &Error{Status: status, Code: code, Messages: msgs}
}

func NotFound(code string) *Error { return newError(http.StatusNotFound, code, nil) }

func AlreadyExists(code string) *Error { return newError(http.StatusBadRequest, code, nil) }

func BadRequest(code string, msgs ...string) *Error {
	return newError(http.StatusBadRequest, code, msgs)
}

func Unauthorized(code string) *Error { return newError(http.StatusUnauthorized, code, nil) }

func Forbidden() *Error { return newError(http.StatusForbidden, CodeForbidden, nil) }

// OperationFailed reports every rejected nested write at once.
func OperationFailed(reasons []string) *Error {
	return newError(http.StatusBadRequest, CodeOperationFailed, reasons)
}

func Internal(err error) *Error {
	e := newError(http.StatusInternalServerError, CodeInternal, nil)
	e.Err = err
	return e
}

func WithStatus(status int, code string) *Error { return newError(status, code, nil) }

// AsError unwraps err into *Error; unknown errors become Internal.
func AsError(err error) *Error {
	var de *Error
	if errors.As(err, &de) {
		return de
	}
	return Internal(err)
}

func IsCode(err error, code string) bool {
	var de *Error
	return errors.As(err, &de) && de.Code == code
}
