package ai

import (
	"errors"
	"fmt"
)

// ErrorCode identifies a class of generation failure. The set is closed:
// every error escaping this package carries exactly one of these codes.
type ErrorCode string

const (
	// CodeNoImage: the request carried no image URL.
	CodeNoImage ErrorCode = "NO_IMAGE"
	// CodeInvalidImage: the image URL is not an absolute http(s) URL.
	CodeInvalidImage ErrorCode = "INVALID_IMAGE"
	// CodeInvalidParams: category or condition is not a known value.
	CodeInvalidParams ErrorCode = "INVALID_PARAMS"
	// CodeRateLimit: the model provider returned 429.
	CodeRateLimit ErrorCode = "RATE_LIMIT"
	// CodeTimeout: the request deadline expired before a response arrived.
	CodeTimeout ErrorCode = "TIMEOUT"
	// CodeUpstream: any other provider-side failure.
	CodeUpstream ErrorCode = "OPENAI_ERROR"
	// CodeValidationFailed: the provider answered but not with a usable
	// description payload.
	CodeValidationFailed ErrorCode = "VALIDATION_FAILED"
)

// Error is a classified generation failure.
type Error struct {
	Code    ErrorCode
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func newError(code ErrorCode, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// IsAIError reports whether err (or anything it wraps) is a classified
// generation error. Plain errors, including the URL codec's
// ErrMalformedAssetURL, are not.
func IsAIError(err error) bool {
	var e *Error
	return errors.As(err, &e)
}
