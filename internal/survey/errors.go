package survey

import (
	"errors"
	"fmt"
)

// Code is a stable error code reported to callers.
type Code string

const (
	CodeModelParse          Code = "MODEL_PARSE_ERROR"
	CodeUpstreamUnavailable Code = "UPSTREAM_UNAVAILABLE"
	CodeValidation          Code = "VALIDATION_ERROR"
	CodeConfig              Code = "CONFIG_ERROR"
	CodeAgentNotFound       Code = "AGENT_NOT_FOUND"
	CodeStaleState          Code = "STALE_STATE"
	CodeRateLimited         Code = "RATE_LIMITED"
	CodeInternal            Code = "INTERNAL_ERROR"
)

// Error is a coded error. Err, when set, is the underlying cause.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError builds a coded error.
func NewError(code Code, message string, err error) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

// CodeOf returns the code carried by err, or CodeInternal for uncoded errors.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeInternal
}

// MessageOf returns the caller-facing message for err. Uncoded errors get a generic message so
// internals never leak.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "Unexpected server error."
}

func errModelParse(cause error) *Error {
	return NewError(CodeModelParse, "Model response could not be parsed.", cause)
}

func errUpstream(cause error) *Error {
	return NewError(CodeUpstreamUnavailable, "Upstream model call failed.", cause)
}
