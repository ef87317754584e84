package aggregates

import (
	"errors"
	"strings"
)

// ErrorCode classifies why an aggregate write did not commit.
type ErrorCode string

const (
	CodeValidation         ErrorCode = "validation"
	CodeNotFound           ErrorCode = "not_found"
	CodeForbidden          ErrorCode = "forbidden"
	CodeInUse              ErrorCode = "in_use"
	CodeConflict           ErrorCode = "conflict"
	CodeInvariantViolation ErrorCode = "invariant_violation"
	CodePreconditionFailed ErrorCode = "precondition_failed"
	CodeRetryable          ErrorCode = "retryable"
	CodeUnauthorized       ErrorCode = "unauthorized"
	CodeInternal           ErrorCode = "internal"
)

// CallerFault reports whether the request itself was at fault. Anything else
// is a server-side failure that gets logged and hidden from the client.
func (c ErrorCode) CallerFault() bool {
	switch c {
	case CodeValidation, CodeNotFound, CodeForbidden, CodeInUse, CodeConflict,
		CodeInvariantViolation, CodePreconditionFailed, CodeUnauthorized:
		return true
	}
	return false
}

type Error struct {
	Code    ErrorCode
	Op      string
	Message string
	Cause   error
}

// Error renders as "op: message [code]" with empty parts left out.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	var b strings.Builder
	if e.Op != "" {
		b.WriteString(e.Op)
	}
	if e.Message != "" {
		if b.Len() > 0 {
			b.WriteString(": ")
		}
		b.WriteString(e.Message)
	}
	if b.Len() > 0 {
		b.WriteByte(' ')
	}
	b.WriteString("[" + string(e.Code) + "]")
	return b.String()
}

func (e *Error) Unwrap() error { return e.Cause }

func NewError(code ErrorCode, op, message string, cause error) error {
	return &Error{
		Code:    code,
		Op:      strings.TrimSpace(op),
		Message: strings.TrimSpace(message),
		Cause:   cause,
	}
}

// Wrap tags err with code. An err that already carries the same code is
// returned as is so repeated wrapping does not stack ops.
func Wrap(code ErrorCode, op string, err error) error {
	if err == nil {
		return nil
	}
	if CodeOf(err) == code {
		return err
	}
	return NewError(code, op, err.Error(), err)
}

func IsCode(err error, code ErrorCode) bool {
	return err != nil && CodeOf(err) == code
}

// CodeOf returns the outermost code in err's chain, or "" when none is set.
func CodeOf(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}
