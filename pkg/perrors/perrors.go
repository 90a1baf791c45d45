// Package perrors defines the typed failure kinds raised by the prinbee
// core packages. Every core accessor and parser raises one of these so
// callers can distinguish a malformed descriptor from a corrupted buffer
// from a simple type mismatch.
package perrors

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind identifies the category of a core failure.
type Kind int

const (
	// InvalidParameter covers a malformed descriptor, an invalid context
	// name, or a registry entry conflict.
	InvalidParameter Kind = iota
	// InvalidToken covers a text literal that cannot be tokenized at all.
	InvalidToken
	// InvalidNumber covers a text literal that cannot be parsed as the
	// declared numeric type.
	InvalidNumber
	// InvalidSize covers an operation whose size disagrees with the
	// field's declared size.
	InvalidSize
	// InvalidType covers a file or buffer that starts with an
	// unrecognised magic.
	InvalidType
	// TypeMismatch covers an accessor called against a field of a
	// different type.
	TypeMismatch
	// OutOfRange covers a numeric value that exceeds the field width, or
	// a buffer offset/size out of bounds.
	OutOfRange
	// OutOfBounds covers an array or sub-structure index out of range.
	OutOfBounds
	// FieldNotFound covers a named field or flag absent from the
	// descriptor.
	FieldNotFound
	// CorruptedData covers a length prefix that disagrees with the
	// runtime field size, or a field that extends past the buffer.
	CorruptedData
	// LogicError covers an internal precondition violation.
	LogicError
	// IOError covers a file system access failure.
	IOError
	// NotYetImplemented covers a surface reserved for a future release.
	NotYetImplemented
)

func (k Kind) String() string {
	switch k {
	case InvalidParameter:
		return "invalid_parameter"
	case InvalidToken:
		return "invalid_token"
	case InvalidNumber:
		return "invalid_number"
	case InvalidSize:
		return "invalid_size"
	case InvalidType:
		return "invalid_type"
	case TypeMismatch:
		return "type_mismatch"
	case OutOfRange:
		return "out_of_range"
	case OutOfBounds:
		return "out_of_bounds"
	case FieldNotFound:
		return "field_not_found"
	case CorruptedData:
		return "corrupted_data"
	case LogicError:
		return "logic_error"
	case IOError:
		return "io_error"
	case NotYetImplemented:
		return "not_yet_implemented"
	default:
		return "unknown"
	}
}

// Error is the typed failure raised throughout the core. Its message names
// the offending field or value, per spec.md's user-visible failure
// contract.
type Error struct {
	Kind    Kind
	Message string
	cause   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap exposes the wrapped cause, if any, to errors.Is/errors.As.
func (e *Error) Unwrap() error {
	return e.cause
}

// New builds an Error of the given kind with a formatted message.
func New(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap builds an Error of the given kind around a lower-level cause,
// attaching a stack trace via github.com/pkg/errors the way the pack's
// zchee-go-qcow2 writer wraps its I/O failures.
func Wrap(kind Kind, cause error, format string, args ...interface{}) *Error {
	return &Error{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
		cause:   errors.Wrap(cause, kind.String()),
	}
}

// Is reports whether err is a *Error of the given kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Kind == kind
}
