// Package clmerr defines the fatal error kinds shared across the CLM core.
//
// Every fallible core function returns a plain (T, error); callers that need
// to branch on the failure category use Is (or errors.As and the Kind
// field), mirroring the way the
// teacher package (onpair) exposes sentinel errors like ErrShortBuffer and
// ErrUntrainedModel rather than an error-stack library.
package clmerr

import (
	"errors"
	"fmt"
)

// Kind categorizes a fatal condition raised by the CLM core.
type Kind int

const (
	// InputMissing means a training or test file could not be opened.
	InputMissing Kind = iota
	// ParseError means options JSON or a persisted run was malformed.
	ParseError
	// EmptyShard means ensemble training was given zero tokens in a shard.
	EmptyShard
	// InsufficientSubChunks means the dictionary trainer saw fewer than 5 sub-chunks.
	InsufficientSubChunks
	// BufferTooSmall means the dictionary buffer would be under 256 bytes.
	BufferTooSmall
	// CompressionPrimitiveError means the native dict-train or compress call reported an error.
	CompressionPrimitiveError
	// DistributionViolation means a ground-truth token was absent from a
	// returned distribution, or a probability was non-finite or negative.
	DistributionViolation
	// UnknownModel means a substring match against persisted filenames yielded nothing.
	UnknownModel
)

func (k Kind) String() string {
	switch k {
	case InputMissing:
		return "InputMissing"
	case ParseError:
		return "ParseError"
	case EmptyShard:
		return "EmptyShard"
	case InsufficientSubChunks:
		return "InsufficientSubChunks"
	case BufferTooSmall:
		return "BufferTooSmall"
	case CompressionPrimitiveError:
		return "CompressionPrimitiveError"
	case DistributionViolation:
		return "DistributionViolation"
	case UnknownModel:
		return "UnknownModel"
	default:
		return "Unknown"
	}
}

// Error is a fatal CLM error tagged with a Kind, optionally wrapping a cause.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// New creates an Error of the given kind with a formatted message.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates an Error of the given kind, attaching cause as the wrapped error.
func Wrap(kind Kind, cause error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// Is reports whether err is a *Error of the given kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}
