package respkit

import (
	"fmt"

	"github.com/pkg/errors"
)

// ProtocolError signals a malformed RESP2 byte stream (§4.1, §7). Conn.fail
// also wraps every other connection-ending error in it (a transport error,
// or ErrClosed from Close). It is always fatal to the connection: once
// framing is lost there is no way to resynchronize, so the Decoder that
// produced it must not be reused.
type ProtocolError struct {
	cause error
}

func newProtocolError(format string, args ...any) error {
	return &ProtocolError{cause: errors.WithStack(fmt.Errorf(format, args...))}
}

func wrapProtocolError(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := err.(*ProtocolError); ok {
		return err
	}
	return &ProtocolError{cause: errors.WithStack(err)}
}

func (e *ProtocolError) Error() string { return "respkit: protocol error: " + e.cause.Error() }
func (e *ProtocolError) Unwrap() error { return e.cause }

// ServerError is the command-level failure surfaced when the server replies
// with a RESP Error frame. It is never fatal to the connection (§7).
type ServerError struct {
	Text string
}

func (e *ServerError) Error() string { return e.Text }

// ErrClosed is returned by any command submitted to a pipeline after its
// connection has failed or been closed (§4.4 "Transport errors").
var ErrClosed = errors.New("respkit: connection closed")

// ErrQueueNotEmpty is returned by handler-replacement attempts (§4.4) when
// the in-flight queue being transplanted is non-empty; replacement is only
// legal on an empty queue.
var ErrQueueNotEmpty = errors.New("respkit: cannot transplant a non-empty in-flight queue")

// DecodeErrorKind enumerates the §4.3 error taxonomy.
type DecodeErrorKind uint8

const (
	// IndexOutOfRange: an aggregate was shorter than the decoder expected.
	IndexOutOfRange DecodeErrorKind = iota
	// KeyMismatch: a labelled-field response had the wrong key at a known offset.
	KeyMismatch
	// TypeMismatch: the wire shape cannot produce the target type.
	TypeMismatch
	// Composite: wraps an inner DecodeError encountered while traversing an aggregate.
	Composite
)

// DecodeError is the unified error type for every TypedDecode failure
// (§4.3). Exactly one of the Kind-specific fields is populated, matching
// Kind.
type DecodeError struct {
	Kind DecodeErrorKind

	// IndexOutOfRange
	Index, Length int

	// KeyMismatch
	ExpectedKey, ActualKey string

	// TypeMismatch / Composite
	ExpectedType string
	Got          ValueType

	// Composite
	Cause error
}

func (e *DecodeError) Error() string {
	switch e.Kind {
	case IndexOutOfRange:
		return fmt.Sprintf("respkit: decode: index %d out of range (length %d)", e.Index, e.Length)
	case KeyMismatch:
		return fmt.Sprintf("respkit: decode: expected key %q, got %q", e.ExpectedKey, e.ActualKey)
	case TypeMismatch:
		return fmt.Sprintf("respkit: decode: cannot decode %s as %s", e.Got, e.ExpectedType)
	case Composite:
		return fmt.Sprintf("respkit: decode: decoding %s as %s: %v", e.Got, e.ExpectedType, e.Cause)
	default:
		return "respkit: decode error"
	}
}

// Unwrap exposes the inner cause of a Composite error so errors.Is/As can
// reach the root failure. DecodeError has no Cause method, so errors.Cause
// (github.com/pkg/errors) stops at the DecodeError itself.
func (e *DecodeError) Unwrap() error {
	if e.Kind == Composite {
		return e.Cause
	}
	return nil
}

func errIndexOutOfRange(index, length int) error {
	return &DecodeError{Kind: IndexOutOfRange, Index: index, Length: length}
}

func errKeyMismatch(expected, actual string) error {
	return &DecodeError{Kind: KeyMismatch, ExpectedKey: expected, ActualKey: actual}
}

func errTypeMismatch(expectedType string, got ValueType) error {
	return &DecodeError{Kind: TypeMismatch, ExpectedType: expectedType, Got: got}
}

func errComposite(expectedType string, got ValueType, cause error) error {
	return &DecodeError{Kind: Composite, ExpectedType: expectedType, Got: got, Cause: errors.WithStack(cause)}
}
