package backend

import (
	"context"
	"errors"
)

// notFoundError signals a model reference that resolves to nothing, locally
// or on the hub, for 404 mapping.
type notFoundError struct{ ref string }

func (e notFoundError) Error() string { return "model not found: " + e.ref }

// ErrNotFound constructs a notFoundError for the given reference.
func ErrNotFound(ref string) error { return notFoundError{ref: ref} }

// IsNotFound reports whether err indicates a missing model or artifact.
func IsNotFound(err error) bool {
	var e notFoundError
	return errors.As(err, &e)
}

// outOfMemoryError signals that a load or generation exceeded the memory
// the engine could claim, for 507 mapping.
type outOfMemoryError struct{ msg string }

func (e outOfMemoryError) Error() string { return e.msg }

// ErrOutOfMemory constructs an outOfMemoryError.
func ErrOutOfMemory(msg string) error { return outOfMemoryError{msg: msg} }

// IsOutOfMemory reports whether err indicates memory exhaustion.
func IsOutOfMemory(err error) bool {
	var e outOfMemoryError
	return errors.As(err, &e)
}

// unavailableError signals a missing external dependency (llama.cpp build,
// mlx_lm server, python worker) so callers can return 503 instead of 500.
type unavailableError struct{ msg string }

func (e unavailableError) Error() string { return e.msg }

// ErrUnavailable constructs an unavailableError.
func ErrUnavailable(msg string) error { return unavailableError{msg: msg} }

// IsUnavailable reports whether err indicates a missing or failed runtime
// dependency.
func IsUnavailable(err error) bool {
	var e unavailableError
	return errors.As(err, &e)
}

// runtimeError covers engine failures with no more specific class, including
// generation attempts against an unloaded runner.
type runtimeError struct{ msg string }

func (e runtimeError) Error() string { return e.msg }

// ErrRuntime constructs a runtimeError.
func ErrRuntime(msg string) error { return runtimeError{msg: msg} }

// IsRuntime reports whether err is a generic engine failure.
func IsRuntime(err error) bool {
	var e runtimeError
	return errors.As(err, &e)
}

// transientError wraps a failure worth retrying, such as a dropped download
// connection.
type transientError struct {
	op  string
	err error
}

func (e transientError) Error() string { return e.op + ": " + e.err.Error() }

func (e transientError) Unwrap() error { return e.err }

// ErrTransient wraps err as retryable.
func ErrTransient(op string, err error) error { return transientError{op: op, err: err} }

// IsTransient reports whether err is marked retryable.
func IsTransient(err error) bool {
	var e transientError
	return errors.As(err, &e)
}

// cancelledError signals a caller-initiated interruption. Retry loops must
// give up immediately on it rather than burn further attempts.
type cancelledError struct{ msg string }

func (e cancelledError) Error() string { return e.msg }

// ErrCancelled constructs a cancelledError.
func ErrCancelled(msg string) error { return cancelledError{msg: msg} }

// IsCancelled reports whether err came from cancellation, including plain
// context errors surfaced by lower layers.
func IsCancelled(err error) bool {
	var e cancelledError
	if errors.As(err, &e) {
		return true
	}
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
