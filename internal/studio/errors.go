package studio

import "errors"

// busyError signals queue admission timeout or drain rejection for 429
// mapping.
type busyError struct{ engine string }

func (e busyError) Error() string { return "engine busy: " + e.engine }

// ErrBusy reports that the engine's queue is full or draining.
func ErrBusy(engine string) error { return busyError{engine: engine} }

// IsBusy reports whether err indicates backpressure (return 429).
func IsBusy(err error) bool {
	var e busyError
	return errors.As(err, &e)
}
