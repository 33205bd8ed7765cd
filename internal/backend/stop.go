package backend

import "sync/atomic"

// StopFlag is the cooperative cancellation token shared between a runner's
// generation loop and StopGeneration callers. Generation clears it on entry,
// polls it between fragments, and stops with a single terminal result when it
// is raised.
type StopFlag struct {
	v atomic.Bool
}

// Set raises the flag.
func (f *StopFlag) Set() { f.v.Store(true) }

// Clear lowers the flag. Called at the start of each generation so a stale
// stop from a previous call cannot kill a fresh one.
func (f *StopFlag) Clear() { f.v.Store(false) }

// IsSet reports whether a stop was requested.
func (f *StopFlag) IsSet() bool { return f.v.Load() }
