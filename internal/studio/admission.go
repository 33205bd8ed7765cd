package studio

import (
	"context"
	"time"
)

// acquire reserves a queue slot and then the single in-flight slot.
// Returns a release func to be called once the work is finished.
func (s *Studio) acquire(ctx context.Context) (func(), error) {
	s.mu.Lock()
	draining := s.draining
	s.mu.Unlock()
	// Reject new work while an unload is waiting on the slots to empty.
	if draining {
		return func() {}, busyError{engine: s.active.Name()}
	}

	// Fast path: respect an already-canceled context.
	if err := ctx.Err(); err != nil {
		return func() {}, err
	}

	timer := time.NewTimer(s.maxWait)
	defer timer.Stop()
	select {
	case s.queueCh <- struct{}{}:
		// reserved queue slot
	case <-ctx.Done():
		return func() {}, ctx.Err()
	case <-timer.C:
		return func() {}, busyError{engine: s.active.Name()}
	}

	acquired := false
	defer func() {
		if !acquired {
			<-s.queueCh
		}
	}()
	// Check for cancellation again before blocking on the gen slot.
	if err := ctx.Err(); err != nil {
		return func() {}, err
	}
	timer2 := time.NewTimer(s.maxWait)
	defer timer2.Stop()
	select {
	case s.genCh <- struct{}{}:
		acquired = true
		return func() { <-s.genCh; <-s.queueCh }, nil
	case <-ctx.Done():
		return func() {}, ctx.Err()
	case <-timer2.C:
		return func() {}, busyError{engine: s.active.Name()}
	}
}
