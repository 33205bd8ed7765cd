package studio

import (
	"time"

	"studiod/internal/hardware"
)

// Defaults applied when the corresponding Config fields are unset.
const (
	defaultQueueDepth   = 32
	defaultMaxQueueWait = 30 * time.Second
	defaultDrainTimeout = 10 * time.Second
)

// Config carries the studio tunables. The zero value is usable; unset
// fields take package defaults.
type Config struct {
	// Engine selects the active runner by name. Empty or "auto" follows
	// the hardware recommendation, falling back to the first available
	// runner.
	Engine string
	// QueueDepth bounds how many generation requests may wait for the
	// in-flight slot before new arrivals are rejected as busy.
	QueueDepth int
	// MaxQueueWait bounds how long one request waits for admission.
	MaxQueueWait time.Duration
	// DrainTimeout bounds how long Unload waits for in-flight work.
	DrainTimeout time.Duration
	// Publisher receives lifecycle events; nil drops them.
	Publisher EventPublisher
	// Hardware overrides the host probe, for tests.
	Hardware func() hardware.Info
}
