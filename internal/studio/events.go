package studio

// Event is one studio lifecycle transition. Minimal and stable: name plus
// the model reference and optional details via key/values.
//
// Names currently published: load_start, load_progress, load_ready,
// load_error, unload_start, unload_timeout, unload_done, generate_start,
// generate_done, generate_cancel.
type Event struct {
	Name   string
	Model  string
	Fields map[string]any
}

// EventPublisher receives events from the studio. Implementations should be
// lightweight and non-blocking; Publish must not panic.
type EventPublisher interface {
	Publish(Event)
}

// noopPublisher is the default; it drops events.
type noopPublisher struct{}

func (noopPublisher) Publish(Event) {}
