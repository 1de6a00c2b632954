package curator

// Event represents a catalog lifecycle event.
// Minimal and stable: name + image/location id and optional fields.
type Event struct {
	Name    string
	ImageID int64
	Fields  map[string]any
}

// EventPublisher receives events from the curator. Implementations should be
// lightweight and non-blocking; Publish must not panic.
type EventPublisher interface {
	Publish(Event)
}

// noopPublisher is the default; it drops events.
type noopPublisher struct{}

func (noopPublisher) Publish(Event) {}

const (
	evtScanStarted     = "scan_started"
	evtScanFinished    = "scan_finished"
	evtImageIndexed    = "image_indexed"
	evtImageDescribed  = "image_described"
	evtLocationCreated = "location_created"
	evtLocationDeleted = "location_deleted"
)
