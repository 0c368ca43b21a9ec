package mime

import (
	evbus "github.com/asaskevich/EventBus"
)

// Event identifies a notable occurrence during a parse, grounded on the
// teacher's ev.Event/EventHandler topic-string pattern.
type Event int

const (
	// EventPartDiscovered fires once a part's headers have been read and
	// classified, with the *Part as its single argument.
	EventPartDiscovered Event = iota
	// EventBoundaryMalformed fires when a multipart part's declared
	// boundary is never found, with the offending *Part.
	EventBoundaryMalformed
	// EventMessageTruncated fires when EOF arrives before an expected
	// terminator, with the *Part left open.
	EventMessageTruncated
)

var eventTopics = [...]string{
	"mime:part_discovered",
	"mime:boundary_malformed",
	"mime:message_truncated",
}

func (e Event) String() string { return eventTopics[e] }

// eventPublisher is the narrow capability sharedState needs: publish
// only. Subscribing happens through EventHandler, which embeds the same
// bus and is what callers obtain via Parser.Events().
type eventPublisher interface {
	Publish(topic Event, args ...interface{})
}

// EventHandler wraps an EventBus the way the teacher's ev.EventHandler
// does, exposing Subscribe/Unsubscribe to callers and Publish to the
// parser internals through the narrower eventPublisher interface.
type EventHandler struct {
	*evbus.EventBus
}

func newEventHandler() *EventHandler {
	return &EventHandler{EventBus: evbus.New()}
}

// Subscribe registers fn to run whenever topic is published. fn's
// signature must match the arguments Publish is documented to pass for
// that topic (a single *Part, for all events currently defined).
func (h *EventHandler) Subscribe(topic Event, fn interface{}) error {
	return h.EventBus.Subscribe(topic.String(), fn)
}

func (h *EventHandler) Publish(topic Event, args ...interface{}) {
	h.EventBus.Publish(topic.String(), args...)
}

func (h *EventHandler) Unsubscribe(topic Event, fn interface{}) error {
	return h.EventBus.Unsubscribe(topic.String(), fn)
}
