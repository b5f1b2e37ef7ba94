// Package notify carries user-facing notification events from the API layer
// to whatever renders them.
package notify

// Topic names understood by toast renderers.
const (
	// TopicShow carries events whose Summary and Detail are display text.
	TopicShow = "toast:show"
	// TopicTranslate carries events whose Summary and Detail are message keys.
	TopicTranslate = "toast:translate"
)

// Severity of a notification event.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarn    Severity = "warn"
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
)

// Event is a toast notification.
type Event struct {
	Severity Severity `json:"severity"`
	Summary  string   `json:"summary"`
	Detail   string   `json:"detail"`
}

// Message is an event together with the topic it was emitted on.
type Message struct {
	Topic string `json:"topic"`
	Event Event  `json:"event"`
}

// Emitter publishes events. Emit must not block the caller.
type Emitter interface {
	Emit(topic string, ev Event)
}

// EmitterFunc adapts a function to the Emitter interface.
type EmitterFunc func(topic string, ev Event)

func (f EmitterFunc) Emit(topic string, ev Event) {
	f(topic, ev)
}

// Discard drops every event.
var Discard Emitter = EmitterFunc(func(string, Event) {})
