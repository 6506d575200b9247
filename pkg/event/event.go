// Package event provides the minimal event object and listener registry a fake
// request dispatches through. Dispatch is synchronous and runs listeners in
// registration order.
package event

const (
	TypeLoadStart        = "loadstart"
	TypeProgress         = "progress"
	TypeLoad             = "load"
	TypeAbort            = "abort"
	TypeError            = "error"
	TypeTimeout          = "timeout"
	TypeLoadEnd          = "loadend"
	TypeReadyStateChange = "readystatechange"
)

// Event is a dispatched notification. The progress fields are only meaningful
// for progress-style events.
type Event struct {
	Type       string
	Bubbles    bool
	Cancelable bool
	Target     any

	LengthComputable bool
	Loaded           int64
	Total            int64

	defaultPrevented bool
}

// New builds an event that neither bubbles nor is cancelable.
func New(eventType string, target any) *Event {
	return &Event{Type: eventType, Target: target}
}

// NewProgress builds a progress-style event. LengthComputable is set when total is known.
func NewProgress(eventType string, target any, loaded int64, total int64) *Event {
	return &Event{
		Type:             eventType,
		Target:           target,
		LengthComputable: total > 0,
		Loaded:           loaded,
		Total:            total,
	}
}

func (e *Event) PreventDefault() {
	e.defaultPrevented = true
}

func (e *Event) DefaultPrevented() bool {
	return e.defaultPrevented
}

// StopPropagation exists for API compatibility; events never propagate.
func (e *Event) StopPropagation() {}
