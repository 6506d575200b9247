package event

import (
	"reflect"
	"sync"
)

// Listener receives dispatched events.
type Listener interface {
	HandleEvent(e *Event)
}

type listenerFunc struct {
	fn func(e *Event)
}

func (l *listenerFunc) HandleEvent(e *Event) {
	l.fn(e)
}

// ListenerFunc adapts fn to a Listener. Each call yields a distinct listener;
// keep the returned value to remove it later.
func ListenerFunc(fn func(e *Event)) Listener {
	return &listenerFunc{fn: fn}
}

// Target holds ordered listener lists per event type. A legacy handler slot
// (the on<type> property) is an always-registered subscriber whose callback
// may be swapped or cleared; it occupies the position it was declared at.
type Target struct {
	mu        sync.Mutex
	listeners map[string][]Listener
	slots     map[string]*slot
}

type slot struct {
	mu sync.Mutex
	fn func(e *Event)
}

func (s *slot) HandleEvent(e *Event) {
	s.mu.Lock()
	fn := s.fn
	s.mu.Unlock()
	if fn != nil {
		fn(e)
	}
}

// NewTarget creates a target with a handler slot for each given event type.
func NewTarget(slotTypes ...string) *Target {
	t := &Target{
		listeners: make(map[string][]Listener),
		slots:     make(map[string]*slot, len(slotTypes)),
	}
	for _, eventType := range slotTypes {
		s := &slot{}
		t.slots[eventType] = s
		t.listeners[eventType] = append(t.listeners[eventType], s)
	}
	return t
}

// AddEventListener appends l. Adding the same listener twice makes it fire twice.
func (t *Target) AddEventListener(eventType string, l Listener) {
	if l == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.listeners[eventType] = append(t.listeners[eventType], l)
}

// RemoveEventListener removes the first occurrence of l.
func (t *Target) RemoveEventListener(eventType string, l Listener) {
	t.mu.Lock()
	defer t.mu.Unlock()
	list := t.listeners[eventType]
	for i, existing := range list {
		if sameListener(existing, l) {
			t.listeners[eventType] = append(list[:i:i], list[i+1:]...)
			return
		}
	}
}

// DispatchEvent runs the listeners registered for e.Type, in order, and
// reports whether one of them prevented the default action.
func (t *Target) DispatchEvent(e *Event) bool {
	t.mu.Lock()
	list := append([]Listener(nil), t.listeners[e.Type]...)
	t.mu.Unlock()

	for _, l := range list {
		l.HandleEvent(e)
	}
	return e.DefaultPrevented()
}

// SetHandler fills the legacy slot for eventType; nil clears it. It returns
// false when the target has no slot for that type.
func (t *Target) SetHandler(eventType string, fn func(e *Event)) bool {
	t.mu.Lock()
	s, ok := t.slots[eventType]
	t.mu.Unlock()
	if !ok {
		return false
	}
	s.mu.Lock()
	s.fn = fn
	s.mu.Unlock()
	return true
}

func (t *Target) ListenerCount(eventType string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	count := 0
	for _, l := range t.listeners[eventType] {
		if _, isSlot := l.(*slot); !isSlot {
			count++
		}
	}
	return count
}

// sameListener reports whether a and b are the same listener. Func, map and slice
// values cannot be compared with ==; they match when they share a type and
// the same underlying pointer.
func sameListener(a, b Listener) bool {
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb {
		return false
	}
	if ta == nil {
		return true
	}
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if va.Comparable() && vb.Comparable() {
		return a == b
	}
	switch va.Kind() {
	case reflect.Func, reflect.Map, reflect.Slice:
		return va.Pointer() == vb.Pointer()
	default:
		return false
	}
}
