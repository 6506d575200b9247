// Package emitter is a small synchronous, kind-keyed event bus. Handlers
// subscribed under the wildcard kind "*" receive every emission after the
// handlers registered for the specific kind.
package emitter

import (
	"reflect"
	"sync"
)

const Wildcard = "*"

type Handler[T any] interface {
	Handle(kind string, payload T)
}

// Func adapts a function to a Handler. Each call returns a distinct handler,
// so the returned value must be kept to unsubscribe it later.
func Func[T any](fn func(kind string, payload T)) Handler[T] {
	return &funcHandler[T]{fn: fn}
}

type funcHandler[T any] struct {
	fn func(kind string, payload T)
}

func (h *funcHandler[T]) Handle(kind string, payload T) {
	h.fn(kind, payload)
}

type Emitter[T any] struct {
	mu       sync.RWMutex
	handlers map[string][]Handler[T]
}

func New[T any]() *Emitter[T] {
	return &Emitter[T]{handlers: make(map[string][]Handler[T])}
}

func (e *Emitter[T]) On(kind string, h Handler[T]) {
	if h == nil {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.handlers[kind] = append(e.handlers[kind], h)
}

// Off removes the first subscription of h under kind. Unknown handlers are ignored.
func (e *Emitter[T]) Off(kind string, h Handler[T]) {
	e.mu.Lock()
	defer e.mu.Unlock()
	list := e.handlers[kind]
	for i, existing := range list {
		if sameHandler(existing, h) {
			list = append(list[:i:i], list[i+1:]...)
			break
		}
	}
	if len(list) == 0 {
		delete(e.handlers, kind)
		return
	}
	e.handlers[kind] = list
}

// Emit runs the handlers for kind, then the wildcard handlers, and reports how
// many ran. Subscriptions changed by a handler take effect on the next Emit.
func (e *Emitter[T]) Emit(kind string, payload T) int {
	e.mu.RLock()
	specific := append([]Handler[T](nil), e.handlers[kind]...)
	var wildcard []Handler[T]
	if kind != Wildcard {
		wildcard = append(wildcard, e.handlers[Wildcard]...)
	}
	e.mu.RUnlock()

	for _, h := range specific {
		h.Handle(kind, payload)
	}
	for _, h := range wildcard {
		h.Handle(kind, payload)
	}
	return len(specific) + len(wildcard)
}

func (e *Emitter[T]) Count(kind string) int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.handlers[kind])
}

// sameHandler reports whether a and b are the same handler. Func, map and slice
// values cannot be compared with ==; they match when they share a type and
// the same underlying pointer.
func sameHandler(a, b any) bool {
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
