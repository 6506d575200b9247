package xhr_test

import (
	"testing"
	"time"

	"github.com/rohmanhakim/fake-xhr/pkg/event"
	"github.com/rohmanhakim/fake-xhr/pkg/metadata"
	"github.com/rohmanhakim/fake-xhr/pkg/xhr"
	"github.com/stretchr/testify/mock"
)

// metadataSinkMock is a testify mock for metadata.MetadataSink
type metadataSinkMock struct {
	mock.Mock
}

func newMetadataSinkMock(t *testing.T) *metadataSinkMock {
	t.Helper()
	m := new(metadataSinkMock)
	m.On("RecordTransition", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return()
	m.On("RecordDispatch", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return()
	m.On("RecordError", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return()
	return m
}

func (m *metadataSinkMock) RecordError(
	observedAt time.Time,
	packageName string,
	action string,
	cause metadata.ErrorCause,
	details string,
	attrs []metadata.Attribute,
) {
	m.Called(observedAt, packageName, action, cause, details, attrs)
}

func (m *metadataSinkMock) RecordTransition(url string, from int, to int, async bool) {
	m.Called(url, from, to, async)
}

func (m *metadataSinkMock) RecordDispatch(host string, pathname string, method string, matched bool) {
	m.Called(host, pathname, method, matched)
}

// stateRecorder captures ready states seen by readystatechange listeners and
// the order of every event fired on a request.
type stateRecorder struct {
	states []xhr.ReadyState
	events []string
}

func recordEvents(r *xhr.Request) *stateRecorder {
	rec := &stateRecorder{}
	for _, eventType := range []string{
		event.TypeReadyStateChange,
		event.TypeLoadStart,
		event.TypeProgress,
		event.TypeLoad,
		event.TypeAbort,
		event.TypeLoadEnd,
	} {
		r.AddEventListener(eventType, event.ListenerFunc(func(e *event.Event) {
			rec.events = append(rec.events, e.Type)
			if e.Type == event.TypeReadyStateChange {
				rec.states = append(rec.states, r.ReadyState())
			}
		}))
	}
	return rec
}

func (s *stateRecorder) count(state xhr.ReadyState) int {
	n := 0
	for _, seen := range s.states {
		if seen == state {
			n++
		}
	}
	return n
}

func newOpenedRequest(t *testing.T, method string, url string) *xhr.Request {
	t.Helper()
	r := xhr.New(xhr.Config{})
	r.Open(method, url)
	return r
}

func newSentRequest(t *testing.T, method string, url string) *xhr.Request {
	t.Helper()
	r := newOpenedRequest(t, method, url)
	if err := r.Send(nil); err != nil {
		t.Fatalf("send: %v", err)
	}
	return r
}
