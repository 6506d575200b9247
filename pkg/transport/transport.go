package transport

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/rohmanhakim/fake-xhr/pkg/metadata"
	"github.com/rohmanhakim/fake-xhr/pkg/router"
	"github.com/rohmanhakim/fake-xhr/pkg/xhr"
)

/*
Responsibilities

- Turn an outgoing *http.Request into a fake request
- Route it through a Registry
- Turn the finished fake request into an *http.Response

Nothing leaves the process. Headers a browser would refuse to set (Host,
User-Agent, Accept-Encoding, ...) are dropped instead of failing the call.
A request no handler answers fails with ErrNoResponse and is aborted so it
does not stay pending.
*/
type Transport struct {
	registry     *router.Registry
	metadataSink metadata.MetadataSink
	chunkSize    int
}

type Option func(*Transport)

func WithChunkSize(chunkSize int) Option {
	return func(t *Transport) {
		t.chunkSize = chunkSize
	}
}

func WithMetadataSink(sink metadata.MetadataSink) Option {
	return func(t *Transport) {
		t.metadataSink = sink
	}
}

func New(registry *router.Registry, opts ...Option) *Transport {
	t := &Transport{
		registry:     registry,
		metadataSink: &metadata.NoopSink{},
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Client returns an *http.Client that uses this transport.
func (t *Transport) Client() *http.Client {
	return &http.Client{Transport: t}
}

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	callerMethod := "Transport.RoundTrip"
	if err := req.Context().Err(); err != nil {
		return nil, err
	}

	body, err := readBody(req)
	if err != nil {
		return nil, t.fail(callerMethod, req, &TransportError{
			Message: err.Error(),
			Cause:   ErrCauseReadBody,
			Err:     err,
		})
	}

	fake := t.registry.NewRequest(t.chunkSize)
	fake.Open(req.Method, req.URL.String())
	for _, name := range sortedHeaderNames(req.Header) {
		if xhr.IsForbiddenHeader(name) {
			continue
		}
		for _, value := range req.Header.Values(name) {
			if err := fake.SetRequestHeader(name, value); err != nil {
				return nil, t.fail(callerMethod, req, &TransportError{Message: err.Error(), Cause: ErrCauseRejected, Err: err})
			}
		}
	}

	if err := fake.Send(body); err != nil {
		return nil, t.fail(callerMethod, req, &TransportError{Message: err.Error(), Cause: ErrCauseRejected, Err: err})
	}

	if err := req.Context().Err(); err != nil {
		fake.Abort()
		return nil, err
	}
	if fake.Aborted() {
		return nil, t.fail(callerMethod, req, &TransportError{Message: req.URL.String(), Cause: ErrCauseAborted})
	}
	if fake.ReadyState() != xhr.Done {
		fake.Abort()
		return nil, t.fail(callerMethod, req, &TransportError{
			Message:   req.Method + " " + req.URL.String(),
			Retryable: true,
			Cause:     ErrCauseNoResponse,
		})
	}

	return buildResponse(req, fake), nil
}

func (t *Transport) fail(callerMethod string, req *http.Request, err *TransportError) error {
	t.metadataSink.RecordError(
		time.Now(),
		"transport",
		callerMethod,
		mapTransportErrorToMetadataCause(err),
		err.Error(),
		[]metadata.Attribute{
			metadata.NewAttr(metadata.AttrURL, req.URL.String()),
			metadata.NewAttr(metadata.AttrMethod, req.Method),
		},
	)
	return err
}

// readBody returns the request body as text, or nil when there is none.
func readBody(req *http.Request) (any, error) {
	if req.Body == nil || req.Body == http.NoBody {
		return nil, nil
	}
	defer req.Body.Close()
	data, err := io.ReadAll(req.Body)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func buildResponse(req *http.Request, fake *xhr.Request) *http.Response {
	header := make(http.Header)
	for name, value := range fake.ResponseHeaders() {
		header.Add(name, value)
	}

	text := fake.ResponseText()
	status := fake.Status()
	statusText, ok := fake.StatusText()
	if !ok {
		statusText = http.StatusText(status)
	}

	return &http.Response{
		Status:        strings.TrimSpace(fmt.Sprintf("%d %s", status, statusText)),
		StatusCode:    status,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        header,
		Body:          io.NopCloser(strings.NewReader(text)),
		ContentLength: int64(len(text)),
		Request:       req,
	}
}

func sortedHeaderNames(header http.Header) []string {
	names := make([]string, 0, len(header))
	for name := range header {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsNoResponse reports whether err means no handler answered.
func IsNoResponse(err error) bool {
	return errors.Is(err, ErrNoResponse)
}
