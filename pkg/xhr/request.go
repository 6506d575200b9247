package xhr

import (
	"strings"
	"time"

	"github.com/antchfx/xmlquery"
	"github.com/rohmanhakim/fake-xhr/pkg/event"
	"github.com/rohmanhakim/fake-xhr/pkg/failure"
	"github.com/rohmanhakim/fake-xhr/pkg/metadata"
)

/*
Request is an in-memory stand-in for a browser XMLHttpRequest.

Lifecycle

	UNSENT -> OPENED -> HEADERS_RECEIVED -> LOADING (per chunk) -> DONE

Abort may reset an in-flight request to UNSENT. Every method runs to
completion before returning; there are no timers and no goroutines. A
request that is never answered stays OPENED.

A Request is not safe for concurrent use. Listeners and the dispatcher run
on the calling goroutine and may call back into the request.
*/
type Request struct {
	*event.Target

	upload       *event.Target
	dispatcher   Dispatcher
	metadataSink metadata.MetadataSink
	chunkSize    int

	method        string
	url           string
	async         bool
	username      string
	password      string
	forceMimeType string

	readyState ReadyState
	sendFlag   bool
	errorFlag  bool
	aborted    bool
	// sent is set by Send and cleared by Open and Abort. Unlike sendFlag it
	// is also set for synchronous requests.
	sent bool

	requestHeaders map[string]string
	requestBody    any

	status          int
	statusText      string
	responseHeaders map[string]string
	responseText    string
	responseXML     *xmlquery.Node
	responseURL     string

	onSend  func(r *Request)
	onError func()
}

var requestSlots = []string{
	event.TypeReadyStateChange,
	event.TypeLoadStart,
	event.TypeProgress,
	event.TypeLoad,
	event.TypeAbort,
	event.TypeLoadEnd,
}

var uploadSlots = []string{
	event.TypeLoadStart,
	event.TypeProgress,
	event.TypeLoad,
	event.TypeAbort,
	event.TypeLoadEnd,
}

func New(cfg Config) *Request {
	sink := cfg.MetadataSink
	if sink == nil {
		sink = &metadata.NoopSink{}
	}
	chunkSize := cfg.ChunkSize
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	return &Request{
		Target:         event.NewTarget(requestSlots...),
		upload:         event.NewTarget(uploadSlots...),
		dispatcher:     cfg.Dispatcher,
		metadataSink:   sink,
		chunkSize:      chunkSize,
		async:          true,
		requestHeaders: map[string]string{},
	}
}

// Open opens an asynchronous request without credentials.
func (r *Request) Open(method string, url string) {
	r.OpenWith(NewOpenParam(method, url))
}

func (r *Request) OpenWith(p OpenParam) {
	r.method = p.method
	r.url = p.url
	r.async = p.async
	r.username = p.username
	r.password = p.password

	r.responseText = ""
	r.responseXML = nil
	r.responseURL = p.url
	r.responseHeaders = nil
	r.status = 0
	r.statusText = ""
	r.requestHeaders = map[string]string{}
	r.requestBody = nil
	r.sendFlag = false
	r.sent = false
	r.aborted = false

	r.readyStateChange(Opened)
}

// SetRequestHeader adds a request header. Setting the same name again,
// in any case, appends the value separated by a comma.
func (r *Request) SetRequestHeader(name string, value string) failure.ClassifiedError {
	callerMethod := "Request.SetRequestHeader"
	if err := r.verifyState(callerMethod); err != nil {
		return err
	}

	if IsForbiddenHeader(name) {
		return r.fail(callerMethod, &RequestError{
			Message: "refused to set unsafe header \"" + name + "\"",
			Cause:   ErrCauseForbiddenHeader,
		}, metadata.NewAttr(metadata.AttrHeader, name))
	}

	if key, existing, ok := lookupHeader(r.requestHeaders, name); ok {
		r.requestHeaders[key] = existing + "," + value
		return nil
	}
	r.requestHeaders[name] = value
	return nil
}

// Send starts the request and hands it to the dispatcher. The body is kept
// only for methods other than GET and HEAD.
func (r *Request) Send(body any) failure.ClassifiedError {
	callerMethod := "Request.Send"
	if err := r.verifyState(callerMethod); err != nil {
		return err
	}

	if !strings.EqualFold(r.method, "GET") && !strings.EqualFold(r.method, "HEAD") {
		_, _, hasContentType := lookupHeader(r.requestHeaders, "Content-Type")
		if !hasContentType && !isFormData(body) {
			r.requestHeaders["Content-Type"] = "text/plain;charset=UTF-8"
		}
		r.requestBody = body
	}

	r.errorFlag = false
	r.sendFlag = r.async
	r.sent = true

	r.readyStateChange(Opened)

	if r.onSend != nil {
		r.onSend(r)
	}

	r.DispatchEvent(event.New(event.TypeLoadStart, r))

	if r.dispatcher != nil {
		r.dispatcher.Dispatch(r)
	}
	return nil
}

// Abort cancels the request. It is always allowed; the reset to UNSENT
// only happens when an asynchronous send is in flight.
func (r *Request) Abort() {
	r.aborted = true
	r.responseText = ""
	r.errorFlag = true
	r.requestHeaders = map[string]string{}
	r.sent = false

	r.DispatchEvent(event.New(event.TypeAbort, r))

	if r.readyState > Unsent && r.sendFlag {
		r.readyStateChange(Unsent)
		r.sendFlag = false
	}

	if r.onError != nil {
		r.onError()
	}
}

// OverrideMimeType forces the Content-Type reported for the response.
func (r *Request) OverrideMimeType(mime string) {
	r.forceMimeType = strings.ToLower(mime)
}

// SetOnSend installs the callback invoked by Send before loadstart. Nil clears it.
func (r *Request) SetOnSend(fn func(r *Request)) {
	r.onSend = fn
}

// SetOnError installs the callback invoked at the end of Abort. Nil clears it.
func (r *Request) SetOnError(fn func()) {
	r.onError = fn
}

// DownloadProgress dispatches a progress event on the request.
func (r *Request) DownloadProgress(loaded int64, total int64) bool {
	return r.DispatchEvent(event.NewProgress(event.TypeProgress, r, loaded, total))
}

// UploadProgress dispatches a progress event on the upload target.
func (r *Request) UploadProgress(loaded int64, total int64) bool {
	return r.upload.DispatchEvent(event.NewProgress(event.TypeProgress, r.upload, loaded, total))
}

func (r *Request) verifyState(callerMethod string) failure.ClassifiedError {
	if r.readyState != Opened || r.sendFlag || r.sent {
		return r.fail(callerMethod, &RequestError{
			Message: "request must be opened and not yet sent, ready state is " + r.readyState.String(),
			Cause:   ErrCauseInvalidState,
		}, metadata.NewAttr(metadata.AttrReadyState, r.readyState.String()))
	}
	return nil
}

// readyStateChange moves to state and fires the matching events.
func (r *Request) readyStateChange(state ReadyState) {
	r.setReadyState(state)

	r.DispatchEvent(event.New(event.TypeReadyStateChange, r))

	if state == Done {
		r.DispatchEvent(event.New(event.TypeLoad, r))
	}
	if state == Unsent || state == Done {
		r.DispatchEvent(event.New(event.TypeLoadEnd, r))
	}
}

// setReadyState moves to state without firing events, as a blocking request would.
func (r *Request) setReadyState(state ReadyState) {
	from := r.readyState
	r.readyState = state
	r.metadataSink.RecordTransition(r.url, int(from), int(state), r.async)
}

func (r *Request) fail(callerMethod string, err *RequestError, attrs ...metadata.Attribute) failure.ClassifiedError {
	attrs = append([]metadata.Attribute{metadata.NewAttr(metadata.AttrURL, r.url)}, attrs...)
	r.metadataSink.RecordError(
		time.Now(),
		"xhr",
		callerMethod,
		mapRequestErrorToMetadataCause(err),
		err.Error(),
		attrs,
	)
	return err
}
