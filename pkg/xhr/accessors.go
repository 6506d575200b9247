package xhr

import (
	"github.com/antchfx/xmlquery"
	"github.com/rohmanhakim/fake-xhr/pkg/event"
)

func (r *Request) Method() string {
	return r.method
}

func (r *Request) URL() string {
	return r.url
}

func (r *Request) Async() bool {
	return r.async
}

func (r *Request) Username() string {
	return r.username
}

func (r *Request) Password() string {
	return r.password
}

func (r *Request) ForceMimeType() string {
	return r.forceMimeType
}

func (r *Request) ChunkSize() int {
	return r.chunkSize
}

func (r *Request) ReadyState() ReadyState {
	return r.readyState
}

func (r *Request) SendFlag() bool {
	return r.sendFlag
}

func (r *Request) ErrorFlag() bool {
	return r.errorFlag
}

func (r *Request) Aborted() bool {
	return r.aborted
}

// RequestHeaders returns a copy of the request headers.
func (r *Request) RequestHeaders() map[string]string {
	return copyHeaders(r.requestHeaders)
}

func (r *Request) RequestBody() any {
	return r.requestBody
}

func (r *Request) Status() int {
	return r.status
}

// StatusText returns the reason phrase for the status; false when the code has none.
func (r *Request) StatusText() (string, bool) {
	return r.statusText, r.statusText != ""
}

// ResponseHeaders returns a copy of all response headers, cookies included.
func (r *Request) ResponseHeaders() map[string]string {
	return copyHeaders(r.responseHeaders)
}

func (r *Request) ResponseText() string {
	return r.responseText
}

// Response mirrors ResponseText.
func (r *Request) Response() string {
	return r.responseText
}

// ResponseXML is the parsed response, or nil when the text is not XML.
func (r *Request) ResponseXML() *xmlquery.Node {
	return r.responseXML
}

func (r *Request) ResponseURL() string {
	return r.responseURL
}

// Upload is the independent listener target for upload progress events.
func (r *Request) Upload() *event.Target {
	return r.upload
}
