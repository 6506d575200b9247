package xhr

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rohmanhakim/fake-xhr/pkg/document"
	"github.com/rohmanhakim/fake-xhr/pkg/failure"
	"github.com/rohmanhakim/fake-xhr/pkg/metadata"
	"github.com/rohmanhakim/fake-xhr/pkg/statustext"
)

/*
Respond answers the request in one call:

	xhr.Respond(404, map[string]string{"Content-Type": "text/plain"}, "Sorry. This object was not found.")

A zero status means 200 and a nil body means "". Headers are applied first,
then the body is streamed in chunks of ChunkSize characters. When the
request is asynchronous every phase fires readystatechange; a synchronous
request only has its fields updated.
*/
func (r *Request) Respond(status int, headers map[string]string, body any) failure.ClassifiedError {
	callerMethod := "Request.Respond"
	if err := r.verifyRespondable(callerMethod); err != nil {
		return err
	}
	if body == nil {
		body = ""
	}
	if _, ok := body.(string); !ok {
		return r.invalidBody(callerMethod, body)
	}

	if status == 0 {
		status = 200
	}
	r.status = status
	r.statusText, _ = statustext.Lookup(status)

	if err := r.SetResponseHeaders(headers); err != nil {
		return err
	}
	return r.SetResponseBody(body)
}

// SetResponseHeaders stores the response headers and moves to HEADERS_RECEIVED.
func (r *Request) SetResponseHeaders(headers map[string]string) failure.ClassifiedError {
	if err := r.verifyRespondable("Request.SetResponseHeaders"); err != nil {
		return err
	}

	r.responseHeaders = copyHeaders(headers)
	if r.forceMimeType != "" {
		if key, _, ok := lookupHeader(r.responseHeaders, "Content-Type"); ok {
			delete(r.responseHeaders, key)
		}
		r.responseHeaders["Content-Type"] = r.forceMimeType
	}

	if r.async {
		r.readyStateChange(HeadersReceived)
	} else {
		r.setReadyState(HeadersReceived)
	}
	return nil
}

// SetResponseBody streams body into the response text and completes the request.
func (r *Request) SetResponseBody(body any) failure.ClassifiedError {
	callerMethod := "Request.SetResponseBody"
	if r.readyState == Done {
		return r.fail(callerMethod, &RequestError{
			Message: "request done",
			Cause:   ErrCauseSequencing,
		})
	}
	if r.readyState != HeadersReceived {
		return r.fail(callerMethod, &RequestError{
			Message: "no headers received",
			Cause:   ErrCauseSequencing,
		}, metadata.NewAttr(metadata.AttrReadyState, r.readyState.String()))
	}
	text, ok := body.(string)
	if !ok {
		return r.invalidBody(callerMethod, body)
	}

	runes := []rune(text)
	r.responseText = ""
	for index := 0; ; index += r.chunkSize {
		if r.async {
			r.readyStateChange(Loading)
		}
		end := min(index+r.chunkSize, len(runes))
		r.responseText += string(runes[index:end])
		if end >= len(runes) {
			break
		}
	}

	contentType, _ := r.GetResponseHeader("Content-Type")
	if r.responseText != "" && document.IsXMLContentType(contentType) {
		if doc, err := document.ParseXML(r.responseText); err == nil {
			r.responseXML = doc
		}
	}

	if r.async {
		r.readyStateChange(Done)
	} else {
		r.setReadyState(Done)
	}
	return nil
}

// GetResponseHeader looks name up case-insensitively. Cookie headers are never exposed.
func (r *Request) GetResponseHeader(name string) (string, bool) {
	if r.readyState < HeadersReceived || isCookieHeader(name) {
		return "", false
	}
	_, value, ok := lookupHeader(r.responseHeaders, name)
	return value, ok
}

// GetAllResponseHeaders returns "name: value\r\n" lines sorted by name,
// without cookie headers.
func (r *Request) GetAllResponseHeaders() string {
	if r.readyState < HeadersReceived {
		return ""
	}
	var b strings.Builder
	for _, name := range sortedHeaderNames(r.responseHeaders) {
		if isCookieHeader(name) {
			continue
		}
		b.WriteString(name)
		b.WriteString(": ")
		b.WriteString(r.responseHeaders[name])
		b.WriteString("\r\n")
	}
	return b.String()
}

// ResponseHTML parses the response text as HTML.
func (r *Request) ResponseHTML() (*goquery.Document, error) {
	return document.ParseHTML(r.responseText)
}

func (r *Request) verifyRespondable(callerMethod string) failure.ClassifiedError {
	switch r.readyState {
	case Done:
		return r.fail(callerMethod, &RequestError{
			Message: "request done",
			Cause:   ErrCauseSequencing,
		})
	case Unsent:
		return r.fail(callerMethod, &RequestError{
			Message: "request not opened",
			Cause:   ErrCauseSequencing,
		})
	}
	if !r.sent {
		return r.fail(callerMethod, &RequestError{
			Message: "request not sent",
			Cause:   ErrCauseSequencing,
		})
	}
	return nil
}

func (r *Request) invalidBody(callerMethod string, body any) failure.ClassifiedError {
	return r.fail(callerMethod, &RequestError{
		Message: fmt.Sprintf("attempted to respond with %v (%T), which is not a string", body, body),
		Cause:   ErrCauseInvalidBody,
	})
}
