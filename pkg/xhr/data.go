package xhr

import (
	"github.com/rohmanhakim/fake-xhr/pkg/metadata"
)

type ReadyState int

const (
	Unsent ReadyState = iota
	Opened
	HeadersReceived
	Loading
	Done
)

func (s ReadyState) String() string {
	switch s {
	case Unsent:
		return "UNSENT"
	case Opened:
		return "OPENED"
	case HeadersReceived:
		return "HEADERS_RECEIVED"
	case Loading:
		return "LOADING"
	case Done:
		return "DONE"
	default:
		return "UNKNOWN"
	}
}

const DefaultChunkSize = 10

// Dispatcher receives every sent request. It runs synchronously inside Send
// and may drive the request to completion before Send returns.
type Dispatcher interface {
	Dispatch(r *Request)
}

// DispatcherFunc adapts a function to a Dispatcher.
type DispatcherFunc func(r *Request)

func (f DispatcherFunc) Dispatch(r *Request) {
	f(r)
}

type Config struct {
	// Dispatcher may be nil, in which case sent requests are left for the
	// caller to answer.
	Dispatcher   Dispatcher
	MetadataSink metadata.MetadataSink
	// ChunkSize is the number of characters appended per LOADING step.
	// Zero or negative means DefaultChunkSize.
	ChunkSize int
}

type OpenParam struct {
	method   string
	url      string
	async    bool
	username string
	password string
}

func NewOpenParam(method string, url string) OpenParam {
	return OpenParam{
		method: method,
		url:    url,
		async:  true,
	}
}

func (p OpenParam) WithAsync(async bool) OpenParam {
	p.async = async
	return p
}

func (p OpenParam) WithCredentials(username string, password string) OpenParam {
	p.username = username
	p.password = password
	return p
}

func (p OpenParam) Method() string {
	return p.method
}

func (p OpenParam) URL() string {
	return p.url
}

func (p OpenParam) Async() bool {
	return p.async
}
