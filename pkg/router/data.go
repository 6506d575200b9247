package router

import (
	"github.com/rohmanhakim/fake-xhr/pkg/hashutil"
	"github.com/rohmanhakim/fake-xhr/pkg/metadata"
	"github.com/rohmanhakim/fake-xhr/pkg/querystring"
	"github.com/rohmanhakim/fake-xhr/pkg/xhr"
)

// Wildcard is the host and pathname that match anything not matched otherwise.
const Wildcard = "*"

// DispatchFunc receives a sent request for a registered host and reports
// whether something handled it.
type DispatchFunc func(r *xhr.Request) bool

type RegistryConfig struct {
	// Origin is the page origin relative request URLs resolve against.
	// Empty means http://localhost.
	Origin       string
	MetadataSink metadata.MetadataSink
	// HashAlgo digests request bodies for the call journal. Empty means blake3.
	HashAlgo hashutil.HashAlgo
}

// Call is one journal entry, written for every dispatched request.
type Call struct {
	Method   string
	URL      string
	Host     string
	Pathname string
	// Matched is set when a registry entry (host or wildcard) took the request.
	Matched bool
	// Handled is set when the entry reported that a handler ran.
	Handled    bool
	BodyDigest string
}

// Request is what a handler receives for a dispatched request. XHR is the
// live request; handlers drive it with Respond or Abort.
type Request struct {
	URL      string
	Method   string
	Pathname string
	Body     any
	Query    querystring.Values
	XHR      *xhr.Request
}

// Cleaner is satisfied by *testing.T and *testing.B.
type Cleaner interface {
	Cleanup(func())
}
