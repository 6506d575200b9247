package router

import (
	"net/url"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/rohmanhakim/fake-xhr/pkg/hashutil"
	"github.com/rohmanhakim/fake-xhr/pkg/metadata"
	"github.com/rohmanhakim/fake-xhr/pkg/urlutil"
	"github.com/rohmanhakim/fake-xhr/pkg/xhr"
)

/*
Registry maps hosts to dispatch functions and routes every sent request.

Lookup order for a sent request:
  - the canonical host of its resolved URL (port kept unless it is the scheme default)
  - the bare hostname
  - the wildcard "*"

A request no entry takes is answered with an empty 404. Registering a host
again replaces the previous entry. Entries persist until Unregister, Reset
or a Scope cleanup; nothing is removed implicitly.

Registry is safe for concurrent use. Dispatch functions run without the
registry lock held, on the goroutine that called Send.
*/
type Registry struct {
	mu           sync.RWMutex
	origin       url.URL
	metadataSink metadata.MetadataSink
	hashAlgo     hashutil.HashAlgo
	entries      map[string]*entry
	calls        []Call
	dispatched   []*xhr.Request
	// generation changes on Reset so late updates to a dropped journal are discarded.
	generation int
}

type entry struct {
	dispatch DispatchFunc
}

func NewRegistry(cfg RegistryConfig) (*Registry, error) {
	origin, err := urlutil.ParseOrigin(cfg.Origin)
	if err != nil {
		return nil, &RouteError{Message: err.Error(), Cause: ErrCauseInvalidOrigin, Err: err}
	}
	hashAlgo, err := hashutil.ParseHashAlgo(string(cfg.HashAlgo))
	if err != nil {
		return nil, err
	}
	sink := cfg.MetadataSink
	if sink == nil {
		sink = &metadata.NoopSink{}
	}
	return &Registry{
		origin:       origin,
		metadataSink: sink,
		hashAlgo:     hashAlgo,
		entries:      make(map[string]*entry),
	}, nil
}

// Origin is the page origin relative URLs resolve against.
func (r *Registry) Origin() url.URL {
	return r.origin
}

// OriginHost is the canonical host of the page origin.
func (r *Registry) OriginHost() string {
	return urlutil.HostKey(r.origin)
}

// Register installs fn for host, replacing any previous entry.
func (r *Registry) Register(host string, fn DispatchFunc) {
	r.register(host, fn)
}

func (r *Registry) register(host string, fn DispatchFunc) *entry {
	e := &entry{dispatch: fn}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[urlutil.NormalizeHost(host)] = e
	return e
}

func (r *Registry) Unregister(host string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, urlutil.NormalizeHost(host))
}

// release removes the entry for host only if it is still e.
func (r *Registry) release(host string, e *entry) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := urlutil.NormalizeHost(host)
	if r.entries[key] != e {
		return false
	}
	delete(r.entries, key)
	return true
}

func (r *Registry) Lookup(host string) (DispatchFunc, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[urlutil.NormalizeHost(host)]
	if !ok {
		return nil, false
	}
	return e.dispatch, true
}

// Hosts lists the registered hosts in sorted order.
func (r *Registry) Hosts() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	hosts := make([]string, 0, len(r.entries))
	for host := range r.entries {
		hosts = append(hosts, host)
	}
	sort.Strings(hosts)
	return hosts
}

// Reset drops every entry, the call journal and the pending list.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = make(map[string]*entry)
	r.calls = nil
	r.dispatched = nil
	r.generation++
}

// Scope resets the registry when the test (or benchmark) finishes.
func (r *Registry) Scope(tb Cleaner) *Registry {
	tb.Cleanup(r.Reset)
	return r
}

// Calls returns a copy of the call journal in dispatch order.
func (r *Registry) Calls() []Call {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]Call(nil), r.calls...)
}

// Pending lists dispatched requests that are neither done nor aborted.
func (r *Registry) Pending() []*xhr.Request {
	r.mu.RLock()
	dispatched := append([]*xhr.Request(nil), r.dispatched...)
	r.mu.RUnlock()

	var pending []*xhr.Request
	for _, req := range dispatched {
		if req.ReadyState() != xhr.Done && !req.Aborted() {
			pending = append(pending, req)
		}
	}
	return pending
}

// NewRequest creates a fake request that dispatches through this registry.
func (r *Registry) NewRequest(chunkSize int) *xhr.Request {
	return xhr.New(xhr.Config{
		Dispatcher:   r,
		MetadataSink: r.metadataSink,
		ChunkSize:    chunkSize,
	})
}

// Dispatch routes a sent request. It implements xhr.Dispatcher.
func (r *Registry) Dispatch(req *xhr.Request) {
	callerMethod := "Registry.Dispatch"
	call := Call{Method: req.Method(), URL: req.URL()}
	if digest, err := hashutil.DigestBody(req.RequestBody(), r.hashAlgo); err == nil {
		call.BodyDigest = digest
	}

	target, err := urlutil.Resolve(r.origin, req.URL())
	if err != nil {
		routeErr := &RouteError{Message: err.Error(), Cause: ErrCauseInvalidURL, Err: err}
		r.metadataSink.RecordError(
			time.Now(),
			"router",
			callerMethod,
			mapRouteErrorToMetadataCause(routeErr),
			routeErr.Error(),
			[]metadata.Attribute{metadata.NewAttr(metadata.AttrURL, req.URL())},
		)
		r.record(call, req)
		r.notFound(req)
		return
	}

	call.Host = urlutil.HostKey(target)
	call.Pathname = pathname(target)
	dispatch := r.match(call.Host)
	call.Matched = dispatch != nil

	r.metadataSink.RecordDispatch(call.Host, call.Pathname, call.Method, call.Matched)

	if dispatch == nil {
		r.record(call, req)
		r.notFound(req)
		return
	}

	index, generation := r.record(call, req)
	handled := dispatch(req)
	r.mu.Lock()
	if generation == r.generation {
		r.calls[index].Handled = handled
	}
	r.mu.Unlock()
}

func (r *Registry) match(hostKey string) DispatchFunc {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, key := range []string{hostKey, urlutil.Hostname(hostKey), Wildcard} {
		if e, ok := r.entries[key]; ok {
			return e.dispatch
		}
	}
	return nil
}

func (r *Registry) record(call Call, req *xhr.Request) (int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, call)
	if !slices.Contains(r.dispatched, req) {
		r.dispatched = append(r.dispatched, req)
	}
	return len(r.calls) - 1, r.generation
}

func (r *Registry) notFound(req *xhr.Request) {
	if err := req.Respond(404, map[string]string{}, ""); err != nil {
		r.metadataSink.RecordError(
			time.Now(),
			"router",
			"Registry.notFound",
			metadata.CauseSequencing,
			err.Error(),
			[]metadata.Attribute{metadata.NewAttr(metadata.AttrURL, req.URL())},
		)
	}
}

// pathname mirrors the pathname of a browser URL: escaped, never empty.
func pathname(u url.URL) string {
	path := u.EscapedPath()
	if path == "" {
		return "/"
	}
	return path
}
