package router

import (
	"github.com/rohmanhakim/fake-xhr/pkg/emitter"
	"github.com/rohmanhakim/fake-xhr/pkg/querystring"
	"github.com/rohmanhakim/fake-xhr/pkg/urlutil"
	"github.com/rohmanhakim/fake-xhr/pkg/xhr"
)

// Handler receives requests emitted for a pathname. The kind passed to
// Handle is the pathname that was emitted.
type Handler = emitter.Handler[Request]

// HandlerFunc adapts fn to a Handler. Keep the returned value to pass it to Off.
func HandlerFunc(fn func(req Request)) Handler {
	return emitter.Func(func(_ string, req Request) {
		fn(req)
	})
}

// Router answers requests for one host. Handlers subscribe by exact
// pathname; the pathname "*" receives every request after the exact ones.
type Router struct {
	registry     *Registry
	host         string
	config       any
	emitter      *emitter.Emitter[Request]
	queryOptions querystring.ParseOptions
	notFound     bool
	registration *entry
}

type Option func(*Router)

// WithQueryOptions sets how the query string handed to handlers is parsed.
func WithQueryOptions(opts querystring.ParseOptions) Option {
	return func(r *Router) {
		r.queryOptions = opts
	}
}

// WithNotFoundFallback answers requests no handler subscribed to with an
// empty 404 instead of leaving them open.
func WithNotFoundFallback() Option {
	return func(r *Router) {
		r.notFound = true
	}
}

// New creates a router for host and registers it, replacing any router
// registered for the same host. An empty host means the page origin's host.
// config is kept for handlers and never interpreted.
func New(registry *Registry, host string, config any, opts ...Option) (*Router, error) {
	if host == "" {
		host = registry.OriginHost()
	}
	r := &Router{
		registry: registry,
		host:     urlutil.NormalizeHost(host),
		config:   config,
		emitter:  emitter.New[Request](),
	}
	for _, opt := range opts {
		opt(r)
	}
	if _, err := querystring.Parse("", r.queryOptions); err != nil {
		return nil, &RouteError{Message: err.Error(), Cause: ErrCauseInvalidOptions, Err: err}
	}
	r.registration = registry.register(r.host, r.dispatch)
	return r, nil
}

func (r *Router) Host() string {
	return r.host
}

func (r *Router) Config() any {
	return r.config
}

func (r *Router) On(pathname string, h Handler) {
	r.emitter.On(pathname, h)
}

// Off removes the first subscription of h for pathname.
func (r *Router) Off(pathname string, h Handler) {
	r.emitter.Off(pathname, h)
}

// Emit hands req to the handlers of its pathname and returns how many ran.
func (r *Router) Emit(req *xhr.Request) (int, error) {
	target, err := urlutil.Resolve(r.registry.Origin(), req.URL())
	if err != nil {
		return 0, &RouteError{Message: err.Error(), Cause: ErrCauseInvalidURL, Err: err}
	}
	query, err := querystring.Parse(target.RawQuery, r.queryOptions)
	if err != nil {
		return 0, &RouteError{Message: err.Error(), Cause: ErrCauseInvalidOptions, Err: err}
	}
	path := pathname(target)
	return r.emitter.Emit(path, Request{
		URL:      req.URL(),
		Method:   req.Method(),
		Pathname: path,
		Body:     req.RequestBody(),
		Query:    query,
		XHR:      req,
	}), nil
}

// Close removes the router from the registry unless another router has
// since taken its host.
func (r *Router) Close() bool {
	return r.registry.release(r.host, r.registration)
}

func (r *Router) dispatch(req *xhr.Request) bool {
	count, err := r.Emit(req)
	if err == nil && count > 0 {
		return true
	}
	if r.notFound {
		r.registry.notFound(req)
	}
	return false
}
