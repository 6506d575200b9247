package fixture

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rohmanhakim/fake-xhr/pkg/metadata"
	"github.com/rohmanhakim/fake-xhr/pkg/router"
	"github.com/rohmanhakim/fake-xhr/pkg/urlutil"
	"github.com/tidwall/gjson"
)

/*
Installer turns fixture routes into routers on a registry.

Routes are grouped by host, and within a host by path. Each (host, path)
gets one handler that answers with the first route, in file order, whose
method, query and body matchers accept the request. When no route accepts
it the request stays open, exactly like a pathname with no handler.
*/
type Installer struct {
	registry     *router.Registry
	metadataSink metadata.MetadataSink
	options      []router.Option
}

func NewInstaller(registry *router.Registry, metadataSink metadata.MetadataSink, opts ...router.Option) *Installer {
	if metadataSink == nil {
		metadataSink = &metadata.NoopSink{}
	}
	return &Installer{
		registry:     registry,
		metadataSink: metadataSink,
		options:      opts,
	}
}

// compiled is a route with its response body rendered up front.
type compiled struct {
	route   Route
	status  int
	headers map[string]string
	body    string
}

// Install registers one router per host found in set, replacing routers
// already registered for those hosts. Routers are returned in order of
// first appearance of their host.
func (i *Installer) Install(set Set) ([]*router.Router, error) {
	var hosts []string
	byHost := make(map[string]map[string][]compiled)
	pathOrder := make(map[string][]string)

	for idx, route := range set.Routes {
		if err := validateRoute(route); err != nil {
			return nil, fmt.Errorf("route %d: %w", idx, err)
		}
		c, err := compile(route)
		if err != nil {
			return nil, fmt.Errorf("route %d: %w", idx, err)
		}
		host := i.hostKey(route.Host)
		paths, ok := byHost[host]
		if !ok {
			paths = make(map[string][]compiled)
			byHost[host] = paths
			hosts = append(hosts, host)
		}
		if _, seen := paths[route.Path]; !seen {
			pathOrder[host] = append(pathOrder[host], route.Path)
		}
		paths[route.Path] = append(paths[route.Path], c)
	}

	routers := make([]*router.Router, 0, len(hosts))
	for _, host := range hosts {
		r, err := router.New(i.registry, host, nil, i.options...)
		if err != nil {
			return nil, err
		}
		for _, path := range pathOrder[host] {
			r.On(path, i.handler(host, byHost[host][path]))
		}
		routers = append(routers, r)
	}
	return routers, nil
}

func (i *Installer) hostKey(host string) string {
	if host == "" {
		return i.registry.OriginHost()
	}
	return urlutil.NormalizeHost(host)
}

func (i *Installer) handler(host string, routes []compiled) router.Handler {
	return router.HandlerFunc(func(req router.Request) {
		for _, c := range routes {
			if !c.route.matches(req) {
				continue
			}
			// Errors are recorded by the request itself.
			_ = req.XHR.Respond(c.status, c.headers, c.body)
			return
		}
		i.metadataSink.RecordError(
			time.Now(),
			"fixture",
			"Installer.handler",
			metadata.CauseUnroutable,
			fmt.Sprintf("no fixture route matched %s %s", req.Method, req.URL),
			[]metadata.Attribute{
				metadata.NewAttr(metadata.AttrHost, host),
				metadata.NewAttr(metadata.AttrPath, req.Pathname),
				metadata.NewAttr(metadata.AttrMethod, req.Method),
			},
		)
	})
}

func compile(route Route) (compiled, error) {
	headers := make(map[string]string, len(route.Response.Headers)+1)
	for k, v := range route.Response.Headers {
		headers[k] = v
	}
	body := route.Response.Body
	if route.Response.JSON != nil {
		encoded, err := json.Marshal(route.Response.JSON)
		if err != nil {
			return compiled{}, fmt.Errorf("%w: response json: %s", ErrInvalidRoute, err.Error())
		}
		body = string(encoded)
		if !hasHeader(headers, "Content-Type") {
			headers["Content-Type"] = "application/json"
		}
	}
	return compiled{
		route:   route,
		status:  route.Response.Status,
		headers: headers,
		body:    body,
	}, nil
}

func (route Route) matches(req router.Request) bool {
	if route.Method != "" && !strings.EqualFold(route.Method, req.Method) {
		return false
	}
	for key, want := range route.Query {
		got, ok := req.Query.First(key)
		if !ok || got != want {
			return false
		}
	}
	if len(route.Body) == 0 {
		return true
	}
	body, ok := req.Body.(string)
	if !ok || !gjson.Valid(body) {
		return false
	}
	for path, want := range route.Body {
		result := gjson.Get(body, path)
		if !result.Exists() || result.String() != want {
			return false
		}
	}
	return true
}

func hasHeader(headers map[string]string, name string) bool {
	for k := range headers {
		if strings.EqualFold(k, name) {
			return true
		}
	}
	return false
}
