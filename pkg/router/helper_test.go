package router_test

import (
	"testing"

	"github.com/rohmanhakim/fake-xhr/pkg/router"
	"github.com/rohmanhakim/fake-xhr/pkg/xhr"
	"github.com/stretchr/testify/require"
)

func newRegistry(t *testing.T) *router.Registry {
	t.Helper()
	reg, err := router.NewRegistry(router.RegistryConfig{})
	require.NoError(t, err)
	return reg.Scope(t)
}

func newRouter(t *testing.T, reg *router.Registry, host string, opts ...router.Option) *router.Router {
	t.Helper()
	r, err := router.New(reg, host, nil, opts...)
	require.NoError(t, err)
	return r
}

func send(t *testing.T, reg *router.Registry, method string, url string, body any) *xhr.Request {
	t.Helper()
	req := reg.NewRequest(0)
	req.Open(method, url)
	require.NoError(t, req.Send(body))
	return req
}

// fakeCleaner collects cleanup functions the way *testing.T does.
type fakeCleaner struct {
	cleanups []func()
}

func (f *fakeCleaner) Cleanup(fn func()) {
	f.cleanups = append(f.cleanups, fn)
}

func (f *fakeCleaner) run() {
	for i := len(f.cleanups) - 1; i >= 0; i-- {
		f.cleanups[i]()
	}
}
