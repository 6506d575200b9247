package harness

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rohmanhakim/fake-xhr/internal/config"
	"github.com/rohmanhakim/fake-xhr/internal/fixture"
	"github.com/rohmanhakim/fake-xhr/pkg/hashutil"
	"github.com/rohmanhakim/fake-xhr/pkg/metadata"
	"github.com/rohmanhakim/fake-xhr/pkg/router"
	"github.com/rohmanhakim/fake-xhr/pkg/transport"
	"github.com/rohmanhakim/fake-xhr/pkg/xhr"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

/*
Harness is a ready-to-use fake network built from a Config.

Responsibilities

- Build the logrus logger and the metadata Recorder every component reports to
- Create the Registry for the configured page origin
- Install the configured fixture files as routers
- Hand out fake requests, routers and an *http.Client bound to the registry

Routers created through the harness share the configured query parsing and
unmatched-pathname behavior.
*/
type Harness struct {
	config    config.Config
	logger    *logrus.Logger
	recorder  *metadata.Recorder
	registry  *router.Registry
	routers   []*router.Router
	sessionId string
}

// New builds a harness. Fixture files named by cfg are read from fs and
// metadata is logged to out at cfg's log level.
func New(cfg config.Config, fs afero.Fs, out io.Writer) (*Harness, error) {
	logger := &logrus.Logger{
		Out:       out,
		Formatter: new(logrus.TextFormatter),
		Hooks:     make(logrus.LevelHooks),
		Level:     cfg.LogLevel(),
	}
	return NewWithLogger(cfg, fs, logger)
}

// NewWithLogger is New with a caller-supplied logger, e.g. one with test hooks.
func NewWithLogger(cfg config.Config, fs afero.Fs, logger *logrus.Logger) (*Harness, error) {
	sessionId, err := newSessionId()
	if err != nil {
		return nil, err
	}
	recorder := metadata.NewRecorder(logger, sessionId)

	registry, err := router.NewRegistry(router.RegistryConfig{
		Origin:       cfg.Origin(),
		MetadataSink: recorder,
		HashAlgo:     cfg.HashAlgo(),
	})
	if err != nil {
		return nil, err
	}

	h := &Harness{
		config:    cfg,
		logger:    logger,
		recorder:  recorder,
		registry:  registry,
		sessionId: sessionId,
	}

	set, err := fixture.LoadAll(fs, cfg.Fixtures())
	if err != nil {
		return nil, err
	}
	routers, err := fixture.NewInstaller(registry, recorder, h.routerOptions()...).Install(set)
	if err != nil {
		return nil, err
	}
	h.routers = routers
	logger.WithFields(logrus.Fields{
		"session": sessionId,
		"origin":  cfg.Origin(),
		"routes":  len(set.Routes),
		"hosts":   len(routers),
	}).Debug("harness ready")
	return h, nil
}

func (h *Harness) routerOptions() []router.Option {
	opts := []router.Option{router.WithQueryOptions(h.config.QueryOptions())}
	if h.config.RespondUnmatched() {
		opts = append(opts, router.WithNotFoundFallback())
	}
	return opts
}

func (h *Harness) Config() config.Config {
	return h.config
}

func (h *Harness) Logger() *logrus.Logger {
	return h.logger
}

func (h *Harness) MetadataSink() metadata.MetadataSink {
	return h.recorder
}

func (h *Harness) Registry() *router.Registry {
	return h.registry
}

func (h *Harness) SessionId() string {
	return h.sessionId
}

// Routers lists the routers installed from fixture files.
func (h *Harness) Routers() []*router.Router {
	return append([]*router.Router(nil), h.routers...)
}

// NewRequest creates a fake request with the configured chunk size.
func (h *Harness) NewRequest() *xhr.Request {
	return h.registry.NewRequest(h.config.ChunkSize())
}

// Router registers a router for host with the harness' routing options.
// An empty host means the page origin's host.
func (h *Harness) Router(host string, routerConfig any) (*router.Router, error) {
	return router.New(h.registry, host, routerConfig, h.routerOptions()...)
}

// Client returns an *http.Client whose requests are answered by the registry.
func (h *Harness) Client() *http.Client {
	return transport.New(
		h.registry,
		transport.WithChunkSize(h.config.ChunkSize()),
		transport.WithMetadataSink(h.recorder),
	).Client()
}

// Close resets the registry, dropping every router, the journal and the
// pending list.
func (h *Harness) Close() {
	h.registry.Reset()
	h.routers = nil
}

func newSessionId() (string, error) {
	seed := fmt.Sprintf("fake-xhr-%d", time.Now().UnixNano())
	digest, err := hashutil.HashBytes([]byte(seed), hashutil.HashAlgoBLAKE3)
	if err != nil {
		return "", err
	}
	return digest[:12], nil
}
