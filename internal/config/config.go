package config

import (
	"encoding/json"
	"fmt"
	"unicode/utf8"

	"github.com/rohmanhakim/fake-xhr/pkg/hashutil"
	"github.com/rohmanhakim/fake-xhr/pkg/querystring"
	"github.com/rohmanhakim/fake-xhr/pkg/urlutil"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

type Config struct {
	//===============
	//  Page
	//===============
	// Origin of the simulated page. Relative request URLs resolve against it
	// and a router created without a host answers for its host.
	origin string

	//===============
	// Request
	//===============
	// Number of characters appended per LOADING step of an async response body
	chunkSize int

	//===============
	// Routing
	//===============
	// How routers parse the query string handed to handlers
	arrayFormat          querystring.ArrayFormat
	arrayFormatSeparator string
	parseNumbers         bool
	parseBooleans        bool
	// Whether routers answer a pathname nobody subscribed to with a 404
	// instead of leaving the request open
	respondUnmatched bool
	// Fixture files installed as routers on startup
	fixtures []string

	//===============
	// Observability
	//===============
	// Algorithm digesting request bodies in the call journal
	hashAlgo hashutil.HashAlgo
	// Minimum level of the metadata logger, in logrus level names
	logLevel string
}

type configDTO struct {
	Origin               string   `json:"origin,omitempty"`
	ChunkSize            int      `json:"chunkSize,omitempty"`
	ArrayFormat          string   `json:"arrayFormat,omitempty"`
	ArrayFormatSeparator string   `json:"arrayFormatSeparator,omitempty"`
	ParseNumbers         bool     `json:"parseNumbers,omitempty"`
	ParseBooleans        bool     `json:"parseBooleans,omitempty"`
	RespondUnmatched     bool     `json:"respondUnmatched,omitempty"`
	Fixtures             []string `json:"fixtures,omitempty"`
	HashAlgo             string   `json:"hashAlgo,omitempty"`
	LogLevel             string   `json:"logLevel,omitempty"`
}

func newConfigFromDTO(dto configDTO) (Config, error) {
	builder := WithDefault()

	// Only override if a non-zero value is provided
	if dto.Origin != "" {
		builder.origin = dto.Origin
	}
	if dto.ChunkSize != 0 {
		builder.chunkSize = dto.ChunkSize
	}
	if dto.ArrayFormat != "" {
		builder.arrayFormat = querystring.ArrayFormat(dto.ArrayFormat)
	}
	if dto.ArrayFormatSeparator != "" {
		builder.arrayFormatSeparator = dto.ArrayFormatSeparator
	}
	if dto.HashAlgo != "" {
		builder.hashAlgo = hashutil.HashAlgo(dto.HashAlgo)
	}
	if dto.LogLevel != "" {
		builder.logLevel = dto.LogLevel
	}
	// Booleans are used as-is since their zero value is the default
	builder.parseNumbers = dto.ParseNumbers
	builder.parseBooleans = dto.ParseBooleans
	builder.respondUnmatched = dto.RespondUnmatched
	builder.fixtures = dto.Fixtures

	return builder.Build()
}

// WithConfigFile loads a JSON config file from fs. Keys missing from the
// file keep their defaults.
func WithConfigFile(fs afero.Fs, path string) (Config, error) {
	_, err := fs.Stat(path)
	if err != nil {
		return Config{}, fmt.Errorf("%w: %s", ErrFileDoesNotExist, err.Error())
	}
	configContent, err := afero.ReadFile(fs, path)
	if err != nil {
		return Config{}, fmt.Errorf("%w: %s", ErrReadConfigFail, err.Error())
	}
	cfgDTO := configDTO{}

	err = json.Unmarshal(configContent, &cfgDTO)
	if err != nil {
		return Config{}, fmt.Errorf("%w: %s", ErrConfigParsingFail, err.Error())
	}

	return newConfigFromDTO(cfgDTO)
}

// WithDefault creates a new Config builder holding the default value of every field.
func WithDefault() *Config {
	defaultConfig := Config{
		origin:               urlutil.DefaultOrigin,
		chunkSize:            10,
		arrayFormat:          querystring.ArrayFormatNone,
		arrayFormatSeparator: querystring.DefaultArrayFormatSeparator,
		parseNumbers:         false,
		parseBooleans:        false,
		respondUnmatched:     false,
		fixtures:             []string{},
		hashAlgo:             hashutil.HashAlgoBLAKE3,
		logLevel:             logrus.InfoLevel.String(),
	}
	return &defaultConfig
}

func (c *Config) WithOrigin(origin string) *Config {
	c.origin = origin
	return c
}

func (c *Config) WithChunkSize(size int) *Config {
	c.chunkSize = size
	return c
}

func (c *Config) WithArrayFormat(format querystring.ArrayFormat) *Config {
	c.arrayFormat = format
	return c
}

func (c *Config) WithArrayFormatSeparator(separator string) *Config {
	c.arrayFormatSeparator = separator
	return c
}

func (c *Config) WithParseNumbers(parse bool) *Config {
	c.parseNumbers = parse
	return c
}

func (c *Config) WithParseBooleans(parse bool) *Config {
	c.parseBooleans = parse
	return c
}

func (c *Config) WithRespondUnmatched(respond bool) *Config {
	c.respondUnmatched = respond
	return c
}

func (c *Config) WithFixtures(paths []string) *Config {
	c.fixtures = paths
	return c
}

func (c *Config) WithHashAlgo(algo hashutil.HashAlgo) *Config {
	c.hashAlgo = algo
	return c
}

func (c *Config) WithLogLevel(level string) *Config {
	c.logLevel = level
	return c
}

// Build validates the builder and returns the finished Config. Names are
// normalized on the way: array format and hash algorithm to their canonical
// form, the origin to scheme and host only.
func (c *Config) Build() (Config, error) {
	origin, err := urlutil.ParseOrigin(c.origin)
	if err != nil {
		return Config{}, fmt.Errorf("%w: %s", ErrInvalidConfig, err.Error())
	}
	if c.chunkSize <= 0 {
		return Config{}, fmt.Errorf("%w: chunkSize must be positive, got %d", ErrInvalidConfig, c.chunkSize)
	}
	format, err := querystring.ParseArrayFormat(string(c.arrayFormat))
	if err != nil {
		return Config{}, fmt.Errorf("%w: %s", ErrInvalidConfig, err.Error())
	}
	if utf8.RuneCountInString(c.arrayFormatSeparator) != 1 {
		return Config{}, fmt.Errorf("%w: arrayFormatSeparator must be a single character, got %q", ErrInvalidConfig, c.arrayFormatSeparator)
	}
	algo, err := hashutil.ParseHashAlgo(string(c.hashAlgo))
	if err != nil {
		return Config{}, fmt.Errorf("%w: %s", ErrInvalidConfig, err.Error())
	}
	level, err := logrus.ParseLevel(c.logLevel)
	if err != nil {
		return Config{}, fmt.Errorf("%w: %s", ErrInvalidConfig, err.Error())
	}

	c.origin = origin.String()
	c.arrayFormat = format
	c.hashAlgo = algo
	c.logLevel = level.String()
	if c.fixtures == nil {
		c.fixtures = []string{}
	}
	return *c, nil
}

func (c Config) Origin() string {
	return c.origin
}

func (c Config) ChunkSize() int {
	return c.chunkSize
}

func (c Config) ArrayFormat() querystring.ArrayFormat {
	return c.arrayFormat
}

func (c Config) ArrayFormatSeparator() string {
	return c.arrayFormatSeparator
}

func (c Config) ParseNumbers() bool {
	return c.parseNumbers
}

func (c Config) ParseBooleans() bool {
	return c.parseBooleans
}

func (c Config) RespondUnmatched() bool {
	return c.respondUnmatched
}

func (c Config) Fixtures() []string {
	paths := make([]string, len(c.fixtures))
	copy(paths, c.fixtures)
	return paths
}

func (c Config) HashAlgo() hashutil.HashAlgo {
	return c.hashAlgo
}

// LogLevel is the parsed metadata log level. Build guarantees it parses.
func (c Config) LogLevel() logrus.Level {
	level, err := logrus.ParseLevel(c.logLevel)
	if err != nil {
		return logrus.InfoLevel
	}
	return level
}

// QueryOptions is the query parsing configuration routers are created with.
func (c Config) QueryOptions() querystring.ParseOptions {
	return querystring.ParseOptions{
		ArrayFormat:          c.arrayFormat,
		ArrayFormatSeparator: c.arrayFormatSeparator,
		ParseNumbers:         c.parseNumbers,
		ParseBooleans:        c.parseBooleans,
	}
}
