package cmd_test

import (
	"bytes"
	"errors"
	"testing"

	cmd "github.com/rohmanhakim/fake-xhr/internal/cli"
	"github.com/rohmanhakim/fake-xhr/internal/config"
	"github.com/rohmanhakim/fake-xhr/pkg/hashutil"
	"github.com/rohmanhakim/fake-xhr/pkg/querystring"
	"github.com/rohmanhakim/fake-xhr/pkg/xhr"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const routesFixture = `
routes:
  - path: /health
    response: {body: ok}
  - host: api.test
    path: /users
    method: POST
    body: {name: alice}
    response:
      status: 201
      json: {id: 1}
`

func newFs(t *testing.T) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/fx/routes.yaml", []byte(routesFixture), 0644))
	cmd.SetFsForTest(fs)
	t.Cleanup(func() {
		cmd.SetFsForTest(afero.NewOsFs())
		cmd.ResetFlags()
	})
	return fs
}

// execute runs the command tree with args and returns what it wrote to stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd.ResetFlags()
	root := cmd.RootCommand()
	out := new(bytes.Buffer)
	root.SetOut(out)
	root.SetErr(new(bytes.Buffer))
	root.SetArgs(append([]string{"--no-color"}, args...))
	err := root.Execute()
	return out.String(), err
}

func TestInitConfigNoFlags(t *testing.T) {
	cmd.ResetFlags()

	cfg, err := cmd.InitConfigWithError()
	require.NoError(t, err)

	defaultCfg, err := config.WithDefault().Build()
	require.NoError(t, err)
	assert.Equal(t, defaultCfg, cfg)
}

func TestInitConfigWithFlags(t *testing.T) {
	cmd.ResetFlags()
	cmd.SetOriginForTest("https://app.test")
	cmd.SetChunkSizeForTest(3)
	cmd.SetArrayFormatForTest("index")
	cmd.SetParseNumbersForTest(true)
	cmd.SetRespondUnmatchedForTest(true)
	cmd.SetFixturesForTest([]string{"a.yaml"})
	cmd.SetHashAlgoForTest("sha256")
	cmd.SetLogLevelForTest("debug")
	t.Cleanup(cmd.ResetFlags)

	cfg, err := cmd.InitConfigWithError()
	require.NoError(t, err)

	assert.Equal(t, "https://app.test", cfg.Origin())
	assert.Equal(t, 3, cfg.ChunkSize())
	assert.Equal(t, querystring.ArrayFormatIndex, cfg.ArrayFormat())
	assert.True(t, cfg.ParseNumbers())
	assert.False(t, cfg.ParseBooleans())
	assert.True(t, cfg.RespondUnmatched())
	assert.Equal(t, []string{"a.yaml"}, cfg.Fixtures())
	assert.Equal(t, hashutil.HashAlgoSHA256, cfg.HashAlgo())
	assert.Equal(t, "debug", cfg.LogLevel().String())
}

func TestInitConfigWithInvalidFlag(t *testing.T) {
	cmd.ResetFlags()
	cmd.SetArrayFormatForTest("nested")
	t.Cleanup(cmd.ResetFlags)

	_, err := cmd.InitConfigWithError()

	assert.ErrorIs(t, err, config.ErrInvalidConfig)
}

func TestInitConfigFromFile(t *testing.T) {
	fs := newFs(t)
	require.NoError(t, afero.WriteFile(fs, "/cfg.json", []byte(`{"chunkSize": 2, "fixtures": ["/fx/routes.yaml"]}`), 0644))
	cmd.SetConfigFileForTest("/cfg.json")
	// Flags are ignored once a config file is given
	cmd.SetChunkSizeForTest(9)

	cfg, err := cmd.InitConfigWithError()
	require.NoError(t, err)

	assert.Equal(t, 2, cfg.ChunkSize())
	assert.Equal(t, []string{"/fx/routes.yaml"}, cfg.Fixtures())
}

func TestInitConfigFromMissingFile(t *testing.T) {
	newFs(t)
	cmd.SetConfigFileForTest("/missing.json")

	_, err := cmd.InitConfigWithError()

	assert.ErrorIs(t, err, config.ErrFileDoesNotExist)
}

func TestSend_AsyncTrace(t *testing.T) {
	newFs(t)

	out, err := execute(t, "--fixture", "/fx/routes.yaml", "send", "GET", "/health")
	require.NoError(t, err)

	assert.Contains(t, out, "GET /health (async)")
	assert.Contains(t, out, "-> OPENED\n  -> HEADERS_RECEIVED\n  -> LOADING\n  -> DONE\n")
	assert.Contains(t, out, "200 OK")
	assert.Contains(t, out, "\nok\n")
}

func TestSend_SyncWithBodyMatcher(t *testing.T) {
	newFs(t)

	out, err := execute(t, "--fixture", "/fx/routes.yaml",
		"send", "POST", "http://api.test/users",
		"--sync",
		"--body", `{"name":"alice"}`,
		"--header", "Content-Type: application/json")
	require.NoError(t, err)

	assert.Contains(t, out, "POST http://api.test/users (sync)")
	assert.NotContains(t, out, "->")
	assert.Contains(t, out, "201 Created")
	assert.Contains(t, out, "Content-Type: application/json")
	assert.Contains(t, out, `{"id":1}`)
}

func TestSend_Unanswered(t *testing.T) {
	newFs(t)

	out, err := execute(t, "--fixture", "/fx/routes.yaml", "send", "GET", "/missing")
	require.NoError(t, err)
	assert.Contains(t, out, "no response, request left OPENED")

	out, err = execute(t, "--fixture", "/fx/routes.yaml", "--respond-unmatched", "send", "GET", "/missing")
	require.NoError(t, err)
	assert.Contains(t, out, "404 Not Found")
}

func TestSend_ForbiddenHeader(t *testing.T) {
	newFs(t)

	out, err := execute(t, "send", "GET", "/health", "--header", "Cookie: a=1")

	require.Error(t, err)
	assert.True(t, errors.Is(err, &xhr.RequestError{Cause: xhr.ErrCauseForbiddenHeader}))
	assert.Contains(t, out, "error: ")
}

func TestSend_InvalidHeaderFlag(t *testing.T) {
	newFs(t)

	_, err := execute(t, "send", "GET", "/health", "--header", "no-colon")

	assert.ErrorContains(t, err, "invalid header")
}

func TestReplay(t *testing.T) {
	fs := newFs(t)
	require.NoError(t, afero.WriteFile(fs, "/script.yaml", []byte(`
steps:
  - method: GET
    url: /health
  - method: GET
    url: /missing
`), 0644))

	out, err := execute(t, "--fixture", "/fx/routes.yaml", "replay", "--script", "/script.yaml")

	assert.ErrorIs(t, err, cmd.ErrUnansweredSteps)
	assert.Contains(t, out, "GET /health (async)")
	assert.Contains(t, out, "GET /missing (async)")
	assert.Contains(t, out, "2 call(s)")
	assert.Contains(t, out, "matched=true handled=true")
}

func TestReplay_AllAnswered(t *testing.T) {
	fs := newFs(t)
	require.NoError(t, afero.WriteFile(fs, "/script.yaml", []byte(`
steps:
  - {method: GET, url: /health}
  - {method: POST, url: "http://api.test/users", body: '{"name":"alice"}', sync: true}
`), 0644))

	out, err := execute(t, "--fixture", "/fx/routes.yaml", "replay", "--script", "/script.yaml")

	require.NoError(t, err)
	assert.Contains(t, out, "201 Created")
	assert.Contains(t, out, "2 call(s)")
}

func TestReplay_RequiresScript(t *testing.T) {
	newFs(t)

	_, err := execute(t, "replay")

	assert.ErrorContains(t, err, "--script is required")
}

func TestQueryParse(t *testing.T) {
	newFs(t)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"repeated keys", []string{"query", "parse", "a=1&a=2&b"}, `{"a":["1","2"],"b":null}`},
		{"bracket numbers", []string{"--array-format", "bracket", "--parse-numbers", "query", "parse", "foo[]=1&foo[]=2"}, `{"foo":[1,2]}`},
		{"separator", []string{"--array-format", "separator", "--array-format-separator", "|", "query", "parse", "x=a|b"}, `{"x":["a","b"]}`},
		{"url with fragment", []string{"query", "parse", "--fragment", "https://x.test/p?b=2#frag%20ment"}, `{"fragmentIdentifier":"frag ment","query":{"b":"2"},"url":"https://x.test/p"}`},
		{"skip decode", []string{"query", "parse", "--skip-decode", "a=%20"}, `{"a":"%20"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, tt.args...)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, out)
		})
	}
}

func TestQueryStringify(t *testing.T) {
	newFs(t)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"sorted with repeats", []string{"query", "stringify", "b=2", "a=1", "a=3"}, "a=1&a=3&b=2\n"},
		{"null value", []string{"query", "stringify", "c", "a=1"}, "a=1&c\n"},
		{"skip null", []string{"query", "stringify", "--skip-null", "c", "a=1"}, "a=1\n"},
		{"skip empty string", []string{"query", "stringify", "--skip-empty-string", "c=", "a=1"}, "a=1\n"},
		{"comma format", []string{"--array-format", "comma", "query", "stringify", "a=1", "a=2"}, "a=1,2\n"},
		{"strict encoding", []string{"query", "stringify", "q=it's"}, "q=it%27s\n"},
		{"lax encoding", []string{"query", "stringify", "--lax", "q=it's"}, "q=it's\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestRoutes(t *testing.T) {
	newFs(t)

	out, err := execute(t, "--fixture", "/fx/routes.yaml", "routes")
	require.NoError(t, err)

	assert.Contains(t, out, "origin http://localhost")
	assert.Contains(t, out, "api.test\n  POST    /users")
	assert.Contains(t, out, "-> 201")
	assert.Contains(t, out, "localhost\n  *       /health -> 200")
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)

	assert.Contains(t, out, "fakexhr dev+none")
}
