package fixture_test

import (
	"errors"
	"testing"

	"github.com/rohmanhakim/fake-xhr/internal/fixture"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const usersFixture = `
routes:
  - host: api.example.com
    path: /users
    method: GET
    query:
      page: "2"
    response:
      status: 200
      headers:
        Content-Type: application/json
      body: '[{"id":3}]'
  - host: api.example.com
    path: /users
    method: POST
    body:
      user.name: alice
    response:
      status: 201
      json:
        id: 7
        roles: [admin]
`

func TestLoad(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/fixtures/users.yaml", []byte(usersFixture), 0644))

	set, err := fixture.Load(fs, "/fixtures/users.yaml")
	require.NoError(t, err)
	require.Len(t, set.Routes, 2)

	get := set.Routes[0]
	assert.Equal(t, "api.example.com", get.Host)
	assert.Equal(t, "/users", get.Path)
	assert.Equal(t, "GET", get.Method)
	assert.Equal(t, map[string]string{"page": "2"}, get.Query)
	assert.Equal(t, 200, get.Response.Status)
	assert.Equal(t, `[{"id":3}]`, get.Response.Body)

	post := set.Routes[1]
	assert.Equal(t, map[string]string{"user.name": "alice"}, post.Body)
	assert.NotNil(t, post.Response.JSON)
}

func TestLoad_Errors(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/bad.yaml", []byte("routes: [::"), 0644))
	require.NoError(t, afero.WriteFile(fs, "/nopath.yaml", []byte("routes:\n  - host: a.test\n"), 0644))
	require.NoError(t, afero.WriteFile(fs, "/relative.yaml", []byte("routes:\n  - path: users\n"), 0644))
	require.NoError(t, afero.WriteFile(fs, "/status.yaml", []byte("routes:\n  - path: /x\n    response: {status: 1000}\n"), 0644))
	require.NoError(t, afero.WriteFile(fs, "/escape.yaml", []byte("routes:\n  - path: /x%zz\n"), 0644))

	tests := []struct {
		name string
		path string
		want error
	}{
		{"missing file", "/missing.yaml", fixture.ErrFileDoesNotExist},
		{"malformed yaml", "/bad.yaml", fixture.ErrFixtureParsingFail},
		{"route without path", "/nopath.yaml", fixture.ErrInvalidRoute},
		{"relative path", "/relative.yaml", fixture.ErrInvalidRoute},
		{"status out of range", "/status.yaml", fixture.ErrInvalidRoute},
		{"malformed escape", "/escape.yaml", fixture.ErrInvalidRoute},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := fixture.Load(fs, tt.path)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestParse_EscapesPaths(t *testing.T) {
	set, err := fixture.Parse([]byte(`
routes:
  - path: /café
  - path: /a b
  - path: /already%20escaped
  - path: "*"
`))
	require.NoError(t, err)

	var paths []string
	for _, route := range set.Routes {
		paths = append(paths, route.Path)
	}
	assert.Equal(t, []string{"/caf%C3%A9", "/a%20b", "/already%20escaped", "*"}, paths)
}

func TestLoadAll_ConcatenatesInOrder(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/a.yaml", []byte("routes:\n  - path: /a\n"), 0644))
	require.NoError(t, afero.WriteFile(fs, "/b.yaml", []byte("routes:\n  - path: /b\n  - path: /c\n"), 0644))

	set, err := fixture.LoadAll(fs, []string{"/a.yaml", "/b.yaml"})
	require.NoError(t, err)

	var paths []string
	for _, route := range set.Routes {
		paths = append(paths, route.Path)
	}
	assert.Equal(t, []string{"/a", "/b", "/c"}, paths)
}

func TestParseScript(t *testing.T) {
	script, err := fixture.ParseScript([]byte(`
steps:
  - method: GET
    url: /users?page=2
  - method: POST
    url: http://api.example.com/users
    headers: {Content-Type: application/json}
    body: '{"user":{"name":"alice"}}'
    sync: true
`))
	require.NoError(t, err)
	require.Len(t, script.Steps, 2)

	assert.Nil(t, script.Steps[0].Body)
	assert.False(t, script.Steps[0].Sync)
	require.NotNil(t, script.Steps[1].Body)
	assert.Equal(t, `{"user":{"name":"alice"}}`, *script.Steps[1].Body)
	assert.True(t, script.Steps[1].Sync)
	assert.Equal(t, "application/json", script.Steps[1].Headers["Content-Type"])
}

func TestParseScript_RequiresMethodAndURL(t *testing.T) {
	_, err := fixture.ParseScript([]byte("steps:\n  - url: /x\n"))
	assert.ErrorIs(t, err, fixture.ErrInvalidStep)

	_, err = fixture.ParseScript([]byte("steps:\n  - method: GET\n"))
	assert.ErrorIs(t, err, fixture.ErrInvalidStep)
}
