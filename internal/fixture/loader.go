package fixture

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// Load reads and validates a YAML fixture file from fs.
func Load(fs afero.Fs, path string) (Set, error) {
	content, err := readFile(fs, path)
	if err != nil {
		return Set{}, err
	}
	set, err := Parse(content)
	if err != nil {
		return Set{}, fmt.Errorf("%s: %w", path, err)
	}
	return set, nil
}

// LoadAll loads every file in order and concatenates their routes.
func LoadAll(fs afero.Fs, paths []string) (Set, error) {
	merged := Set{}
	for _, path := range paths {
		set, err := Load(fs, path)
		if err != nil {
			return Set{}, err
		}
		merged.Routes = append(merged.Routes, set.Routes...)
	}
	return merged, nil
}

func Parse(content []byte) (Set, error) {
	set := Set{}
	if err := yaml.Unmarshal(content, &set); err != nil {
		return Set{}, fmt.Errorf("%w: %s", ErrFixtureParsingFail, err.Error())
	}
	for i, route := range set.Routes {
		if err := validateRoute(route); err != nil {
			return Set{}, fmt.Errorf("route %d: %w", i, err)
		}
		path, err := escapePath(route.Path)
		if err != nil {
			return Set{}, fmt.Errorf("route %d: %w", i, err)
		}
		set.Routes[i].Path = path
	}
	return set, nil
}

func LoadScript(fs afero.Fs, path string) (Script, error) {
	content, err := readFile(fs, path)
	if err != nil {
		return Script{}, err
	}
	script, err := ParseScript(content)
	if err != nil {
		return Script{}, fmt.Errorf("%s: %w", path, err)
	}
	return script, nil
}

func ParseScript(content []byte) (Script, error) {
	script := Script{}
	if err := yaml.Unmarshal(content, &script); err != nil {
		return Script{}, fmt.Errorf("%w: %s", ErrFixtureParsingFail, err.Error())
	}
	for i, step := range script.Steps {
		if strings.TrimSpace(step.Method) == "" {
			return Script{}, fmt.Errorf("step %d: %w: method is required", i, ErrInvalidStep)
		}
		if strings.TrimSpace(step.URL) == "" {
			return Script{}, fmt.Errorf("step %d: %w: url is required", i, ErrInvalidStep)
		}
	}
	return script, nil
}

func readFile(fs afero.Fs, path string) ([]byte, error) {
	if _, err := fs.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrFileDoesNotExist, err.Error())
	}
	content, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrReadFixtureFail, err.Error())
	}
	return content, nil
}

func validateRoute(route Route) error {
	if route.Path == "" {
		return fmt.Errorf("%w: path is required", ErrInvalidRoute)
	}
	if route.Path != "*" && !strings.HasPrefix(route.Path, "/") {
		return fmt.Errorf("%w: path %q must start with '/' or be '*'", ErrInvalidRoute, route.Path)
	}
	if route.Response.Status < 0 || route.Response.Status > 999 {
		return fmt.Errorf("%w: status %d out of range", ErrInvalidRoute, route.Response.Status)
	}
	return nil
}

// escapePath brings a fixture path to the escaped form requests are emitted
// under. Paths that are already escaped are kept as written.
func escapePath(path string) (string, error) {
	if path == "*" {
		return path, nil
	}
	decoded, err := url.PathUnescape(path)
	if err != nil {
		return "", fmt.Errorf("%w: path %q: %s", ErrInvalidRoute, path, err.Error())
	}
	u := url.URL{Path: decoded, RawPath: path}
	return u.EscapedPath(), nil
}
