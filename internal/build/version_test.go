package build_test

import (
	"testing"

	"github.com/rohmanhakim/fake-xhr/internal/build"
	"github.com/stretchr/testify/assert"
)

func stamp(t *testing.T, version, commit, buildTime string) {
	t.Helper()
	prevVersion, prevCommit, prevBuildTime := build.Version, build.Commit, build.BuildTime
	t.Cleanup(func() {
		build.Version, build.Commit, build.BuildTime = prevVersion, prevCommit, prevBuildTime
	})
	build.Version, build.Commit, build.BuildTime = version, commit, buildTime
}

func TestFullVersion(t *testing.T) {
	tests := []struct {
		name    string
		version string
		commit  string
		want    string
	}{
		{"default values", "dev", "none", "dev+none"},
		{"version with commit", "1.0.0", "abc123", "1.0.0+abc123"},
		{"empty version with commit", "", "abc123", "+abc123"},
		{"version with empty commit", "1.0.0", "", "1.0.0+"},
		{"semver with long commit hash", "2.1.0-beta", "89dece58db957dbc4a9d03962b0411d05f9e37a5", "2.1.0-beta+89dece58db957dbc4a9d03962b0411d05f9e37a5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stamp(t, tt.version, tt.commit, "unknown")
			assert.Equal(t, tt.want, build.FullVersion())
		})
	}
}

func TestSummary(t *testing.T) {
	stamp(t, "0.3.1", "f00d", "2026-01-02T03:04:05Z")

	assert.Equal(t, "fakexhr 0.3.1+f00d (built 2026-01-02T03:04:05Z)", build.Summary("fakexhr"))
}
