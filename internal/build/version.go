package build

import "fmt"

// Stamped at link time, e.g.
//
//	go build -ldflags "-X github.com/rohmanhakim/fake-xhr/internal/build.Version=1.2.0" ./cmd/fakexhr
var (
	Version   = "dev"
	Commit    = "none"
	BuildTime = "unknown"
)

// FullVersion returns the version string with commit hash appended.
// Format: "Version+Commit" (e.g., "1.0.0+abc123")
func FullVersion() string {
	return Version + "+" + Commit
}

// Summary is the one-line banner printed by the version command.
func Summary(program string) string {
	return fmt.Sprintf("%s %s (built %s)", program, FullVersion(), BuildTime)
}
