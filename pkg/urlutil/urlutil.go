package urlutil

import (
	"fmt"
	"net"
	"net/url"
	"strings"

	"golang.org/x/net/idna"
)

// DefaultOrigin stands in for the page origin when none is configured.
const DefaultOrigin = "http://localhost"

// Resolve turns a request URL into an absolute URL. Absolute http(s) URLs are
// used as-is; anything else is resolved against the page origin, the way a
// browser resolves a relative request path.
func Resolve(origin url.URL, raw string) (url.URL, error) {
	ref, err := url.Parse(raw)
	if err != nil {
		return url.URL{}, fmt.Errorf("invalid request url %q: %w", raw, err)
	}
	if ref.IsAbs() && ref.Host != "" {
		return *ref, nil
	}
	if origin.Scheme == "" || origin.Host == "" {
		return url.URL{}, fmt.Errorf("cannot resolve %q: origin %q is not absolute", raw, origin.String())
	}
	return *origin.ResolveReference(ref), nil
}

// ParseOrigin parses a page origin. Path, query and fragment are dropped.
func ParseOrigin(raw string) (url.URL, error) {
	if raw == "" {
		raw = DefaultOrigin
	}
	u, err := url.Parse(raw)
	if err != nil {
		return url.URL{}, fmt.Errorf("invalid origin %q: %w", raw, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return url.URL{}, fmt.Errorf("origin %q must be an absolute url", raw)
	}
	return url.URL{Scheme: lowerASCII(u.Scheme), Host: u.Host}, nil
}

// HostKey is the lookup key for a resolved request URL: the normalized host
// with the scheme's default port omitted (e.g., :80 for http, :443 for https).
func HostKey(u url.URL) string {
	host := u.Host
	if hostname, port := u.Hostname(), u.Port(); port != "" {
		scheme := lowerASCII(u.Scheme)
		if (scheme == "http" && port == "80") || (scheme == "https" && port == "443") {
			host = hostname
			if strings.Contains(hostname, ":") {
				host = "[" + hostname + "]"
			}
		}
	}
	return NormalizeHost(host)
}

// NormalizeHost lowercases a host[:port] string and converts internationalized
// names to their ASCII (punycode) form. The wildcard "*" passes through.
func NormalizeHost(host string) string {
	if host == "" || host == "*" {
		return host
	}
	name, port, err := net.SplitHostPort(host)
	if err != nil {
		name, port = host, ""
	}
	if !strings.HasPrefix(name, "[") && !strings.Contains(name, ":") {
		if ascii, err := idna.Lookup.ToASCII(name); err == nil {
			name = ascii
		}
	}
	name = lowerASCII(name)
	if port == "" {
		return name
	}
	return net.JoinHostPort(strings.Trim(name, "[]"), port)
}

// Hostname strips the port from a normalized host key.
func Hostname(hostKey string) string {
	name, _, err := net.SplitHostPort(hostKey)
	if err != nil {
		return hostKey
	}
	if strings.Contains(name, ":") {
		return "[" + name + "]"
	}
	return name
}

// lowerASCII converts ASCII characters to lowercase without allocating.
// This is faster than strings.ToLower for ASCII-only strings.
func lowerASCII(s string) string {
	var needsLower bool
	for i := 0; i < len(s); i++ {
		if s[i] >= 'A' && s[i] <= 'Z' {
			needsLower = true
			break
		}
	}
	if !needsLower {
		return s
	}
	b := make([]byte, len(s))
	copy(b, s)
	for i := 0; i < len(b); i++ {
		if b[i] >= 'A' && b[i] <= 'Z' {
			b[i] += 'a' - 'A'
		}
	}
	return string(b)
}
