package xhr

import (
	"sort"
	"strings"

	"github.com/rohmanhakim/fake-xhr/pkg/collection"
)

// Header names a real request object refuses to set, compared lowercased.
var unsafeHeaders = collection.NewSet(
	"accept-charset",
	"accept-encoding",
	"connection",
	"content-length",
	"cookie",
	"cookie2",
	"content-transfer-encoding",
	"date",
	"expect",
	"host",
	"keep-alive",
	"referer",
	"te",
	"trailer",
	"transfer-encoding",
	"upgrade",
	"user-agent",
	"via",
)

var reservedHeaderPrefixes = []string{"sec-", "proxy-"}

// IsForbiddenHeader reports whether name may not be set on a request.
func IsForbiddenHeader(name string) bool {
	lower := strings.ToLower(name)
	if unsafeHeaders.Contains(lower) {
		return true
	}
	for _, prefix := range reservedHeaderPrefixes {
		if strings.HasPrefix(lower, prefix) {
			return true
		}
	}
	return false
}

func isCookieHeader(name string) bool {
	lower := strings.ToLower(name)
	return lower == "set-cookie" || lower == "set-cookie2"
}

// lookupHeader returns the stored spelling of name and its value.
func lookupHeader(headers map[string]string, name string) (string, string, bool) {
	if value, ok := headers[name]; ok {
		return name, value, true
	}
	for key, value := range headers {
		if strings.EqualFold(key, name) {
			return key, value, true
		}
	}
	return "", "", false
}

func sortedHeaderNames(headers map[string]string) []string {
	names := make([]string, 0, len(headers))
	for name := range headers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func copyHeaders(headers map[string]string) map[string]string {
	out := make(map[string]string, len(headers))
	for name, value := range headers {
		out[name] = value
	}
	return out
}
