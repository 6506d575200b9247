package querystring

import (
	"fmt"
	"math"
	"math/big"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

const upperHex = "0123456789ABCDEF"

// encodeComponent percent-encodes every byte outside the unreserved set.
// The lax set additionally keeps !'()*.
func encodeComponent(s string, lax bool) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isUnreserved(c) || (lax && strings.IndexByte("!'()*", c) >= 0) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(upperHex[c>>4])
		b.WriteByte(upperHex[c&15])
	}
	return b.String()
}

func isUnreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	case c == '-', c == '_', c == '.', c == '~':
		return true
	}
	return false
}

var encodedRun = regexp.MustCompile(`(?i)(%[0-9a-f]{2})+`)

// decodeComponent turns "+" into a space and percent-decodes s. Malformed
// escapes and bytes that do not form UTF-8 are kept as written, except for
// byte order marks and a dangling %C2 which become U+FFFD.
func decodeComponent(s string) string {
	s = strings.ReplaceAll(s, "+", " ")
	if decoded, err := url.PathUnescape(s); err == nil && utf8.ValidString(decoded) {
		return decoded
	}
	return encodedRun.ReplaceAllStringFunc(s, decodeRun)
}

// decodeRun decodes a run of %XX escapes rune by rune.
func decodeRun(run string) string {
	tokens := make([]string, 0, len(run)/3)
	raw := make([]byte, 0, len(run)/3)
	for i := 0; i+2 < len(run); i += 3 {
		tokens = append(tokens, run[i:i+3])
		n, _ := strconv.ParseUint(run[i+1:i+3], 16, 8)
		raw = append(raw, byte(n))
	}

	var b strings.Builder
	for i := 0; i < len(raw); {
		if i+1 < len(raw) && ((raw[i] == 0xFE && raw[i+1] == 0xFF) || (raw[i] == 0xFF && raw[i+1] == 0xFE)) {
			b.WriteString("\uFFFD\uFFFD")
			i += 2
			continue
		}
		r, size := utf8.DecodeRune(raw[i:])
		if r == utf8.RuneError && size <= 1 {
			if raw[i] == 0xC2 {
				b.WriteRune(utf8.RuneError)
			} else {
				b.WriteString(tokens[i])
			}
			i++
			continue
		}
		b.WriteRune(r)
		i += size
	}
	return b.String()
}

var decimalLiteral = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?$`)

// parseNumber converts s the way a JavaScript Number() call would, reporting
// false for NaN. Blank input is not a number here.
func parseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	switch s {
	case "Infinity", "+Infinity":
		return math.Inf(1), true
	case "-Infinity":
		return math.Inf(-1), true
	}
	if len(s) > 2 && s[0] == '0' {
		base := 0
		switch s[1] {
		case 'x', 'X':
			base = 16
		case 'o', 'O':
			base = 8
		case 'b', 'B':
			base = 2
		}
		if base != 0 {
			n, ok := new(big.Int).SetString(s[2:], base)
			if !ok || strings.Contains(s, "_") {
				return 0, false
			}
			f, _ := new(big.Float).SetInt(n).Float64()
			return f, true
		}
	}
	if !decimalLiteral.MatchString(s) {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil && !isRangeError(err) {
		return 0, false
	}
	return f, true
}

func isRangeError(err error) bool {
	numErr, ok := err.(*strconv.NumError)
	return ok && numErr.Err == strconv.ErrRange
}

// formatNumber writes f the way JavaScript converts a number to a string.
func formatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		return "0"
	}
	abs := math.Abs(f)
	if abs >= 1e21 || abs < 1e-6 {
		s := strconv.FormatFloat(f, 'e', -1, 64)
		mantissa, exponent, _ := strings.Cut(s, "e")
		sign := exponent[0]
		digits := strings.TrimLeft(exponent[1:], "0")
		return mantissa + "e" + string(sign) + digits
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func formatScalar(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case float64:
		return formatNumber(v)
	case float32:
		return formatNumber(float64(v))
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case bool:
		return strconv.FormatBool(v)
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}
