// Package querystring parses and stringifies URL query strings.
//
// Parsed values are held in a Values map whose entries are one of:
//
//	string   a decoded value
//	nil      a key that appeared without "="
//	float64  a value coerced by ParseNumbers
//	bool     a value coerced by ParseBooleans
//	[]any    repeated or array-encoded values
//
// Arrays are read and written according to an ArrayFormat.
package querystring

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"
)

var (
	ErrInvalidSeparator   = errors.New("arrayFormatSeparator must be single character string")
	ErrUnknownArrayFormat = errors.New("unknown array format")
)

type ArrayFormat string

const (
	// ArrayFormatNone repeats the key: a=1&a=2
	ArrayFormatNone ArrayFormat = "none"
	// ArrayFormatBracket suffixes the key with brackets: a[]=1&a[]=2
	ArrayFormatBracket ArrayFormat = "bracket"
	// ArrayFormatIndex suffixes the key with the element index: a[0]=1&a[1]=2
	ArrayFormatIndex ArrayFormat = "index"
	// ArrayFormatComma joins the elements with a comma: a=1,2
	ArrayFormatComma ArrayFormat = "comma"
	// ArrayFormatSeparator joins the elements with ArrayFormatSeparator: a=1|2
	ArrayFormatSeparator ArrayFormat = "separator"
)

const DefaultArrayFormatSeparator = ","

// ParseArrayFormat resolves a format name. The empty name means ArrayFormatNone.
func ParseArrayFormat(name string) (ArrayFormat, error) {
	switch format := ArrayFormat(strings.ToLower(strings.TrimSpace(name))); format {
	case "":
		return ArrayFormatNone, nil
	case ArrayFormatNone, ArrayFormatBracket, ArrayFormatIndex, ArrayFormatComma, ArrayFormatSeparator:
		return format, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownArrayFormat, name)
	}
}

func (f ArrayFormat) joinsValues() bool {
	return f == ArrayFormatComma || f == ArrayFormatSeparator
}

// ParseOptions configures Parse. The zero value decodes, uses ArrayFormatNone
// and leaves every value as a string.
type ParseOptions struct {
	SkipDecode              bool
	ArrayFormat             ArrayFormat
	ArrayFormatSeparator    string
	ParseNumbers            bool
	ParseBooleans           bool
	ParseFragmentIdentifier bool
}

// StringifyOptions configures Stringify. The zero value strictly encodes
// and uses ArrayFormatNone. Keys are always written in sorted order.
type StringifyOptions struct {
	SkipEncode bool
	// Lax leaves !'()* unescaped, as encodeURIComponent does.
	Lax                  bool
	ArrayFormat          ArrayFormat
	ArrayFormatSeparator string
	SkipNull             bool
	SkipEmptyString      bool
}

func resolveFormat(format ArrayFormat, separator string) (ArrayFormat, string, error) {
	resolved, err := ParseArrayFormat(string(format))
	if err != nil {
		return "", "", err
	}
	if separator == "" {
		separator = DefaultArrayFormatSeparator
	}
	if utf8.RuneCountInString(separator) != 1 {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidSeparator, separator)
	}
	return resolved, separator, nil
}

type Values map[string]any

// First returns the value of key as a string; for arrays the first element.
// Numbers and booleans are formatted the way Stringify writes them.
func (v Values) First(key string) (string, bool) {
	value, ok := v[key]
	if !ok {
		return "", false
	}
	if list, isList := value.([]any); isList {
		if len(list) == 0 {
			return "", false
		}
		value = list[0]
	}
	if value == nil {
		return "", true
	}
	return formatScalar(value), true
}

// Strings returns every value of key formatted as strings. Nil entries become "".
func (v Values) Strings(key string) []string {
	value, ok := v[key]
	if !ok {
		return nil
	}
	list, isList := value.([]any)
	if !isList {
		list = []any{value}
	}
	out := make([]string, 0, len(list))
	for _, item := range list {
		if item == nil {
			out = append(out, "")
			continue
		}
		out = append(out, formatScalar(item))
	}
	return out
}

func (v Values) Keys() []string {
	keys := make([]string, 0, len(v))
	for key := range v {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
