package querystring

import (
	"reflect"
	"sort"
	"strconv"
	"strings"
)

// Stringify writes values as a query string without a leading "?". Slices of
// any element type are written as arrays in the configured format.
func Stringify(values Values, opts StringifyOptions) (string, error) {
	format, separator, err := resolveFormat(opts.ArrayFormat, opts.ArrayFormatSeparator)
	if err != nil {
		return "", err
	}
	s := stringifier{opts: opts, format: format, separator: separator}

	keys := make([]string, 0, len(values))
	for key, value := range values {
		if opts.SkipNull && value == nil {
			continue
		}
		if str, ok := value.(string); ok && opts.SkipEmptyString && str == "" {
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		part := s.pair(key, values[key])
		if part != "" {
			parts = append(parts, part)
		}
	}
	return strings.Join(parts, "&"), nil
}

type stringifier struct {
	opts      StringifyOptions
	format    ArrayFormat
	separator string
}

func (s stringifier) encode(value string) string {
	if s.opts.SkipEncode {
		return value
	}
	return encodeComponent(value, s.opts.Lax)
}

func (s stringifier) pair(key string, value any) string {
	if value == nil {
		return s.encode(key)
	}
	if list, ok := asList(value); ok {
		var result []string
		for _, item := range list {
			result = s.appendElement(result, key, item)
		}
		return strings.Join(result, "&")
	}
	return s.encode(key) + "=" + s.encode(formatScalar(value))
}

func (s stringifier) skipElement(item any) bool {
	if item == nil {
		return s.opts.SkipNull
	}
	str, ok := item.(string)
	return ok && str == "" && s.opts.SkipEmptyString
}

func (s stringifier) appendElement(result []string, key string, item any) []string {
	switch s.format {
	case ArrayFormatIndex:
		if s.skipElement(item) {
			return result
		}
		index := strconv.Itoa(len(result))
		if item == nil {
			return append(result, s.encode(key)+"["+index+"]")
		}
		return append(result, s.encode(key)+"["+s.encode(index)+"]="+s.encode(formatScalar(item)))

	case ArrayFormatBracket:
		if s.skipElement(item) {
			return result
		}
		if item == nil {
			return append(result, s.encode(key)+"[]")
		}
		return append(result, s.encode(key)+"[]="+s.encode(formatScalar(item)))

	case ArrayFormatComma, ArrayFormatSeparator:
		if item == nil {
			return result
		}
		if str, ok := item.(string); ok && str == "" {
			return result
		}
		encoded := s.encode(formatScalar(item))
		if len(result) == 0 {
			return []string{s.encode(key) + "=" + encoded}
		}
		return []string{result[0] + s.separator + encoded}

	default:
		if s.skipElement(item) {
			return result
		}
		if item == nil {
			return append(result, s.encode(key))
		}
		return append(result, s.encode(key)+"="+s.encode(formatScalar(item)))
	}
}

// asList reports whether value is a slice or array (but not a byte string)
// and returns its elements.
func asList(value any) ([]any, bool) {
	switch v := value.(type) {
	case []any:
		return v, true
	case []string:
		list := make([]any, len(v))
		for i, item := range v {
			list[i] = item
		}
		return list, true
	case []byte:
		return nil, false
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	list := make([]any, rv.Len())
	for i := range list {
		list[i] = rv.Index(i).Interface()
	}
	return list, true
}
