package querystring

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var (
	indexSuffix   = regexp.MustCompile(`\[(\d*)\]$`)
	bracketSuffix = regexp.MustCompile(`\[\]$`)
)

// Parse reads a query string. A leading "?", "#" or "&" is ignored. The only
// errors come from invalid options.
func Parse(query string, opts ParseOptions) (Values, error) {
	format, separator, err := resolveFormat(opts.ArrayFormat, opts.ArrayFormatSeparator)
	if err != nil {
		return nil, err
	}

	p := parser{
		opts:      opts,
		format:    format,
		separator: separator,
		values:    Values{},
		indexed:   map[string]map[string]any{},
	}

	query = strings.TrimSpace(query)
	if query != "" && strings.IndexByte("?#&", query[0]) >= 0 {
		query = query[1:]
	}
	if query == "" {
		return p.values, nil
	}

	for _, param := range strings.Split(query, "&") {
		if !opts.SkipDecode {
			param = strings.ReplaceAll(param, "+", " ")
		}
		key, raw, hasValue := strings.Cut(param, "=")
		var value any
		if hasValue {
			if format.joinsValues() {
				value = raw
			} else {
				value = p.decode(raw)
			}
		}
		p.add(p.decode(key), value)
	}

	p.collectIndexed()
	p.coerce()
	return p.values, nil
}

type parser struct {
	opts      ParseOptions
	format    ArrayFormat
	separator string
	values    Values
	indexed   map[string]map[string]any
}

func (p *parser) decode(s string) string {
	if p.opts.SkipDecode {
		return s
	}
	return decodeComponent(s)
}

func (p *parser) add(key string, value any) {
	switch p.format {
	case ArrayFormatIndex:
		match := indexSuffix.FindStringSubmatch(key)
		key = indexSuffix.ReplaceAllString(key, "")
		if match == nil {
			p.values[key] = value
			delete(p.indexed, key)
			return
		}
		elements, ok := p.indexed[key]
		if !ok {
			if _, scalar := p.values[key]; scalar {
				return
			}
			elements = map[string]any{}
			p.indexed[key] = elements
			p.values[key] = nil
		}
		elements[match[1]] = value

	case ArrayFormatBracket:
		isArray := bracketSuffix.MatchString(key)
		key = bracketSuffix.ReplaceAllString(key, "")
		if !isArray {
			p.values[key] = value
			return
		}
		p.append(key, value)

	case ArrayFormatComma, ArrayFormatSeparator:
		p.values[key] = p.splitJoined(value)

	default:
		p.append(key, value)
	}
}

func (p *parser) append(key string, value any) {
	existing, ok := p.values[key]
	if !ok {
		if p.format == ArrayFormatBracket {
			p.values[key] = []any{value}
		} else {
			p.values[key] = value
		}
		return
	}
	if list, isList := existing.([]any); isList {
		p.values[key] = append(list, value)
		return
	}
	p.values[key] = []any{existing, value}
}

func (p *parser) splitJoined(value any) any {
	raw, ok := value.(string)
	if !ok {
		return nil
	}
	isArray := strings.Contains(raw, p.separator)
	isEncodedArray := !isArray && strings.Contains(p.decode(raw), p.separator)
	if isEncodedArray {
		raw = p.decode(raw)
	}
	if !isArray && !isEncodedArray {
		return p.decode(raw)
	}
	parts := strings.Split(raw, p.separator)
	list := make([]any, 0, len(parts))
	for _, part := range parts {
		list = append(list, p.decode(part))
	}
	return list
}

// collectIndexed orders index-format elements by their numeric index.
func (p *parser) collectIndexed() {
	for key, elements := range p.indexed {
		indexes := make([]string, 0, len(elements))
		for index := range elements {
			indexes = append(indexes, index)
		}
		sort.Strings(indexes)
		sort.SliceStable(indexes, func(i, j int) bool {
			return indexNumber(indexes[i]) < indexNumber(indexes[j])
		})
		list := make([]any, 0, len(indexes))
		for _, index := range indexes {
			list = append(list, elements[index])
		}
		p.values[key] = list
	}
}

func indexNumber(index string) float64 {
	if index == "" {
		return 0
	}
	n, _ := strconv.ParseFloat(index, 64)
	return n
}

func (p *parser) coerce() {
	if !p.opts.ParseNumbers && !p.opts.ParseBooleans {
		return
	}
	for key, value := range p.values {
		if list, isList := value.([]any); isList {
			for i, item := range list {
				list[i] = p.coerceValue(item)
			}
			continue
		}
		p.values[key] = p.coerceValue(value)
	}
}

func (p *parser) coerceValue(value any) any {
	s, ok := value.(string)
	if !ok {
		return value
	}
	if p.opts.ParseNumbers {
		if n, isNumber := parseNumber(s); isNumber {
			return n
		}
	}
	if p.opts.ParseBooleans {
		switch strings.ToLower(s) {
		case "true":
			return true
		case "false":
			return false
		}
	}
	return value
}
