package querystring

import "strings"

// ParsedURL is a URL split into the part before the query, its parsed query
// and, when requested, its decoded fragment.
type ParsedURL struct {
	URL                string
	Query              Values
	FragmentIdentifier string
}

// Extract returns the query string of rawURL, without "?" and without the fragment.
func Extract(rawURL string) string {
	rawURL = removeHash(rawURL)
	_, query, found := strings.Cut(rawURL, "?")
	if !found {
		return ""
	}
	return query
}

func ParseURL(rawURL string, opts ParseOptions) (ParsedURL, error) {
	beforeHash, hash, _ := strings.Cut(rawURL, "#")
	query, err := Parse(Extract(rawURL), opts)
	if err != nil {
		return ParsedURL{}, err
	}
	base, _, _ := strings.Cut(beforeHash, "?")
	parsed := ParsedURL{URL: base, Query: query}
	if opts.ParseFragmentIdentifier && hash != "" {
		if opts.SkipDecode {
			parsed.FragmentIdentifier = hash
		} else {
			parsed.FragmentIdentifier = decodeComponent(hash)
		}
	}
	return parsed, nil
}

// StringifyURL writes u.URL with its own query merged with u.Query, entries
// of u.Query winning. A FragmentIdentifier replaces any fragment in u.URL.
func StringifyURL(u ParsedURL, opts StringifyOptions) (string, error) {
	base, _, _ := strings.Cut(removeHash(u.URL), "?")

	merged, err := Parse(Extract(u.URL), ParseOptions{})
	if err != nil {
		return "", err
	}
	for key, value := range u.Query {
		merged[key] = value
	}

	query, err := Stringify(merged, opts)
	if err != nil {
		return "", err
	}
	if query != "" {
		query = "?" + query
	}

	hash := getHash(u.URL)
	if u.FragmentIdentifier != "" {
		fragment := u.FragmentIdentifier
		if !opts.SkipEncode {
			fragment = encodeComponent(fragment, opts.Lax)
		}
		hash = "#" + fragment
	}
	return base + query + hash, nil
}

func removeHash(input string) string {
	before, _, _ := strings.Cut(input, "#")
	return before
}

func getHash(input string) string {
	if i := strings.IndexByte(input, '#'); i >= 0 {
		return input[i:]
	}
	return ""
}
