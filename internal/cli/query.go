package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rohmanhakim/fake-xhr/pkg/querystring"
	"github.com/spf13/cobra"
)

var (
	querySkipDecode      bool
	queryFragment        bool
	querySkipEncode      bool
	queryLax             bool
	querySkipNull        bool
	querySkipEmptyString bool
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Parse or write query strings the way routers do",
}

var queryParseCmd = &cobra.Command{
	Use:   "parse QUERY|URL",
	Short: "Parse a query string, or the query of a URL, and print it as JSON",
	Long: `parse prints the parsed query as a JSON object. When the argument contains
"?" or "#" it is treated as a URL and the output also carries the URL before
the query and, with --fragment, the decoded fragment.

Array format, separator and number/boolean coercion come from the global
flags or the config file.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := InitConfigWithError()
		if err != nil {
			return err
		}
		opts := cfg.QueryOptions()
		opts.SkipDecode = querySkipDecode
		opts.ParseFragmentIdentifier = queryFragment

		var out any
		input := args[0]
		if strings.ContainsAny(input, "?#") {
			parsed, err := querystring.ParseURL(input, opts)
			if err != nil {
				return err
			}
			result := map[string]any{"url": parsed.URL, "query": parsed.Query}
			if queryFragment {
				result["fragmentIdentifier"] = parsed.FragmentIdentifier
			}
			out = result
		} else {
			values, err := querystring.Parse(input, opts)
			if err != nil {
				return err
			}
			out = values
		}

		encoded, err := json.Marshal(out)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(encoded))
		return nil
	},
}

var queryStringifyCmd = &cobra.Command{
	Use:   "stringify KEY[=VALUE]...",
	Short: "Write a query string from key/value pairs",
	Long: `stringify writes a query string with keys in sorted order. Repeating a key
makes it an array, written in the configured array format. A key without
"=" has a null value and a key with "=" and nothing after it an empty one.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := InitConfigWithError()
		if err != nil {
			return err
		}
		query, err := querystring.Stringify(pairsToValues(args), querystring.StringifyOptions{
			SkipEncode:           querySkipEncode,
			Lax:                  queryLax,
			ArrayFormat:          cfg.ArrayFormat(),
			ArrayFormatSeparator: cfg.ArrayFormatSeparator(),
			SkipNull:             querySkipNull,
			SkipEmptyString:      querySkipEmptyString,
		})
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), query)
		return nil
	},
}

func init() {
	queryParseCmd.Flags().BoolVar(&querySkipDecode, "skip-decode", false, "keep keys and values percent-encoded")
	queryParseCmd.Flags().BoolVar(&queryFragment, "fragment", false, "include the decoded fragment identifier")

	queryStringifyCmd.Flags().BoolVar(&querySkipEncode, "skip-encode", false, "write keys and values as-is")
	queryStringifyCmd.Flags().BoolVar(&queryLax, "lax", false, "leave !'()* unescaped")
	queryStringifyCmd.Flags().BoolVar(&querySkipNull, "skip-null", false, "omit keys without a value")
	queryStringifyCmd.Flags().BoolVar(&querySkipEmptyString, "skip-empty-string", false, "omit keys with an empty value")

	queryCmd.AddCommand(queryParseCmd, queryStringifyCmd)
}

func resetQueryFlags() {
	querySkipDecode = false
	queryFragment = false
	querySkipEncode = false
	queryLax = false
	querySkipNull = false
	querySkipEmptyString = false
}

func pairsToValues(pairs []string) querystring.Values {
	values := querystring.Values{}
	for _, pair := range pairs {
		key, raw, found := strings.Cut(pair, "=")
		var value any
		if found {
			value = raw
		}
		existing, seen := values[key]
		if !seen {
			values[key] = value
			continue
		}
		list, isList := existing.([]any)
		if !isList {
			list = []any{existing}
		}
		values[key] = append(list, value)
	}
	return values
}
