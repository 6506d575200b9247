package cmd

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/rohmanhakim/fake-xhr/internal/config"
	"github.com/rohmanhakim/fake-xhr/internal/harness"
	"github.com/rohmanhakim/fake-xhr/pkg/hashutil"
	"github.com/rohmanhakim/fake-xhr/pkg/querystring"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var (
	appFs                afero.Fs = afero.NewOsFs()
	cfgFile              string
	origin               string
	chunkSize            int
	arrayFormat          string
	arrayFormatSeparator string
	parseNumbers         bool
	parseBooleans        bool
	respondUnmatched     bool
	fixtures             []string
	hashAlgo             string
	logLevel             string
	noColor              bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "fakexhr",
	Short: "An in-process fake of the browser request API.",
	Long: `fakexhr drives fake XMLHttpRequest objects through a routing table built
from YAML fixture files, without touching the network.

Use it to check what a fixture set answers for a given request, to replay
a scripted sequence of requests, or to see how the query-string codec
parses and writes a query.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if noColor {
			color.NoColor = true
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config-file", "", "config file path (e.g., ./fakexhr.json)")
	rootCmd.PersistentFlags().StringVar(&origin, "origin", "", "page origin relative URLs resolve against (default http://localhost)")
	rootCmd.PersistentFlags().IntVar(&chunkSize, "chunk-size", 0, "characters per LOADING step of a response body (default 10)")
	rootCmd.PersistentFlags().StringVar(&arrayFormat, "array-format", "", "query array format: none, bracket, index, comma or separator")
	rootCmd.PersistentFlags().StringVar(&arrayFormatSeparator, "array-format-separator", "", "separator for the separator array format (default ,)")
	rootCmd.PersistentFlags().BoolVar(&parseNumbers, "parse-numbers", false, "parse numeric query values as numbers")
	rootCmd.PersistentFlags().BoolVar(&parseBooleans, "parse-booleans", false, "parse true/false query values as booleans")
	rootCmd.PersistentFlags().BoolVar(&respondUnmatched, "respond-unmatched", false, "answer unmatched pathnames with 404 instead of leaving them open")
	rootCmd.PersistentFlags().StringArrayVar(&fixtures, "fixture", []string{}, "YAML fixture file (can be repeated)")
	rootCmd.PersistentFlags().StringVar(&hashAlgo, "hash-algo", "", "request body digest algorithm: blake3 or sha256")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "metadata log level (default info)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	rootCmd.AddCommand(sendCmd, replayCmd, queryCmd, routesCmd, versionCmd)
}

// InitConfigWithError builds the config from the config file when one is
// given, otherwise from the defaults overridden by the flags that were set.
func InitConfigWithError() (config.Config, error) {
	if cfgFile != "" {
		cfg, err := config.WithConfigFile(appFs, cfgFile)
		if err != nil {
			return cfg, fmt.Errorf("error initializing config from file: %w", err)
		}
		return cfg, nil
	}

	configBuilder := config.WithDefault()

	if origin != "" {
		configBuilder = configBuilder.WithOrigin(origin)
	}

	if chunkSize != 0 {
		configBuilder = configBuilder.WithChunkSize(chunkSize)
	}

	if arrayFormat != "" {
		configBuilder = configBuilder.WithArrayFormat(querystring.ArrayFormat(arrayFormat))
	}

	if arrayFormatSeparator != "" {
		configBuilder = configBuilder.WithArrayFormatSeparator(arrayFormatSeparator)
	}

	if parseNumbers {
		configBuilder = configBuilder.WithParseNumbers(parseNumbers)
	}

	if parseBooleans {
		configBuilder = configBuilder.WithParseBooleans(parseBooleans)
	}

	if respondUnmatched {
		configBuilder = configBuilder.WithRespondUnmatched(respondUnmatched)
	}

	if len(fixtures) > 0 {
		configBuilder = configBuilder.WithFixtures(fixtures)
	}

	if hashAlgo != "" {
		configBuilder = configBuilder.WithHashAlgo(hashutil.HashAlgo(hashAlgo))
	}

	if logLevel != "" {
		configBuilder = configBuilder.WithLogLevel(logLevel)
	}

	cfg, err := configBuilder.Build()
	if err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// newHarness builds a harness from the flags; metadata goes to the command's stderr.
func newHarness(cmd *cobra.Command) (*harness.Harness, error) {
	cfg, err := InitConfigWithError()
	if err != nil {
		return nil, err
	}
	return harness.New(cfg, appFs, cmd.ErrOrStderr())
}

// RootCommand exposes the command tree, e.g. to run it with custom args and output.
func RootCommand() *cobra.Command {
	return rootCmd
}

func ResetFlags() {
	cfgFile = ""
	origin = ""
	chunkSize = 0
	arrayFormat = ""
	arrayFormatSeparator = ""
	parseNumbers = false
	parseBooleans = false
	respondUnmatched = false
	fixtures = []string{}
	hashAlgo = ""
	logLevel = ""
	noColor = false
	resetSendFlags()
	resetReplayFlags()
	resetQueryFlags()
}

// Test helper functions to set flag values from tests
func SetFsForTest(fs afero.Fs) {
	appFs = fs
}

func SetConfigFileForTest(path string) {
	cfgFile = path
}

func SetOriginForTest(o string) {
	origin = o
}

func SetChunkSizeForTest(size int) {
	chunkSize = size
}

func SetArrayFormatForTest(format string) {
	arrayFormat = format
}

func SetParseNumbersForTest(parse bool) {
	parseNumbers = parse
}

func SetRespondUnmatchedForTest(respond bool) {
	respondUnmatched = respond
}

func SetFixturesForTest(paths []string) {
	fixtures = paths
}

func SetHashAlgoForTest(algo string) {
	hashAlgo = algo
}

func SetLogLevelForTest(level string) {
	logLevel = level
}
