package main

import (
	"fmt"
	"os"
	"runtime"

	"docketlabeler/pkg/auth"
	"docketlabeler/pkg/config"

	"github.com/spf13/cobra"
)

var (
	// Version information
	version   = "1.0.0"
	gitCommit = "unknown"
	buildDate = "unknown"

	// Global flags
	configFile        string
	logLevel          string
	logFile           string
	endpoint          string
	requestsPerMinute int
	outputPath        string
	checkpointPath    string
	vocabularyPath    string
	defaultLabel      string
	queueOrder        string
	profile           string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "docketlabeler",
	Short: "Label CourtListener docket entry descriptions from the terminal",
	Long: `docketlabeler walks the CourtListener docket entries feed page by page and
asks you to label each description. Every answer is appended to a CSV file
immediately, the next-page cursor is saved before a page is shown, and text
you have already labeled is labeled again automatically.

Stop at any time with Ctrl-D. The next run picks up where you left off.`,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, gitCommit, buildDate),
	SilenceUsage:  true,
	SilenceErrors: true,
	Args:          cobra.NoArgs,
	RunE:          runLabel,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&configFile, "config", "c", "", "config file (default is ./docketlabeler.yaml or $HOME/.docketlabeler.yaml)")
	pf.StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error, disabled)")
	pf.StringVar(&logFile, "log-file", "", "write logs to this file instead of the configured one")
	pf.StringVar(&endpoint, "endpoint", "", "docket entries endpoint")
	pf.IntVar(&requestsPerMinute, "requests-per-minute", 0, "catalog request budget, 0 for unlimited")
	pf.StringVarP(&outputPath, "output", "o", "", "labeled output CSV")
	pf.StringVar(&checkpointPath, "checkpoint", "", "next-page cursor file")
	pf.StringVar(&vocabularyPath, "vocabulary", "", "label vocabulary JSON file")
	pf.StringVar(&defaultLabel, "default-label", "", "label for blank descriptions and empty answers")
	pf.StringVar(&queueOrder, "order", "", "order records within a page are shown in (fifo or lifo)")
	pf.StringVar(&profile, "profile", auth.DefaultProfile, "stored API token profile")

	rootCmd.SetVersionTemplate(`docketlabeler {{.Version}}
Go Version: ` + runtime.Version() + `
OS/Arch: ` + runtime.GOOS + `/` + runtime.GOARCH + `
`)

	rootCmd.CompletionOptions.DisableDefaultCmd = true
}

// buildFlags collects the flags the user actually set, keyed the way
// config.MergeCommandLineFlags expects
func buildFlags(cmd *cobra.Command) map[string]interface{} {
	flags := make(map[string]interface{})
	set := func(name string, value interface{}) {
		if cmd.Flags().Changed(name) {
			flags[name] = value
		}
	}
	set("endpoint", endpoint)
	set("requests-per-minute", requestsPerMinute)
	set("output", outputPath)
	set("checkpoint", checkpointPath)
	set("vocabulary", vocabularyPath)
	set("default-label", defaultLabel)
	set("order", queueOrder)
	set("log-level", logLevel)
	set("log-file", logFile)
	return flags
}

// loadConfig loads configuration from every source, including flags
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	return config.Load(configFile, buildFlags(cmd))
}

// resolveToken fills in the API token from the credential stores when the
// config, environment and flags did not provide one
func resolveToken(cfg *config.Config, manager *auth.Manager) {
	if cfg.Catalog.APIToken != "" || manager == nil {
		return
	}
	cfg.Catalog.APIToken = manager.Token(profile)
}
