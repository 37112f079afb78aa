package main

import (
	"fmt"
	"os"

	"docketlabeler/pkg/auth"
	"docketlabeler/pkg/config"
	"docketlabeler/pkg/ui"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration files",
	Long: `Manage docketlabeler configuration files.

Configuration can be loaded from:
  - Command line flags (highest priority)
  - Environment variables (DOCKETLABELER_*, CL_API_TOKEN)
  - .env files
  - Configuration file
  - Default values (lowest priority)`,
}

// initCmd represents the config init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create an example configuration file",
	Long: `Create an example configuration file with all available options.

The file will be created in the current directory as 'docketlabeler.yaml'
unless a different path is specified with the --config flag.`,
	Args: cobra.NoArgs,
	RunE: runConfigInit,
}

// showCmd represents the config show command
var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long: `Show the effective configuration after merging every source.
The API token is masked.`,
	Args: cobra.NoArgs,
	RunE: runConfigShow,
}

// validateCmd represents the config validate command
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfigValidate,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(initCmd)
	configCmd.AddCommand(showCmd)
	configCmd.AddCommand(validateCmd)
}

const exampleConfig = `# docketlabeler configuration file
#
# Every option can also be set with an environment variable prefixed with
# DOCKETLABELER_ (for example DOCKETLABELER_OUTPUT) or with a flag.

catalog:
  # CourtListener docket entries endpoint
  endpoint: "https://www.courtlistener.com/api/rest/v4/docket-entries/"

  # API token. Prefer 'docketlabeler auth login' or CL_API_TOKEN over
  # keeping it here.
  api_token: ""

  user_agent: "docketlabeler/1.0"
  timeout: 30s

  # Request budget. 0 disables limiting.
  requests_per_minute: 60

files:
  # Labeled rows: description, label, docket entry id, document id
  output: "output.csv"
  # Cursor of the next page to fetch
  checkpoint: "next.json"
  # JSON array of known labels
  vocabulary: "labels.json"

labeling:
  # Used for blank descriptions and when Enter is pressed on an empty line
  default_label: "other"
  # Seed for a new vocabulary file
  initial_labels:
    - "other"
  # Order records of one page are shown in: fifo or lifo
  order: "fifo"

crawl:
  # Backoff while the catalog has nothing new
  empty_page_base_delay: 5s
  empty_page_max_delay: 5m
  empty_page_multiplier: 2.0

logging:
  # debug, info, warn, error or disabled
  level: "info"
  # Empty logs to stderr, which mixes with the prompt
  file: "docketlabeler.log"
`

func runConfigInit(cmd *cobra.Command, args []string) error {
	configPath := configFile
	if configPath == "" {
		configPath = "docketlabeler.yaml"
	}

	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("configuration file already exists: %s", configPath)
	}

	if err := writeExampleConfig(configPath); err != nil {
		return err
	}

	ui.PrintSuccess("Configuration file created: " + configPath)
	fmt.Println("\nNext steps:")
	fmt.Println("1. Store your API token with 'docketlabeler auth login'")
	fmt.Println("2. Run 'docketlabeler config validate' to check the configuration")
	fmt.Println("3. Start labeling with 'docketlabeler'")
	return nil
}

// writeExampleConfig writes the example file and reads it back through the
// config loader so a broken template never reaches the user
func writeExampleConfig(path string) error {
	if err := os.WriteFile(path, []byte(exampleConfig), 0600); err != nil {
		return fmt.Errorf("failed to create configuration file: %w", err)
	}

	cfg := config.DefaultConfig()
	if err := cfg.LoadFromFile(path); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("example configuration is invalid: %w", err)
	}
	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	display := *cfg
	if display.Catalog.APIToken != "" {
		display.Catalog.APIToken = auth.MaskToken(display.Catalog.APIToken)
	}

	data, err := yaml.Marshal(&display)
	if err != nil {
		return fmt.Errorf("failed to format configuration: %w", err)
	}

	fmt.Print(string(data))
	return nil
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		ui.PrintError("Configuration is invalid", nil)
		return err
	}

	if manager, err := auth.NewManager(); err == nil {
		resolveToken(cfg, manager)
	}
	if cfg.Catalog.APIToken == "" {
		ui.PrintWarning("No API token found in config, environment or credential stores")
	}

	ui.PrintSuccess("Configuration is valid")
	fmt.Println()
	ui.PrintInfo("Endpoint", cfg.Catalog.Endpoint)
	ui.PrintInfo("Output", cfg.Files.Output)
	ui.PrintInfo("Checkpoint", cfg.Files.Checkpoint)
	ui.PrintInfo("Vocabulary", cfg.Files.Vocabulary)
	ui.PrintInfo("Default label", cfg.Labeling.DefaultLabel)
	ui.PrintInfo("Rate limit", fmt.Sprintf("%d requests/minute", cfg.Catalog.RequestsPerMinute))
	return nil
}
