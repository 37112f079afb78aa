package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultEndpoint is the CourtListener docket entries endpoint
const DefaultEndpoint = "https://www.courtlistener.com/api/rest/v4/docket-entries/"

// Config holds all configuration options for the docket labeler
type Config struct {
	// Remote catalog access
	Catalog CatalogConfig `yaml:"catalog" json:"catalog"`

	// On-disk state
	Files FilesConfig `yaml:"files" json:"files"`

	// Labeling behaviour
	Labeling LabelingConfig `yaml:"labeling" json:"labeling"`

	// Crawl pacing when the catalog is exhausted
	Crawl CrawlConfig `yaml:"crawl" json:"crawl"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// CatalogConfig holds CourtListener API configuration
type CatalogConfig struct {
	Endpoint          string        `yaml:"endpoint" json:"endpoint" validate:"required,url"`
	APIToken          string        `yaml:"api_token" json:"api_token"`
	UserAgent         string        `yaml:"user_agent" json:"user_agent"`
	Timeout           time.Duration `yaml:"timeout" json:"timeout" validate:"gt=0"`
	RequestsPerMinute int           `yaml:"requests_per_minute" json:"requests_per_minute" validate:"gte=0,lte=600"`
}

// FilesConfig holds the locations of the durable state files
type FilesConfig struct {
	Output     string `yaml:"output" json:"output" validate:"required"`
	Checkpoint string `yaml:"checkpoint" json:"checkpoint" validate:"required"`
	Vocabulary string `yaml:"vocabulary" json:"vocabulary" validate:"required"`
}

// LabelingConfig holds labeling loop configuration
type LabelingConfig struct {
	DefaultLabel  string   `yaml:"default_label" json:"default_label" validate:"required"`
	InitialLabels []string `yaml:"initial_labels" json:"initial_labels" validate:"dive,required"`
	// Order is the queue pop order within a page: "fifo" or "lifo"
	Order string `yaml:"order" json:"order" validate:"oneof=fifo lifo"`
}

// CrawlConfig holds the backoff applied while the catalog has nothing new
type CrawlConfig struct {
	EmptyPageBaseDelay  time.Duration `yaml:"empty_page_base_delay" json:"empty_page_base_delay" validate:"gte=0"`
	EmptyPageMaxDelay   time.Duration `yaml:"empty_page_max_delay" json:"empty_page_max_delay" validate:"gte=0"`
	EmptyPageMultiplier float64       `yaml:"empty_page_multiplier" json:"empty_page_multiplier" validate:"gte=1"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `yaml:"level" json:"level" validate:"oneof=debug info warn warning error disabled"`
	// File receives log output; empty means stderr
	File string `yaml:"file" json:"file"`
}

// DefaultConfig returns a Config instance with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Catalog: CatalogConfig{
			Endpoint:          DefaultEndpoint,
			UserAgent:         "docketlabeler/1.0",
			Timeout:           30 * time.Second,
			RequestsPerMinute: 60,
		},
		Files: FilesConfig{
			Output:     "output.csv",
			Checkpoint: "next.json",
			Vocabulary: "labels.json",
		},
		Labeling: LabelingConfig{
			DefaultLabel:  "other",
			InitialLabels: []string{"other"},
			Order:         "fifo",
		},
		Crawl: CrawlConfig{
			EmptyPageBaseDelay:  5 * time.Second,
			EmptyPageMaxDelay:   5 * time.Minute,
			EmptyPageMultiplier: 2.0,
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  "docketlabeler.log",
		},
	}
}

// LoadFromEnv loads configuration from environment variables
func (c *Config) LoadFromEnv() error {
	// CL_API_TOKEN is what the CourtListener docs tell people to export
	if token := os.Getenv("CL_API_TOKEN"); token != "" {
		c.Catalog.APIToken = token
	}
	if token := os.Getenv("DOCKETLABELER_API_TOKEN"); token != "" {
		c.Catalog.APIToken = token
	}
	if endpoint := os.Getenv("DOCKETLABELER_ENDPOINT"); endpoint != "" {
		c.Catalog.Endpoint = endpoint
	}
	if rpm := os.Getenv("DOCKETLABELER_REQUESTS_PER_MINUTE"); rpm != "" {
		val, err := strconv.Atoi(rpm)
		if err != nil {
			return fmt.Errorf("invalid DOCKETLABELER_REQUESTS_PER_MINUTE %q: %w", rpm, err)
		}
		c.Catalog.RequestsPerMinute = val
	}

	if output := os.Getenv("DOCKETLABELER_OUTPUT"); output != "" {
		c.Files.Output = output
	}
	if checkpoint := os.Getenv("DOCKETLABELER_CHECKPOINT"); checkpoint != "" {
		c.Files.Checkpoint = checkpoint
	}
	if vocab := os.Getenv("DOCKETLABELER_VOCABULARY"); vocab != "" {
		c.Files.Vocabulary = vocab
	}

	if label := os.Getenv("DOCKETLABELER_DEFAULT_LABEL"); label != "" {
		c.Labeling.DefaultLabel = label
	}
	if order := os.Getenv("DOCKETLABELER_ORDER"); order != "" {
		c.Labeling.Order = strings.ToLower(order)
	}

	if logLevel := os.Getenv("DOCKETLABELER_LOG_LEVEL"); logLevel != "" {
		c.Logging.Level = logLevel
	}
	if logFile, ok := os.LookupEnv("DOCKETLABELER_LOG_FILE"); ok {
		c.Logging.File = logFile
	}

	return nil
}

// LoadFromFile loads configuration from a YAML file
func (c *Config) LoadFromFile(path string) error {
	// If path is empty, try default locations
	if path == "" {
		path = c.findConfigFile()
		if path == "" {
			return nil // No config file found, not an error
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// findConfigFile searches for config file in standard locations
func (c *Config) findConfigFile() string {
	locations := []string{
		"docketlabeler.yaml",
		"docketlabeler.yml",
		".docketlabeler.yaml",
		filepath.Join(os.Getenv("HOME"), ".config", "docketlabeler", "config.yaml"),
		filepath.Join(os.Getenv("HOME"), ".docketlabeler.yaml"),
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	return ""
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	var errs []error

	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				errs = append(errs, fmt.Errorf("%s: failed %q check (value %v)", fe.Namespace(), fe.Tag(), fe.Value()))
			}
		} else {
			errs = append(errs, err)
		}
	}

	if c.Crawl.EmptyPageMaxDelay < c.Crawl.EmptyPageBaseDelay {
		errs = append(errs, errors.New("crawl.empty_page_max_delay must not be smaller than empty_page_base_delay"))
	}

	files := map[string]string{}
	for name, path := range map[string]string{
		"output":     c.Files.Output,
		"checkpoint": c.Files.Checkpoint,
		"vocabulary": c.Files.Vocabulary,
	} {
		if path == "" {
			continue
		}
		clean := filepath.Clean(path)
		if other, dup := files[clean]; dup {
			errs = append(errs, fmt.Errorf("files.%s and files.%s point at the same path %s", name, other, clean))
		}
		files[clean] = name
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// Save saves the configuration to a file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// The file may carry the API token
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// MergeCommandLineFlags merges command line flags into the configuration
func (c *Config) MergeCommandLineFlags(flags map[string]interface{}) {
	if endpoint, ok := flags["endpoint"].(string); ok && endpoint != "" {
		c.Catalog.Endpoint = endpoint
	}
	if rpm, ok := flags["requests-per-minute"].(int); ok && rpm >= 0 {
		c.Catalog.RequestsPerMinute = rpm
	}
	if output, ok := flags["output"].(string); ok && output != "" {
		c.Files.Output = output
	}
	if checkpoint, ok := flags["checkpoint"].(string); ok && checkpoint != "" {
		c.Files.Checkpoint = checkpoint
	}
	if vocab, ok := flags["vocabulary"].(string); ok && vocab != "" {
		c.Files.Vocabulary = vocab
	}
	if label, ok := flags["default-label"].(string); ok && label != "" {
		c.Labeling.DefaultLabel = label
	}
	if order, ok := flags["order"].(string); ok && order != "" {
		c.Labeling.Order = strings.ToLower(order)
	}
	if logLevel, ok := flags["log-level"].(string); ok && logLevel != "" {
		c.Logging.Level = logLevel
	}
	if logFile, ok := flags["log-file"].(string); ok {
		c.Logging.File = logFile
	}
}

// Load loads configuration from all sources with proper precedence
// Precedence order: Command line flags > Environment variables > .env file > Config file > Defaults
func Load(configPath string, flags map[string]interface{}) (*Config, error) {
	// .env files are optional
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".docketlabeler.env"))

	config := DefaultConfig()

	if err := config.LoadFromFile(configPath); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	if err := config.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	config.MergeCommandLineFlags(flags)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}
