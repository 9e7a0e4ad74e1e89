// Package cli implements the structquery command line tool: rendering
// descriptor files to query text, validating queries and descriptors, and
// formatting query text. Configuration loading lives here, never in the
// core packages.
package cli

import (
	"errors"
	"fmt"
	"os"
	"regexp"

	"github.com/fatih/color"
	"github.com/goccy/go-yaml"
	"github.com/joho/godotenv"

	"github.com/shibukawa/structquery/request"
)

// ErrConfigValidation is returned when configuration validation fails
var ErrConfigValidation = errors.New("configuration validation failed")

// defaultConfigFile is used when neither the --config flag nor the
// STRUCTQUERY_CONFIG environment variable names a file.
const defaultConfigFile = "structquery.yaml"

// Context represents the global context for commands
type Context struct {
	Config  string
	Verbose bool
	Quiet   bool
}

// Config represents the structquery tool configuration
type Config struct {
	// Parameters are default descriptor parameters, overridden by the
	// descriptor file and by --param flags.
	Parameters map[string]any `yaml:"parameters"`
	Request    RequestConfig  `yaml:"request"`
	Output     OutputConfig   `yaml:"output"`
}

// RequestConfig holds default search request parameters for --as-request
// output. Zero values are omitted from the encoded request.
type RequestConfig struct {
	Size   int      `yaml:"size"`
	Start  int      `yaml:"start"`
	Sort   []string `yaml:"sort"`
	Return []string `yaml:"return"`
}

// OutputConfig represents output settings
type OutputConfig struct {
	Color *bool `yaml:"color"` // Pointer to distinguish between unset and false. If nil or true, color is enabled
}

// ColorEnabled returns true if colored output is not explicitly disabled
func (o OutputConfig) ColorEnabled() bool {
	return o.Color == nil || *o.Color
}

// LoadConfig loads configuration from the specified file. An empty path
// falls back to STRUCTQUERY_CONFIG, then to structquery.yaml. A missing
// file yields the default configuration.
func LoadConfig(configPath string) (*Config, error) {
	// Load .env files first
	err := loadEnvFiles()
	if err != nil {
		return nil, fmt.Errorf("failed to load environment files: %w", err)
	}

	configPath = resolveConfigPath(configPath)

	// Check if config file exists
	_, err = os.Stat(configPath)
	if os.IsNotExist(err) {
		// Return default configuration if file doesn't exist
		config := getDefaultConfig()
		expandConfigEnvVars(config)

		return config, nil
	}

	// Read config file
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Parse YAML with strict mode to detect unknown fields
	var config Config

	err = yaml.UnmarshalWithOptions(data, &config, yaml.Strict())
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Validate the configuration
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	// Apply defaults for missing values
	applyDefaults(&config)

	// Expand environment variables
	expandConfigEnvVars(&config)

	return &config, nil
}

// resolveConfigPath applies the flag > environment > default precedence
func resolveConfigPath(configPath string) string {
	if configPath != "" {
		return configPath
	}

	if envPath := os.Getenv("STRUCTQUERY_CONFIG"); envPath != "" {
		return envPath
	}

	return defaultConfigFile
}

// validateConfig validates the configuration for common errors and inconsistencies
func validateConfig(config *Config) error {
	if config.Request.Size < 0 {
		return fmt.Errorf("%w: request.size must be non-negative, got %d", ErrConfigValidation, config.Request.Size)
	}

	if config.Request.Start < 0 {
		return fmt.Errorf("%w: request.start must be non-negative, got %d", ErrConfigValidation, config.Request.Start)
	}

	// Validate sort entries
	for _, entry := range config.Request.Sort {
		if _, err := request.ParseSortKey(entry); err != nil {
			return fmt.Errorf("%w: request.sort entry %q: %w", ErrConfigValidation, entry, err)
		}
	}

	return nil
}

// getDefaultConfig returns the default configuration
func getDefaultConfig() *Config {
	return &Config{
		Parameters: make(map[string]any),
	}
}

// applyDefaults fills in missing values
func applyDefaults(config *Config) {
	if config.Parameters == nil {
		config.Parameters = make(map[string]any)
	}
}

// configureColor disables colored output when the configuration or the
// NO_COLOR environment variable says so.
func configureColor(config *Config) {
	if os.Getenv("NO_COLOR") != "" || !config.Output.ColorEnabled() {
		color.NoColor = true
	}
}

// loadEnvFiles loads environment variables from .env files
func loadEnvFiles() error {
	// Load .env file if it exists
	if fileExists(".env") {
		err := godotenv.Load(".env")
		if err != nil {
			return fmt.Errorf("failed to load .env file: %w", err)
		}
	}

	return nil
}

// fileExists checks if a file exists
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

var (
	bracedVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)
	plainVarPattern  = regexp.MustCompile(`\$([A-Za-z_][A-Za-z0-9_]*)`)
)

// expandEnvVars expands ${VAR} and $VAR references in a string
func expandEnvVars(value string) string {
	value = bracedVarPattern.ReplaceAllStringFunc(value, func(match string) string {
		name := bracedVarPattern.FindStringSubmatch(match)[1]
		return os.Getenv(name)
	})

	return plainVarPattern.ReplaceAllStringFunc(value, func(match string) string {
		name := plainVarPattern.FindStringSubmatch(match)[1]
		return os.Getenv(name)
	})
}

// expandConfigEnvVars expands environment variable references in default
// parameter values.
func expandConfigEnvVars(config *Config) {
	for key, value := range config.Parameters {
		config.Parameters[key] = expandAnyEnvVars(value)
	}
}

func expandAnyEnvVars(value any) any {
	switch v := value.(type) {
	case string:
		return expandEnvVars(v)
	case map[string]any:
		for key, item := range v {
			v[key] = expandAnyEnvVars(item)
		}
		return v
	case []any:
		for i, item := range v {
			v[i] = expandAnyEnvVars(item)
		}
		return v
	default:
		return value
	}
}
