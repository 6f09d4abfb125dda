package shared

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Database DatabaseConfig `toml:"database"`
	Export   ExportConfig   `toml:"export"`
	Label    LabelConfig    `toml:"label"`
	Status   StatusConfig   `toml:"status"`
}

// DatabaseConfig contains job store connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// ExportConfig contains defaults for print exports.
type ExportConfig struct {
	Style     string `toml:"style"`      // Layout preset name: default, large
	FontPath  string `toml:"font_path"`  // TrueType/OpenType font used for labels
	OutputDir string `toml:"output_dir"` // Directory for generated PDFs when no output path is given
	Workers   int    `toml:"workers"`    // Concurrent renders per page (1 = sequential)
}

// LabelConfig contains label card geometry in pixels and font sizes in points.
type LabelConfig struct {
	Size      int     `toml:"size"`
	Margin    int     `toml:"margin"`
	YearSize  float64 `toml:"year_size"`
	TitleSize float64 `toml:"title_size"`
	MinSize   float64 `toml:"min_size"`
}

// StatusConfig controls how often the status command polls the job store.
type StatusConfig struct {
	PollIntervalMS int `toml:"poll_interval_ms"`
}

// PollInterval returns the status poll interval, defaulting to 500ms.
func (s StatusConfig) PollInterval() time.Duration {
	if s.PollIntervalMS <= 0 {
		return 500 * time.Millisecond
	}
	return time.Duration(s.PollIntervalMS) * time.Millisecond
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Keys missing from the file keep the embedded defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %v", ErrInvalidConfig, err)
	}

	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
