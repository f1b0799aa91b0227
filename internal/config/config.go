package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/jcline/revlist/internal/output"
	"github.com/jcline/revlist/internal/services"
)

// Config is the resolved revlist configuration: the service inventory plus
// the run arguments.
type Config struct {
	GitServices []ServiceEntry `yaml:"git_services"`
	Arguments   Arguments      `yaml:"arguments"`
}

// ServiceEntry configures one hosting service instance and the
// repositories to poll on it.
type ServiceEntry struct {
	Type  string   `yaml:"type"`
	Token string   `yaml:"token,omitempty"`
	Host  string   `yaml:"host,omitempty"`
	Repos []string `yaml:"repos"`
}

// Arguments holds the run arguments shared by every fetch.
type Arguments struct {
	State    string `yaml:"state,omitempty"`
	Value    int    `yaml:"value,omitempty"`
	Duration string `yaml:"duration,omitempty"`
	Format   string `yaml:"format,omitempty"`
	Reverse  bool   `yaml:"reverse,omitempty"`
	Insecure bool   `yaml:"insecure,omitempty"`
	CACert   string `yaml:"cacert,omitempty"`
	Debug    bool   `yaml:"debug,omitempty"`
	Workers  int    `yaml:"workers,omitempty"`
}

// ConfigError reports a malformed or missing piece of the service
// inventory.
type ConfigError struct {
	Message string
}

func (e *ConfigError) Error() string { return "config error: " + e.Message }

// ArgumentError reports an invalid run argument combination.
type ArgumentError struct {
	Message string
}

func (e *ArgumentError) Error() string { return "argument error: " + e.Message }

// Default returns a Config with all defaults applied.
func Default() Config {
	return Config{
		Arguments: Arguments{
			Format:  output.StyleOneline,
			Workers: 4,
		},
	}
}

// DefaultDir returns the platform-appropriate config directory for revlist.
func DefaultDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "revlist"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "revlist"), nil
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "revlist"), nil
		}
		return filepath.Join(home, "AppData", "Roaming", "revlist"), nil
	default:
		return filepath.Join(home, ".config", "revlist"), nil
	}
}

// DefaultPath returns the full path to the default config file.
func DefaultPath() (string, error) {
	dir, err := DefaultDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Load builds the effective config by merging: defaults <- file <- env <-
// overrides, then validates the result. The overrides map comes from CLI
// flags (only explicitly set values should be present). An empty path
// loads the default config file.
func Load(path string, overrides map[string]string) (*Config, error) {
	cfg := Default()

	if path == "" {
		var err error
		path, err = DefaultPath()
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &ConfigError{Message: fmt.Sprintf("config file not found: %s", path)}
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, &ConfigError{Message: fmt.Sprintf("parsing %s: %v", path, err)}
	}

	mergeEnv(&cfg)
	mergeOverrides(&cfg, overrides)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func mergeEnv(cfg *Config) {
	if v := os.Getenv("REVLIST_FORMAT"); v != "" {
		cfg.Arguments.Format = v
	}
	if v := os.Getenv("REVLIST_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Arguments.Workers = n
		}
	}
}

func mergeOverrides(cfg *Config, overrides map[string]string) {
	if overrides == nil {
		return
	}
	if v, ok := overrides["state"]; ok && v != "" {
		cfg.Arguments.State = v
	}
	if v, ok := overrides["value"]; ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Arguments.Value = n
		}
	}
	if v, ok := overrides["duration"]; ok && v != "" {
		cfg.Arguments.Duration = v
	}
	if v, ok := overrides["format"]; ok && v != "" {
		cfg.Arguments.Format = v
	}
	if v, ok := overrides["cacert"]; ok && v != "" {
		cfg.Arguments.CACert = v
	}
	if v, ok := overrides["workers"]; ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Arguments.Workers = n
		}
	}
	if _, ok := overrides["reverse"]; ok {
		cfg.Arguments.Reverse = true
	}
	if _, ok := overrides["insecure"]; ok {
		cfg.Arguments.Insecure = true
	}
	if _, ok := overrides["debug"]; ok {
		cfg.Arguments.Debug = true
	}
}

// Validate checks the merged configuration. Load calls it before
// returning, so a *Config elsewhere in the program is always valid.
func (c *Config) Validate() error {
	if len(c.GitServices) == 0 {
		return &ConfigError{Message: "no git_services configured"}
	}
	for i, entry := range c.GitServices {
		if entry.Type == "" {
			return &ConfigError{Message: fmt.Sprintf("git_services[%d]: missing type", i)}
		}
		if len(entry.Repos) == 0 {
			return &ConfigError{Message: fmt.Sprintf("git_services[%d] (%s): no repos listed", i, entry.Type)}
		}
	}
	return c.Arguments.validate()
}

func (a *Arguments) validate() error {
	set := 0
	if a.State != "" {
		set++
	}
	if a.Value != 0 {
		set++
	}
	if a.Duration != "" {
		set++
	}
	if set != 0 && set != 3 {
		return &ArgumentError{Message: "state, value and duration must be provided together or not at all"}
	}

	if a.State != "" && a.State != services.StateOlder && a.State != services.StateNewer {
		return &ArgumentError{Message: fmt.Sprintf("state must be %q or %q, got %q", services.StateOlder, services.StateNewer, a.State)}
	}
	if a.Duration != "" {
		switch a.Duration {
		case services.UnitYear, services.UnitMonth, services.UnitDay, services.UnitHour, services.UnitMinute:
		default:
			return &ArgumentError{Message: fmt.Sprintf("duration must be one of y, m, d, h, min, got %q", a.Duration)}
		}
	}
	if a.Value < 0 {
		return &ArgumentError{Message: "value must be positive"}
	}

	switch a.Format {
	case output.StyleOneline, output.StyleIndented, output.StyleJSON:
	default:
		return &ArgumentError{Message: fmt.Sprintf("unknown format %q", a.Format)}
	}
	return nil
}
