package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default configuration file name.
const DefaultConfigFile = ".trustscan"

// XDGConfigFile is the configuration file name inside XDGConfigDir.
const XDGConfigFile = "config.yaml"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// BackendSection configures the analysis service.
type BackendSection struct {
	// URL is the base address of the service.
	URL string `yaml:"url,omitempty"`

	// Timeout bounds each request, e.g. "30s". Zero means no timeout.
	Timeout time.Duration `yaml:"timeout,omitempty"`

	// StartHint is the command shown when the service is unreachable.
	StartHint string `yaml:"startHint,omitempty"`
}

// BrowserSection configures access to the browser.
type BrowserSection struct {
	// DevToolsURL is the browser's DevTools endpoint.
	DevToolsURL string `yaml:"devtoolsURL,omitempty"`

	// RestrictedSchemes replaces the default list of address prefixes that are never scanned.
	RestrictedSchemes []string `yaml:"restrictedSchemes,omitempty"`
}

// LogSection configures the log file.
type LogSection struct {
	// File receives the logs instead of stderr.
	File string `yaml:"file,omitempty"`

	// MaxSizeMB is the size at which the file is rotated.
	MaxSizeMB int `yaml:"maxSizeMB,omitempty"`

	// MaxBackups is the number of rotated files kept.
	MaxBackups int `yaml:"maxBackups,omitempty"`

	// MaxAgeDays is the number of days rotated files are kept.
	MaxAgeDays int `yaml:"maxAgeDays,omitempty"`

	// Compress gzips rotated files.
	Compress bool `yaml:"compress,omitempty"`
}

// File represents the structure of the .trustscan configuration file.
type File struct {
	Backend BackendSection `yaml:"backend,omitempty"`
	Browser BrowserSection `yaml:"browser,omitempty"`
	Log     LogSection     `yaml:"log,omitempty"`
}

// Apply copies the values set in the file onto cfg.
func (f *File) Apply(cfg *Config) {
	if f.Backend.URL != "" {
		cfg.BackendURL = f.Backend.URL
	}
	if f.Backend.Timeout != 0 {
		cfg.Timeout = f.Backend.Timeout
	}
	if f.Backend.StartHint != "" {
		cfg.StartHint = f.Backend.StartHint
	}
	if f.Browser.DevToolsURL != "" {
		cfg.DevToolsURL = f.Browser.DevToolsURL
	}
	if len(f.Browser.RestrictedSchemes) > 0 {
		cfg.RestrictedSchemes = append([]string(nil), f.Browser.RestrictedSchemes...)
	}
	if f.Log.File != "" {
		cfg.LogFile = f.Log.File
	}
	if f.Log.MaxSizeMB != 0 {
		cfg.LogMaxSizeMB = f.Log.MaxSizeMB
	}
	if f.Log.MaxBackups != 0 {
		cfg.LogMaxBackups = f.Log.MaxBackups
	}
	if f.Log.MaxAgeDays != 0 {
		cfg.LogMaxAgeDays = f.Log.MaxAgeDays
	}
	if f.Log.Compress {
		cfg.LogCompress = true
	}
}

// LoadConfigFile loads a YAML configuration file.
// If the file does not exist, it returns ErrConfigNotFound.
// Callers should handle this error based on whether the path was
// explicitly specified by the user.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cf File
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, err
	}
	return &cf, nil
}

// FindConfigFile searches for the configuration file in the following order:
// 1. If configPath is specified, use it directly
// 2. Look for .trustscan in the current directory
// 3. Look for .trustscan in the user's home directory
// 4. Look for config.yaml in the XDG config directory
//
// Returns the path to the configuration file if found, or empty string if not found.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	var candidates []string
	if cwd, err := os.Getwd(); err == nil {
		candidates = append(candidates, filepath.Join(cwd, DefaultConfigFile))
	}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, DefaultConfigFile))
	}
	candidates = append(candidates, filepath.Join(XDGConfigDir(), XDGConfigFile))

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// Load applies the configuration file and then the environment onto c.
// It returns the path of the file that was used, or an empty string when
// none was found. An explicitly configured file that does not exist is an error.
func (c *Config) Load() (string, error) {
	path := FindConfigFile(c.ConfigFilePath)
	if path == "" && c.ConfigFilePath != "" {
		return "", fmt.Errorf("%w: %s", ErrConfigNotFound, c.ConfigFilePath)
	}

	if path != "" {
		file, err := LoadConfigFile(path)
		if err != nil {
			return "", fmt.Errorf("failed to load config file %s: %w", path, err)
		}
		file.Apply(c)
	}

	env, err := LoadEnv(c.EnvFile)
	if err != nil {
		return path, err
	}
	env.Apply(c)
	return path, nil
}
