package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix is the prefix of all environment variables read by trustscan.
const EnvPrefix = "TRUSTSCAN"

// DefaultEnvFile is the dotenv file loaded from the current directory.
const DefaultEnvFile = ".env"

// Env holds the values read from TRUSTSCAN_* environment variables.
// Unset variables leave their field empty.
type Env struct {
	// BackendURL maps to TRUSTSCAN_BACKEND_URL.
	BackendURL string `envconfig:"BACKEND_URL"`

	// DevToolsURL maps to TRUSTSCAN_DEVTOOLS_URL.
	DevToolsURL string `envconfig:"DEVTOOLS_URL"`

	// Timeout maps to TRUSTSCAN_TIMEOUT, e.g. "30s".
	Timeout *time.Duration `envconfig:"TIMEOUT"`

	// StartHint maps to TRUSTSCAN_START_HINT.
	StartHint string `envconfig:"START_HINT"`
}

// LoadEnv reads the environment after loading envFile, if it exists.
// Variables already present in the environment take precedence over the file.
func LoadEnv(envFile string) (*Env, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			if _, statErr := os.Stat(envFile); statErr == nil {
				return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
			}
		}
	}

	var env Env
	if err := envconfig.Process(EnvPrefix, &env); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}
	return &env, nil
}

// Apply copies the values set in the environment onto cfg.
func (e *Env) Apply(cfg *Config) {
	if e.BackendURL != "" {
		cfg.BackendURL = e.BackendURL
	}
	if e.DevToolsURL != "" {
		cfg.DevToolsURL = e.DevToolsURL
	}
	if e.Timeout != nil {
		cfg.Timeout = *e.Timeout
	}
	if e.StartHint != "" {
		cfg.StartHint = e.StartHint
	}
}
