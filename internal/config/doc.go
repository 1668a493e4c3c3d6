// Package config provides configuration structures and utilities for trustscan.
// It defines where the analysis backend and the browser are reached, how the
// popup behaves, and which report is produced.
//
// Values are layered: defaults from NewConfig, then the YAML configuration
// file, then environment variables (optionally from a .env file), then
// command-line flags applied by the caller.
package config
