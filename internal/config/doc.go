// Package config loads and merges revlist configuration.
//
// The YAML config file names the services to poll (git_services) and the
// default run arguments. Precedence (highest to lowest):
//  1. CLI flags
//  2. Environment variables (REVLIST_FORMAT, REVLIST_WORKERS)
//  3. Config file ($XDG_CONFIG_HOME/revlist/config.yaml by default)
//  4. Built-in defaults
//
// Use [Load] to obtain a merged, validated [*Config]. Validation failures
// are [*ConfigError] (malformed service inventory) or [*ArgumentError]
// (bad run arguments); both are detected before any fetch.
package config
