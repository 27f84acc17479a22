// Package config provides configuration loading, merging, and validation
// facilities for the server and the sync client.
//
// Configuration is assembled from multiple sources in the following priority
// order (later sources override earlier non-zero fields):
//  1. Environment variables (optionally seeded from a .env file)
//  2. Command-line flags
//  3. Config file (JSON, YAML or TOML, chosen by extension)
//
// Zero fields left after merging are filled from built-in defaults.
//
// The main entry points are [GetStructuredConfig] for the server and
// [LoadClientConfig] for the sync client.
package config
