// Package config provides configuration loading, merging, and validation
// facilities for the vault engine and its CLI.
//
// Configuration is assembled from multiple sources in the following priority
// order (later sources override earlier non-zero fields):
//  1. Environment variables
//  2. Explicit overrides (flag values bound by the CLI)
//  3. JSON config file
//
// The main entry point is [GetStructuredConfig].
package config
