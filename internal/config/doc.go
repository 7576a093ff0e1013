// Package config loads, normalizes, and validates storylink configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// STORYLINK_API_KEY. The Config type centralizes the service endpoint, state
// and log directories, the local page listener, and logging options so the CLI
// and the controller discover everything in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, a trimmed base URL, and clear validation errors.
package config
