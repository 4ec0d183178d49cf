// Package config loads, normalizes, and validates stellar configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and resolves the shared state directory that
// holds the session journal and lock markers. The Config type centralizes the
// category table, organization and rename modes, protection lists, and watch
// settings so every command sees the same sanitized view.
//
// Always obtain settings through this package so downstream code receives
// expanded paths and validated mode names.
package config
