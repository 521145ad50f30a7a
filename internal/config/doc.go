// Package config loads, normalizes, and validates the TOML configuration used
// by the reeldocs CLI and daemon. Secrets may be supplied via environment
// variables (GEMINI_API_KEY, REELDOCS_STORAGE_ACCESS_KEY,
// REELDOCS_STORAGE_SECRET_KEY, REELDOCS_API_TOKEN) instead of the config file.
package config
