// Package config loads, normalizes, and validates shelfscan's TOML
// configuration.
//
// Load resolves the config path (explicit flag, ~/.config/shelfscan, or a
// project-local shelfscan.toml), decodes it over Default() values, expands
// `~` in every path field, and validates the result. A missing file is not an
// error; defaults apply, though validation still requires a vision API key.
package config
