// Package config loads, normalizes, and validates bc1 configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), and reads TOML files. The Config type centralizes every knob
// the CLI and library packages need: temp-resource locations and sweep
// timing, integrity probe selection, catalog database placement, and log
// routing.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
