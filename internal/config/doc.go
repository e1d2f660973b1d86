// Package config loads, normalizes, and validates easel configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and anchors relative workspace entries at the
// configured workspace root. The Config type centralizes every knob the
// bootstrap and status commands need so downstream code receives sanitized
// absolute paths and clear validation errors.
package config
