// Package config defines the engine and client settings and provides
// helpers to load, validate and save them in YAML format.
//
// Validate fills defaults for every optional field, so a config file only
// needs to name what differs from a local single-user setup.
package config
