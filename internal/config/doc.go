// Package config loads the project descriptor that drives a release run and
// the CLI settings that accompany it.
//
// The descriptor is read once from JSON, YAML or TOML, checked against an
// embedded JSON schema and turned into an immutable Descriptor value. Run
// settings combine cobra flags with ECORP_RELEASE_* environment variables.
package config
