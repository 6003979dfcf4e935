// Package config defines the Ganymede configuration model and its loading
// pipeline.
//
// Configuration is read from a YAML file, filled in with defaults, optionally
// overridden by GANYMEDE_* environment variables, and validated before any
// component sees it. Components receive the section they care about rather
// than the whole Config where possible.
package config
