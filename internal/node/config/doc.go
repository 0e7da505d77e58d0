// Package config defines the mouse-node configuration structure.
//
// Values are resolved by confloader in this order, later sources winning:
// defaults, the YAML file, MOUSE_ environment variables, command-line flags.
package config
