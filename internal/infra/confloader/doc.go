// Package confloader loads and watches mouse node configuration.
//
// Sources, highest priority first:
//
//  1. Command-line flags (LoadMap)
//  2. Environment variables (MOUSE_ prefix, "__" between sections)
//  3. The YAML configuration file
//  4. Defaults already present in the target struct
//
// Watcher reports edits to the configuration file so the node can apply the
// settings that are safe to change at runtime.
package confloader
