// Package confloader loads layered configuration with koanf.
//
// Sources, lowest priority first:
//
//  1. Defaults (a dotted-key map)
//  2. A configuration file, YAML or TOML by extension
//  3. Environment variables with the RESPKV_ prefix
//
// Watcher reports changes to the configuration file so callers can
// re-read it and apply what may change at runtime.
package confloader
