// Package config loads and validates tmatch configuration.
//
// Settings come from defaults, then an optional TOML file, then functional
// options. Paths are expanded (including "~") and language codes
// normalized before validation, so callers receive a usable Config or a
// clear error.
package config
