// Package config loads hearth's TOML configuration.
//
// Configuration lives at ~/.config/hearth/config.toml and covers three
// values: the hearthd backend base URL, the listen address for the embedded
// /api proxy, and the path of the bundled changelog file. A missing config
// file is not an error; every field has a working default for a local
// single-host setup. A config file that exists but cannot be parsed is a
// fatal startup error so that typos do not silently run against defaults.
package config
