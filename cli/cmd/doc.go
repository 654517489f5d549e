// Package cmd implements the calc subcommands. Every command is a kong
// command whose Run method receives the context prepared by package cli:
// the parsed [kong.Context], the prelude source files, the call depth
// limit and the standard streams.
package cmd

var (
	// CacheIdentifier is the kong variable holding the runtime cache
	// directory, where the REPL keeps its history.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable holding the path of the YAML
	// configuration file.
	ConfigIdentifier = "config"
)
