// Package cli is the command-line interface of calc.
//
// # Usage
//
//	calc [flags] [eval] [EXPR...]
//	calc [flags] repl [--basic]
//	calc [flags] fmt {native|tree|json|yaml} [LINE...]
//	calc init [--force]
//	calc version
//
// Every command first evaluates the prelude files named by --source into a
// new session. Each EXPR is one line:
//
//	$ calc 'fn sq x => x * x' 'sq 12'
//	144
//
// # Configuration
//
// Flag defaults are read from two optional files in the user config
// directory, e.g. ~/.config/calc on Linux:
//
//   - config.json, a JSON object of flag names to values;
//   - config, a YAML mapping of flag names to values, optionally nested
//     under a "config" key. "calc init" writes this file.
//
// Command-line flags override both files.
//
// # Logging Options
//
//   - --log-level: minimum level (trace, debug, info, warn, error)
//   - --log-format: record encoding (json, text)
//   - --log-time-layout: timestamp layout, by name or Go layout
//   - --[no-]log-caller: include the source location of each record
//   - --[no-]log-pretty: colorize text or indent JSON
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof .
//
//   - --pprof-mode: profile kind (cpu, heap, allocs, ...)
//   - --pprof-dir: profile output directory (default: the user cache
//     directory)
package cli
