// Package log is a small layer over [log/slog] with a trace level,
// functional options, and a colored text format for terminals.
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelDebug),
//		log.WithTimeLayout("RFC3339"),
//		log.WithCaller(true))
//
//	logger.Info("evaluated", slog.String("input", line))
//
// Every logging method takes [slog.Attr] values rather than alternating
// keys and values. Methods without a context argument use
// [DefaultContextProvider].
//
// The package-level functions log through a shared default [Logger]
// writing to standard error, reconfigured with [Config].
package log
