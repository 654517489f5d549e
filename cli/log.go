package cli

import (
	"context"
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/calc/log"
)

// logLevel configures the default logger level as a side effect of parsing,
// so that the level applies to messages logged while kong is still parsing.
type logLevel string

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *logLevel) UnmarshalText(text []byte) error {
	level, err := log.ParseLevel(string(text))
	if err != nil {
		return err
	}

	*l = logLevel(text)
	log.Config(log.WithLevel(level))

	return nil
}

// logFormat configures the default logger format as a side effect of
// parsing.
type logFormat string

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *logFormat) UnmarshalText(text []byte) error {
	format, err := log.ParseFormat(string(text))
	if err != nil {
		return err
	}

	*f = logFormat(text)
	log.Config(log.WithFormat(format))

	return nil
}

type logConfig struct {
	Level      logLevel  `default:"${logLevelDefault}"  help:"Set log level (${logLevels})."                   placeholder:"LEVEL"`
	Format     logFormat `default:"${logFormatDefault}" help:"Set log format (${logFormats})."                 placeholder:"FORMAT"`
	TimeLayout string    `default:"kitchen"             help:"Set timestamp layout, by name (${logLayouts}) or Go layout." placeholder:"LAYOUT"`
	Caller     bool      `default:"false"               help:"Include caller information."                   negatable:""`
	Pretty     bool      `default:"true"                help:"Enable colorized pretty printing."             negatable:""`
}

func (*logConfig) vars() kong.Vars {
	return kong.Vars{
		"logLevelDefault":  log.DefaultLevel.String(),
		"logLevels":        strings.Join(slices.Collect(log.Levels()), ", "),
		"logFormatDefault": log.DefaultFormat.String(),
		"logFormats":       strings.Join(slices.Collect(log.Formats()), ", "),
		"logLayouts":       strings.Join(log.LayoutNames(), ", "),
	}
}

func (*logConfig) group() kong.Group {
	return kong.Group{Key: "log", Title: "Logging options"}
}

// start applies the complete configuration to the default logger.
func (f *logConfig) start(ctx context.Context) {
	opts := []log.Option{
		log.WithTimeLayout(f.TimeLayout),
		log.WithCaller(f.Caller),
		log.WithPretty(f.Pretty),
	}

	if level, err := log.ParseLevel(string(f.Level)); err == nil {
		opts = append(opts, log.WithLevel(level))
	}

	if format, err := log.ParseFormat(string(f.Format)); err == nil {
		opts = append(opts, log.WithFormat(format))
	}

	log.Config(opts...)

	log.DebugContext(ctx, "logger initialized",
		slog.String("level", string(f.Level)),
		slog.String("format", string(f.Format)),
		slog.String("time", f.TimeLayout),
		slog.Bool("caller", f.Caller),
		slog.Bool("pretty", f.Pretty),
	)
}

// scan applies logger flags found in args before kong parses them, so the
// logger is configured regardless of flag position. Boolean flags never
// reach an UnmarshalText method, so they are only applied here and in
// start.
func (f *logConfig) scan(args []string) {
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			return
		}

		name, value, assigned := strings.Cut(arg, "=")

		// next consumes the following argument as the value of name.
		next := func() string {
			if assigned {
				return value
			}

			if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
				i++

				return args[i]
			}

			return ""
		}

		// flag parses the value of a boolean flag, negated for --no-*.
		flag := func(negated bool) (bool, bool) {
			v := true
			if assigned {
				var err error
				if v, err = strconv.ParseBool(value); err != nil {
					return false, false
				}
			}

			return v != negated, true
		}

		switch name {
		case "--log-level":
			_ = f.Level.UnmarshalText([]byte(next()))

		case "--log-format":
			_ = f.Format.UnmarshalText([]byte(next()))

		case "--log-pretty", "--no-log-pretty":
			if v, ok := flag(name == "--no-log-pretty"); ok {
				f.Pretty = v
				log.Config(log.WithPretty(v))
			}

		case "--log-caller", "--no-log-caller":
			if v, ok := flag(name == "--no-log-caller"); ok {
				f.Caller = v
				log.Config(log.WithCaller(v))
			}
		}
	}
}
