package log

//go:generate go tool stringer --linecomment --type Level,Format --output level_string.go

import (
	"fmt"
	"iter"
	"log/slog"
	"slices"
	"strings"
)

// Level is the severity of a log message.
type Level slog.Level

const (
	LevelTrace = Level(slog.LevelDebug - 4) // trace
	LevelDebug = Level(slog.LevelDebug)     // debug
	LevelInfo  = Level(slog.LevelInfo)      // info
	LevelWarn  = Level(slog.LevelWarn)      // warn
	LevelError = Level(slog.LevelError)     // error
)

// DefaultLevel is the level of a new [Logger].
const DefaultLevel = LevelInfo

// label returns the upper-case name of l. Levels between the named ones
// use the slog form, such as "DEBUG+2".
func (l Level) label() string {
	switch l {
	case LevelTrace, LevelDebug, LevelInfo, LevelWarn, LevelError:
		return strings.ToUpper(l.String())
	}

	return slog.Level(l).String()
}

// Levels returns the names of the defined levels from least to most severe.
func Levels() iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, l := range []Level{LevelTrace, LevelDebug, LevelInfo, LevelWarn, LevelError} {
			if !yield(l.String()) {
				return
			}
		}
	}
}

// ParseLevel parses a level name, case-insensitively. Besides "trace", any
// form accepted by [slog.Level.UnmarshalText] is valid, such as "debug+2".
func ParseLevel(s string) (Level, error) {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "trace") {
		return LevelTrace, nil
	}

	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return DefaultLevel, fmt.Errorf("invalid log level %q", s)
	}

	return Level(l), nil
}

func (l Level) MarshalText() ([]byte, error) {
	return []byte(strings.ToLower(l.label())), nil
}

func (l *Level) UnmarshalText(text []byte) (err error) {
	*l, err = ParseLevel(string(text))

	return err
}

// Format selects the encoding of log records.
type Format int

const (
	FormatJSON Format = iota // json
	FormatText               // text
)

// DefaultFormat is the format of a new [Logger].
const DefaultFormat = FormatText

var formats = []Format{FormatJSON, FormatText}

// Formats returns the names of the defined formats.
func Formats() iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, f := range formats {
			if !yield(f.String()) {
				return
			}
		}
	}
}

// ParseFormat parses a format name, case-insensitively.
func ParseFormat(s string) (Format, error) {
	s = strings.TrimSpace(s)
	if i := slices.IndexFunc(formats, func(f Format) bool {
		return strings.EqualFold(f.String(), s)
	}); i >= 0 {
		return formats[i], nil
	}

	return DefaultFormat, fmt.Errorf("invalid log format %q", s)
}

func (f Format) MarshalText() ([]byte, error) { return []byte(f.String()), nil }

func (f *Format) UnmarshalText(text []byte) (err error) {
	*f, err = ParseFormat(string(text))

	return err
}
