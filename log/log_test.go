package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"slices"
	"strings"
	"testing"
	"time"
)

func TestMake_Defaults(t *testing.T) {
	var buf bytes.Buffer

	logger := Make(&buf)

	if logger.Level() != DefaultLevel {
		t.Errorf("Level() = %v, want %v", logger.Level(), DefaultLevel)
	}

	if logger.Format() != DefaultFormat {
		t.Errorf("Format() = %v, want %v", logger.Format(), DefaultFormat)
	}

	logger.Debug("hidden")
	logger.Info("shown", slog.Int("n", 3))

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("debug record written at default level: %s", out)
	}

	for _, want := range []string{"INFO", "shown", "n=3"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q: %s", want, out)
		}
	}
}

func TestZeroLogger(t *testing.T) {
	var logger Logger

	logger.Error("nowhere")
	logger.With(slog.String("k", "v")).Info("nowhere")

	if logger.Enabled(t.Context(), LevelError) {
		t.Error("zero Logger reports enabled")
	}

	if logger.Level() != DefaultLevel || logger.Format() != DefaultFormat {
		t.Error("zero Logger does not report defaults")
	}
}

func TestWithLevel(t *testing.T) {
	tests := []struct {
		level Level
		want  []string
	}{
		{LevelTrace, []string{"TRACE", "DEBUG", "INFO", "WARN", "ERROR"}},
		{LevelInfo, []string{"INFO", "WARN", "ERROR"}},
		{LevelError, []string{"ERROR"}},
	}

	for _, tt := range tests {
		t.Run(tt.level.String(), func(t *testing.T) {
			var buf bytes.Buffer

			logger := Make(&buf, WithLevel(tt.level), WithFormat(FormatJSON), WithPretty(false))
			logger.Trace("m")
			logger.Debug("m")
			logger.Info("m")
			logger.Warn("m")
			logger.Error("m")

			var got []string

			for line := range strings.Lines(buf.String()) {
				var rec map[string]any
				if err := json.Unmarshal([]byte(line), &rec); err != nil {
					t.Fatalf("invalid JSON %q: %v", line, err)
				}

				got = append(got, rec["level"].(string))
			}

			if !slices.Equal(got, tt.want) {
				t.Errorf("levels = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWithFormat(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer

		Make(&buf, WithFormat(FormatJSON), WithPretty(false)).
			Info("hello", slog.String("key", "value"))

		var rec map[string]any
		if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}

		if rec["msg"] != "hello" || rec["key"] != "value" {
			t.Errorf("record = %v", rec)
		}
	})

	t.Run("text", func(t *testing.T) {
		var buf bytes.Buffer

		Make(&buf, WithFormat(FormatText), WithPretty(false)).
			Info("hello", slog.String("key", "value"))

		if out := buf.String(); !strings.Contains(out, "msg=hello") ||
			!strings.Contains(out, "key=value") {
			t.Errorf("output = %s", out)
		}
	})

	t.Run("pretty json", func(t *testing.T) {
		var buf bytes.Buffer

		Make(&buf, WithFormat(FormatJSON)).
			With(slog.String("component", "lang")).
			Info("hello", slog.Int("n", 1))

		out := buf.String()
		if !strings.Contains(out, "\n  \"msg\": \"hello\"") {
			t.Errorf("output is not indented JSON: %s", out)
		}

		var rec map[string]any
		if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}

		if rec["component"] != "lang" || rec["n"] != float64(1) {
			t.Errorf("record = %v", rec)
		}
	})
}

func TestPrettyText(t *testing.T) {
	var buf bytes.Buffer

	logger := Make(&buf, WithTimeLayout("none")).
		With(slog.String("component", "repl"))

	logger.Warn("slow line",
		slog.String("input", "sum 1 2"),
		slog.Duration("took", 2*time.Second),
		slog.Group("call", slog.String("name", "sum"), slog.Int("depth", 1)),
	)

	out := strings.TrimSpace(buf.String())
	want := `WARN  slow line component=repl input="sum 1 2" took=2s call.name=sum call.depth=1`

	if out != want {
		t.Errorf("output\n got: %s\nwant: %s", out, want)
	}
}

func TestPrettyText_Group(t *testing.T) {
	var buf bytes.Buffer

	logger := Make(&buf, WithTimeLayout("")).
		WithGroup("eval")

	logger.Info("done", slog.Bool("ok", true))

	if out := buf.String(); !strings.Contains(out, "eval.ok=true") {
		t.Errorf("output = %s", out)
	}
}

func TestWithTimeLayout(t *testing.T) {
	tests := []struct {
		layout string
		want   string
	}{
		{"RFC3339", time.RFC3339},
		{"rfc-3339", time.RFC3339},
		{"Kitchen", time.Kitchen},
		{"none", ""},
		{"  ", ""},
		{"15:04:05", "15:04:05"},
	}

	for _, tt := range tests {
		if got := resolveLayout(tt.layout); got != tt.want {
			t.Errorf("resolveLayout(%q) = %q, want %q", tt.layout, got, tt.want)
		}
	}

	var buf bytes.Buffer

	Make(&buf, WithTimeLayout("none"), WithFormat(FormatJSON), WithPretty(false)).Info("m")

	if strings.Contains(buf.String(), `"time"`) {
		t.Errorf("timestamp written with layout none: %s", buf.String())
	}
}

func TestWithCaller(t *testing.T) {
	var buf bytes.Buffer

	Make(&buf, WithCaller(true), WithTimeLayout("none")).Info("here")

	if out := buf.String(); !strings.Contains(out, "log_test.go:") {
		t.Errorf("caller not reported as the test file: %s", out)
	}

	buf.Reset()

	Make(&buf, WithCaller(true), WithFormat(FormatJSON), WithPretty(false)).Info("here")

	var rec struct {
		Source struct {
			File string `json:"file"`
		} `json:"source"`
	}

	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	if !strings.HasSuffix(rec.Source.File, "log_test.go") {
		t.Errorf("source file = %q", rec.Source.File)
	}
}

func TestWrap(t *testing.T) {
	var first, second bytes.Buffer

	base := Make(&first, WithLevel(LevelWarn))
	wrapped := base.Wrap(WithOutput(&second), WithLevel(LevelDebug))

	base.Info("base")
	wrapped.Debug("wrapped")

	if first.Len() != 0 {
		t.Errorf("base wrote below its level: %s", first.String())
	}

	if !strings.Contains(second.String(), "wrapped") {
		t.Errorf("wrapped logger output = %s", second.String())
	}

	if base.Level() != LevelWarn || wrapped.Level() != LevelDebug {
		t.Error("Wrap modified the original logger")
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{"trace", LevelTrace, false},
		{"TRACE", LevelTrace, false},
		{"debug", LevelDebug, false},
		{"Info", LevelInfo, false},
		{"warn", LevelWarn, false},
		{"error", LevelError, false},
		{"debug+2", LevelDebug + 2, false},
		{"loud", DefaultLevel, true},
	}

	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, %v; want %v, err=%v", tt.in, got, err, tt.want, tt.wantErr)
		}
	}

	if got := slices.Collect(Levels()); !slices.Equal(got, []string{"trace", "debug", "info", "warn", "error"}) {
		t.Errorf("Levels() = %v", got)
	}
}

func TestParseFormat(t *testing.T) {
	var f Format
	if err := f.UnmarshalText([]byte("JSON")); err != nil || f != FormatJSON {
		t.Errorf("UnmarshalText(JSON) = %v, %v", f, err)
	}

	if _, err := ParseFormat("xml"); err == nil {
		t.Error("ParseFormat(xml) succeeded")
	}

	if got := slices.Collect(Formats()); !slices.Equal(got, []string{"json", "text"}) {
		t.Errorf("Formats() = %v", got)
	}

	text, _ := FormatText.MarshalText()
	if string(text) != "text" {
		t.Errorf("MarshalText = %q", text)
	}
}

func TestLevelString(t *testing.T) {
	tests := []struct {
		level Level
		str   string
		label string
		text  string
	}{
		{LevelTrace, "trace", "TRACE", "trace"},
		{LevelDebug, "debug", "DEBUG", "debug"},
		{LevelInfo, "info", "INFO", "info"},
		{LevelWarn, "warn", "WARN", "warn"},
		{LevelError, "error", "ERROR", "error"},
		{LevelDebug + 2, "Level(-2)", "DEBUG+2", "debug+2"},
	}

	for _, tt := range tests {
		if got := tt.level.String(); got != tt.str {
			t.Errorf("String() = %q, want %q", got, tt.str)
		}

		if got := tt.level.label(); got != tt.label {
			t.Errorf("label() = %q, want %q", got, tt.label)
		}

		text, _ := tt.level.MarshalText()
		if string(text) != tt.text {
			t.Errorf("MarshalText() = %q, want %q", text, tt.text)
		}

		back, err := ParseLevel(string(text))
		if err != nil || back != tt.level {
			t.Errorf("ParseLevel(%q) = %v, %v, want %v", text, back, err, tt.level)
		}
	}
}

func TestFormatString(t *testing.T) {
	if got := slices.Collect(Formats()); !slices.Equal(got, []string{"json", "text"}) {
		t.Errorf("Formats() = %q", got)
	}

	if got := Format(5).String(); got != "Format(5)" {
		t.Errorf("Format(5).String() = %q", got)
	}

	for _, name := range []string{"json", " TEXT "} {
		if _, err := ParseFormat(name); err != nil {
			t.Errorf("ParseFormat(%q): %v", name, err)
		}
	}

	if _, err := ParseFormat("xml"); err == nil {
		t.Error(`ParseFormat("xml") succeeded`)
	}
}
