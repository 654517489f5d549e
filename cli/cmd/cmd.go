package cmd

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/klauspost/readahead"
)

type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

// kongVar returns the kong variable name, or "" without a kong.Context.
func kongVar(ctx context.Context, name string) string {
	ktx := kongContextFrom(ctx)
	if ktx == nil {
		return ""
	}

	return ktx.Model.Vars()[name]
}

type streamsKey struct{}

// streams are the standard streams seen by a command.
type streams struct {
	in  io.Reader
	out io.Writer
	err io.Writer
}

// WithStreams returns a new context.Context whose commands read from in and
// write to out and errOut instead of the process streams.
func WithStreams(
	ctx context.Context,
	in io.Reader,
	out, errOut io.Writer,
) context.Context {
	return context.WithValue(ctx, streamsKey{}, streams{in, out, errOut})
}

func streamsFrom(ctx context.Context) streams {
	s, ok := ctx.Value(streamsKey{}).(streams)
	if !ok {
		return streams{os.Stdin, os.Stdout, os.Stderr}
	}

	return s
}

type maxDepthKey struct{}

// WithMaxDepth returns a new context.Context carrying the call depth limit
// of every session a command creates. Zero disables the limit.
func WithMaxDepth(ctx context.Context, n int) context.Context {
	return context.WithValue(ctx, maxDepthKey{}, n)
}

func maxDepthFrom(ctx context.Context) int {
	n, _ := ctx.Value(maxDepthKey{}).(int)

	return n
}

type sourceFilesKey struct{}

// SourceFiles are the prelude files evaluated into a session before a
// command runs. Regular files come first in the order given, followed by
// standard input if it was named.
type SourceFiles struct {
	paths    []string
	hasStdin bool
}

// IsZero reports whether there are no source files.
func (s *SourceFiles) IsZero() bool {
	return s == nil || (len(s.paths) == 0 && !s.hasStdin)
}

// HasStdin reports whether standard input is one of the sources.
func (s *SourceFiles) HasStdin() bool { return s != nil && s.hasStdin }

// Len returns the number of sources, counting standard input.
func (s *SourceFiles) Len() int {
	if s == nil {
		return 0
	}

	n := len(s.paths)
	if s.hasStdin {
		n++
	}

	return n
}

// Each calls fn with the name and contents of every source in order.
// Contents are read ahead asynchronously. Each stops at the first error.
func (s *SourceFiles) Each(
	stdin io.Reader,
	fn func(name string, r io.Reader) error,
) error {
	if s.IsZero() {
		return nil
	}

	for _, path := range s.paths {
		if err := readSource(path, fn); err != nil {
			return err
		}
	}

	if !s.hasStdin {
		return nil
	}

	ra := readahead.NewReader(stdin)
	defer ra.Close()

	return fn(stdinName, ra)
}

func readSource(path string, fn func(string, io.Reader) error) error {
	file, err := os.Open(path)
	if err != nil {
		return ErrReadSource.Wrap(err)
	}
	defer file.Close()

	ra := readahead.NewReader(file)
	defer ra.Close()

	return fn(path, ra)
}

// fileKey identifies a file by device and inode numbers, so that one file
// named through symlinks or different relative paths is read once.
type fileKey struct {
	dev uint64
	ino uint64
}

const (
	stdinSource = "-"
	stdinName   = "stdin"
)

// WithSourceFiles returns a new context.Context containing the given
// prelude source files. Duplicates are dropped and every "-" is replaced
// with a single standard input source placed last.
func WithSourceFiles(ctx context.Context, sources []string) context.Context {
	return context.WithValue(ctx, sourceFilesKey{}, buildSourceFiles(sources))
}

func buildSourceFiles(sources []string) *SourceFiles {
	if len(sources) == 0 {
		return nil
	}

	srcs := SourceFiles{paths: make([]string, 0, len(sources))}
	seen := make(map[fileKey]struct{})

	stdinInfo, err := os.Stdin.Stat()

	var stdinKey fileKey
	if err == nil {
		stdinKey, _ = makeFileKey(stdinInfo)
	}

	for _, src := range sources {
		if src == stdinSource {
			seen[stdinKey] = struct{}{}

			continue
		}

		path, ok := uniqueFile(src, seen)
		if !ok {
			continue
		}

		srcs.paths = append(srcs.paths, path)
	}

	// Stdin may be named by "-" or by its device path; either way it is
	// recorded under stdinKey.
	_, srcs.hasStdin = seen[stdinKey]

	if srcs.IsZero() {
		return nil
	}

	return &srcs
}

// uniqueFile resolves path and reports whether it names a file not yet
// seen, recording it if so.
func uniqueFile(path string, seen map[fileKey]struct{}) (string, bool) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", false
	}

	resolved, err := filepath.EvalSymlinks(absPath)
	if err != nil {
		return "", false
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return "", false
	}

	key, ok := makeFileKey(info)
	if !ok {
		return "", false
	}

	if _, exists := seen[key]; exists {
		return "", false
	}

	seen[key] = struct{}{}

	return resolved, true
}

func makeFileKey(info os.FileInfo) (key fileKey, ok bool) {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return key, false
	}

	return fileKey{dev: uint64(stat.Dev), ino: stat.Ino}, true
}

func sourceFilesFrom(ctx context.Context) *SourceFiles {
	s, _ := ctx.Value(sourceFilesKey{}).(*SourceFiles)

	return s
}
