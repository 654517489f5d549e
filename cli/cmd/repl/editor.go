package repl

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"
)

const defaultEditor = "vi"

// editCommand implements [tea.ExecCommand] for the edit-replay-retry loop.
// It dumps the session to a temp file, opens the user's editor, and replays
// the result into a fresh session. On error the user is asked whether to
// edit again; declining keeps the current session and ends the REPL.
type editCommand struct {
	state    *state
	ctxFunc  func() context.Context
	replaced bool
	stdin    io.Reader
	stdout   io.Writer
	stderr   io.Writer
}

// SetStdin sets the stdin reader for the command.
func (c *editCommand) SetStdin(r io.Reader) { c.stdin = r }

// SetStdout sets the stdout writer for the command.
func (c *editCommand) SetStdout(w io.Writer) { c.stdout = w }

// SetStderr sets the stderr writer for the command.
func (c *editCommand) SetStderr(w io.Writer) { c.stderr = w }

// Run executes the loop. It returns [ErrEditDeclined] if the user declines
// to edit again after a failed replay. Clearing the file cancels the edit.
func (c *editCommand) Run() error {
	ctx := c.ctxFunc()

	content, err := c.state.dump()
	if err != nil {
		return fmt.Errorf("dump session: %w", err)
	}

	f, err := os.CreateTemp(os.TempDir(), "calc-repl-*.calc")
	if err != nil {
		return err
	}

	tmpPath := f.Name()

	defer os.Remove(tmpPath)

	if err := f.Close(); err != nil {
		return err
	}

	for {
		if err := os.WriteFile(tmpPath, []byte(content), 0o600); err != nil {
			return err
		}

		data, err := runEditor(ctx, c.stdin, c.stdout, c.stderr, tmpPath)
		if err != nil {
			return err
		}

		if len(bytes.TrimSpace(data)) == 0 {
			return nil
		}

		replayErr := c.state.replay(ctx, bytes.NewReader(data))

		c.state.logger.TraceContext(ctx, "editor replay attempt",
			slog.Int("content_length", len(data)),
			slog.Bool("success", replayErr == nil),
		)

		if replayErr == nil {
			c.replaced = true

			return nil
		}

		fmt.Fprintf(c.stderr, "\nerror: %s\n", replayErr)
		fmt.Fprintf(c.stdout, "Re-edit? [Y/n] ")

		scanner := bufio.NewScanner(c.stdin)
		if !scanner.Scan() {
			return ErrEditDeclined
		}

		response := strings.TrimSpace(strings.ToLower(scanner.Text()))
		if response == "n" || response == "no" {
			return ErrEditDeclined
		}

		content = string(data)
	}
}

// runEditor opens path in $EDITOR and returns the edited contents.
func runEditor(
	ctx context.Context,
	stdin io.Reader,
	stdout io.Writer,
	stderr io.Writer,
	path string,
) ([]byte, error) {
	// $EDITOR may carry arguments, e.g. "code --wait".
	args := strings.Fields(os.Getenv("EDITOR"))
	if len(args) == 0 {
		args = []string{defaultEditor}
	}

	cmd := exec.CommandContext(ctx, args[0], append(args[1:], path)...)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	if err := cmd.Run(); err != nil {
		return nil, err
	}

	return os.ReadFile(path)
}
