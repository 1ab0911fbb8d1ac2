package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/term"
)

// isTerminal reports whether input comes from an interactive terminal.
func (a *App) isTerminal() bool {
	return a.inFile != nil && term.IsTerminal(int(a.inFile.Fd()))
}

// promptSecret reads a secret without echo. Non-interactive input yields an
// empty secret instead of consuming a line meant for something else.
func (a *App) promptSecret(label string) (string, error) {
	if !a.isTerminal() {
		return "", nil
	}

	_, _ = fmt.Fprint(a.prompt, label)
	value, err := term.ReadPassword(int(a.inFile.Fd()))
	_, _ = fmt.Fprintln(a.prompt)
	if err != nil {
		return "", fmt.Errorf("reading secret: %w", err)
	}
	return strings.TrimSpace(string(value)), nil
}

// readLine reads one line of input. Reading cannot be interrupted, so on
// cancellation the goroutine is left to finish with the process.
func (a *App) readLine(ctx context.Context) (string, error) {
	type result struct {
		line string
		err  error
	}
	ch := make(chan result, 1)

	go func() {
		line, err := a.in.ReadString('\n')
		ch <- result{line, err}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-ch:
		if r.err != nil && (!errors.Is(r.err, io.EOF) || r.line == "") {
			return "", fmt.Errorf("reading input: %w", r.err)
		}
		return strings.TrimSpace(r.line), nil
	}
}
