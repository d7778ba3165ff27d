package alert

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Dialog shows alerts and asks yes/no questions.
type Dialog interface {
	// Show displays a and blocks until it is acknowledged.
	Show(ctx context.Context, a Alert) error
	// Confirm asks a yes/no question. Anything but an explicit yes is no.
	Confirm(ctx context.Context, a Alert) (bool, error)
}

// TerminalDialog renders alerts on a terminal. On an interactive terminal
// Show waits for Enter; otherwise it only prints.
type TerminalDialog struct {
	In          io.Reader
	Out         io.Writer
	Interactive bool
	AssumeYes   bool // answer yes to every Confirm without asking

	reader *bufio.Reader
}

// NewTerminalDialog creates a dialog on stdin/stdout, interactive when stdin is a terminal.
func NewTerminalDialog(assumeYes bool) *TerminalDialog {
	return &TerminalDialog{
		In:          os.Stdin,
		Out:         os.Stdout,
		Interactive: term.IsTerminal(int(os.Stdin.Fd())), //nolint:gosec // fd fits in int
		AssumeYes:   assumeYes,
	}
}

// Show implements Dialog. A zero alert shows nothing.
func (d *TerminalDialog) Show(ctx context.Context, a Alert) error {
	if a.IsZero() {
		return nil
	}
	if _, err := fmt.Fprintf(d.Out, "\n[%s]\n%s\n", a.Title, a.Message); err != nil {
		return err
	}
	if !d.Interactive {
		return nil
	}
	if _, err := fmt.Fprint(d.Out, "Press Enter to continue..."); err != nil {
		return err
	}
	_, err := d.readLine(ctx)
	return err
}

// Confirm implements Dialog. Non-interactive sessions answer no unless AssumeYes is set.
func (d *TerminalDialog) Confirm(ctx context.Context, a Alert) (bool, error) {
	if d.AssumeYes {
		return true, nil
	}
	if !d.Interactive {
		return false, nil
	}
	if _, err := fmt.Fprintf(d.Out, "\n[%s]\n%s [y/N]: ", a.Title, a.Message); err != nil {
		return false, err
	}
	line, err := d.readLine(ctx)
	if err != nil {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// Prompt asks for a single line of input, e.g. a username.
func (d *TerminalDialog) Prompt(ctx context.Context, label string) (string, error) {
	if !d.Interactive {
		return "", fmt.Errorf("cannot prompt for %s: stdin is not a terminal", strings.ToLower(label))
	}
	if _, err := fmt.Fprintf(d.Out, "%s: ", label); err != nil {
		return "", err
	}
	line, err := d.readLine(ctx)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// readLine reads one line, giving up when ctx is done. The reading goroutine
// ends when the input yields a line or EOF.
func (d *TerminalDialog) readLine(ctx context.Context) (string, error) {
	type result struct {
		line string
		err  error
	}
	if d.reader == nil {
		d.reader = bufio.NewReader(d.In)
	}
	reader := d.reader
	ch := make(chan result, 1)
	go func() {
		line, err := reader.ReadString('\n')
		if err == io.EOF {
			err = nil
		}
		ch <- result{line, err}
	}()

	select {
	case r := <-ch:
		return r.line, r.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// ReadPassword reads a password from the terminal without echo.
func ReadPassword(prompt string) (string, error) {
	fd := int(os.Stdin.Fd()) //nolint:gosec // fd fits in int
	if !term.IsTerminal(fd) {
		return "", fmt.Errorf("cannot prompt for password: stdin is not a terminal")
	}
	fmt.Fprint(os.Stderr, prompt)
	pw, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(pw), nil
}
