package commands

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

// console is the terminal the commands talk to.
type console struct {
	in     *bufio.Reader
	out    io.Writer
	errOut io.Writer

	// terminal is true when in is an interactive terminal on stdin.
	terminal bool
}

func stdConsole() *console {
	return &console{
		in:       bufio.NewReader(os.Stdin),
		out:      os.Stdout,
		errOut:   os.Stderr,
		terminal: term.IsTerminal(int(os.Stdin.Fd())),
	}
}

// password reads a password without echo. Without a terminal the password is
// read as a plain line so it can be piped in.
func (c *console) password(label string) (string, error) {
	if _, err := fmt.Fprintf(c.out, "%s: ", label); err != nil {
		return "", err
	}

	if c.terminal {
		pw, err := readPassword(int(os.Stdin.Fd()))
		_, _ = fmt.Fprintln(c.out)
		if err != nil {
			return "", fmt.Errorf("reading password: %w", err)
		}
		return string(pw), nil
	}

	line, err := c.line()
	if err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}
	return line, nil
}

// confirm asks a yes/no question. Anything but y or yes is a no.
func (c *console) confirm(question string) (bool, error) {
	if _, err := fmt.Fprintf(c.out, "%s [y/N]: ", question); err != nil {
		return false, err
	}
	answer, err := c.line()
	if errors.Is(err, io.EOF) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// line reads one line. A final line without newline is returned as is.
func (c *console) line() (string, error) {
	line, err := c.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && len(line) > 0 {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}
