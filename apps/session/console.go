package session

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

var readPasswordFunc = term.ReadPassword // mockable

// Console is the line-oriented terminal the session talks through.
type Console struct {
	in       *bufio.Reader
	out      io.Writer
	fd       int
	terminal bool
}

// NewConsole reads lines (passwords included) from in and writes to out.
func NewConsole(in io.Reader, out io.Writer) *Console {
	return &Console{in: bufio.NewReader(in), out: out, fd: -1}
}

// NewTerminalConsole talks through stdin/stdout; passwords are not echoed when stdin is a terminal.
func NewTerminalConsole() *Console {
	fd := int(os.Stdin.Fd())
	return &Console{
		in:       bufio.NewReader(os.Stdin),
		out:      os.Stdout,
		fd:       fd,
		terminal: term.IsTerminal(fd),
	}
}

func (c *Console) Printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(c.out, format, args...)
}

func (c *Console) Println(args ...interface{}) {
	_, _ = fmt.Fprintln(c.out, args...)
}

// ReadLine prints prompt and returns the next input line without its line ending.
// io.EOF is returned once the input is exhausted.
func (c *Console) ReadLine(prompt string) (string, error) {
	c.Printf("%s", prompt)
	line, err := c.in.ReadString('\n')
	if err != nil {
		if err == io.EOF && line != "" {
			return strings.TrimRight(line, "\r\n"), nil
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// ReadPassword prints prompt and reads a password without echoing it.
func (c *Console) ReadPassword(prompt string) (string, error) {
	if !c.terminal {
		return c.ReadLine(prompt)
	}
	c.Printf("%s", prompt)
	pwd, err := readPasswordFunc(c.fd)
	c.Println()
	if err != nil {
		return "", err
	}
	return string(pwd), nil
}
