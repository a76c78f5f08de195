// Package console provides the interactive terminal used by the backup workflow.
package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// ErrInputClosed is returned when stdin reaches EOF while a prompt waits.
var ErrInputClosed = errors.New("input closed")

// Console is the terminal surface the workflow talks to.
type Console interface {
	// Out is where subprocess output is streamed to.
	Out() io.Writer
	Println(a ...any)
	Error(msg string)
	Warn(msg string)
	Info(msg string)
	Heading(msg string)
	Clear()
	SetTitle(title string)
	ReadLine(prompt string) (string, error)
	ReadPassword(prompt string) (string, error)
}

// Terminal implements Console on top of a reader and a writer.
type Terminal struct {
	in     io.Reader
	out    io.Writer
	reader *bufio.Reader
	inTTY  bool
	outTTY bool

	errColor  *color.Color
	warnColor *color.Color
	infoColor *color.Color
	headColor *color.Color
}

// New creates a Terminal using stdin and stdout.
func New() *Terminal {
	return NewWithIO(os.Stdin, os.Stdout)
}

// NewWithIO creates a Terminal with custom reader and writer for testing.
func NewWithIO(in io.Reader, out io.Writer) *Terminal {
	t := &Terminal{
		in:        in,
		out:       out,
		reader:    bufio.NewReader(in),
		inTTY:     isTTY(in),
		outTTY:    isTTY(out),
		errColor:  color.New(color.FgRed, color.Bold),
		warnColor: color.New(color.FgYellow),
		infoColor: color.New(color.FgCyan),
		headColor: color.New(color.FgGreen, color.Bold),
	}

	if !supportsColor(t.outTTY) {
		for _, c := range []*color.Color{t.errColor, t.warnColor, t.infoColor, t.headColor} {
			c.DisableColor()
		}
	}

	return t
}

func isTTY(v any) bool {
	if f, ok := v.(interface{ Fd() uintptr }); ok {
		return term.IsTerminal(int(f.Fd()))
	}
	return false
}

func supportsColor(tty bool) bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	if os.Getenv("TERM") == "dumb" {
		return false
	}
	return tty
}

// Out returns the output writer.
func (t *Terminal) Out() io.Writer {
	return t.out
}

// Println writes its operands followed by a newline.
func (t *Terminal) Println(a ...any) {
	fmt.Fprintln(t.out, a...)
}

// Error prints msg in red.
func (t *Terminal) Error(msg string) {
	t.errColor.Fprintln(t.out, msg)
}

// Warn prints msg in yellow.
func (t *Terminal) Warn(msg string) {
	t.warnColor.Fprintln(t.out, msg)
}

// Info prints msg in cyan.
func (t *Terminal) Info(msg string) {
	t.infoColor.Fprintln(t.out, msg)
}

// Heading prints msg in bold green.
func (t *Terminal) Heading(msg string) {
	t.headColor.Fprintln(t.out, msg)
}

// Clear wipes the screen. It is a no-op when output is not a terminal.
func (t *Terminal) Clear() {
	if !t.outTTY {
		return
	}
	if runtime.GOOS == "windows" {
		cmd := exec.Command("cmd", "/c", "cls")
		cmd.Stdout = t.out
		_ = cmd.Run()
		return
	}
	fmt.Fprint(t.out, "\033[H\033[2J")
}

// SetTitle sets the terminal window or tab title.
func (t *Terminal) SetTitle(title string) {
	if !t.outTTY {
		return
	}
	fmt.Fprintf(t.out, "\033]0;%s\007", title)
}

// ReadLine prints prompt and returns the next input line without its line ending.
func (t *Terminal) ReadLine(prompt string) (string, error) {
	fmt.Fprint(t.out, prompt)

	line, err := t.reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line == "" {
			return "", ErrInputClosed
		}
		if !errors.Is(err, io.EOF) {
			return "", fmt.Errorf("reading input: %w", err)
		}
	}

	return strings.TrimRight(line, "\r\n"), nil
}

// ReadPassword prints prompt and reads a line without echo when stdin is a
// terminal. Otherwise it falls back to a plain line read.
func (t *Terminal) ReadPassword(prompt string) (string, error) {
	f, ok := t.in.(interface{ Fd() uintptr })
	if !t.inTTY || !ok {
		return t.ReadLine(prompt)
	}

	fmt.Fprint(t.out, prompt)
	secret, err := term.ReadPassword(int(f.Fd()))
	fmt.Fprintln(t.out)
	if err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}

	return string(secret), nil
}
