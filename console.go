package beaverlog

import (
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
)

// ColorMode selects how a console destination colors level words.
type ColorMode int

const (
	// ColorEmoji prefixes level words with colored emoji.
	ColorEmoji ColorMode = iota
	// ColorTerminal uses ANSI 256-color escapes.
	ColorTerminal
	// ColorNone prints plain text.
	ColorNone
)

// ParseColorMode accepts "emoji", "terminal" and "none".
func ParseColorMode(s string) (ColorMode, error) {
	switch s {
	case "", "emoji":
		return ColorEmoji, nil
	case "terminal", "ansi":
		return ColorTerminal, nil
	case "none", "plain":
		return ColorNone, nil
	default:
		return ColorNone, errors.Errorf("invalid color mode: %s", s)
	}
}

// ConsoleDestination prints lines to standard output or standard error.
type ConsoleDestination struct {
	*Base
	out io.Writer
}

// NewConsoleDestination writes to stdout with emoji level markers.
func NewConsoleDestination() *ConsoleDestination {
	c := &ConsoleDestination{Base: NewBase(), out: os.Stdout}
	c.SetColorMode(ColorEmoji)
	return c
}

// UseStderr switches the output stream.
func (c *ConsoleDestination) UseStderr(stderr bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if stderr {
		c.out = os.Stderr
	} else {
		c.out = os.Stdout
	}
}

// SetOutput writes to w instead of a standard stream.
func (c *ConsoleDestination) SetOutput(w io.Writer) {
	if w == nil {
		return
	}
	c.mu.Lock()
	c.out = w
	c.mu.Unlock()
}

// SetColorMode installs the level colors and escapes of mode. Terminal
// colors fall back to none when the output is not a terminal or NO_COLOR
// is set.
func (c *ConsoleDestination) SetColorMode(mode ColorMode) {
	if mode == ColorTerminal && !c.isTerminal() {
		mode = ColorNone
	}
	switch mode {
	case ColorTerminal:
		c.SetLevelColors(TerminalLevelColors)
		c.SetEscape(ansiEscape)
		c.SetReset(ansiReset)
	case ColorEmoji:
		c.SetLevelColors(EmojiLevelColors)
		c.SetEscape("")
		c.SetReset("")
	default:
		c.SetLevelColors(LevelMap{})
		c.SetEscape("")
		c.SetReset("")
	}
}

func (c *ConsoleDestination) isTerminal() bool {
	if color.NoColor {
		return false
	}
	c.mu.RLock()
	out := c.out
	c.mu.RUnlock()
	f, ok := out.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Send renders e and prints it as one line.
func (c *ConsoleDestination) Send(e *Entry) (string, bool) {
	line, ok := c.Render(e)
	if !ok {
		return "", false
	}
	c.mu.RLock()
	out := c.out
	c.mu.RUnlock()
	if _, err := io.WriteString(out, line+"\n"); err != nil {
		c.handleError(errors.Wrap(err, "console write error"))
		return "", false
	}
	return line, true
}
