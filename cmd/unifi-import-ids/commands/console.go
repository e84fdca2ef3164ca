package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// console prints progress messages for humans.
// Colors and emojis are only used on terminals.
type console struct {
	w        io.Writer
	terminal bool
}

func newConsole(w io.Writer) console {
	var terminal bool
	if f, ok := w.(*os.File); ok {
		terminal = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return console{w: w, terminal: terminal}
}

func (c console) print(attr color.Attribute, emoji, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if c.terminal && emoji != "" {
		msg = emoji + " " + msg
	}

	col := color.New(attr)
	if c.terminal {
		col.EnableColor()
	} else {
		col.DisableColor()
	}
	col.Fprintln(c.w, msg)
}

func (c console) step(emoji, format string, args ...any) {
	c.print(color.Reset, emoji, format, args...)
}

func (c console) success(format string, args ...any) {
	c.print(color.FgGreen, "✅", format, args...)
}

func (c console) failure(format string, args ...any) {
	c.print(color.FgRed, "❌", format, args...)
}

func (c console) hint(format string, args ...any) {
	c.print(color.FgYellow, "", format, args...)
}

func (c console) blank() {
	fmt.Fprintln(c.w)
}
