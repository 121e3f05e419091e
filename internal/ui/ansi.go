package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

var (
	reset = "\033[0m"
	bold  = "\033[1m"
	dim   = "\033[2m"

	fgGray   = "\033[90m"
	fgGreen  = "\033[32m"
	fgYellow = "\033[33m"
	fgBlue   = "\033[34m"
	fgRed    = "\033[31m"

	symCheck = "✔"
	symCross = "✖"
)

var (
	forceColor   bool
	disableColor bool

	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

func SetColorForcing(force, disable bool) {
	forceColor = force
	disableColor = disable
}

// SetOutput redirects OK, Fail and Panel. Nil keeps the current writer.
func SetOutput(out, errOut io.Writer) {
	if out != nil {
		stdout = out
	}
	if errOut != nil {
		stderr = errOut
	}
}

func isTTY() bool {
	f, ok := stdout.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// IsInteractive reports whether stdin and stdout are both terminals.
func IsInteractive() bool {
	return isatty.IsTerminal(os.Stdin.Fd()) && isatty.IsTerminal(os.Stdout.Fd())
}

func C(color, s string) string {
	if disableColor || color == "" {
		return s
	}
	if forceColor || isTTY() {
		return color + s + reset
	}
	return s
}

func OK(msg string)   { fmt.Fprintln(stdout, C(fgGreen, symCheck+" "+msg)) }
func Fail(msg string) { fmt.Fprintln(stderr, C(fgRed, symCross+" "+msg)) }
func Hint(msg string) { fmt.Fprintln(stderr, C(fgGray, msg)) }
