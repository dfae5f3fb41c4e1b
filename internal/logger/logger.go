package logger

import (
	"io"

	"github.com/fatih/color" // Import the fatih/color package for colored console output
)

// Colorized printing functions for the different log levels.
// They behave like fmt.Printf and are rebuilt by SetOutput and Init,
// so callers must always go through the package variables.
var (
	infoColor  = color.New(color.FgGreen)
	warnColor  = color.New(color.FgHiMagenta)
	errorColor = color.New(color.FgRed)
	debugColor = color.New(color.FgCyan)

	out   io.Writer
	debug bool
)

// Info logs progress messages in green.
var Info = infoColor.PrintfFunc()

// Warn logs recoverable problems in bright magenta.
var Warn = warnColor.PrintfFunc()

// Error logs failures in red. A failed setup step and a failed package install both go here.
var Error = errorColor.PrintfFunc()

// Debug logs verbose messages in cyan when enabled, otherwise it is a no-op.
var Debug = func(format string, a ...any) {}

// Init enables or disables debug logging.
// It is called from the root command's PersistentPreRun with the value of --debug.
func Init(enableDebug bool) {
	debug = enableDebug
	rebuild()
}

// SetOutput redirects every level to w. A nil writer restores the colorable stdout.
func SetOutput(w io.Writer) {
	out = w
	rebuild()
}

func rebuild() {
	if out == nil {
		Info = infoColor.PrintfFunc()
		Warn = warnColor.PrintfFunc()
		Error = errorColor.PrintfFunc()
		if debug {
			Debug = debugColor.PrintfFunc()
		} else {
			Debug = func(format string, a ...any) {}
		}
		return
	}

	w := out
	Info = wrap(infoColor.FprintfFunc(), w)
	Warn = wrap(warnColor.FprintfFunc(), w)
	Error = wrap(errorColor.FprintfFunc(), w)
	if debug {
		Debug = wrap(debugColor.FprintfFunc(), w)
	} else {
		Debug = func(format string, a ...any) {}
	}
}

func wrap(f func(w io.Writer, format string, a ...any), w io.Writer) func(format string, a ...any) {
	return func(format string, a ...any) {
		f(w, format, a...)
	}
}
