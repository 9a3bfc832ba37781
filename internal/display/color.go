// Package display provides the small set of ANSI styles the CLI output
// uses. Colors honor NO_COLOR (https://no-color.org/) and switch off
// automatically when stdout is piped or redirected.
package display

import "os"

const (
	reset  = "\033[0m"
	bold   = "\033[1m"
	dim    = "\033[2m"
	cyan   = "\033[36m"
	fgGray = "\033[90m"
)

// enabled is decided once at init time.
var enabled bool

func init() {
	enabled = shouldEnable()
}

func shouldEnable() bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	if _, ok := os.LookupEnv("FORCE_COLOR"); ok {
		return true
	}
	return isTerminal(os.Stdout)
}

// isTerminal checks for a character device, avoiding any terminfo dependency.
func isTerminal(f *os.File) bool {
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}

// SetEnabled overrides the auto-detected color state.
// Useful for tests and for --json output, which must stay plain.
func SetEnabled(b bool) {
	enabled = b
}

// Enabled reports whether color output is currently active.
func Enabled() bool {
	return enabled
}

func wrap(code, text string) string {
	if !enabled {
		return text
	}
	return code + text + reset
}

// Bold returns text rendered in bold.
func Bold(text string) string {
	return wrap(bold, text)
}

// Dim returns text rendered in dim/faint. Used for prayers already passed.
func Dim(text string) string {
	return wrap(dim, text)
}

// Gray returns text rendered in gray (bright black).
func Gray(text string) string {
	return wrap(fgGray, text)
}

// Accent returns text in the highlight style used for the next prayer.
func Accent(text string) string {
	if !enabled {
		return text
	}
	return bold + cyan + text + reset
}
