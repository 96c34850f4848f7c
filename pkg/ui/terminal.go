package ui

import (
	"fmt"
	"io"
	"os"
	"sync"

	"golang.org/x/term"
)

// Banner printed before a run
const Banner = `
  ┌───────────────────────────────────────────────┐
  │  SSP-SP TRANSPARENCY PORTAL EXPORTER          │
  └───────────────────────────────────────────────┘
`

var (
	mu       sync.Mutex
	out      io.Writer = os.Stdout
	colorOn            = term.IsTerminal(int(os.Stdout.Fd()))
	quietOut bool
)

// Color functions for terminal output
var (
	Cyan    = colorize("\033[36m%s\033[0m")
	Yellow  = colorize("\033[33m%s\033[0m")
	Red     = colorize("\033[31m%s\033[0m")
	Green   = colorize("\033[32m%s\033[0m")
	Magenta = colorize("\033[35m%s\033[0m")
	Dim     = colorize("\033[2m%s\033[0m")
)

// colorize returns a function that wraps text with ANSI color codes when
// color output is enabled
func colorize(colorString string) func(string) string {
	return func(text string) string {
		mu.Lock()
		on := colorOn
		mu.Unlock()
		if !on {
			return text
		}
		return fmt.Sprintf(colorString, text)
	}
}

// SetOutput redirects terminal output, mainly for tests
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	out = w
}

// SetColor enables or disables ANSI colors
func SetColor(enabled bool) {
	mu.Lock()
	defer mu.Unlock()
	colorOn = enabled
}

// SetQuietMode suppresses everything except errors
func SetQuietMode(quiet bool) {
	mu.Lock()
	defer mu.Unlock()
	quietOut = quiet
}

func emit(msg string, isError bool) {
	mu.Lock()
	w, quiet := out, quietOut
	mu.Unlock()
	if quiet && !isError {
		return
	}
	fmt.Fprintln(w, msg)
}

// PrintBanner prints the banner
func PrintBanner() {
	emit(Cyan(Banner), false)
}

// PrintError prints an error message in red
func PrintError(msg string, args ...interface{}) {
	if len(args) > 0 {
		msg = msg + ": " + fmt.Sprintf("%v", args[0])
	}
	emit(Red(msg), true)
}

// PrintSuccess prints a success message in green
func PrintSuccess(msg string) {
	emit(Green(msg), false)
}

// PrintInfo prints a label/value pair
func PrintInfo(label string, value string) {
	emit(fmt.Sprintf("%s: %s", Cyan(label), Yellow(value)), false)
}

// PrintWarning prints a warning message in yellow
func PrintWarning(msg string, args ...interface{}) {
	if len(args) > 0 {
		msg = msg + ": " + fmt.Sprintf("%v", args[0])
	}
	emit(Yellow(msg), false)
}

// PrintHighlight prints a highlighted message in magenta
func PrintHighlight(msg string) {
	emit(Magenta(msg), false)
}

// PrintSummary prints the end of run counters
func PrintSummary(categories, exported, skipped, failed int) {
	PrintHighlight("[RUN SUMMARY]")
	PrintInfo("  Categories", fmt.Sprint(categories))
	PrintInfo("  Exports triggered", fmt.Sprint(exported))
	PrintInfo("  Already downloaded", fmt.Sprint(skipped))
	if failed > 0 {
		PrintWarning(fmt.Sprintf("  Failed exports: %d", failed))
	} else {
		PrintInfo("  Failed exports", "0")
	}
}
