package ui

import (
	"fmt"
	"os"

	"github.com/fatih/color"
)

// Formatter renders one kind of content. With color it applies the color,
// without it wraps the text in open and close.
type Formatter struct {
	color *color.Color
	open  string
	close string
}

func (f Formatter) render(text string) string {
	if noColor() {
		return f.open + text + f.close
	}
	return f.color.Sprint(text)
}

// Sprint formats the arguments like fmt.Sprint.
func (f Formatter) Sprint(a ...interface{}) string {
	return f.render(fmt.Sprint(a...))
}

// Sprintf formats like fmt.Sprintf.
func (f Formatter) Sprintf(format string, a ...interface{}) string {
	return f.render(fmt.Sprintf(format, a...))
}

// EnsureNewline ensures the string ends with a newline character.
func EnsureNewline(s string) string {
	if len(s) == 0 || s[len(s)-1] != '\n' {
		return s + "\n"
	}
	return s
}

// noColor honors NO_COLOR (https://no-color.org/) and fatih/color's own
// terminal detection.
func noColor() bool {
	if _, exists := os.LookupEnv("NO_COLOR"); exists {
		return true
	}
	return color.NoColor
}

var (
	// Code formats commands and environment variable names; `backticks` without color.
	Code = Formatter{color.New(color.FgYellow), "`", "`"}

	// Path formats file paths and flags.
	Path = Formatter{color.New(color.FgYellow), "", ""}

	Success = Formatter{color.New(color.FgGreen), "", ""}
	Error   = Formatter{color.New(color.FgRed), "", ""}
	Warning = Formatter{color.New(color.FgYellow), "", ""}
	Info    = Formatter{color.New(color.FgCyan), "", ""}

	// Highlight formats user values such as config values and token sources;
	// 'single quotes' without color.
	Highlight = Formatter{color.New(color.FgCyan), "'", "'"}

	SecretName = Formatter{color.New(color.FgCyan, color.Bold), "", ""}
	Repo       = Formatter{color.New(color.FgMagenta), "", ""}

	// Muted formats secondary text; (parentheses) without color.
	Muted = Formatter{color.New(color.FgHiBlack), "(", ")"}
)

// Status markers that start a line of command output.
func Check() string  { return Success.Sprint("✓") }
func Cross() string  { return Error.Sprint("✗") }
func Arrow() string  { return Info.Sprint("→") }
func Alert() string  { return Warning.Sprint("⚠") }
func Notice() string { return Info.Sprint("ℹ") }
func DryRun() string { return Warning.Sprint("[dry-run]") }
