package utils

import (
	"fmt"
	"os"

	"golang.org/x/term"
)

// ReadHidden prompts on stderr and reads a line from the terminal without
// echoing it. Returns an error if stdin is not a terminal.
func ReadHidden(prompt string) (string, error) {
	fd := int(os.Stdin.Fd())

	if !term.IsTerminal(fd) {
		return "", fmt.Errorf("cannot prompt for input: stdin is not a terminal")
	}

	fmt.Fprint(os.Stderr, prompt)
	value, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr) // Add newline after hidden input

	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}

	return string(value), nil
}

// IsTerminal returns true if stdin is a terminal.
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}
