package utils

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// ReadAll reads a value piped on r, dropping one trailing newline.
// Returns an error if nothing was read.
func ReadAll(r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read from stdin: %w", err)
	}
	if len(data) == 0 {
		return "", fmt.Errorf("stdin is empty")
	}

	value := strings.TrimSuffix(string(data), "\n")
	return strings.TrimSuffix(value, "\r"), nil
}

// Confirm writes prompt to w and reads a yes/no answer from r. Anything
// other than "y" or "yes" is a no.
func Confirm(r io.Reader, w io.Writer, prompt string) bool {
	fmt.Fprintf(w, "%s [y/N]: ", prompt)

	response, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && response == "" {
		return false
	}
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes"
}
