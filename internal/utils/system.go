package utils

import (
	"os"
	"os/user"
)

// Username returns the name recorded in audit entries: the OS account,
// then $USER or $USERNAME, then "unknown".
func Username() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	for _, name := range []string{"USER", "USERNAME"} {
		if v := os.Getenv(name); v != "" {
			return v
		}
	}
	return "unknown"
}
