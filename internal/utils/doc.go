// Package utils provides small helpers shared by the ghsecrets commands.
//
// # System Utilities
//
//   - Username: the current system username, recorded in the audit log
//
// # String Utilities
//
//   - FormatPaths, FormatNames: indented lists for human-readable output
//   - Plural: picks the singular or plural form of a word
//
// # I/O Utilities
//
//   - ReadAll: reads a piped secret value or token
//   - Confirm: asks a yes/no question, defaulting to no
//
// # Terminal Utilities
//
//   - ReadHidden: prompts for a token or secret value without echo
//   - IsTerminal: checks whether stdin is a terminal
package utils
