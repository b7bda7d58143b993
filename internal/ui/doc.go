// Package ui provides semantic text formatting for CLI output.
//
// This package defines formatters for different types of content (code,
// paths, errors, etc.) that render appropriately based on terminal
// capabilities. When colors are available, content is colorized. When
// NO_COLOR is set or the terminal doesn't support colors, text-based
// decorations (backticks, quotes) are used instead.
//
// # Semantic Formatters
//
// Use the appropriate formatter for the content type:
//
//	ui.Code.Sprint("ghsecrets auth login")    // Commands and code
//	ui.Path.Sprint(".env.production")         // File paths
//	ui.Highlight.Sprint("keychain")           // User values
//	ui.SecretName.Sprint("API_KEY")           // Secret names
//	ui.Repo.Sprint("octo/hello")              // Repositories
//	ui.Muted.Sprint("optional")               // De-emphasized text
//
// # Status Markers
//
// Lines of command output start with a marker: Check (✓) for success,
// Cross (✗) for failure, Alert (⚠) for warnings, Arrow (→) for a next step,
// Notice (ℹ) and DryRun ([dry-run]).
//
//	fmt.Println(ui.Check() + " Deleted " + ui.SecretName.Sprint("API_KEY"))
//
// # Color Behavior
//
// Colors are disabled when:
//   - NO_COLOR environment variable is set (any value)
//   - Terminal doesn't support colors (TERM=dumb, not a TTY)
//
// When colors are disabled, formatters apply text decorations:
//   - Code: `backticks`
//   - Highlight: 'single quotes'
//   - Muted: (parentheses)
//   - Others: no decoration (self-evident from context)
package ui
