package ui

import (
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
)

func forceColor(t *testing.T) {
	t.Helper()
	original := color.NoColor
	color.NoColor = false
	t.Cleanup(func() { color.NoColor = original })
}

func TestFormatterWithColor(t *testing.T) {
	forceColor(t)

	result := Code.Sprint("ghsecrets auth login")

	assert.NotContains(t, result, "`")
	assert.Contains(t, result, "\x1b[")
}

func TestFormatterWithNoColor(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	tests := []struct {
		name      string
		formatter Formatter
		input     string
		want      string
	}{
		{"Code adds backticks", Code, "ghsecrets auth login", "`ghsecrets auth login`"},
		{"Path has no decoration", Path, ".env.local", ".env.local"},
		{"Success has no decoration", Success, "✓", "✓"},
		{"Error has no decoration", Error, "✗", "✗"},
		{"Warning has no decoration", Warning, "⚠", "⚠"},
		{"Info has no decoration", Info, "→", "→"},
		{"Highlight adds quotes", Highlight, "keychain", "'keychain'"},
		{"SecretName has no decoration", SecretName, "API_KEY", "API_KEY"},
		{"Repo has no decoration", Repo, "octo/hello", "octo/hello"},
		{"Muted adds parentheses", Muted, "unknown", "(unknown)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.formatter.Sprint(tt.input))
		})
	}
}

func TestFormatterSprintf(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	assert.Equal(t, "`ghsecrets secrets set API_KEY`", Code.Sprintf("ghsecrets secrets set %s", "API_KEY"))
}

func TestFormatterSprintfWithColor(t *testing.T) {
	forceColor(t)

	result := Highlight.Sprintf("source: %s", "keychain")

	assert.NotEqual(t, '\'', rune(result[0]))
	assert.Contains(t, result, "source: keychain")
}

func TestNoColorFunction(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	assert.True(t, noColor())
}

func TestNoColorFollowsColorPackage(t *testing.T) {
	original := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = original })

	assert.True(t, noColor())
}

func TestAllFormattersExist(t *testing.T) {
	formatters := map[string]Formatter{
		"Code":       Code,
		"Path":       Path,
		"Success":    Success,
		"Error":      Error,
		"Warning":    Warning,
		"Info":       Info,
		"Highlight":  Highlight,
		"SecretName": SecretName,
		"Repo":       Repo,
		"Muted":      Muted,
	}

	for name, f := range formatters {
		t.Run(name, func(t *testing.T) {
			assert.NotNil(t, f.color)
			assert.NotEmpty(t, f.Sprint("test"))
		})
	}
}

func TestMultipleArguments(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	assert.Equal(t, "`ghsecrets secrets`", Code.Sprint("ghsecrets", " ", "secrets"))
}

func TestEnsureNewline(t *testing.T) {
	assert.Equal(t, "\n", EnsureNewline(""))
	assert.Equal(t, "done\n", EnsureNewline("done"))
	assert.Equal(t, "done\n", EnsureNewline("done\n"))
}

func TestStatusMarkers(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	assert.Equal(t, "✓", Check())
	assert.Equal(t, "✗", Cross())
	assert.Equal(t, "→", Arrow())
	assert.Equal(t, "⚠", Alert())
	assert.Equal(t, "ℹ", Notice())
	assert.Equal(t, "[dry-run]", DryRun())
}
