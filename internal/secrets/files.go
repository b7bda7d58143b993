package secrets

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	kerrors "github.com/PolarWolf314/ghsecrets/internal/errors"

	"github.com/bmatcuk/doublestar/v4"
)

// Record is a name/value pair read from an import file or a .env file.
type Record struct {
	Name  string
	Value string
}

// String omits the value.
func (r Record) String() string {
	return "Record{" + r.Name + "}"
}

// ExportRecord is one element of an export file.
type ExportRecord struct {
	Name      string    `json:"name"`
	UpdatedAt time.Time `json:"updated_at"`
}

type importRecord struct {
	Name  *string `json:"name"`
	Value *string `json:"value"`
}

// ParseImport decodes an import file: a JSON array of {"name", "value"}
// objects. Any element missing either field, or holding an empty one,
// invalidates the whole file.
func ParseImport(data []byte) ([]Record, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, kerrors.NewValidationError("import file", "must be a JSON array of secrets")
	}

	var raw []importRecord
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return nil, kerrors.NewValidationError("import file", err.Error())
	}

	records := make([]Record, 0, len(raw))
	for i, r := range raw {
		if r.Name == nil || *r.Name == "" || r.Value == nil || *r.Value == "" {
			return nil, kerrors.NewValidationError(fmt.Sprintf("record %d", i+1), `must include "name" and "value"`)
		}
		records = append(records, Record{Name: *r.Name, Value: *r.Value})
	}

	return records, nil
}

// MarshalExport renders secret metadata as an export file. Values are never
// part of the output because GitHub never returns them.
func MarshalExport(secrets []SecretMetadata) ([]byte, error) {
	records := make([]ExportRecord, len(secrets))
	for i, s := range secrets {
		records[i] = ExportRecord{Name: s.Name, UpdatedAt: s.UpdatedAt}
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding export: %w", err)
	}
	return append(data, '\n'), nil
}

// ExportFileName is the default export file name for owner/repo.
func ExportFileName(owner, repo string) string {
	return fmt.Sprintf("secrets-export-%s-%s.json", owner, repo)
}

var envLineRegex = regexp.MustCompile(`^\s*([\w.-]+)\s*=\s*(.*)?\s*$`)

// ParseEnv parses .env content. Blank lines and lines starting with '#' are
// ignored, as are lines that are not KEY=value. Values are trimmed and one
// pair of surrounding single or double quotes is removed.
func ParseEnv(content string) []Record {
	var records []Record

	// Lines have no length limit; Encrypt rejects oversized values per secret.
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
			continue
		}

		match := envLineRegex.FindStringSubmatch(line)
		if match == nil {
			continue
		}

		records = append(records, Record{Name: match[1], Value: unquote(strings.TrimSpace(match[2]))})
	}

	return records
}

func unquote(value string) string {
	if len(value) < 2 {
		return value
	}
	first, last := value[0], value[len(value)-1]
	if (first == '"' && last == '"') || (first == '\'' && last == '\'') {
		return value[1 : len(value)-1]
	}
	return value
}

// ResolveEnvFiles expands paths, directories and doublestar globs relative to
// baseDir into the .env files they name.
func ResolveEnvFiles(patterns []string, baseDir string) ([]string, error) {
	if len(patterns) == 0 {
		return nil, nil
	}

	var files []string
	seen := make(map[string]bool)

	for _, pattern := range patterns {
		resolved, err := resolvePattern(pattern, baseDir)
		if err != nil {
			return nil, err
		}

		for _, f := range resolved {
			if !seen[f] {
				seen[f] = true
				files = append(files, f)
			}
		}
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("%w: %s", kerrors.ErrValidation, "no .env files matched")
	}

	return files, nil
}

func resolvePattern(pattern, baseDir string) ([]string, error) {
	absPattern := pattern
	if !filepath.IsAbs(pattern) {
		absPattern = filepath.Join(baseDir, pattern)
	}

	info, err := os.Stat(absPattern)
	if err == nil && info.IsDir() {
		return findEnvFilesInDir(absPattern)
	}

	if strings.ContainsAny(pattern, "*?[") {
		matches, err := doublestar.FilepathGlob(absPattern)
		if err != nil {
			return nil, fmt.Errorf("invalid glob pattern %q: %w", pattern, err)
		}

		var filtered []string
		for _, m := range matches {
			info, err := os.Stat(m)
			if err != nil || info.IsDir() {
				continue
			}
			if isEnvFile(m) {
				filtered = append(filtered, m)
			}
		}
		sort.Strings(filtered)
		return filtered, nil
	}

	// A literal path is taken as given, whatever its name.
	if _, err := os.Stat(absPattern); err != nil {
		return nil, fmt.Errorf("file not found: %s", pattern)
	}
	return []string{absPattern}, nil
}

func findEnvFilesInDir(dir string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == ".git" || d.Name() == "node_modules" {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Type().IsRegular() && isEnvFile(path) {
			files = append(files, path)
		}
		return nil
	})

	return files, err
}

func isEnvFile(path string) bool {
	base := filepath.Base(path)
	return base == ".env" || strings.HasPrefix(base, ".env.") || strings.HasSuffix(base, ".env")
}
