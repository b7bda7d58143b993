package audit

import (
	"bufio"
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/PolarWolf314/ghsecrets/internal/configs"
)

const timestampFormat = "2006-01-02T15:04:05.000000Z"

// Entry represents a single audit log entry.
type Entry struct {
	OpID      string `json:"id"`
	Timestamp string `json:"ts"`
	User      string `json:"user"`
	Operation string `json:"op"`
	Repo      string `json:"repo"`

	// Optional fields depending on operation.
	Secrets    []string `json:"secrets,omitempty"`     // Names written or deleted.
	Failed     []string `json:"failed,omitempty"`      // Names whose write failed.
	Count      int      `json:"count,omitempty"`       // For export.
	OutputPath string   `json:"output_path,omitempty"` // For export.
}

// NewEntry returns an entry for op on repo with the id, timestamp and user
// populated.
func NewEntry(op, repo string) Entry {
	entry := Entry{
		OpID:      uuid.NewString(),
		Timestamp: time.Now().UTC().Format(timestampFormat),
		Operation: op,
		Repo:      repo,
	}
	if configs.UserGhsecretsSettings != nil {
		entry.User = configs.UserGhsecretsSettings.Username
	}
	return entry
}

// Log appends an entry to the audit log. Errors are swallowed.
func Log(entry Entry) {
	logPath := LogPath()
	if logPath == "" {
		return
	}

	if entry.OpID == "" {
		entry.OpID = uuid.NewString()
	}
	if entry.Timestamp == "" {
		entry.Timestamp = time.Now().UTC().Format(timestampFormat)
	}

	if err := os.MkdirAll(filepath.Dir(logPath), 0700); err != nil {
		return
	}

	f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return
	}
	defer f.Close()

	data, err := json.Marshal(entry)
	if err != nil {
		return
	}

	_, _ = f.Write(append(data, '\n'))
}

// LogPath returns the path to the audit log file, or "" when no data
// directory is configured.
func LogPath() string {
	return configs.AuditLogPath()
}

// ReadEntries reads all entries from the audit log.
// Returns an empty slice if the log doesn't exist.
func ReadEntries() ([]Entry, error) {
	logPath := LogPath()
	if logPath == "" {
		return nil, nil
	}

	data, err := os.ReadFile(logPath)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return ParseEntries(data)
}

// ParseEntries parses JSON Lines data into audit entries.
// Malformed lines are silently skipped.
func ParseEntries(data []byte) ([]Entry, error) {
	var entries []Entry

	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		var entry Entry
		if err := json.Unmarshal(line, &entry); err != nil {
			continue
		}
		entries = append(entries, entry)
	}

	return entries, scanner.Err()
}

// Filter returns the entries matching repo and op. Empty arguments match
// everything.
func Filter(entries []Entry, repo, op string) []Entry {
	var out []Entry
	for _, e := range entries {
		if repo != "" && e.Repo != repo {
			continue
		}
		if op != "" && e.Operation != op {
			continue
		}
		out = append(out, e)
	}
	return out
}
