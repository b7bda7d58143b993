package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/PolarWolf314/ghsecrets/internal/audit"
	"github.com/PolarWolf314/ghsecrets/internal/ghapi"
	"github.com/PolarWolf314/ghsecrets/internal/ui"

	"github.com/spf13/cobra"
)

var (
	logLimit     int
	logReverse   bool
	logOperation string
	logJSON      bool
)

func init() {
	logCmd.Flags().IntVarP(&logLimit, "number", "n", 0, "limit number of entries shown")
	logCmd.Flags().BoolVar(&logReverse, "reverse", false, "show most recent entries first")
	logCmd.Flags().StringVar(&logOperation, "operation", "", "filter by operation (set, delete, purge, import, upload-env, export)")
	logCmd.Flags().BoolVar(&logJSON, "json", false, "output as JSON array")

	SecretsCmd.AddCommand(logCmd)
}

// resetLogCommandState resets the log command's global state for testing.
func resetLogCommandState() {
	logLimit = 0
	logReverse = false
	logOperation = ""
	logJSON = false
}

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "View the local audit log",
	Long: `Displays the operations this machine performed against GitHub.

Entries record secret names, never values. With --repo only entries for
that repository are shown.

Examples:
  ghsecrets secrets log                       # View full log
  ghsecrets secrets log -n 10 --reverse       # Last 10 entries, newest first
  ghsecrets secrets log -r octo/hello         # One repository
  ghsecrets secrets log --operation purge     # Filter by operation
  ghsecrets secrets log --json                # JSON output`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting log command")

		entries, err := audit.ReadEntries()
		if err != nil {
			return Logger.ErrorfAndReturn("failed to read audit log: %v", err)
		}
		Logger.Debugf("Parsed %d entries from %s", len(entries), audit.LogPath())

		repo := ""
		if repoFlag != "" {
			ref, err := ghapi.ParseRepositoryRef(repoFlag)
			if err != nil {
				fmt.Fprintln(cmd.OutOrStdout(), formatError(err))
				return reported(err)
			}
			repo = ref.String()
		}

		total := len(entries)
		entries = audit.Filter(entries, repo, logOperation)

		if logReverse {
			for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
				entries[i], entries[j] = entries[j], entries[i]
			}
		}
		if logLimit > 0 && len(entries) > logLimit {
			if logReverse {
				entries = entries[:logLimit]
			} else {
				entries = entries[len(entries)-logLimit:]
			}
		}

		out := cmd.OutOrStdout()
		if len(entries) == 0 {
			if total == 0 {
				fmt.Fprintln(out, "No audit log entries found.")
			} else {
				fmt.Fprintln(out, "No audit log entries found matching the filters.")
			}
			return nil
		}

		if logJSON {
			data, err := json.MarshalIndent(entries, "", "  ")
			if err != nil {
				return Logger.ErrorfAndReturn("failed to marshal entries to JSON: %v", err)
			}
			fmt.Fprintln(out, string(data))
			return nil
		}

		outputLogDefault(out, entries)
		return nil
	},
}

func outputLogDefault(w io.Writer, entries []audit.Entry) {
	for _, e := range entries {
		fmt.Fprintf(w, "%-19s  %-12s  %-10s  %-24s  %s\n", formatLogTime(e.Timestamp), e.User, e.Operation, e.Repo, formatLogDetails(e))
	}
}

func formatLogTime(ts string) string {
	t, err := time.Parse(time.RFC3339Nano, ts)
	if err != nil {
		return ts
	}
	return t.Local().Format("2006-01-02 15:04:05")
}

func formatLogDetails(e audit.Entry) string {
	switch {
	case e.OutputPath != "":
		return fmt.Sprintf("%d secrets -> %s", e.Count, e.OutputPath)
	case len(e.Failed) > 0:
		return strings.Join(e.Secrets, ", ") + " " + ui.Error.Sprintf("(failed: %s)", strings.Join(e.Failed, ", "))
	default:
		return strings.Join(e.Secrets, ", ")
	}
}
