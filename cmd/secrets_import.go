package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/PolarWolf314/ghsecrets/internal/secrets"
	"github.com/PolarWolf314/ghsecrets/internal/ui"
	"github.com/PolarWolf314/ghsecrets/internal/utils"

	"github.com/spf13/cobra"
)

var importDryRun bool

func init() {
	importCmd.Flags().BoolVar(&importDryRun, "dry-run", false, "validate the file and show what would be written")

	SecretsCmd.AddCommand(importCmd)
}

// resetImportCommandState resets the import command's global state for testing.
func resetImportCommandState() {
	importDryRun = false
}

var importCmd = &cobra.Command{
	Use:   "import FILE",
	Short: "Create or update secrets from a JSON file",
	Long: `Writes every secret of a JSON import file to the repository.

The file must be a JSON array of objects with "name" and "value":

  [
    {"name": "API_KEY", "value": "s3cr3t"},
    {"name": "DB_PASSWORD", "value": "hunter2"}
  ]

Every record is validated before anything is sent; one invalid record
aborts the whole import. Writes run concurrently and failures are listed
individually. Use - to read the file from stdin.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting import command")

		data, err := readImportFile(cmd, args[0])
		if err != nil {
			return Logger.ErrorfAndReturn("failed to read %s: %v", args[0], err)
		}

		spinner, cleanup := startSpinner(cmd, "Importing secrets...")
		defer cleanup()

		records, err := secrets.ParseImport(data)
		if err != nil {
			return fail(spinner, err)
		}
		Logger.Infof("Parsed %d records from %s", len(records), args[0])

		if importDryRun {
			names := make([]string, len(records))
			for i, r := range records {
				if err := secrets.ValidateName(r.Name); err != nil {
					return fail(spinner, fmt.Errorf("record %d: %w", i+1, err))
				}
				names[i] = r.Name
			}
			spinner.FinalMSG = fmt.Sprintf("%s Would write %d %s:%sNo changes made.", ui.DryRun(),
				len(names), utils.Plural(len(names), "secret", "secrets"), utils.FormatNames(names))
			return nil
		}

		env, err := newEnvironment(true)
		if err != nil {
			return fail(spinner, err)
		}

		coord := env.coordinator(progressObserver(spinner, len(records), "Writing"))
		result, err := coord.Import(context.Background(), env.session, records)
		return finishBulkCommand(spinner, result, err, "Imported")
	},
}

func readImportFile(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		value, err := utils.ReadAll(cmd.InOrStdin())
		return []byte(value), err
	}
	return os.ReadFile(path)
}
