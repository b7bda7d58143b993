package cmd

import (
	"context"
	"fmt"

	"github.com/PolarWolf314/ghsecrets/internal/ui"
	"github.com/PolarWolf314/ghsecrets/internal/utils"
	"github.com/PolarWolf314/ghsecrets/internal/workflows"

	"github.com/spf13/cobra"
)

var (
	exportOutputPath string
	exportDryRun     bool
)

func init() {
	exportCmd.Flags().StringVarP(&exportOutputPath, "output", "o", "", "output path (default: secrets-export-<owner>-<repo>.json)")
	exportCmd.Flags().BoolVar(&exportDryRun, "dry-run", false, "show what would be exported without writing the file")

	SecretsCmd.AddCommand(exportCmd)
}

// resetExportCommandState resets the export command's global state for testing.
func resetExportCommandState() {
	exportOutputPath = ""
	exportDryRun = false
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export secret names to a JSON file",
	Long: `Writes the names and last update times of the repository's secrets to a
JSON file.

GitHub never returns secret values, so the export cannot be used to copy
secrets to another repository.

Examples:
  ghsecrets secrets export
  ghsecrets secrets export -o /backups/hello-secrets.json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting export command")
		spinner, cleanup := startSpinner(cmd, "Exporting secrets...")
		defer cleanup()

		env, err := newEnvironment(true)
		if err != nil {
			return fail(spinner, err)
		}

		result, err := env.coordinator(nil).Export(context.Background(), env.session, workflows.ExportOptions{
			OutputPath: exportOutputPath,
			DryRun:     exportDryRun,
		})
		if err != nil {
			return fail(spinner, err)
		}
		Logger.Infof("Exported %d secrets to %s", len(result.Secrets), result.OutputPath)

		noun := utils.Plural(len(result.Secrets), "secret", "secrets")
		if result.DryRun {
			spinner.FinalMSG = fmt.Sprintf("%s Would export %d %s to %s\nNo changes made.",
				ui.DryRun(), len(result.Secrets), noun, ui.Path.Sprint(result.OutputPath))
			return nil
		}

		spinner.FinalMSG = fmt.Sprintf("%s Exported %d %s to %s\n", ui.Check(), len(result.Secrets),
			noun, ui.Path.Sprint(result.OutputPath)) +
			ui.Info.Sprint("Note:") + " Values are not included; GitHub never returns them."
		return nil
	},
}
