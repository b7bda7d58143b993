package cmd

import (
	"context"
	"fmt"

	"github.com/PolarWolf314/ghsecrets/internal/secrets"
	"github.com/PolarWolf314/ghsecrets/internal/ui"
	"github.com/PolarWolf314/ghsecrets/internal/utils"

	"github.com/spf13/cobra"
)

var (
	purgeForce  bool
	purgeDryRun bool
)

func init() {
	purgeCmd.Flags().BoolVar(&purgeForce, "force", false, "skip confirmation prompt")
	purgeCmd.Flags().BoolVar(&purgeDryRun, "dry-run", false, "show what would be deleted without making changes")

	SecretsCmd.AddCommand(purgeCmd)
}

// resetPurgeCommandState resets the purge command's global state for testing.
func resetPurgeCommandState() {
	purgeForce = false
	purgeDryRun = false
}

var purgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Delete every secret of a repository",
	Long: `Deletes all Actions secrets of the repository.

Deletes run concurrently. Every delete is attempted; the ones that failed
are listed and nothing is rolled back.

Use --dry-run to preview what would be deleted.
Use --force to skip the confirmation prompt.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting purge command")

		env, list, err := loadSecretsForPurge(cmd)
		if err != nil || list == nil {
			return err
		}

		names := make([]string, len(list))
		for i, s := range list {
			names[i] = s.Name
		}

		out := cmd.OutOrStdout()
		if purgeDryRun {
			fmt.Fprintf(out, "%s Would delete %d %s from %s:%s\nNo changes made.\n", ui.DryRun(),
				len(names), utils.Plural(len(names), "secret", "secrets"), ui.Repo.Sprint(env.session.Repo), utils.FormatNames(names))
			return nil
		}

		if !purgeForce {
			fmt.Fprintf(out, "This will permanently delete %d %s from %s:%s\n", len(names),
				utils.Plural(len(names), "secret", "secrets"), ui.Repo.Sprint(env.session.Repo), utils.FormatNames(names))
			if !utils.Confirm(cmd.InOrStdin(), out, "Do you want to continue?") {
				fmt.Fprintln(out, "Aborted.")
				return nil
			}
		}

		spinner, cleanup := startSpinner(cmd, "Deleting secrets...")
		defer cleanup()

		coord := env.coordinator(progressObserver(spinner, len(names), "Deleting"))
		result, err := coord.BulkDelete(context.Background(), env.session, names)
		return finishBulkCommand(spinner, result, err, "Deleted")
	},
}

// loadSecretsForPurge returns a nil list when there is nothing to do.
func loadSecretsForPurge(cmd *cobra.Command) (*environment, []secrets.SecretMetadata, error) {
	spinner, cleanup := startSpinner(cmd, "Loading secrets...")
	defer cleanup()

	env, err := newEnvironment(true)
	if err != nil {
		return nil, nil, fail(spinner, err)
	}

	list, err := env.coordinator(nil).ListSecrets(context.Background(), env.session)
	if err != nil {
		return nil, nil, fail(spinner, err)
	}

	if len(list) == 0 {
		spinner.FinalMSG = ui.Check() + " " + ui.Repo.Sprint(env.session.Repo) + " has no secrets. Nothing to delete."
		return env, nil, nil
	}
	return env, list, nil
}
