package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/PolarWolf314/ghsecrets/internal/ui"
	"github.com/PolarWolf314/ghsecrets/internal/utils"

	"github.com/spf13/cobra"
)

var deleteForce bool

func init() {
	deleteCmd.Flags().BoolVar(&deleteForce, "force", false, "skip confirmation prompt")

	SecretsCmd.AddCommand(deleteCmd)
}

// resetDeleteCommandState resets the delete command's global state for testing.
func resetDeleteCommandState() {
	deleteForce = false
}

var deleteCmd = &cobra.Command{
	Use:     "delete NAME...",
	Aliases: []string{"rm"},
	Short:   "Delete one or more secrets",
	Long: `Deletes the named secrets from the repository.

Deleting a secret that does not exist succeeds. With several names the
deletes run concurrently; every delete is attempted and the ones that failed
are listed. Nothing is rolled back.

Examples:
  ghsecrets secrets delete API_KEY
  ghsecrets secrets delete OLD_KEY OTHER_KEY --force`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting delete command")

		if !deleteForce {
			prompt := fmt.Sprintf("Delete %d %s (%s)?", len(args), utils.Plural(len(args), "secret", "secrets"), joinNames(args))
			if !utils.Confirm(cmd.InOrStdin(), cmd.OutOrStdout(), prompt) {
				fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
				return nil
			}
		}

		spinner, cleanup := startSpinner(cmd, "Deleting...")
		defer cleanup()

		env, err := newEnvironment(true)
		if err != nil {
			return fail(spinner, err)
		}

		coord := env.coordinator(progressObserver(spinner, len(args), "Deleting"))
		ctx := context.Background()

		if len(args) == 1 {
			result, err := coord.DeleteSecret(ctx, env.session, args[0])
			if err != nil && result == nil {
				return fail(spinner, err)
			}
			finalMessage := fmt.Sprintf("%s Deleted %s from %s", ui.Check(),
				ui.SecretName.Sprint(args[0]), ui.Repo.Sprint(env.session.Repo))
			if err != nil {
				spinner.FinalMSG = finalMessage + "\n" + ui.Alert() + " " + err.Error()
				return reported(err)
			}
			spinner.FinalMSG = finalMessage + "\n\n" + secretTable(result.Secrets)
			return nil
		}

		result, err := coord.BulkDelete(ctx, env.session, args)
		return finishBulkCommand(spinner, result, err, "Deleted")
	},
}

func joinNames(names []string) string {
	const max = 5
	if len(names) <= max {
		return strings.Join(names, ", ")
	}
	return strings.Join(names[:max], ", ") + fmt.Sprintf(" and %d more", len(names)-max)
}
