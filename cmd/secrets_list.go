package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/PolarWolf314/ghsecrets/internal/secrets"
	"github.com/PolarWolf314/ghsecrets/internal/ui"
	"github.com/PolarWolf314/ghsecrets/internal/utils"

	"github.com/spf13/cobra"
)

var (
	listJSON   bool
	listFilter string
)

func init() {
	listCmd.Flags().BoolVar(&listJSON, "json", false, "output as JSON array")
	listCmd.Flags().StringVarP(&listFilter, "filter", "f", "", "only show secrets whose name contains this text (case-insensitive)")

	SecretsCmd.AddCommand(listCmd)
}

// resetListCommandState resets the list command's global state for testing.
func resetListCommandState() {
	listJSON = false
	listFilter = ""
}

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List the secrets of a repository",
	Long: `Lists the names and timestamps of the repository's Actions secrets.

GitHub never returns secret values.

Examples:
  ghsecrets secrets list -r octo/hello
  ghsecrets secrets list --filter db
  ghsecrets secrets list --json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting list command")
		spinner, cleanup := startSpinner(cmd, "Loading secrets...")
		defer cleanup()

		env, err := newEnvironment(true)
		if err != nil {
			return fail(spinner, err)
		}

		list, err := env.coordinator(nil).ListSecrets(context.Background(), env.session)
		if err != nil {
			return fail(spinner, err)
		}
		Logger.Infof("Found %d secrets", len(list))

		total := len(list)
		if listFilter != "" {
			list = filterSecrets(list, listFilter)
			Logger.Debugf("%d of %d secrets match %q", len(list), total, listFilter)
		}

		if listJSON {
			data, err := json.MarshalIndent(list, "", "  ")
			if err != nil {
				return Logger.ErrorfAndReturn("failed to marshal secrets to JSON: %v", err)
			}
			spinner.FinalMSG = string(data)
			return nil
		}

		if listFilter != "" && len(list) == 0 && total > 0 {
			spinner.FinalMSG = fmt.Sprintf("%s No secrets found matching %q in %s", ui.Notice(), listFilter,
				ui.Repo.Sprint(env.session.Repo))
			return nil
		}

		spinner.FinalMSG = fmt.Sprintf("%s %d %s in %s\n\n", ui.Check(), len(list),
			utils.Plural(len(list), "secret", "secrets"), ui.Repo.Sprint(env.session.Repo)) +
			secretTable(list)
		return nil
	},
}

// filterSecrets keeps the secrets whose name contains query, ignoring case.
func filterSecrets(list []secrets.SecretMetadata, query string) []secrets.SecretMetadata {
	query = strings.ToLower(query)
	matched := []secrets.SecretMetadata{}
	for _, s := range list {
		if strings.Contains(strings.ToLower(s.Name), query) {
			matched = append(matched, s)
		}
	}
	return matched
}
