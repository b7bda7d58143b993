package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/PolarWolf314/ghsecrets/internal/ghapi"
	"github.com/PolarWolf314/ghsecrets/internal/ui"
	"github.com/PolarWolf314/ghsecrets/internal/utils"

	"github.com/spf13/cobra"
)

var (
	reposAdminOnly bool
	reposJSON      bool

	// ReposCmd is the top-level repos command.
	ReposCmd = &cobra.Command{
		Use:              "repos",
		Short:            "Browse the repositories the token can see",
		PersistentPreRun: initLogger,
	}
)

func init() {
	addCommonFlags(ReposCmd)

	reposListCmd.Flags().BoolVar(&reposAdminOnly, "admin", false, "only show repositories whose secrets the token can manage")
	reposListCmd.Flags().BoolVar(&reposJSON, "json", false, "output as JSON array")

	ReposCmd.AddCommand(reposListCmd)
}

// resetReposCommandState resets the repos command's global state for testing.
func resetReposCommandState() {
	reposAdminOnly = false
	reposJSON = false
}

var reposListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List repositories, most recently updated first",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting repos list command")
		spinner, cleanup := startSpinner(cmd, "Loading repositories...")
		defer cleanup()

		env, err := newEnvironment(false)
		if err != nil {
			return fail(spinner, err)
		}

		repos, err := env.client.ListRepositories(context.Background(), env.session)
		if err != nil {
			return fail(spinner, err)
		}

		if reposAdminOnly {
			filtered := repos[:0]
			for _, r := range repos {
				if r.Admin {
					filtered = append(filtered, r)
				}
			}
			repos = filtered
		}

		if reposJSON {
			data, err := json.MarshalIndent(repos, "", "  ")
			if err != nil {
				return Logger.ErrorfAndReturn("failed to marshal repositories to JSON: %v", err)
			}
			spinner.FinalMSG = string(data)
			return nil
		}

		spinner.FinalMSG = fmt.Sprintf("%s %d %s\n\n", ui.Check(), len(repos),
			utils.Plural(len(repos), "repository", "repositories")) + repoTable(repos)
		return nil
	},
}

func repoTable(repos []ghapi.Repository) string {
	if len(repos) == 0 {
		return ui.Muted.Sprint("no repositories") + "\n"
	}

	var b strings.Builder
	w := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "REPOSITORY\tVISIBILITY\tADMIN\tUPDATED")
	for _, r := range repos {
		visibility := "public"
		if r.Private {
			visibility = "private"
		}
		admin := "no"
		if r.Admin {
			admin = "yes"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", r.FullName, visibility, admin, formatTime(r.UpdatedAt))
	}
	_ = w.Flush()
	return b.String()
}
