package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/PolarWolf314/ghsecrets/internal/auth"
	"github.com/PolarWolf314/ghsecrets/internal/configs"
	kerrors "github.com/PolarWolf314/ghsecrets/internal/errors"
	"github.com/PolarWolf314/ghsecrets/internal/ghapi"
	"github.com/PolarWolf314/ghsecrets/internal/ui"
	"github.com/PolarWolf314/ghsecrets/internal/utils"

	"github.com/spf13/cobra"
)

var (
	// AuthCmd is the top-level auth command.
	AuthCmd = &cobra.Command{
		Use:   "auth",
		Short: "Manage the GitHub token",
		Long: `Stores, checks and removes the personal access token ghsecrets uses.

The token needs the "repo" scope (classic tokens) or the "Secrets" read and
write permission (fine-grained tokens). It is kept in the OS keychain.`,
		PersistentPreRun: initLogger,
	}

	loginWithToken bool
)

func init() {
	addCommonFlags(AuthCmd)

	authLoginCmd.Flags().BoolVar(&loginWithToken, "with-token", false, "read the token from stdin")

	AuthCmd.AddCommand(authLoginCmd)
	AuthCmd.AddCommand(authLogoutCmd)
	AuthCmd.AddCommand(authStatusCmd)
}

// resetAuthCommandState resets the auth commands' global state for testing.
func resetAuthCommandState() {
	loginWithToken = false
}

var authLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Validate a token and store it in the keychain",
	Long: `Prompts for a personal access token, checks it against GitHub by listing
the repositories it can see, and stores it in the OS keychain.

Examples:
  ghsecrets auth login
  echo "$TOKEN" | ghsecrets auth login --with-token`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting auth login command")

		token, err := readLoginToken(cmd)
		if err != nil {
			return Logger.ErrorfAndReturn("failed to read token: %v", err)
		}

		spinner, cleanup := startSpinner(cmd, "Validating token...")
		defer cleanup()

		repos, err := validateToken(token)
		if err != nil {
			return fail(spinner, err)
		}

		if err := auth.StoreToken(token); err != nil {
			return fail(spinner, err)
		}

		spinner.FinalMSG = fmt.Sprintf("%s Logged in %s\n%s Token can see %d %s; stored in the %s",
			ui.Check(), ui.Muted.Sprint(auth.Mask(token)), ui.Arrow(),
			len(repos), utils.Plural(len(repos), "repository", "repositories"), ui.Highlight.Sprint("keychain"))
		return nil
	},
}

var authLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove the stored token from the keychain",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting auth logout command")

		removed, err := auth.DeleteToken()
		if err != nil {
			return Logger.ErrorfAndReturn("failed to remove token: %v", err)
		}

		out := cmd.OutOrStdout()
		if !removed {
			fmt.Fprintln(out, ui.Notice()+" No token stored in the keychain.")
		} else {
			fmt.Fprintln(out, ui.Check()+" Removed the token from the keychain.")
		}

		for _, name := range auth.EnvVars {
			if os.Getenv(name) != "" {
				fmt.Fprintln(out, ui.Alert()+" "+ui.Code.Sprint(name)+" is still set in the environment.")
			}
		}
		return nil
	},
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show which token is in use and whether it works",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting auth status command")
		spinner, cleanup := startSpinner(cmd, "Checking token...")
		defer cleanup()

		token, err := auth.ResolveToken(tokenFlag)
		if err != nil {
			return fail(spinner, err)
		}

		source := string(token.Source)
		if token.Detail != "" {
			source += " " + ui.Muted.Sprint(token.Detail)
		}

		repos, err := validateToken(token.Value)
		if err != nil {
			spinner.FinalMSG = fmt.Sprintf("Token %s from %s\n", auth.Mask(token.Value), ui.Highlight.Sprint(source)) + formatError(err)
			return reported(err)
		}

		admin := 0
		for _, r := range repos {
			if r.Admin {
				admin++
			}
		}

		spinner.FinalMSG = fmt.Sprintf("%s Token %s from %s is valid\n%s %d %s visible, %d with admin access",
			ui.Check(), auth.Mask(token.Value), ui.Highlight.Sprint(source), ui.Arrow(),
			len(repos), utils.Plural(len(repos), "repository", "repositories"), admin)
		return nil
	},
}

func readLoginToken(cmd *cobra.Command) (string, error) {
	if tokenFlag != "" {
		return tokenFlag, nil
	}
	if loginWithToken || cmd.InOrStdin() != os.Stdin || !utils.IsTerminal() {
		value, err := utils.ReadAll(cmd.InOrStdin())
		return strings.TrimSpace(value), err
	}
	return utils.ReadHidden("Paste your GitHub token: ")
}

// validateToken lists the token's repositories. A 401 becomes ErrInvalidToken.
func validateToken(token string) ([]ghapi.Repository, error) {
	config, err := configs.Load()
	if err != nil {
		return nil, err
	}

	client, err := ghapi.NewClient(ghapi.Options{BaseURL: config.APIURL, Timeout: config.TimeoutDuration()})
	if err != nil {
		return nil, err
	}

	sess, err := ghapi.NewSession(token, ghapi.RepositoryRef{})
	if err != nil {
		return nil, err
	}

	repos, err := client.ListRepositories(context.Background(), sess)
	var remote *kerrors.RemoteError
	if errors.As(err, &remote) && remote.Status == 401 {
		return nil, fmt.Errorf("%w: %w", kerrors.ErrInvalidToken, err)
	}
	return repos, err
}
