package cmd

import (
	logger "github.com/PolarWolf314/ghsecrets/internal/logging"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	verbose   bool
	debug     bool
	repoFlag  string
	tokenFlag string
	Logger    logger.Logger

	SecretsCmd = &cobra.Command{
		Use:   "secrets",
		Short: "Manage the Actions secrets of a repository",
		Long: `Lists, sets, deletes, imports, exports and uploads GitHub Actions secrets.

Values are sealed with the repository's public key before they leave this
machine. GitHub never returns values, so list and export show names and
timestamps only.

The repository is taken from --repo, $GHSECRETS_REPO or the default_repo
config key, in that order.`,
		PersistentPreRun: initLogger,
	}
)

func init() {
	addCommonFlags(SecretsCmd)
	SecretsCmd.PersistentFlags().StringVarP(&repoFlag, "repo", "r", "", "repository as owner/name")
}

// addCommonFlags registers the flags every command group shares.
func addCommonFlags(c *cobra.Command) {
	c.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	c.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug output")
	c.PersistentFlags().StringVar(&tokenFlag, "token", "", "GitHub token (default: $GHSECRETS_TOKEN, $GITHUB_TOKEN or the keychain)")
}

func initLogger(cmd *cobra.Command, args []string) {
	Logger = logger.Logger{
		Verbose: verbose,
		Debug:   debug,
		Out:     cmd.ErrOrStderr(),
		Err:     cmd.ErrOrStderr(),
	}
	Logger.Debugf("Initializing %s command with verbose=%t, debug=%t", cmd.CommandPath(), verbose, debug)
}

// Helper functions for testing

// GetSecretsCmd returns the SecretsCmd for testing.
func GetSecretsCmd() *cobra.Command {
	return SecretsCmd
}

// ResetGlobalState resets all global variables to their default values for testing.
func ResetGlobalState() {
	verbose = false
	debug = false
	repoFlag = ""
	tokenFlag = ""
	resetSetCommandState()
	resetDeleteCommandState()
	resetPurgeCommandState()
	resetImportCommandState()
	resetExportCommandState()
	resetUploadEnvCommandState()
	resetListCommandState()
	resetLogCommandState()
	resetReposCommandState()
	resetAuthCommandState()
	for _, c := range []*cobra.Command{SecretsCmd, AuthCmd, ReposCmd, ConfigCmd} {
		resetCobraFlagState(c)
	}
}

// resetCobraFlagState clears the Changed marker of every flag below c to prevent test pollution.
func resetCobraFlagState(c *cobra.Command) {
	reset := func(flag *pflag.Flag) { flag.Changed = false }
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetCobraFlagState(sub)
	}
}
