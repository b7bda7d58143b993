package cmd

import (
	"fmt"
	"strings"

	"github.com/PolarWolf314/ghsecrets/internal/configs"
	"github.com/PolarWolf314/ghsecrets/internal/ui"

	"github.com/spf13/cobra"
)

// ConfigCmd is the top-level config command.
var ConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage ghsecrets configuration",
	Long: `Shows and changes the settings in config.toml.

Keys:
  api_url              GitHub API base URL (GitHub Enterprise: https://HOST/api/v3/)
  default_repo         repository used when --repo is not given
  concurrency          in-flight requests of bulk commands
  requests_per_second  pacing of bulk commands; negative disables pacing
  timeout              per-request timeout, e.g. 30s

GHSECRETS_API_URL and GHSECRETS_REPO override the file.

Examples:
  ghsecrets config show
  ghsecrets config set default_repo octo/hello`,
	PersistentPreRun: initLogger,
}

func init() {
	addCommonFlags(ConfigCmd)

	ConfigCmd.AddCommand(configShowCmd)
	ConfigCmd.AddCommand(configSetCmd)
}

// GetConfigCmd returns the ConfigCmd for testing.
func GetConfigCmd() *cobra.Command {
	return ConfigCmd
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting config show command")

		config, err := configs.Load()
		if err != nil {
			fmt.Fprintln(cmd.OutOrStdout(), formatError(err))
			return reported(err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s %s\n\n", ui.Info.Sprint("Config file:"), ui.Path.Sprint(configs.ConfigPath()))
		for _, kv := range config.Values() {
			value := kv[1]
			if value == "" {
				value = ui.Muted.Sprint("unset")
			}
			fmt.Fprintf(out, "  %-20s %s\n", kv[0], value)
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set KEY VALUE",
	Short: "Change a setting in config.toml",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting config set command")
		key, value := strings.TrimSpace(args[0]), args[1]

		config, err := configs.LoadUserConfig()
		if err != nil {
			return Logger.ErrorfAndReturn("%v", err)
		}

		if err := config.Set(key, value); err != nil {
			fmt.Fprintln(cmd.OutOrStdout(), formatError(err))
			return reported(err)
		}

		if err := configs.SaveUserConfig(config); err != nil {
			return Logger.ErrorfAndReturn("%v", err)
		}
		Logger.Debugf("Wrote %s", configs.ConfigPath())

		fmt.Fprintf(cmd.OutOrStdout(), "%s Set %s to %s\n", ui.Check(), ui.Code.Sprint(key), ui.Highlight.Sprint(value))
		return nil
	},
}
