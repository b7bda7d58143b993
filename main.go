package main

import (
	"fmt"
	"os"

	"github.com/PolarWolf314/ghsecrets/cmd"
	"github.com/PolarWolf314/ghsecrets/internal/configs"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "ghsecrets",
	Short: "ghsecrets - manage GitHub Actions repository secrets from the terminal.",
	Long: `ghsecrets lists, sets, deletes, imports, exports and bulk-uploads the
Actions secrets of a GitHub repository.

Values are sealed with the repository's public key on this machine before
they are sent; GitHub never returns them.

Usage:
  ghsecrets <command> [flags]

Available Commands:
  auth       Store and check your GitHub token
  repos      List the repositories your token can see
  secrets    Manage the secrets of a repository
  config     Show and change settings

Run 'ghsecrets help <command>' for more details on a specific command.
`,
	SilenceUsage:  true,
	SilenceErrors: true,
	Run: func(c *cobra.Command, args []string) {
		fmt.Println("Welcome to ghsecrets! Run 'ghsecrets --help' to see available commands.")
	},
}

func init() {
	rootCmd.AddCommand(cmd.AuthCmd)
	rootCmd.AddCommand(cmd.ReposCmd)
	rootCmd.AddCommand(cmd.SecretsCmd)
	rootCmd.AddCommand(cmd.ConfigCmd)
}

func main() {
	if cwd, err := os.Getwd(); err == nil {
		if err := configs.LoadEnvFile(cwd); err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not load %s: %v\n", configs.EnvFileName, err)
		}
	}

	if err := rootCmd.Execute(); err != nil {
		if !cmd.IsReported(err) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}
