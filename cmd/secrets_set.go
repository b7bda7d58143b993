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

var (
	setValue    string
	setFromFile string
)

func init() {
	setCmd.Flags().StringVar(&setValue, "value", "", "secret value (visible in shell history; prefer stdin or the prompt)")
	setCmd.Flags().StringVarP(&setFromFile, "from-file", "f", "", "read the secret value from a file")
	setCmd.MarkFlagsMutuallyExclusive("value", "from-file")

	SecretsCmd.AddCommand(setCmd)
}

// resetSetCommandState resets the set command's global state for testing.
func resetSetCommandState() {
	setValue = ""
	setFromFile = ""
}

var setCmd = &cobra.Command{
	Use:     "set NAME",
	Aliases: []string{"add", "edit"},
	Short:   "Create or update a secret",
	Long: `Seals a value with the repository's public key and stores it as NAME.

GitHub decides whether this creates a new secret or replaces an existing
one. The value is read from --value, --from-file, stdin when piped, or a
hidden prompt.

Secret names may only contain uppercase letters, digits and underscores.

Examples:
  ghsecrets secrets set API_KEY
  echo -n "s3cr3t" | ghsecrets secrets set API_KEY
  ghsecrets secrets set TLS_CERT --from-file cert.pem`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting set command")
		name := args[0]

		if err := secrets.ValidateName(name); err != nil {
			fmt.Fprintln(cmd.OutOrStdout(), formatError(err))
			return reported(err)
		}

		value, err := readSecretValue(cmd, name)
		if err != nil {
			return Logger.ErrorfAndReturn("failed to read secret value: %v", err)
		}

		spinner, cleanup := startSpinner(cmd, "Saving "+name+"...")
		defer cleanup()

		env, err := newEnvironment(true)
		if err != nil {
			return fail(spinner, err)
		}

		coord := env.coordinator(progressObserver(spinner, 1, "Writing"))
		result, err := coord.SetSecret(context.Background(), env.session, secrets.SecretDraft{Name: name, Value: value})
		if err != nil && result == nil {
			return fail(spinner, err)
		}

		verb := "Updated"
		if result.Created {
			verb = "Created"
		}
		finalMessage := fmt.Sprintf("%s %s %s in %s", ui.Check(), verb,
			ui.SecretName.Sprint(name), ui.Repo.Sprint(env.session.Repo))

		if err != nil {
			spinner.FinalMSG = finalMessage + "\n" + ui.Alert() + " " + err.Error()
			return reported(err)
		}

		spinner.FinalMSG = finalMessage + "\n\n" + secretTable(result.Secrets)
		return nil
	},
}

func readSecretValue(cmd *cobra.Command, name string) (string, error) {
	switch {
	case cmd.Flags().Changed("value"):
		Logger.Debugf("Reading value from --value")
		return setValue, nil

	case setFromFile != "":
		Logger.Debugf("Reading value from %s", setFromFile)
		data, err := os.ReadFile(setFromFile)
		if err != nil {
			return "", err
		}
		return string(data), nil

	case cmd.InOrStdin() == os.Stdin && utils.IsTerminal():
		return utils.ReadHidden(fmt.Sprintf("Value for %s: ", name))

	default:
		Logger.Debugf("Reading value from stdin")
		return utils.ReadAll(cmd.InOrStdin())
	}
}
