package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/PolarWolf314/ghsecrets/internal/secrets"
	"github.com/PolarWolf314/ghsecrets/internal/ui"
	"github.com/PolarWolf314/ghsecrets/internal/utils"
	"github.com/PolarWolf314/ghsecrets/internal/workflows"

	"github.com/spf13/cobra"
)

var (
	uploadNormalize bool
	uploadSkipEmpty bool
	uploadDryRun    bool
)

func init() {
	uploadEnvCmd.Flags().BoolVar(&uploadNormalize, "normalize", false, "upper-case keys and replace '.' and '-' with '_'")
	uploadEnvCmd.Flags().BoolVar(&uploadSkipEmpty, "skip-empty", false, "leave out keys without a value instead of failing")
	uploadEnvCmd.Flags().BoolVar(&uploadDryRun, "dry-run", false, "show what would be uploaded without making changes")

	SecretsCmd.AddCommand(uploadEnvCmd)
}

// resetUploadEnvCommandState resets the upload-env command's global state for testing.
func resetUploadEnvCommandState() {
	uploadNormalize = false
	uploadSkipEmpty = false
	uploadDryRun = false
}

var uploadEnvCmd = &cobra.Command{
	Use:   "upload-env [FILE|DIR|GLOB]...",
	Short: "Create or update secrets from .env files",
	Long: `Uploads every KEY=value pair of one or more .env files as secrets.

Arguments may be files, directories (searched recursively for .env files) or
glob patterns such as "config/**/*.env". With no arguments, .env in the
current directory is used.

Blank lines and lines starting with # are ignored. Values are trimmed and
one pair of surrounding quotes is removed. When a key appears more than
once, the last value wins.

Every pair is validated before anything is sent, also with --dry-run. Keys
must already be valid secret names unless --normalize is given.

The files are only read as secrets. A GITHUB_TOKEN or GHSECRETS_REPO inside
them does not change the token or repository ghsecrets uses; put such
settings in .ghsecrets.env instead.

Examples:
  ghsecrets secrets upload-env
  ghsecrets secrets upload-env .env.production --normalize
  ghsecrets secrets upload-env "services/**/.env" --skip-empty`,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting upload-env command")
		spinner, cleanup := startSpinner(cmd, "Reading .env files...")
		defer cleanup()

		patterns := args
		if len(patterns) == 0 {
			patterns = []string{".env"}
		}

		cwd, err := os.Getwd()
		if err != nil {
			return Logger.ErrorfAndReturn("failed to get working directory: %v", err)
		}

		files, err := secrets.ResolveEnvFiles(patterns, cwd)
		if err != nil {
			return fail(spinner, err)
		}
		Logger.Infof("Resolved %d .env files", len(files))

		var pairs []secrets.Record
		for _, file := range files {
			data, err := os.ReadFile(file)
			if err != nil {
				return Logger.ErrorfAndReturn("failed to read %s: %v", file, err)
			}
			parsed := secrets.ParseEnv(string(data))
			Logger.Debugf("Parsed %d pairs from %s", len(parsed), file)
			pairs = append(pairs, parsed...)
		}

		if len(pairs) == 0 {
			spinner.FinalMSG = ui.Alert() + " No KEY=value pairs found in:" + utils.FormatPaths(files)
			return nil
		}

		opts := workflows.UploadEnvOptions{
			Normalize: uploadNormalize,
			SkipEmpty: uploadSkipEmpty,
		}

		if uploadDryRun {
			records, skipped, err := workflows.PrepareEnv(pairs, opts)
			if err != nil {
				return fail(spinner, err)
			}
			names := make([]string, len(records))
			for i, r := range records {
				names[i] = r.Name
			}
			msg := fmt.Sprintf("%s Would upload %d %s from:%s%s", ui.DryRun(), len(names),
				utils.Plural(len(names), "key", "keys"), utils.FormatPaths(files), utils.FormatNames(names))
			if len(skipped) > 0 {
				msg += fmt.Sprintf("%s Would skip %d empty %s:%s", ui.Alert(), len(skipped),
					utils.Plural(len(skipped), "value", "values"), utils.FormatNames(skipped))
			}
			spinner.FinalMSG = msg + "\nNo changes made."
			return nil
		}

		env, err := newEnvironment(true)
		if err != nil {
			return fail(spinner, err)
		}

		coord := env.coordinator(progressObserver(spinner, len(pairs), "Writing"))
		result, err := coord.UploadEnv(context.Background(), env.session, pairs, opts)
		return finishBulkCommand(spinner, result, err, "Uploaded")
	},
}
