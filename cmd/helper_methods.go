package cmd

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync/atomic"
	"text/tabwriter"
	"time"

	"github.com/PolarWolf314/ghsecrets/internal/auth"
	"github.com/PolarWolf314/ghsecrets/internal/configs"
	kerrors "github.com/PolarWolf314/ghsecrets/internal/errors"
	"github.com/PolarWolf314/ghsecrets/internal/ghapi"
	"github.com/PolarWolf314/ghsecrets/internal/secrets"
	"github.com/PolarWolf314/ghsecrets/internal/ui"
	"github.com/PolarWolf314/ghsecrets/internal/utils"
	"github.com/PolarWolf314/ghsecrets/internal/workflows"

	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"
)

// startSpinner creates and starts a spinner with the given message when not in verbose or debug mode.
// Returns the spinner and a function that should be deferred to clean up.
//
// IMPORTANT: spinner.FinalMSG values do NOT need trailing newlines. The cleanup function
// automatically calls ui.EnsureNewline() on the final message before printing it to
// the command's output.
func startSpinner(cmd *cobra.Command, message string) (*spinner.Spinner, func()) {
	Logger.Debugf("Starting spinner with message: %s", message)
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
	s.Suffix = " " + message

	if err := s.Color("cyan"); err != nil {
		Logger.Warnf("Failed to set spinner color: %v", err)
	}

	quiet := !verbose && !debug
	if quiet {
		s.Start()
	} else {
		Logger.Infof("%s", message)
	}

	cleanup := func() {
		finalMsg := ""
		if s.FinalMSG != "" {
			finalMsg = ui.EnsureNewline(s.FinalMSG)
			// Clear FinalMSG so s.Stop() doesn't print it.
			s.FinalMSG = ""
		}

		if quiet {
			s.Stop()
		}

		if finalMsg != "" {
			fmt.Fprint(cmd.OutOrStdout(), finalMsg)
		}
	}

	return s, cleanup
}

func setSuffix(s *spinner.Spinner, message string) {
	s.Lock()
	s.Suffix = " " + message
	s.Unlock()
}

// progressObserver drives the spinner from workflow state transitions.
// verb is shown in bulk progress, e.g. "Deleting" gives "Deleting secrets... (3/10)".
func progressObserver(s *spinner.Spinner, total int, verb string) workflows.Observer {
	var finished atomic.Int64

	return func(tr workflows.Transition) {
		if tr.Err != nil {
			Logger.Debugf("%s: %s -> %s: %v", tr.Secret, tr.From, tr.To, tr.Err)
		} else {
			Logger.Debugf("%s: %s -> %s", tr.Secret, tr.From, tr.To)
		}

		if total > 1 {
			if tr.To.Terminal() {
				n := finished.Add(1)
				setSuffix(s, fmt.Sprintf("%s secrets... (%d/%d)", verb, n, total))
			}
			return
		}

		switch tr.To {
		case workflows.StateFetchingKey:
			setSuffix(s, "Fetching repository public key...")
		case workflows.StateEncrypting:
			setSuffix(s, "Encrypting "+tr.Secret+"...")
		case workflows.StateWriting:
			setSuffix(s, "Writing "+tr.Secret+"...")
		case workflows.StateDeleting:
			setSuffix(s, "Deleting "+tr.Secret+"...")
		}
	}
}

// environment bundles everything a command needs to call GitHub.
type environment struct {
	config  *configs.Config
	token   auth.Token
	client  *ghapi.Client
	session *ghapi.Session
}

// newEnvironment loads the config, resolves the token and, when needRepo is
// set, the target repository.
func newEnvironment(needRepo bool) (*environment, error) {
	config, err := configs.Load()
	if err != nil {
		return nil, err
	}
	Logger.Debugf("API URL: %s", config.APIURL)

	token, err := auth.ResolveToken(tokenFlag)
	if err != nil {
		return nil, err
	}
	Logger.Debugf("Using %s", token)

	client, err := ghapi.NewClient(ghapi.Options{
		BaseURL: config.APIURL,
		Timeout: config.TimeoutDuration(),
	})
	if err != nil {
		return nil, err
	}

	var repo ghapi.RepositoryRef
	if needRepo {
		repo, err = resolveRepo(config)
		if err != nil {
			return nil, err
		}
		Logger.Debugf("Repository: %s", repo)
	}

	sess, err := ghapi.NewSession(token.Value, repo)
	if err != nil {
		return nil, err
	}

	return &environment{config: config, token: token, client: client, session: sess}, nil
}

func resolveRepo(config *configs.Config) (ghapi.RepositoryRef, error) {
	name := repoFlag
	if name == "" {
		name = config.DefaultRepo
	}
	if name == "" {
		return ghapi.RepositoryRef{}, kerrors.ErrNoRepository
	}
	return ghapi.ParseRepositoryRef(name)
}

func (e *environment) coordinator(observer workflows.Observer) *workflows.Coordinator {
	return workflows.New(e.client, workflows.Options{
		Concurrency:       e.config.Concurrency,
		RequestsPerSecond: e.config.RequestsPerSecond,
		Observer:          observer,
	})
}

// reportedError marks an error whose message a command already printed.
type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }

func reported(err error) error {
	return &reportedError{err: err}
}

// IsReported reports whether err was already shown to the user, so main
// only needs to set the exit code.
func IsReported(err error) bool {
	var r *reportedError
	return errors.As(err, &r)
}

// fail puts the user-facing message for err on the spinner and returns err
// marked as reported.
func fail(s *spinner.Spinner, err error) error {
	Logger.Debugf("Command failed: %v", err)
	s.FinalMSG = formatError(err)
	return reported(err)
}

// formatError turns an error into the message shown to the user.
func formatError(err error) string {
	var (
		validation *kerrors.ValidationError
		bulk       *kerrors.BulkError
		remote     *kerrors.RemoteError
	)

	switch {
	case errors.Is(err, kerrors.ErrNoToken):
		return ui.Cross() + " No GitHub token found\n" +
			ui.Arrow() + " Run " + ui.Code.Sprint("ghsecrets auth login") + " or set " + ui.Code.Sprint("GHSECRETS_TOKEN")

	case errors.Is(err, kerrors.ErrInvalidToken):
		return ui.Cross() + " GitHub rejected the token\n" +
			ui.Arrow() + " Create a token with the repo scope and run " + ui.Code.Sprint("ghsecrets auth login")

	case errors.Is(err, kerrors.ErrNoRepository):
		return ui.Cross() + " No repository selected\n" +
			ui.Arrow() + " Pass " + ui.Path.Sprint("--repo owner/name") + " or run " +
			ui.Code.Sprint("ghsecrets config set default_repo owner/name")

	case errors.Is(err, kerrors.ErrInvalidRepository):
		return ui.Cross() + " " + err.Error()

	case errors.As(err, &bulk):
		return formatBulkError(bulk, err)

	case errors.As(err, &validation):
		return ui.Cross() + " " + err.Error() + "\n" +
			ui.Arrow() + " Nothing was sent to GitHub"

	case errors.As(err, &remote):
		return ui.Cross() + " " + err.Error() + remoteHint(remote)

	case errors.Is(err, kerrors.ErrKeyDecode), errors.Is(err, kerrors.ErrEncryption):
		return ui.Cross() + " " + err.Error() + "\n" +
			ui.Arrow() + " The secret was not written"

	default:
		return ui.Cross() + " " + err.Error()
	}
}

func formatBulkError(bulk *kerrors.BulkError, err error) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s: %d of %d failed\n", ui.Cross(), bulk.Op, len(bulk.Failures), bulk.Total)
	for _, f := range bulk.Failures {
		fmt.Fprintf(&b, "    - %s %s\n", ui.SecretName.Sprint(f.Name), ui.Muted.Sprint(f.Err.Error()))
	}

	// A failed refresh is joined to the bulk error.
	if joined, ok := err.(interface{ Unwrap() []error }); ok && err != error(bulk) {
		for _, e := range joined.Unwrap() {
			if e != nil && e != error(bulk) {
				fmt.Fprintf(&b, "%s %v\n", ui.Alert(), e)
			}
		}
	}

	b.WriteString(ui.Arrow() + " Secrets not listed above succeeded; nothing was rolled back")
	return b.String()
}

func remoteHint(remote *kerrors.RemoteError) string {
	switch remote.Status {
	case 0:
		return "\n" + ui.Arrow() + " Check your network connection and the api_url setting"
	case 401:
		return "\n" + ui.Arrow() + " Run " + ui.Code.Sprint("ghsecrets auth login") + " with a valid token"
	case 403, 429:
		return "\n" + ui.Arrow() + " The token may lack the repo scope, or GitHub is rate limiting; try again later"
	case 404:
		return "\n" + ui.Arrow() + " Check the repository name and that the token has admin access to it"
	default:
		return ""
	}
}

// secretTable renders secrets as NAME / UPDATED / CREATED columns.
func secretTable(list []secrets.SecretMetadata) string {
	if len(list) == 0 {
		return ui.Muted.Sprint("no secrets") + "\n"
	}

	sorted := append([]secrets.SecretMetadata(nil), list...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })

	var b strings.Builder
	w := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tUPDATED\tCREATED")
	for _, s := range sorted {
		fmt.Fprintf(w, "%s\t%s\t%s\n", s.Name, formatTime(s.UpdatedAt), formatTime(s.CreatedAt))
	}
	_ = w.Flush()
	return b.String()
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}

// finishBulkCommand sets the final message of a bulk workflow.
func finishBulkCommand(s *spinner.Spinner, result *workflows.BulkResult, err error, verb string) error {
	if result == nil {
		return fail(s, err)
	}

	var bulk *kerrors.BulkError
	if errors.As(err, &bulk) {
		s.FinalMSG = formatError(err)
		if result.Secrets != nil {
			s.FinalMSG += "\n\n" + secretTable(result.Secrets)
		}
		return reported(err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s %d %s", ui.Check(), verb, len(result.Succeeded),
		utils.Plural(len(result.Succeeded), "secret", "secrets"))
	if len(result.Created) > 0 {
		fmt.Fprintf(&b, " %s", ui.Muted.Sprintf("%d new", len(result.Created)))
	}
	if len(result.Skipped) > 0 {
		fmt.Fprintf(&b, "\n%s Skipped %d empty %s:%s", ui.Alert(), len(result.Skipped),
			utils.Plural(len(result.Skipped), "value", "values"), strings.TrimSuffix(utils.FormatNames(result.Skipped), "\n"))
	}

	if err != nil {
		s.FinalMSG = b.String() + "\n" + ui.Alert() + " " + err.Error()
		return reported(err)
	}

	s.FinalMSG = b.String() + "\n\n" + secretTable(result.Secrets)
	return nil
}
