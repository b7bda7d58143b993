package cmd

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/PolarWolf314/ghsecrets/internal/configs"
	"github.com/PolarWolf314/ghsecrets/internal/ghapi/ghapitest"

	"github.com/spf13/cobra"
	"github.com/zalando/go-keyring"
)

// testEnv is an isolated ghsecrets installation talking to a fake GitHub.
type testEnv struct {
	server *ghapitest.Server
	dir    string
}

// setupTestEnvironment points the CLI at a fake GitHub for octo/hello, a
// temporary config and data directory and an in-memory keychain.
func setupTestEnvironment(t *testing.T) *testEnv {
	t.Helper()

	dir := t.TempDir()
	original := configs.UserGhsecretsSettings
	configs.UserGhsecretsSettings = &configs.UserSettings{
		UserConfigsPath: filepath.Join(dir, "config"),
		UserDataPath:    filepath.Join(dir, "data"),
		Username:        "testuser",
	}

	keyring.MockInit()
	ResetGlobalState()

	t.Cleanup(func() {
		configs.UserGhsecretsSettings = original
		ResetGlobalState()
	})

	server := ghapitest.NewServer(t, "octo", "hello")

	t.Setenv("NO_COLOR", "1")
	t.Setenv("GHSECRETS_API_URL", server.URL)
	t.Setenv("GHSECRETS_TOKEN", ghapitest.Token)
	t.Setenv("GITHUB_TOKEN", "")
	t.Setenv("GHSECRETS_REPO", "octo/hello")

	return &testEnv{server: server, dir: dir}
}

// run executes the CLI with args and stdin, returning its output.
func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	root := &cobra.Command{Use: "ghsecrets", SilenceUsage: true, SilenceErrors: true}
	root.AddCommand(AuthCmd, ReposCmd, SecretsCmd, ConfigCmd)

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)

	err := root.Execute()
	ResetGlobalState()
	return out.String(), err
}
