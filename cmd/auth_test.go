package cmd

import (
	"testing"

	"github.com/PolarWolf314/ghsecrets/internal/auth"
	kerrors "github.com/PolarWolf314/ghsecrets/internal/errors"
	"github.com/PolarWolf314/ghsecrets/internal/ghapi/ghapitest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthLogin_StoresValidatedToken(t *testing.T) {
	env := setupTestEnvironment(t)
	t.Setenv("GHSECRETS_TOKEN", "")

	out, err := run(t, ghapitest.Token+"\n", "auth", "login", "--with-token")
	require.NoError(t, err)

	assert.Contains(t, out, "Logged in")
	assert.Contains(t, out, "1 repository")
	assert.NotContains(t, out, ghapitest.Token)
	assert.Equal(t, 1, env.server.Calls(ghapitest.CallRepos))

	token, err := auth.ResolveToken("")
	require.NoError(t, err)
	assert.Equal(t, ghapitest.Token, token.Value)
	assert.Equal(t, auth.SourceKeychain, token.Source)
}

func TestAuthLogin_RejectsBadToken(t *testing.T) {
	setupTestEnvironment(t)
	t.Setenv("GHSECRETS_TOKEN", "")

	out, err := run(t, "ghp_wrong\n", "auth", "login", "--with-token")

	assert.ErrorIs(t, err, kerrors.ErrInvalidToken)
	assert.Contains(t, out, "GitHub rejected the token")

	_, err = auth.ResolveToken("")
	assert.ErrorIs(t, err, kerrors.ErrNoToken)
}

func TestAuthLogout(t *testing.T) {
	setupTestEnvironment(t)
	require.NoError(t, auth.StoreToken(ghapitest.Token))

	out, err := run(t, "", "auth", "logout")
	require.NoError(t, err)
	assert.Contains(t, out, "Removed the token")
	assert.Contains(t, out, "`GHSECRETS_TOKEN` is still set")

	out, err = run(t, "", "auth", "logout")
	require.NoError(t, err)
	assert.Contains(t, out, "No token stored")
}

func TestAuthStatus(t *testing.T) {
	setupTestEnvironment(t)

	out, err := run(t, "", "auth", "status")
	require.NoError(t, err)

	assert.Contains(t, out, "is valid")
	assert.Contains(t, out, "environment")
	assert.Contains(t, out, "GHSECRETS_TOKEN")
	assert.NotContains(t, out, ghapitest.Token)
}

func TestAuthStatus_TokenFlagWins(t *testing.T) {
	setupTestEnvironment(t)

	out, err := run(t, "", "auth", "status", "--token", "ghp_flagtoken")

	require.Error(t, err)
	assert.Contains(t, out, "flag")
	assert.Contains(t, out, "GitHub rejected the token")
}

func TestReposList(t *testing.T) {
	env := setupTestEnvironment(t)
	env.server.SetRepositories("octo/hello", "octo/world")

	out, err := run(t, "", "repos", "list")
	require.NoError(t, err)

	assert.Contains(t, out, "2 repositories")
	assert.Contains(t, out, "octo/hello")
	assert.Contains(t, out, "octo/world")
}
