package auth

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"

	kerrors "github.com/PolarWolf314/ghsecrets/internal/errors"
)

func setup(t *testing.T) {
	t.Helper()
	keyring.MockInit()
	for _, name := range EnvVars {
		t.Setenv(name, "")
	}
}

func TestResolveToken_NoneSet(t *testing.T) {
	setup(t)

	_, err := ResolveToken("")
	assert.ErrorIs(t, err, kerrors.ErrNoToken)
}

func TestResolveToken_Order(t *testing.T) {
	setup(t)
	require.NoError(t, StoreToken("ghp_keychain"))

	token, err := ResolveToken("")
	require.NoError(t, err)
	assert.Equal(t, Token{Value: "ghp_keychain", Source: SourceKeychain}, token)

	t.Setenv("GITHUB_TOKEN", "ghp_github")
	token, err = ResolveToken("")
	require.NoError(t, err)
	assert.Equal(t, "ghp_github", token.Value)
	assert.Equal(t, "GITHUB_TOKEN", token.Detail)

	t.Setenv("GHSECRETS_TOKEN", "ghp_ghsecrets")
	token, err = ResolveToken("")
	require.NoError(t, err)
	assert.Equal(t, "ghp_ghsecrets", token.Value)
	assert.Equal(t, SourceEnv, token.Source)

	token, err = ResolveToken("ghp_flag")
	require.NoError(t, err)
	assert.Equal(t, Token{Value: "ghp_flag", Source: SourceFlag}, token)
}

func TestStoreToken_RejectsEmpty(t *testing.T) {
	setup(t)

	assert.ErrorIs(t, StoreToken("  "), kerrors.ErrNoToken)
}

func TestDeleteToken(t *testing.T) {
	setup(t)

	removed, err := DeleteToken()
	require.NoError(t, err)
	assert.False(t, removed)

	require.NoError(t, StoreToken("ghp_keychain"))
	removed, err = DeleteToken()
	require.NoError(t, err)
	assert.True(t, removed)

	_, err = ResolveToken("")
	assert.ErrorIs(t, err, kerrors.ErrNoToken)
}

func TestToken_StringRedacts(t *testing.T) {
	token := Token{Value: "ghp_supersecret", Source: SourceEnv, Detail: "GITHUB_TOKEN"}

	assert.NotContains(t, token.String(), "supersecret")
	assert.NotContains(t, fmt.Sprintf("%v %+v %#v", token, token, token), "supersecret")
}

func TestMask(t *testing.T) {
	assert.Equal(t, "ghp_****wxyz", Mask("ghp_abcdefghijklmnopqrstuvwxyz"))
	assert.Equal(t, "github_pat_****1234", Mask("github_pat_11AAAAAAA_1234"))
	assert.Equal(t, "****", Mask("abcd"))
	assert.Equal(t, "****7890", Mask("12345678901234567890"))
}
