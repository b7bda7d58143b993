package ghapi

import (
	"fmt"
	"testing"

	kerrors "github.com/PolarWolf314/ghsecrets/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRepositoryRef(t *testing.T) {
	valid := map[string]RepositoryRef{
		"octo/hello":                          {Owner: "octo", Name: "hello"},
		" octo/hello.js ":                     {Owner: "octo", Name: "hello.js"},
		"https://github.com/octo/hello":       {Owner: "octo", Name: "hello"},
		"https://github.com/octo/hello.git":   {Owner: "octo", Name: "hello"},
		"git@github.com:octo/hello-world.git": {Owner: "octo", Name: "hello-world"},
	}
	for input, want := range valid {
		got, err := ParseRepositoryRef(input)
		require.NoError(t, err, input)
		assert.Equal(t, want, got, input)
	}

	for _, input := range []string{"", "octo", "octo/", "/hello", "a/b/c", "octo/../x", "octo/he llo"} {
		_, err := ParseRepositoryRef(input)
		assert.ErrorIs(t, err, kerrors.ErrInvalidRepository, input)
	}
}

func TestSession_RedactsToken(t *testing.T) {
	sess, err := NewSession("ghp_supersecret", RepositoryRef{Owner: "o", Name: "r"})
	require.NoError(t, err)

	for _, s := range []string{fmt.Sprint(sess), fmt.Sprintf("%+v", sess), fmt.Sprintf("%#v", sess)} {
		assert.NotContains(t, s, "ghp_supersecret")
		assert.Contains(t, s, "o/r")
	}
}

func TestNewSession_RequiresToken(t *testing.T) {
	_, err := NewSession("   ", RepositoryRef{})
	assert.ErrorIs(t, err, kerrors.ErrNoToken)
}

func TestNewClient_RejectsBadURL(t *testing.T) {
	_, err := NewClient(Options{BaseURL: "ftp://example.com"})
	assert.Error(t, err)

	c, err := NewClient(Options{BaseURL: "https://ghe.example.com/api/v3"})
	require.NoError(t, err)
	assert.Equal(t, "https://ghe.example.com/api/v3/", c.BaseURL())
}
