package configs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func unsetAfterTest(t *testing.T, names ...string) {
	t.Helper()
	for _, name := range names {
		require.NoError(t, os.Unsetenv(name))
	}
	t.Cleanup(func() {
		for _, name := range names {
			_ = os.Unsetenv(name)
		}
	})
}

func TestLoadEnvFile_IgnoresProjectDotEnv(t *testing.T) {
	unsetAfterTest(t, "GHSECRETS_TEST_REPO", "GHSECRETS_TEST_FROM_DOTENV")
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("GHSECRETS_TEST_FROM_DOTENV=leaked\n"), 0600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, EnvFileName), []byte("GHSECRETS_TEST_REPO=octo/hello\n"), 0600))

	require.NoError(t, LoadEnvFile(dir))

	assert.Equal(t, "octo/hello", os.Getenv("GHSECRETS_TEST_REPO"))
	_, leaked := os.LookupEnv("GHSECRETS_TEST_FROM_DOTENV")
	assert.False(t, leaked)
}

func TestLoadEnvFile_ExistingVariablesWin(t *testing.T) {
	t.Setenv("GHSECRETS_TEST_REPO", "octo/other")
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, EnvFileName), []byte("GHSECRETS_TEST_REPO=octo/hello\n"), 0600))

	require.NoError(t, LoadEnvFile(dir))

	assert.Equal(t, "octo/other", os.Getenv("GHSECRETS_TEST_REPO"))
}

func TestLoadEnvFile_MissingFile(t *testing.T) {
	assert.NoError(t, LoadEnvFile(t.TempDir()))
}
