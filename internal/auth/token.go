package auth

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/zalando/go-keyring"

	kerrors "github.com/PolarWolf314/ghsecrets/internal/errors"
)

const (
	// ServiceName is the keychain service the token is stored under.
	ServiceName = "ghsecrets"

	account = "github-token"
)

// EnvVars are consulted in order after the --token flag.
var EnvVars = []string{"GHSECRETS_TOKEN", "GITHUB_TOKEN"}

// Source describes where a token came from.
type Source string

const (
	SourceFlag     Source = "flag"
	SourceEnv      Source = "environment"
	SourceKeychain Source = "keychain"
)

// Token is a resolved token and its origin.
type Token struct {
	Value  string
	Source Source
	// Detail names the environment variable when Source is SourceEnv.
	Detail string
}

// String never prints the token value.
func (t Token) String() string {
	if t.Detail != "" {
		return fmt.Sprintf("token from %s (%s)", t.Source, t.Detail)
	}
	return fmt.Sprintf("token from %s", t.Source)
}

// GoString never prints the token value.
func (t Token) GoString() string {
	return t.String()
}

// ResolveToken returns the first token found in the flag value, the
// environment and the keychain. It returns errors.ErrNoToken when none is
// set.
func ResolveToken(flagValue string) (Token, error) {
	if v := strings.TrimSpace(flagValue); v != "" {
		return Token{Value: v, Source: SourceFlag}, nil
	}

	for _, name := range EnvVars {
		if v := strings.TrimSpace(os.Getenv(name)); v != "" {
			return Token{Value: v, Source: SourceEnv, Detail: name}, nil
		}
	}

	v, err := keyring.Get(ServiceName, account)
	if errors.Is(err, keyring.ErrNotFound) {
		return Token{}, kerrors.ErrNoToken
	}
	if err != nil {
		return Token{}, fmt.Errorf("reading token from keychain: %w", err)
	}
	if v == "" {
		return Token{}, kerrors.ErrNoToken
	}

	return Token{Value: v, Source: SourceKeychain}, nil
}

// StoreToken saves token in the keychain, replacing any previous one.
func StoreToken(token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return kerrors.ErrNoToken
	}
	if err := keyring.Set(ServiceName, account, token); err != nil {
		return fmt.Errorf("storing token in keychain: %w", err)
	}
	return nil
}

// DeleteToken removes the stored token. It reports whether one was stored.
func DeleteToken() (bool, error) {
	err := keyring.Delete(ServiceName, account)
	if errors.Is(err, keyring.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("removing token from keychain: %w", err)
	}
	return true, nil
}

// Mask shows the token prefix and its last four characters, e.g. "ghp_****wxyz".
func Mask(token string) string {
	if len(token) <= 8 {
		return strings.Repeat("*", len(token))
	}
	prefix := ""
	switch {
	case strings.HasPrefix(token, "github_pat_"):
		prefix = "github_pat_"
	case len(token) > 4 && token[3] == '_':
		prefix = token[:4]
	}
	return prefix + "****" + token[len(token)-4:]
}
