package ghapi

import (
	"fmt"
	"strings"

	kerrors "github.com/PolarWolf314/ghsecrets/internal/errors"
)

// RepositoryRef identifies a GitHub repository.
type RepositoryRef struct {
	Owner string
	Name  string
}

func (r RepositoryRef) String() string {
	if r.IsZero() {
		return ""
	}
	return r.Owner + "/" + r.Name
}

// IsZero reports whether no repository is set.
func (r RepositoryRef) IsZero() bool {
	return r.Owner == "" && r.Name == ""
}

// ParseRepositoryRef accepts "owner/name" as well as GitHub URLs such as
// "https://github.com/owner/name.git".
func ParseRepositoryRef(s string) (RepositoryRef, error) {
	ref := strings.TrimSpace(s)
	for _, prefix := range []string{"https://github.com/", "http://github.com/", "git@github.com:", "github.com/"} {
		ref = strings.TrimPrefix(ref, prefix)
	}
	ref = strings.TrimSuffix(strings.TrimSuffix(ref, "/"), ".git")

	parts := strings.Split(ref, "/")
	if len(parts) != 2 || !validRefPart(parts[0]) || !validRefPart(parts[1]) {
		return RepositoryRef{}, fmt.Errorf("%w: %q, expected owner/name", kerrors.ErrInvalidRepository, s)
	}

	return RepositoryRef{Owner: parts[0], Name: parts[1]}, nil
}

func validRefPart(part string) bool {
	if part == "" || part == "." || part == ".." {
		return false
	}
	for _, r := range part {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '-', r == '_', r == '.':
		default:
			return false
		}
	}
	return true
}

// Session carries the credentials and the selected repository for API calls.
// The token is unexported and redacted whenever the session is formatted.
type Session struct {
	Repo  RepositoryRef
	token string
}

// NewSession returns a session for token. repo may be zero for calls that do
// not target a repository.
func NewSession(token string, repo RepositoryRef) (*Session, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, kerrors.ErrNoToken
	}
	return &Session{Repo: repo, token: token}, nil
}

// WithRepo returns a copy of the session targeting repo.
func (s *Session) WithRepo(repo RepositoryRef) *Session {
	return &Session{Repo: repo, token: s.token}
}

func (s *Session) String() string {
	return fmt.Sprintf("Session{repo=%s, token=<redacted>}", s.Repo)
}

// GoString redacts the token.
func (s *Session) GoString() string {
	return s.String()
}

func (s *Session) requireRepo() error {
	if s == nil || s.token == "" {
		return kerrors.ErrNoToken
	}
	if s.Repo.IsZero() {
		return kerrors.ErrNoRepository
	}
	return nil
}
