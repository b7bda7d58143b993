package secrets

import (
	"fmt"
	"regexp"
	"strings"

	kerrors "github.com/PolarWolf314/ghsecrets/internal/errors"
)

// NamePattern is the form GitHub accepts for repository secret names.
const NamePattern = `^[A-Z0-9_]+$`

var nameRegex = regexp.MustCompile(NamePattern)

// IsValidName reports whether name can be used as a repository secret name.
func IsValidName(name string) bool {
	return nameRegex.MatchString(name)
}

// ValidateName returns a ValidationError when name does not match NamePattern.
func ValidateName(name string) error {
	if name == "" {
		return kerrors.NewValidationError("secret name", "must not be empty")
	}
	if !IsValidName(name) {
		return kerrors.NewValidationError(fmt.Sprintf("secret name %q", name), "must match "+NamePattern)
	}
	return nil
}

// NormalizeName upper-cases name and maps '.' and '-' to '_', turning typical
// .env keys such as "db.host" into "DB_HOST".
func NormalizeName(name string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '.', '-':
			return '_'
		}
		return r
	}, strings.ToUpper(strings.TrimSpace(name)))
}
