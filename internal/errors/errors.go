package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Validation errors indicate the input was rejected before any request was made.
var (
	// ErrValidation indicates a secret name, value or record failed validation.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidRepository indicates a repository reference is not in owner/name form.
	ErrInvalidRepository = errors.New("invalid repository reference")
)

// Remote errors indicate the GitHub API rejected a request or could not be reached.
var (
	// ErrRemote indicates a non-2xx response or a transport failure.
	ErrRemote = errors.New("remote request failed")
)

// Cryptographic errors indicate failures while sealing a secret value.
var (
	// ErrKeyDecode indicates the repository public key could not be decoded.
	ErrKeyDecode = errors.New("failed to decode repository public key")

	// ErrEncryption indicates the secret value could not be sealed.
	ErrEncryption = errors.New("failed to encrypt secret value")

	// ErrSecretTooLarge indicates the secret value exceeds the size GitHub accepts.
	ErrSecretTooLarge = errors.New("secret value exceeds 48 KB")
)

// Bulk errors indicate some items of a bulk operation failed.
var (
	// ErrBulkPartial indicates at least one item of a bulk operation failed.
	ErrBulkPartial = errors.New("bulk operation partially failed")
)

// Auth errors indicate the session could not be established.
var (
	// ErrNoToken indicates no GitHub token was supplied or stored.
	ErrNoToken = errors.New("no GitHub token available")

	// ErrNoRepository indicates no repository was selected.
	ErrNoRepository = errors.New("no repository selected")

	// ErrInvalidToken indicates GitHub rejected the token.
	ErrInvalidToken = errors.New("invalid GitHub token or insufficient permissions")
)

// ValidationError reports input that was rejected before any network call.
type ValidationError struct {
	// Subject names what was rejected, e.g. `secret name "foo"` or "record 2".
	Subject string
	// Reason explains the rule that was broken.
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Subject, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// NewValidationError returns a ValidationError for subject.
func NewValidationError(subject, reason string) *ValidationError {
	return &ValidationError{Subject: subject, Reason: reason}
}

// RemoteError reports a failed GitHub API call.
// Status is zero when the request never produced a response.
type RemoteError struct {
	Op      string
	Status  int
	Message string
}

func (e *RemoteError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("failed to %s: %s", e.Op, e.Message)
	}
	return fmt.Sprintf("failed to %s: %d - %s", e.Op, e.Status, e.Message)
}

func (e *RemoteError) Unwrap() error {
	return ErrRemote
}

// NewRemoteError builds a RemoteError, falling back to a status based message
// when the response carried none.
func NewRemoteError(op string, status int, message string) *RemoteError {
	message = strings.TrimSpace(message)
	if message == "" {
		message = genericStatusMessage(status)
	}
	return &RemoteError{Op: op, Status: status, Message: message}
}

func genericStatusMessage(status int) string {
	if status == 0 {
		return "request failed"
	}
	if text := http.StatusText(status); text != "" {
		return "HTTP error: " + text
	}
	return "HTTP error"
}

// KeyDecodeError reports a repository public key that could not be decoded.
type KeyDecodeError struct {
	KeyID string
	Err   error
}

func (e *KeyDecodeError) Error() string {
	if e.KeyID == "" {
		return fmt.Sprintf("%s: %v", ErrKeyDecode, e.Err)
	}
	return fmt.Sprintf("%s (key id %s): %v", ErrKeyDecode, e.KeyID, e.Err)
}

func (e *KeyDecodeError) Unwrap() []error {
	return []error{ErrKeyDecode, e.Err}
}

// EncryptionError reports a sealing failure.
type EncryptionError struct {
	Err error
}

func (e *EncryptionError) Error() string {
	return fmt.Sprintf("%s: %v", ErrEncryption, e.Err)
}

func (e *EncryptionError) Unwrap() []error {
	return []error{ErrEncryption, e.Err}
}

// ItemFailure is a single failed item of a bulk operation.
type ItemFailure struct {
	Name string
	Err  error
}

// BulkError aggregates the failed items of a bulk operation.
// Items not listed in Failures succeeded.
type BulkError struct {
	Op       string
	Total    int
	Failures []ItemFailure
}

func (e *BulkError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %d of %d failed", e.Op, len(e.Failures), e.Total)
	for i, f := range e.Failures {
		if i == 0 {
			b.WriteString(": ")
		} else {
			b.WriteString("; ")
		}
		fmt.Fprintf(&b, "%s (%v)", f.Name, f.Err)
	}
	return b.String()
}

// Unwrap exposes ErrBulkPartial and every item error so errors.As can reach
// the underlying RemoteError values.
func (e *BulkError) Unwrap() []error {
	errs := make([]error, 0, len(e.Failures)+1)
	errs = append(errs, ErrBulkPartial)
	for _, f := range e.Failures {
		errs = append(errs, f.Err)
	}
	return errs
}

// FailedNames returns the names of the failed items in report order.
func (e *BulkError) FailedNames() []string {
	names := make([]string, len(e.Failures))
	for i, f := range e.Failures {
		names[i] = f.Name
	}
	return names
}
