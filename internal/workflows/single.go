package workflows

import (
	"context"
	"fmt"

	"github.com/PolarWolf314/ghsecrets/internal/audit"
	kerrors "github.com/PolarWolf314/ghsecrets/internal/errors"
	"github.com/PolarWolf314/ghsecrets/internal/ghapi"
	"github.com/PolarWolf314/ghsecrets/internal/secrets"
)

// SetResult contains the outcome of a single write.
type SetResult struct {
	Name string

	// Created is true when the secret did not exist before.
	Created bool

	// Secrets is the repository's secret list after the write.
	Secrets []secrets.SecretMetadata
}

// SetSecret seals and writes draft, then re-lists the repository.
//
// Returns a ValidationError if the name or value is empty or the name is
// not a valid secret name; nothing is sent in that case. If the write
// succeeds but the re-list fails, the result is returned with the error.
func (c *Coordinator) SetSecret(ctx context.Context, sess *ghapi.Session, draft secrets.SecretDraft) (*SetResult, error) {
	if err := validateRecord(0, draft.Name, draft.Value); err != nil {
		return nil, err
	}

	put, err := c.put(ctx, sess, draft.Name, draft.Value)

	entry := audit.NewEntry("set", sess.Repo.String())
	entry.Secrets = []string{draft.Name}
	if err != nil {
		entry.Failed = []string{draft.Name}
	}
	audit.Log(entry)

	if err != nil {
		return nil, err
	}

	result := &SetResult{Name: put.Name, Created: put.Created}
	result.Secrets, err = c.store.ListSecrets(ctx, sess)
	if err != nil {
		return result, fmt.Errorf("secret %s saved, but refreshing the list failed: %w", draft.Name, err)
	}

	return result, nil
}

// DeleteResult contains the outcome of a single delete.
type DeleteResult struct {
	Name string

	// Secrets is the repository's secret list after the delete.
	Secrets []secrets.SecretMetadata
}

// DeleteSecret deletes name, then re-lists the repository. Deleting a secret
// that does not exist succeeds.
func (c *Coordinator) DeleteSecret(ctx context.Context, sess *ghapi.Session, name string) (*DeleteResult, error) {
	if err := secrets.ValidateName(name); err != nil {
		return nil, err
	}

	err := c.delete(ctx, sess, name)

	entry := audit.NewEntry("delete", sess.Repo.String())
	entry.Secrets = []string{name}
	if err != nil {
		entry.Failed = []string{name}
	}
	audit.Log(entry)

	if err != nil {
		return nil, err
	}

	result := &DeleteResult{Name: name}
	result.Secrets, err = c.store.ListSecrets(ctx, sess)
	if err != nil {
		return result, fmt.Errorf("secret %s deleted, but refreshing the list failed: %w", name, err)
	}

	return result, nil
}

// validateRecord checks one name/value pair. index is 1-based; zero means
// the pair is not part of a file.
func validateRecord(index int, name, value string) error {
	subject := "secret"
	if index > 0 {
		subject = fmt.Sprintf("record %d", index)
	}

	if name == "" || value == "" {
		return kerrors.NewValidationError(subject, `must include "name" and "value"`)
	}
	if err := secrets.ValidateName(name); err != nil {
		if index > 0 {
			return fmt.Errorf("record %d: %w", index, err)
		}
		return err
	}
	return nil
}
