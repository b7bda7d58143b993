package ghapi

import (
	"context"
	"errors"
	"net/http"

	kerrors "github.com/PolarWolf314/ghsecrets/internal/errors"
	"github.com/PolarWolf314/ghsecrets/internal/secrets"

	"github.com/google/go-github/v50/github"
)

const listPageSize = 100

// Stage is a step of a secret write.
type Stage string

const (
	StageFetchingKey Stage = "fetching-key"
	StageEncrypting  Stage = "encrypting"
	StageWriting     Stage = "writing"
)

// PutResult describes a completed write.
type PutResult struct {
	Name string
	// Created is true when GitHub created the secret rather than updating it.
	Created bool
}

// ListSecrets returns the metadata of every secret in the session's
// repository. A repository without secrets yields an empty slice.
func (c *Client) ListSecrets(ctx context.Context, sess *Session) ([]secrets.SecretMetadata, error) {
	if err := sess.requireRepo(); err != nil {
		return nil, err
	}

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	gh := c.github(sess)
	opts := &github.ListOptions{PerPage: listPageSize}
	result := []secrets.SecretMetadata{}

	for {
		page, resp, err := gh.Actions.ListRepoSecrets(ctx, sess.Repo.Owner, sess.Repo.Name, opts)
		if err != nil {
			return nil, remoteError("list secrets", resp, err)
		}

		for _, s := range page.Secrets {
			if s == nil {
				continue
			}
			result = append(result, secrets.SecretMetadata{
				Name:      s.Name,
				CreatedAt: s.CreatedAt.Time,
				UpdatedAt: s.UpdatedAt.Time,
			})
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return result, nil
}

// PutSecret validates name, fetches the repository key, seals value and
// writes it. GitHub decides whether this creates or updates the secret.
// observe, when non-nil, is called as each stage starts.
func (c *Client) PutSecret(ctx context.Context, sess *Session, name, value string, observe func(Stage)) (PutResult, error) {
	if err := secrets.ValidateName(name); err != nil {
		return PutResult{}, err
	}
	if err := sess.requireRepo(); err != nil {
		return PutResult{}, err
	}
	if observe == nil {
		observe = func(Stage) {}
	}

	observe(StageFetchingKey)
	key, err := c.FetchPublicKey(ctx, sess)
	if err != nil {
		return PutResult{}, err
	}

	observe(StageEncrypting)
	payload, err := secrets.Encrypt(value, key)
	if err != nil {
		return PutResult{}, err
	}

	observe(StageWriting)
	return c.WriteEncrypted(ctx, sess, name, payload)
}

// WriteEncrypted stores an already sealed payload under name. It only
// accepts an EncryptedPayload, which can only come from secrets.Encrypt.
func (c *Client) WriteEncrypted(ctx context.Context, sess *Session, name string, payload secrets.EncryptedPayload) (PutResult, error) {
	if err := secrets.ValidateName(name); err != nil {
		return PutResult{}, err
	}
	if err := sess.requireRepo(); err != nil {
		return PutResult{}, err
	}
	if payload.IsZero() {
		return PutResult{}, &kerrors.EncryptionError{Err: errors.New("payload was not produced by Encrypt")}
	}

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	resp, err := c.github(sess).Actions.CreateOrUpdateRepoSecret(ctx, sess.Repo.Owner, sess.Repo.Name, &github.EncryptedSecret{
		Name:           name,
		KeyID:          payload.KeyID(),
		EncryptedValue: payload.EncryptedValue(),
	})
	if err != nil {
		return PutResult{}, remoteError("update secret", resp, err)
	}

	return PutResult{Name: name, Created: resp != nil && resp.StatusCode == http.StatusCreated}, nil
}

// DeleteSecret removes name. A secret that is already gone counts as
// deleted; auth failures, rate limits and server errors are returned.
func (c *Client) DeleteSecret(ctx context.Context, sess *Session, name string) error {
	if err := secrets.ValidateName(name); err != nil {
		return err
	}
	if err := sess.requireRepo(); err != nil {
		return err
	}

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	resp, err := c.github(sess).Actions.DeleteRepoSecret(ctx, sess.Repo.Owner, sess.Repo.Name, name)
	if err != nil {
		err = remoteError("delete secret", resp, err)
		if isNotFound(err) {
			return nil
		}
		return err
	}

	return nil
}
