package ghapi

import (
	"context"
	"time"

	kerrors "github.com/PolarWolf314/ghsecrets/internal/errors"

	"github.com/google/go-github/v50/github"
)

// Repository is a repository the token can see.
type Repository struct {
	FullName    string    `json:"full_name"`
	Private     bool      `json:"private"`
	Description string    `json:"description,omitempty"`
	UpdatedAt   time.Time `json:"updated_at"`
	// Admin is true when the token can manage the repository's secrets.
	Admin bool `json:"admin"`
}

// Ref returns the repository reference for r.
func (r Repository) Ref() RepositoryRef {
	ref, _ := ParseRepositoryRef(r.FullName)
	return ref
}

// ListRepositories returns every repository of the authenticated user,
// most recently updated first. It doubles as the token check at login.
func (c *Client) ListRepositories(ctx context.Context, sess *Session) ([]Repository, error) {
	if sess == nil || sess.token == "" {
		return nil, kerrors.ErrNoToken
	}

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	gh := c.github(sess)
	opts := &github.RepositoryListOptions{
		Sort:        "updated",
		ListOptions: github.ListOptions{PerPage: listPageSize},
	}
	result := []Repository{}

	for {
		page, resp, err := gh.Repositories.List(ctx, "", opts)
		if err != nil {
			return nil, remoteError("list repositories", resp, err)
		}

		for _, r := range page {
			if r == nil {
				continue
			}
			result = append(result, Repository{
				FullName:    r.GetFullName(),
				Private:     r.GetPrivate(),
				Description: r.GetDescription(),
				UpdatedAt:   r.GetUpdatedAt().Time,
				Admin:       r.Permissions["admin"],
			})
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return result, nil
}
