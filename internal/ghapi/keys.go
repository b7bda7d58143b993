package ghapi

import (
	"context"

	"github.com/PolarWolf314/ghsecrets/internal/secrets"
)

// FetchPublicKey returns the repository's current sealing key. It always
// goes to the network; callers must not keep the key beyond one write.
func (c *Client) FetchPublicKey(ctx context.Context, sess *Session) (secrets.PublicKey, error) {
	if err := sess.requireRepo(); err != nil {
		return secrets.PublicKey{}, err
	}

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	key, resp, err := c.github(sess).Actions.GetRepoPublicKey(ctx, sess.Repo.Owner, sess.Repo.Name)
	if err != nil {
		return secrets.PublicKey{}, remoteError("fetch public key", resp, err)
	}

	return secrets.PublicKey{KeyID: key.GetKeyID(), Key: key.GetKey()}, nil
}
