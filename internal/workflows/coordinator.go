package workflows

import (
	"context"
	"math"

	"github.com/PolarWolf314/ghsecrets/internal/ghapi"
	"github.com/PolarWolf314/ghsecrets/internal/secrets"

	"golang.org/x/time/rate"
)

const (
	// DefaultConcurrency is the number of in-flight requests of a bulk workflow.
	DefaultConcurrency = 4

	// DefaultRequestsPerSecond paces bulk workflows below GitHub's secondary rate limits.
	DefaultRequestsPerSecond = 10.0
)

// SecretStore is the remote secret store. *ghapi.Client implements it.
type SecretStore interface {
	ListSecrets(ctx context.Context, sess *ghapi.Session) ([]secrets.SecretMetadata, error)
	PutSecret(ctx context.Context, sess *ghapi.Session, name, value string, observe func(ghapi.Stage)) (ghapi.PutResult, error)
	DeleteSecret(ctx context.Context, sess *ghapi.Session, name string) error
}

// Options configures a Coordinator.
type Options struct {
	// Concurrency bounds in-flight requests of bulk workflows. Zero means DefaultConcurrency.
	Concurrency int

	// RequestsPerSecond paces bulk workflows. Zero means DefaultRequestsPerSecond,
	// negative disables pacing.
	RequestsPerSecond float64

	// Observer, when set, receives every state transition.
	Observer Observer
}

// Coordinator runs single and bulk secret workflows against a SecretStore.
type Coordinator struct {
	store       SecretStore
	concurrency int
	limiter     *rate.Limiter
	observer    Observer
}

// New returns a Coordinator for store.
func New(store SecretStore, opts Options) *Coordinator {
	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	rps := opts.RequestsPerSecond
	if rps == 0 {
		rps = DefaultRequestsPerSecond
	}
	limit := rate.Inf
	if rps > 0 && !math.IsInf(rps, 1) {
		limit = rate.Limit(rps)
	}

	return &Coordinator{
		store:       store,
		concurrency: concurrency,
		limiter:     rate.NewLimiter(limit, concurrency),
		observer:    opts.Observer,
	}
}

// ListSecrets returns the secrets of the session's repository.
func (c *Coordinator) ListSecrets(ctx context.Context, sess *ghapi.Session) ([]secrets.SecretMetadata, error) {
	return c.store.ListSecrets(ctx, sess)
}

func (c *Coordinator) put(ctx context.Context, sess *ghapi.Session, name, value string) (ghapi.PutResult, error) {
	op := newOperation(name, c.observer)
	result, err := c.store.PutSecret(ctx, sess, name, value, op.observeStage)
	return result, op.finish(err)
}

func (c *Coordinator) delete(ctx context.Context, sess *ghapi.Session, name string) error {
	op := newOperation(name, c.observer)
	if err := op.advance(StateDeleting, nil); err != nil {
		return err
	}
	return op.finish(c.store.DeleteSecret(ctx, sess, name))
}
