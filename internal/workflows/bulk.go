package workflows

import (
	"context"
	"errors"
	"fmt"

	"github.com/PolarWolf314/ghsecrets/internal/audit"
	kerrors "github.com/PolarWolf314/ghsecrets/internal/errors"
	"github.com/PolarWolf314/ghsecrets/internal/ghapi"
	"github.com/PolarWolf314/ghsecrets/internal/secrets"

	"golang.org/x/sync/errgroup"
)

// BulkResult contains the outcome of a bulk workflow.
type BulkResult struct {
	// Total is the number of secrets the workflow attempted.
	Total int

	// Succeeded lists the secrets that were written or deleted, in input order.
	Succeeded []string

	// Created lists the written secrets that did not exist before.
	Created []string

	// Failed lists the secrets whose call failed, in input order.
	Failed []kerrors.ItemFailure

	// Skipped lists records that were left out on purpose, e.g. empty .env values.
	Skipped []string

	// Secrets is the repository's secret list after the workflow.
	Secrets []secrets.SecretMetadata
}

// Err returns a *errors.BulkError when any item failed.
func (r *BulkResult) Err(op string) error {
	if len(r.Failed) == 0 {
		return nil
	}
	return &kerrors.BulkError{Op: op, Total: r.Total, Failures: r.Failed}
}

// BulkDelete deletes names concurrently. When names is nil every secret
// currently in the repository is deleted.
//
// All deletes are attempted even if some fail, and nothing is rolled back.
// Returns a *errors.BulkError naming every failed secret.
func (c *Coordinator) BulkDelete(ctx context.Context, sess *ghapi.Session, names []string) (*BulkResult, error) {
	if names == nil {
		existing, err := c.store.ListSecrets(ctx, sess)
		if err != nil {
			return nil, err
		}
		names = make([]string, len(existing))
		for i, s := range existing {
			names[i] = s.Name
		}
	}

	for _, name := range names {
		if err := secrets.ValidateName(name); err != nil {
			return nil, err
		}
	}

	result := &BulkResult{Total: len(names)}
	errs := c.fanOut(ctx, len(names), func(ctx context.Context, i int) error {
		return c.delete(ctx, sess, names[i])
	})
	for i, err := range errs {
		if err != nil {
			result.Failed = append(result.Failed, kerrors.ItemFailure{Name: names[i], Err: err})
		} else {
			result.Succeeded = append(result.Succeeded, names[i])
		}
	}

	entry := audit.NewEntry("purge", sess.Repo.String())
	entry.Secrets = names
	entry.Failed = result.failedNames()
	audit.Log(entry)

	return c.finishBulk(ctx, sess, result, "bulk delete")
}

// Import writes every record of a parsed import file.
//
// Every record is validated before the first request; an invalid record
// aborts the import with a ValidationError and nothing is written. Records
// with the same name collapse into one write of the last value.
func (c *Coordinator) Import(ctx context.Context, sess *ghapi.Session, records []secrets.Record) (*BulkResult, error) {
	for i, r := range records {
		if err := validateRecord(i+1, r.Name, r.Value); err != nil {
			return nil, err
		}
	}

	result := c.bulkPut(ctx, sess, dedupe(records))

	entry := audit.NewEntry("import", sess.Repo.String())
	entry.Secrets = result.Succeeded
	entry.Failed = result.failedNames()
	audit.Log(entry)

	return c.finishBulk(ctx, sess, result, "import")
}

// UploadEnvOptions configures UploadEnv.
type UploadEnvOptions struct {
	// Normalize upper-cases keys and maps '.' and '-' to '_' before validation.
	Normalize bool

	// SkipEmpty leaves out keys without a value instead of rejecting the upload.
	SkipEmpty bool
}

// PrepareEnv applies opts to pairs parsed from .env files and validates
// every one of them. It returns the records to write, last value winning
// for repeated names, and the names skipped for being empty.
func PrepareEnv(pairs []secrets.Record, opts UploadEnvOptions) (records []secrets.Record, skipped []string, err error) {
	for i, p := range pairs {
		name := p.Name
		if opts.Normalize {
			name = secrets.NormalizeName(name)
		}
		if p.Value == "" && opts.SkipEmpty {
			skipped = append(skipped, name)
			continue
		}
		if err := validateRecord(i+1, name, p.Value); err != nil {
			return nil, nil, err
		}
		records = append(records, secrets.Record{Name: name, Value: p.Value})
	}
	return dedupe(records), skipped, nil
}

// UploadEnv writes every pair parsed from .env files. Validation and
// concurrency follow Import.
func (c *Coordinator) UploadEnv(ctx context.Context, sess *ghapi.Session, pairs []secrets.Record, opts UploadEnvOptions) (*BulkResult, error) {
	records, skipped, err := PrepareEnv(pairs, opts)
	if err != nil {
		return nil, err
	}

	result := c.bulkPut(ctx, sess, records)
	result.Skipped = skipped

	entry := audit.NewEntry("upload-env", sess.Repo.String())
	entry.Secrets = result.Succeeded
	entry.Failed = result.failedNames()
	audit.Log(entry)

	return c.finishBulk(ctx, sess, result, "upload .env")
}

func (c *Coordinator) bulkPut(ctx context.Context, sess *ghapi.Session, records []secrets.Record) *BulkResult {
	created := make([]bool, len(records))
	errs := c.fanOut(ctx, len(records), func(ctx context.Context, i int) error {
		put, err := c.put(ctx, sess, records[i].Name, records[i].Value)
		created[i] = put.Created
		return err
	})

	result := &BulkResult{Total: len(records)}
	for i, err := range errs {
		name := records[i].Name
		switch {
		case err != nil:
			result.Failed = append(result.Failed, kerrors.ItemFailure{Name: name, Err: err})
		case created[i]:
			result.Succeeded = append(result.Succeeded, name)
			result.Created = append(result.Created, name)
		default:
			result.Succeeded = append(result.Succeeded, name)
		}
	}
	return result
}

// fanOut runs fn for indexes [0, n) with bounded concurrency and pacing, and
// waits for all of them. The returned slice holds each call's error.
func (c *Coordinator) fanOut(ctx context.Context, n int, fn func(ctx context.Context, i int) error) []error {
	errs := make([]error, n)

	var g errgroup.Group
	g.SetLimit(c.concurrency)
	for i := 0; i < n; i++ {
		g.Go(func() error {
			if err := c.limiter.Wait(ctx); err != nil {
				errs[i] = fmt.Errorf("waiting for rate limiter: %w", err)
				return nil
			}
			errs[i] = fn(ctx, i)
			return nil
		})
	}
	_ = g.Wait()

	return errs
}

// finishBulk re-lists the repository and returns the aggregate error.
func (c *Coordinator) finishBulk(ctx context.Context, sess *ghapi.Session, result *BulkResult, op string) (*BulkResult, error) {
	bulkErr := result.Err(op)

	list, err := c.store.ListSecrets(ctx, sess)
	if err != nil {
		return result, errors.Join(bulkErr, fmt.Errorf("refreshing the secret list: %w", err))
	}
	result.Secrets = list

	return result, bulkErr
}

func (r *BulkResult) failedNames() []string {
	names := make([]string, len(r.Failed))
	for i, f := range r.Failed {
		names[i] = f.Name
	}
	return names
}

// dedupe keeps the first position and the last value of each name.
func dedupe(records []secrets.Record) []secrets.Record {
	index := make(map[string]int, len(records))
	out := make([]secrets.Record, 0, len(records))
	for _, r := range records {
		if i, ok := index[r.Name]; ok {
			out[i].Value = r.Value
			continue
		}
		index[r.Name] = len(out)
		out = append(out, r)
	}
	return out
}
