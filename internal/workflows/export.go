package workflows

import (
	"context"
	"fmt"
	"os"

	"github.com/PolarWolf314/ghsecrets/internal/audit"
	"github.com/PolarWolf314/ghsecrets/internal/ghapi"
	"github.com/PolarWolf314/ghsecrets/internal/secrets"
)

// ExportOptions configures the export workflow.
type ExportOptions struct {
	// OutputPath is the file to write. If empty, secrets-export-<owner>-<repo>.json.
	OutputPath string

	// DryRun lists what would be exported without writing the file.
	DryRun bool
}

// ExportResult contains the outcome of an export.
type ExportResult struct {
	OutputPath string
	Secrets    []secrets.SecretMetadata
	DryRun     bool
}

// Export writes the names and update times of the repository's secrets to
// a JSON file. Values are never part of an export.
func (c *Coordinator) Export(ctx context.Context, sess *ghapi.Session, opts ExportOptions) (*ExportResult, error) {
	list, err := c.store.ListSecrets(ctx, sess)
	if err != nil {
		return nil, err
	}

	outputPath := opts.OutputPath
	if outputPath == "" {
		outputPath = secrets.ExportFileName(sess.Repo.Owner, sess.Repo.Name)
	}

	result := &ExportResult{OutputPath: outputPath, Secrets: list, DryRun: opts.DryRun}
	if opts.DryRun {
		return result, nil
	}

	data, err := secrets.MarshalExport(list)
	if err != nil {
		return nil, err
	}

	// #nosec G306 -- exports hold names and timestamps only.
	if err := os.WriteFile(outputPath, data, 0644); err != nil {
		return nil, fmt.Errorf("writing %s: %w", outputPath, err)
	}

	entry := audit.NewEntry("export", sess.Repo.String())
	entry.Count = len(list)
	entry.OutputPath = outputPath
	audit.Log(entry)

	return result, nil
}
