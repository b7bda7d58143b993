// Package workflows provides high-level orchestration for ghsecrets commands.
//
// Workflows coordinate the API client, the audit trail and the file formats
// to implement complete user-facing features. The cmd/ package stays a thin
// layer that parses flags, calls a workflow and formats the result.
//
// # Available Workflows
//
//   - ListSecrets: lists secret metadata for the session's repository
//   - SetSecret: seals and writes one secret (add or edit)
//   - DeleteSecret: deletes one secret
//   - BulkDelete: deletes many secrets concurrently
//   - Import: writes every record of a JSON import file
//   - UploadEnv: writes every pair of one or more .env files
//   - Export: writes secret names and update times to a JSON file
//
// Every write and delete re-lists the repository afterwards, so the caller
// always shows what GitHub holds rather than an optimistic local copy.
//
// # Concurrency
//
// Bulk workflows run their per-secret calls concurrently, bounded by
// Options.Concurrency and paced by a token bucket (Options.RequestsPerSecond).
// All calls are joined before the result is reported; one failure never
// cancels the others. Failures are returned as *errors.BulkError naming each
// failed secret in input order. Nothing is rolled back: a failed bulk delete
// leaves exactly the secrets whose delete failed.
//
// Import and UploadEnv validate every record before the first request. One
// invalid record aborts the whole operation with a ValidationError and no
// request is made.
//
// # State
//
// Each single-secret operation moves through an explicit state machine,
// idle → fetching-key → encrypting → writing → done | failed for writes and
// idle → deleting → done | failed for deletes. Options.Observer receives
// every transition; the CLI uses it to drive its spinner.
//
// # Context Usage
//
// All workflow functions accept a context.Context as their first parameter.
package workflows
