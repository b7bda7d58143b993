// Package audit records ghsecrets operations in a local audit trail.
//
// Every write against a repository (set, delete, purge, import, upload-env)
// and every export is appended to a JSON Lines file in the user's data
// directory:
//
//	$XDG_DATA_HOME/ghsecrets/audit.jsonl
//
// Each entry contains:
//   - An operation id (UUID) and timestamp (RFC3339 with microseconds, UTC)
//   - The local username
//   - Operation name and repository
//   - Secret names, counts and failed names where they apply
//
// Secret values are never recorded.
//
// # Usage
//
//	entry := audit.NewEntry("set", "octo/hello")
//	entry.Secrets = []string{"API_KEY"}
//	audit.Log(entry)
//
// # Failure Handling
//
// Audit logging is best-effort. If the log cannot be written the operation
// continues without error.
package audit
