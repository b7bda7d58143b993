// Package ghapi talks to the GitHub REST API for repository Actions secrets.
//
// Every call takes an explicit *Session carrying the token and the selected
// repository; nothing reads a token from global state. Requests are sent
// through github.com/google/go-github with a transport that adds the bearer
// token, the GitHub JSON media type and the pinned API version header.
//
// # Operations
//
//   - FetchPublicKey: GET  /repos/{owner}/{repo}/actions/secrets/public-key
//   - ListSecrets:    GET  /repos/{owner}/{repo}/actions/secrets (all pages)
//   - PutSecret:      fetch key, seal, then PUT /repos/{owner}/{repo}/actions/secrets/{name}
//   - DeleteSecret:   DELETE /repos/{owner}/{repo}/actions/secrets/{name}
//   - ListRepositories: GET /user/repos
//
// The public key is fetched again for every write. GitHub can rotate it, and
// a stale key id turns into a rejected write.
//
// All failures are returned as *errors.RemoteError with the HTTP status and
// GitHub's message, or a generic status message when the body had none.
package ghapi
