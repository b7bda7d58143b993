// Package secrets holds the client-side secret model and the sealing that
// must happen before any value is written to GitHub.
//
// # Encryption
//
// GitHub exposes one public key per repository: a base64-encoded 32-byte
// Curve25519 key plus an opaque key id. Values are sealed with a libsodium
// sealed box (golang.org/x/crypto/nacl/box.SealAnonymous), which uses a
// fresh ephemeral key pair per call. Only the holder of the repository's
// private key, GitHub itself, can open it. Sealing the same value twice
// therefore produces different ciphertexts.
//
// Encrypt is the only way to obtain an EncryptedPayload, and the API client
// only accepts an EncryptedPayload for writes. There is no code path that
// sends a plaintext value.
//
// # Files
//
// The package also parses the three file formats the CLI reads and writes:
//
//   - Import files: a JSON array of {"name", "value"} objects
//   - Export files: a JSON array of {"name", "updated_at"} objects, never values
//   - .env files: KEY=value lines, blank lines and # comments ignored
package secrets
