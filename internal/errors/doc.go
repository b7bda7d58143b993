// Package errors provides typed error values for ghsecrets.
//
// Sentinel errors let callers handle specific conditions with errors.Is()
// rather than string matching. The typed errors (ValidationError,
// RemoteError, KeyDecodeError, EncryptionError, BulkError) carry the detail
// a user needs and unwrap to their sentinel, so both styles work:
//
//	var remote *errors.RemoteError
//	if errors.As(err, &remote) && remote.Status == 401 {
//	    // Token expired or lacks the repo scope
//	}
//
//	if errors.Is(err, errors.ErrValidation) {
//	    // Bad input, nothing was sent
//	}
//
// # Error Categories
//
//   - Validation errors: bad input before any network call (ErrValidation)
//   - Remote errors: non-2xx responses or transport failures (ErrRemote)
//   - Crypto errors: key decoding and sealing failures (ErrKeyDecode, ErrEncryption)
//   - Bulk errors: per-item failures aggregated over a bulk operation (ErrBulkPartial)
//   - Auth errors: missing or unusable token (ErrNoToken, ErrNoRepository)
//
// None of these types ever hold a secret value or a token.
package errors
