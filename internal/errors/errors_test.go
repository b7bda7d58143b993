package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRemoteError_UsesRemoteMessage(t *testing.T) {
	err := NewRemoteError("update secret", 422, "Bad key id")

	assert.Equal(t, "failed to update secret: 422 - Bad key id", err.Error())
	assert.ErrorIs(t, err, ErrRemote)
}

func TestRemoteError_FallsBackToStatusMessage(t *testing.T) {
	err := NewRemoteError("list secrets", 503, "  ")

	assert.Equal(t, "HTTP error: Service Unavailable", err.Message)
	assert.Contains(t, err.Error(), "503")
}

func TestRemoteError_TransportFailureHasNoStatus(t *testing.T) {
	err := NewRemoteError("fetch public key", 0, "dial tcp: connection refused")

	assert.Equal(t, "failed to fetch public key: dial tcp: connection refused", err.Error())
}

func TestKeyDecodeError_UnwrapsBoth(t *testing.T) {
	cause := errors.New("illegal base64 data at input byte 4")
	err := fmt.Errorf("sealing: %w", &KeyDecodeError{KeyID: "123", Err: cause})

	assert.ErrorIs(t, err, ErrKeyDecode)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrEncryption)
}

func TestEncryptionError_UnwrapsSentinel(t *testing.T) {
	err := &EncryptionError{Err: ErrSecretTooLarge}

	assert.ErrorIs(t, err, ErrEncryption)
	assert.ErrorIs(t, err, ErrSecretTooLarge)
}

func TestValidationError(t *testing.T) {
	err := NewValidationError(`secret name "foo"`, "must match ^[A-Z0-9_]+$")

	assert.Equal(t, `invalid secret name "foo": must match ^[A-Z0-9_]+$`, err.Error())
	assert.ErrorIs(t, err, ErrValidation)
}

func TestBulkError_ReachesItemErrors(t *testing.T) {
	remote := NewRemoteError("delete secret", 500, "boom")
	err := error(&BulkError{
		Op:       "bulk delete",
		Total:    3,
		Failures: []ItemFailure{{Name: "B", Err: remote}},
	})

	require.ErrorIs(t, err, ErrBulkPartial)

	var got *RemoteError
	require.ErrorAs(t, err, &got)
	assert.Equal(t, 500, got.Status)

	var bulk *BulkError
	require.ErrorAs(t, err, &bulk)
	assert.Equal(t, []string{"B"}, bulk.FailedNames())
	assert.Equal(t, "bulk delete: 1 of 3 failed: B (failed to delete secret: 500 - boom)", err.Error())
}
