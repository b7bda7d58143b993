package secrets

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"testing"

	kerrors "github.com/PolarWolf314/ghsecrets/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncrypt_RoundTrip(t *testing.T) {
	key, public, private, err := GenerateKeyPair("568250167242549743")
	require.NoError(t, err)

	values := []string{
		"hunter2",
		"",
		"multi\nline\nvalue",
		"unicode: ключ 🔑",
		`{"json": true, "n": 1}`,
		strings.Repeat("x", MaxValueSize),
	}

	for _, value := range values {
		payload, err := Encrypt(value, key)
		require.NoError(t, err)
		assert.Equal(t, key.KeyID, payload.KeyID())

		opened, err := Open(payload, public, private)
		require.NoError(t, err)
		assert.Equal(t, value, opened)
	}
}

func TestEncrypt_NeverSendsPlaintext(t *testing.T) {
	key, _, _, err := GenerateKeyPair("1")
	require.NoError(t, err)

	value := "super-secret-token-value"
	payload, err := Encrypt(value, key)
	require.NoError(t, err)

	assert.NotEqual(t, base64.StdEncoding.EncodeToString([]byte(value)), payload.EncryptedValue())
	assert.NotContains(t, payload.EncryptedValue(), value)

	sealed, err := base64.StdEncoding.DecodeString(payload.EncryptedValue())
	require.NoError(t, err)
	assert.NotContains(t, string(sealed), value)
}

func TestEncrypt_FreshCiphertextPerCall(t *testing.T) {
	key, _, _, err := GenerateKeyPair("1")
	require.NoError(t, err)

	first, err := Encrypt("same", key)
	require.NoError(t, err)
	second, err := Encrypt("same", key)
	require.NoError(t, err)

	assert.NotEqual(t, first.EncryptedValue(), second.EncryptedValue())
}

func TestEncrypt_RejectsMalformedKeys(t *testing.T) {
	tests := []struct {
		name string
		key  PublicKey
	}{
		{"not base64", PublicKey{KeyID: "1", Key: "%%%not-base64%%%"}},
		{"too short", PublicKey{KeyID: "1", Key: base64.StdEncoding.EncodeToString(make([]byte, 16))}},
		{"too long", PublicKey{KeyID: "1", Key: base64.StdEncoding.EncodeToString(make([]byte, 33))}},
		{"rsa der", PublicKey{KeyID: "1", Key: base64.StdEncoding.EncodeToString(make([]byte, 294))}},
		{"missing key id", PublicKey{Key: base64.StdEncoding.EncodeToString(make([]byte, 32))}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload, err := Encrypt("value", tt.key)

			require.Error(t, err)
			assert.ErrorIs(t, err, kerrors.ErrKeyDecode)
			assert.True(t, payload.IsZero())

			var decodeErr *kerrors.KeyDecodeError
			assert.True(t, errors.As(err, &decodeErr))
		})
	}
}

func TestEncrypt_RejectsOversizedValue(t *testing.T) {
	key, _, _, err := GenerateKeyPair("1")
	require.NoError(t, err)

	payload, err := Encrypt(strings.Repeat("x", MaxValueSize+1), key)

	require.Error(t, err)
	assert.ErrorIs(t, err, kerrors.ErrEncryption)
	assert.ErrorIs(t, err, kerrors.ErrSecretTooLarge)
	assert.True(t, payload.IsZero())
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("entropy exhausted")
}

func TestEncrypt_SealFailureIsEncryptionError(t *testing.T) {
	key, _, _, err := GenerateKeyPair("1")
	require.NoError(t, err)

	payload, err := encrypt("value", key, failingReader{})

	require.Error(t, err)
	assert.ErrorIs(t, err, kerrors.ErrEncryption)
	assert.True(t, payload.IsZero())
}

func TestEncryptedPayload_Redacts(t *testing.T) {
	key, _, _, err := GenerateKeyPair("42")
	require.NoError(t, err)

	payload, err := Encrypt("value", key)
	require.NoError(t, err)

	for _, formatted := range []string{
		fmt.Sprint(payload),
		fmt.Sprintf("%v", payload),
		fmt.Sprintf("%+v", payload),
		fmt.Sprintf("%#v", payload),
	} {
		assert.NotContains(t, formatted, payload.EncryptedValue())
		assert.Contains(t, formatted, "<redacted>")
	}
}

func TestOpen_WrongKeyFails(t *testing.T) {
	key, _, _, err := GenerateKeyPair("1")
	require.NoError(t, err)
	_, otherPublic, otherPrivate, err := GenerateKeyPair("2")
	require.NoError(t, err)

	payload, err := Encrypt("value", key)
	require.NoError(t, err)

	_, err = Open(payload, otherPublic, otherPrivate)
	assert.Error(t, err)
}
