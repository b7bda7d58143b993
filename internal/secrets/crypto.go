package secrets

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"

	kerrors "github.com/PolarWolf314/ghsecrets/internal/errors"

	"golang.org/x/crypto/nacl/box"
)

// KeySize is the length of a decoded repository public key.
const KeySize = 32

// MaxValueSize is the largest secret value GitHub accepts, in bytes.
const MaxValueSize = 48 * 1024

// EncryptedPayload is a sealed secret value ready for a single PUT.
// Its fields are unexported so that Encrypt is the only way to build one.
type EncryptedPayload struct {
	encryptedValue string
	keyID          string
}

// EncryptedValue returns the base64-encoded sealed box.
func (p EncryptedPayload) EncryptedValue() string {
	return p.encryptedValue
}

// KeyID returns the id of the public key the value was sealed under.
func (p EncryptedPayload) KeyID() string {
	return p.keyID
}

// IsZero reports whether p was not produced by Encrypt.
func (p EncryptedPayload) IsZero() bool {
	return p.encryptedValue == "" || p.keyID == ""
}

// String redacts the ciphertext.
func (p EncryptedPayload) String() string {
	return fmt.Sprintf("EncryptedPayload{key_id=%s, encrypted_value=<redacted>}", p.keyID)
}

// GoString redacts the ciphertext.
func (p EncryptedPayload) GoString() string {
	return p.String()
}

// Encrypt seals plaintext under the repository public key.
//
// Returns a KeyDecodeError if the key is not base64 or not 32 bytes, and an
// EncryptionError if sealing fails. It never returns a payload that holds
// the plaintext.
func Encrypt(plaintext string, key PublicKey) (EncryptedPayload, error) {
	return encrypt(plaintext, key, rand.Reader)
}

func encrypt(plaintext string, key PublicKey, rng io.Reader) (EncryptedPayload, error) {
	recipient, err := DecodePublicKey(key)
	if err != nil {
		return EncryptedPayload{}, err
	}

	if len(plaintext) > MaxValueSize {
		return EncryptedPayload{}, &kerrors.EncryptionError{
			Err: fmt.Errorf("%w: got %d bytes", kerrors.ErrSecretTooLarge, len(plaintext)),
		}
	}

	message := []byte(plaintext)
	defer wipe(message)

	sealed, err := box.SealAnonymous(nil, message, recipient, rng)
	if err != nil {
		return EncryptedPayload{}, &kerrors.EncryptionError{Err: err}
	}
	if len(sealed) != len(message)+box.AnonymousOverhead {
		return EncryptedPayload{}, &kerrors.EncryptionError{
			Err: fmt.Errorf("unexpected sealed box length %d", len(sealed)),
		}
	}

	return EncryptedPayload{
		encryptedValue: base64.StdEncoding.EncodeToString(sealed),
		keyID:          key.KeyID,
	}, nil
}

// DecodePublicKey decodes the base64 key GitHub returns into a Curve25519 key.
func DecodePublicKey(key PublicKey) (*[KeySize]byte, error) {
	if key.KeyID == "" {
		return nil, &kerrors.KeyDecodeError{Err: fmt.Errorf("missing key id")}
	}

	raw, err := base64.StdEncoding.DecodeString(key.Key)
	if err != nil {
		return nil, &kerrors.KeyDecodeError{KeyID: key.KeyID, Err: err}
	}
	if len(raw) != KeySize {
		return nil, &kerrors.KeyDecodeError{
			KeyID: key.KeyID,
			Err:   fmt.Errorf("expected %d bytes, got %d", KeySize, len(raw)),
		}
	}

	var out [KeySize]byte
	copy(out[:], raw)
	return &out, nil
}

// Open reverses Encrypt given the matching key pair. GitHub does this on its
// side; the client only needs it to check round trips.
func Open(payload EncryptedPayload, publicKey, privateKey *[KeySize]byte) (string, error) {
	return OpenSealed(payload.encryptedValue, publicKey, privateKey)
}

// OpenSealed opens a base64-encoded sealed box as it appears on the wire.
func OpenSealed(encryptedValue string, publicKey, privateKey *[KeySize]byte) (string, error) {
	sealed, err := base64.StdEncoding.DecodeString(encryptedValue)
	if err != nil {
		return "", fmt.Errorf("decoding sealed value: %w", err)
	}

	plaintext, ok := box.OpenAnonymous(nil, sealed, publicKey, privateKey)
	if !ok {
		return "", fmt.Errorf("failed to open sealed box")
	}

	return string(plaintext), nil
}

// GenerateKeyPair creates a Curve25519 key pair and its GitHub-style PublicKey.
func GenerateKeyPair(keyID string) (PublicKey, *[KeySize]byte, *[KeySize]byte, error) {
	public, private, err := box.GenerateKey(rand.Reader)
	if err != nil {
		return PublicKey{}, nil, nil, fmt.Errorf("generating key pair: %w", err)
	}

	return PublicKey{
		KeyID: keyID,
		Key:   base64.StdEncoding.EncodeToString(public[:]),
	}, public, private, nil
}

func wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
