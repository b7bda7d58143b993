package secrets

import "time"

// PublicKey is a repository's current sealing key as returned by GitHub.
// It is fetched for each write and never persisted.
type PublicKey struct {
	KeyID string `json:"key_id"`
	Key   string `json:"key"`
}

// SecretMetadata is everything GitHub reveals about a stored secret.
// The value is write-only and can never be read back.
type SecretMetadata struct {
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SecretDraft is a user-entered secret pending encryption and submission.
type SecretDraft struct {
	Name  string
	Value string
}

// String omits the value.
func (d SecretDraft) String() string {
	return "SecretDraft{" + d.Name + "}"
}

// GoString omits the value.
func (d SecretDraft) GoString() string {
	return d.String()
}
