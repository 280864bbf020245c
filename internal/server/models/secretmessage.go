package models

// SecretMessage is a one-time, time-limited ciphertext record. The server
// never sees the plaintext or the passphrase: EncryptedContent is produced
// client-side and stays opaque until the recipient's client decrypts it.
type SecretMessage struct {
	ID string
	// UUID is the externally shareable capability token, distinct from ID.
	UUID   string
	UserID string
	// SenderExternalID is denormalized for sent-listing lookups.
	SenderExternalID string
	EncryptedContent string
	// ExpiresAt is an absolute expiry in epoch milliseconds.
	ExpiresAt int64
	// RecipientEmail is normalized (lowercase, trimmed).
	RecipientEmail string
}

// InboxItem is the projection served to the inbox view: enough to navigate
// to the one-time view page, nothing that could preview or decrypt content.
type InboxItem struct {
	ID        string
	UUID      string
	ExpiresAt int64
}
