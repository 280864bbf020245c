// Package mailx holds the email conventions shared by every SecretSpace
// component: a recipient's email is both their identity key and the
// encryption passphrase, so all layers must normalize it identically.
package mailx

import "strings"

// Normalize lower-cases and trims an email address. The result is used as
// the recipient lookup key and as the AES passphrase, so any change here is
// a breaking change for stored ciphertext.
func Normalize(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// SplitFullName splits a display name into first and last name for email
// personalization. The first word becomes the first name, everything after
// it the last name. Empty input yields two empty strings.
func SplitFullName(fullName string) (first, last string) {
	parts := strings.Fields(fullName)
	if len(parts) == 0 {
		return "", ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}
