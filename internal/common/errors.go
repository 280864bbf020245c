// Package common defines shared constants and sentinel errors used across
// client and server layers of SecretSpace. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// Validation errors.
	ErrorValidation = errors.New("validation error")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")

	// Secret message read-path taxonomy. Absent and expired records are
	// deliberately collapsed into a single error so a reader cannot tell
	// them apart; the wrong-recipient case stays distinct (product choice
	// inherited from the original app, the link itself already implies
	// the record exists).
	ErrMessageNotFoundOrExpired = errors.New("message expired or already viewed")
	ErrWrongRecipient           = errors.New("message is not addressed to this user")
	ErrDecryptionFailed         = errors.New("cannot decrypt message")

	// Ownership errors for content operations.
	ErrorNotOwner = errors.New("not the owner")
)
