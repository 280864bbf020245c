// Package models defines server-side data models persisted in the database.
package models

import "time"

// User is a directory record for an identity-provider account. ExternalID is
// the provider's stable subject; Email doubles as the recipient key for
// secret messages and must always be stored normalized (lowercase, trimmed).
type User struct {
	ID         string
	ExternalID string
	Email      string
	Username   string
	FullName   string
	Image      string
	// Posts is the lifetime confession counter shown on the profile.
	Posts int64
	// Searchable controls discoverability in recipient search.
	Searchable bool
	// EmailNotifications gates the secret-message email notification.
	EmailNotifications bool
	CreatedAt          time.Time
}

// UserSearchResult is the reduced projection returned by recipient search.
type UserSearchResult struct {
	ID       string
	Email    string
	Username string
	FullName string
	Image    string
}
