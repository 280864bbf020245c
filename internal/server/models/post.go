package models

import "time"

// Post is a confession: an image with optional text. UserID is empty for
// posts whose author has since been anonymized or removed.
type Post struct {
	ID         string
	UserID     string
	ImageURL   string
	StorageKey string
	Text       string
	Likes      int64
	Comments   int64
	CreatedAt  time.Time
}

// PostAuthor is the reduced author projection attached to feed entries.
type PostAuthor struct {
	ID       string
	Username string
	Image    string
}

// FeedPost is a post enriched with its author for the feed view.
type FeedPost struct {
	Post
	Author PostAuthor
}

type Like struct {
	ID     string
	UserID string
	PostID string
}

type Comment struct {
	ID        string
	UserID    string
	PostID    string
	Content   string
	CreatedAt time.Time
	// Author fields joined for listing.
	AuthorUsername string
	AuthorImage    string
}
