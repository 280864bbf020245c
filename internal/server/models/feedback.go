package models

import "time"

type Feedback struct {
	ID           string
	FeedbackType string
	FeedbackText string
	Email        string
	Rating       int
	Name         string
	UserID       string
	CreatedAt    time.Time
}

type IssueReport struct {
	ID            string
	IssueType     string
	Description   string
	Email         string
	ScreenshotKey string
	UserID        string
	CreatedAt     time.Time
}
