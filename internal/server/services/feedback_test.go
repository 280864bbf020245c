package services

import (
	"context"
	"errors"
	"testing"

	"github.com/secretspace/secretspace/internal/common"
	"github.com/secretspace/secretspace/internal/server/models"
)

func TestSubmitFeedback(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()
	svc := NewFeedbackService(db, newFakeRepoManager())

	tests := []struct {
		name    string
		fb      *models.Feedback
		wantErr error
	}{
		{"missing type", &models.Feedback{FeedbackText: "t"}, common.ErrorValidation},
		{"missing text", &models.Feedback{FeedbackType: "idea"}, common.ErrorValidation},
		{"rating out of range", &models.Feedback{FeedbackType: "idea", FeedbackText: "t", Rating: 6}, common.ErrorValidation},
		{"anonymous ok", &models.Feedback{FeedbackType: "idea", FeedbackText: "love it", Rating: 5}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.SubmitFeedback(context.Background(), "", tt.fb)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestSubmitFeedback_AttachesKnownUser(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()
	rm := newFakeRepoManager()
	rm.u.byExternalID["ext-1"] = &models.User{ID: "id-1"}
	svc := NewFeedbackService(db, rm)

	fb, err := svc.SubmitFeedback(context.Background(), "ext-1", &models.Feedback{
		FeedbackType: "idea", FeedbackText: "great",
	})
	if err != nil {
		t.Fatalf("SubmitFeedback error: %v", err)
	}
	if fb.UserID != "id-1" {
		t.Errorf("user not attached: %+v", fb)
	}
}

func TestSubmitFeedback_UnknownCallerStaysAnonymous(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()
	svc := NewFeedbackService(db, newFakeRepoManager())

	fb, err := svc.SubmitFeedback(context.Background(), "ghost", &models.Feedback{
		FeedbackType: "idea", FeedbackText: "great",
	})
	if err != nil {
		t.Fatalf("SubmitFeedback error: %v", err)
	}
	if fb.UserID != "" {
		t.Errorf("unknown caller got a user id: %+v", fb)
	}
}

func TestReportIssue(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()
	svc := NewFeedbackService(db, newFakeRepoManager())

	_, err := svc.ReportIssue(context.Background(), "", &models.IssueReport{IssueType: "bug"})
	if !errors.Is(err, common.ErrorValidation) {
		t.Errorf("missing description: expected validation error, got %v", err)
	}

	r, err := svc.ReportIssue(context.Background(), "", &models.IssueReport{
		IssueType:     "bug",
		Description:   "claim button does nothing",
		ScreenshotKey: "uploads/2026/9/1/abc",
	})
	if err != nil {
		t.Fatalf("ReportIssue error: %v", err)
	}
	if r.ScreenshotKey == "" {
		t.Errorf("screenshot key dropped: %+v", r)
	}
}
