package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/secretspace/secretspace/internal/common"
	"github.com/secretspace/secretspace/internal/server/models"
	"github.com/secretspace/secretspace/internal/server/repositories/repomanager"
)

// FeedbackService records feedback and issue reports. Both accept anonymous
// submissions; the directory record is attached only when the caller is
// signed in and known.
type FeedbackService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewFeedbackService(db *sql.DB, m repomanager.RepositoryManager) *FeedbackService {
	return &FeedbackService{db: db, repomanager: m}
}

// resolveUserID maps an external id to the internal user id, treating an
// unknown or empty caller as anonymous.
func (s *FeedbackService) resolveUserID(ctx context.Context, externalID string) (string, error) {
	if externalID == "" {
		return "", nil
	}
	u, err := s.repomanager.Users(s.db).GetByExternalID(ctx, externalID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("error resolving user: %w", err)
	}
	return u.ID, nil
}

func (s *FeedbackService) SubmitFeedback(ctx context.Context, callerExternalID string, fb *models.Feedback) (*models.Feedback, error) {
	if fb.FeedbackType == "" || fb.FeedbackText == "" {
		return nil, common.ErrorValidation
	}
	if fb.Rating < 0 || fb.Rating > 5 {
		return nil, common.ErrorValidation
	}

	userID, err := s.resolveUserID(ctx, callerExternalID)
	if err != nil {
		return nil, err
	}
	fb.UserID = userID

	repo := s.repomanager.Feedback(s.db)
	created, err := repo.CreateFeedback(ctx, fb)
	if err != nil {
		return nil, fmt.Errorf("error saving feedback: %w", err)
	}
	return created, nil
}

func (s *FeedbackService) ReportIssue(ctx context.Context, callerExternalID string, report *models.IssueReport) (*models.IssueReport, error) {
	if report.IssueType == "" || report.Description == "" {
		return nil, common.ErrorValidation
	}

	userID, err := s.resolveUserID(ctx, callerExternalID)
	if err != nil {
		return nil, err
	}
	report.UserID = userID

	repo := s.repomanager.Feedback(s.db)
	created, err := repo.CreateIssueReport(ctx, report)
	if err != nil {
		return nil, fmt.Errorf("error saving issue report: %w", err)
	}
	return created, nil
}
