package feedback

import (
	"context"

	"github.com/secretspace/secretspace/internal/server/models"
)

type Repository interface {
	CreateFeedback(ctx context.Context, fb *models.Feedback) (*models.Feedback, error)
	CreateIssueReport(ctx context.Context, report *models.IssueReport) (*models.IssueReport, error)
}
