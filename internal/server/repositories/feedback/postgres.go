package feedback

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/secretspace/secretspace/internal/dbx"
	"github.com/secretspace/secretspace/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) CreateFeedback(ctx context.Context, fb *models.Feedback) (*models.Feedback, error) {

	query :=
		`INSERT INTO feedback (feedback_type, feedback_text, email, rating, name, user_id)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		fb.FeedbackType, fb.FeedbackText, fb.Email, fb.Rating, fb.Name, nullable(fb.UserID)).
		Scan(&fb.ID, &fb.CreatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return fb, nil
}

func (r *PostgresRepository) CreateIssueReport(ctx context.Context, report *models.IssueReport) (*models.IssueReport, error) {

	query :=
		`INSERT INTO report_issues (issue_type, description, email, screenshot_key, user_id)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		report.IssueType, report.Description, report.Email, report.ScreenshotKey, nullable(report.UserID)).
		Scan(&report.ID, &report.CreatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return report, nil
}

// nullable maps an empty user id to SQL NULL so anonymous submissions keep
// the foreign key satisfied.
func nullable(id string) sql.NullString {
	return sql.NullString{String: id, Valid: id != ""}
}
