package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/secretspace/secretspace/internal/server/models"
)

func (s *Server) handleCreateUpload(c *gin.Context) {
	key, url, err := s.uploads.GetPresignedPutURL(c.Request.Context())
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"key": key, "uploadUrl": url})
}

type feedbackRequest struct {
	Type   string `json:"type" binding:"required"`
	Text   string `json:"text" binding:"required"`
	Email  string `json:"email"`
	Rating int    `json:"rating"`
	Name   string `json:"name"`
}

func (s *Server) handleSubmitFeedback(c *gin.Context) {
	var req feedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	fb := &models.Feedback{
		FeedbackType: req.Type,
		FeedbackText: req.Text,
		Email:        req.Email,
		Rating:       req.Rating,
		Name:         req.Name,
	}
	callerExternalID := ""
	if identity := callerIdentity(c); identity != nil {
		callerExternalID = identity.ExternalID
	}

	created, err := s.feedback.SubmitFeedback(c.Request.Context(), callerExternalID, fb)
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": created.ID})
}

type reportIssueRequest struct {
	Type          string `json:"type" binding:"required"`
	Description   string `json:"description" binding:"required"`
	Email         string `json:"email"`
	ScreenshotKey string `json:"screenshotKey"`
}

func (s *Server) handleReportIssue(c *gin.Context) {
	var req reportIssueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	report := &models.IssueReport{
		IssueType:     req.Type,
		Description:   req.Description,
		Email:         req.Email,
		ScreenshotKey: req.ScreenshotKey,
	}
	callerExternalID := ""
	if identity := callerIdentity(c); identity != nil {
		callerExternalID = identity.ExternalID
	}

	created, err := s.feedback.ReportIssue(c.Request.Context(), callerExternalID, report)
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": created.ID})
}
