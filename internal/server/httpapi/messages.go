package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/secretspace/secretspace/internal/server/models"
)

type createMessageRequest struct {
	UUID             string `json:"uuid" binding:"required"`
	EncryptedContent string `json:"encryptedContent" binding:"required"`
	ExpiresAt        int64  `json:"expiresAt" binding:"required"`
	RecipientEmail   string `json:"recipientEmail" binding:"required"`
}

func (s *Server) handleCreateMessage(c *gin.Context) {
	identity := callerIdentity(c)

	var req createMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res, err := s.messages.Create(c.Request.Context(), identity.ExternalID, &models.SecretMessage{
		UUID:             req.UUID,
		EncryptedContent: req.EncryptedContent,
		ExpiresAt:        req.ExpiresAt,
		RecipientEmail:   req.RecipientEmail,
	})
	if err != nil {
		s.abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":        res.Message.ID,
		"uuid":      res.Message.UUID,
		"expiresAt": res.Message.ExpiresAt,
		"shareLink": res.ShareLink,
	})
}

func (s *Server) handleClaimMessage(c *gin.Context) {
	identity := callerIdentity(c)

	msg, err := s.messages.Claim(c.Request.Context(), identity.Email, c.Param("uuid"))
	if err != nil {
		s.abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"uuid":             msg.UUID,
		"encryptedContent": msg.EncryptedContent,
		"expiresAt":        msg.ExpiresAt,
	})
}

func (s *Server) handleInbox(c *gin.Context) {
	identity := callerIdentity(c)

	items, err := s.messages.Inbox(c.Request.Context(), identity.Email)
	if err != nil {
		s.abortWithError(c, err)
		return
	}

	out := make([]gin.H, 0, len(items))
	for _, it := range items {
		out = append(out, gin.H{"id": it.ID, "uuid": it.UUID, "expiresAt": it.ExpiresAt})
	}
	c.JSON(http.StatusOK, gin.H{"messages": out})
}

func (s *Server) handleSent(c *gin.Context) {
	identity := callerIdentity(c)

	msgs, err := s.messages.Sent(c.Request.Context(), identity.ExternalID)
	if err != nil {
		s.abortWithError(c, err)
		return
	}

	out := make([]gin.H, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, gin.H{
			"id":             m.ID,
			"uuid":           m.UUID,
			"expiresAt":      m.ExpiresAt,
			"recipientEmail": m.RecipientEmail,
		})
	}
	c.JSON(http.StatusOK, gin.H{"messages": out})
}
