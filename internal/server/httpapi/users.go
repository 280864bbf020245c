package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/secretspace/secretspace/internal/server/models"
)

type syncUserRequest struct {
	Username string `json:"username"`
	FullName string `json:"fullName"`
	Image    string `json:"image"`
}

type userResponse struct {
	ID                 string `json:"id"`
	Email              string `json:"email"`
	Username           string `json:"username"`
	FullName           string `json:"fullName"`
	Image              string `json:"image"`
	Posts              int64  `json:"posts"`
	Searchable         bool   `json:"searchable"`
	EmailNotifications bool   `json:"emailNotifications"`
}

func toUserResponse(u *models.User) userResponse {
	return userResponse{
		ID:                 u.ID,
		Email:              u.Email,
		Username:           u.Username,
		FullName:           u.FullName,
		Image:              u.Image,
		Posts:              u.Posts,
		Searchable:         u.Searchable,
		EmailNotifications: u.EmailNotifications,
	}
}

func (s *Server) handleUserSync(c *gin.Context) {
	identity := callerIdentity(c)

	var req syncUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	u, err := s.users.Sync(c.Request.Context(), &models.User{
		ExternalID: identity.ExternalID,
		Email:      identity.Email,
		Username:   req.Username,
		FullName:   req.FullName,
		Image:      req.Image,
	})
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, toUserResponse(u))
}

func (s *Server) handleUserMe(c *gin.Context) {
	identity := callerIdentity(c)

	u, err := s.users.Get(c.Request.Context(), identity.ExternalID)
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, toUserResponse(u))
}

type updateProfileRequest struct {
	FullName string `json:"fullName"`
	Username string `json:"username"`
	Image    string `json:"image"`
}

func (s *Server) handleUpdateProfile(c *gin.Context) {
	identity := callerIdentity(c)

	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := s.users.UpdateProfile(c.Request.Context(), identity.ExternalID, req.FullName, req.Username, req.Image); err != nil {
		s.abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type updateSettingsRequest struct {
	Searchable         *bool `json:"searchable" binding:"required"`
	EmailNotifications *bool `json:"emailNotifications" binding:"required"`
}

func (s *Server) handleUpdateSettings(c *gin.Context) {
	identity := callerIdentity(c)

	var req updateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := s.users.UpdateSettings(c.Request.Context(), identity.ExternalID, *req.Searchable, *req.EmailNotifications); err != nil {
		s.abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleDeleteAccount(c *gin.Context) {
	identity := callerIdentity(c)

	if err := s.users.DeleteAccount(c.Request.Context(), identity.ExternalID); err != nil {
		s.abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleUserSearch(c *gin.Context) {
	identity := callerIdentity(c)

	results, err := s.users.Search(c.Request.Context(), identity.Email, c.Query("q"))
	if err != nil {
		s.abortWithError(c, err)
		return
	}

	out := make([]gin.H, 0, len(results))
	for _, r := range results {
		out = append(out, gin.H{
			"id":       r.ID,
			"email":    r.Email,
			"username": r.Username,
			"fullName": r.FullName,
			"image":    r.Image,
		})
	}
	c.JSON(http.StatusOK, gin.H{"users": out})
}
