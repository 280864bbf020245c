package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/secretspace/secretspace/internal/server/models"
)

type createPostRequest struct {
	ImageURL   string `json:"imageUrl"`
	StorageKey string `json:"storageKey"`
	Text       string `json:"text"`
}

func (s *Server) handleCreatePost(c *gin.Context) {
	identity := callerIdentity(c)

	var req createPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	post, err := s.posts.Create(c.Request.Context(), identity.ExternalID, &models.Post{
		ImageURL:   req.ImageURL,
		StorageKey: req.StorageKey,
		Text:       req.Text,
	})
	if err != nil {
		s.abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": post.ID, "imageUrl": post.ImageURL, "text": post.Text})
}

func (s *Server) handleFeed(c *gin.Context) {
	callerExternalID := ""
	if identity := callerIdentity(c); identity != nil {
		callerExternalID = identity.ExternalID
	}

	feed, err := s.posts.Feed(c.Request.Context(), callerExternalID)
	if err != nil {
		s.abortWithError(c, err)
		return
	}

	out := make([]gin.H, 0, len(feed))
	for _, p := range feed {
		out = append(out, gin.H{
			"id":        p.ID,
			"imageUrl":  p.ImageURL,
			"text":      p.Text,
			"likes":     p.Likes,
			"comments":  p.Comments,
			"createdAt": p.CreatedAt,
			"author": gin.H{
				"id":       p.Author.ID,
				"username": p.Author.Username,
				"image":    p.Author.Image,
			},
		})
	}
	c.JSON(http.StatusOK, gin.H{"posts": out})
}

func (s *Server) handleDeletePost(c *gin.Context) {
	identity := callerIdentity(c)

	if err := s.posts.Delete(c.Request.Context(), identity.ExternalID, c.Param("id")); err != nil {
		s.abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleToggleLike(c *gin.Context) {
	identity := callerIdentity(c)

	liked, err := s.posts.ToggleLike(c.Request.Context(), identity.ExternalID, c.Param("id"))
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"liked": liked})
}

type addCommentRequest struct {
	Content string `json:"content" binding:"required"`
}

func (s *Server) handleAddComment(c *gin.Context) {
	identity := callerIdentity(c)

	var req addCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	comment, err := s.posts.AddComment(c.Request.Context(), identity.ExternalID, c.Param("id"), req.Content)
	if err != nil {
		s.abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":        comment.ID,
		"content":   comment.Content,
		"createdAt": comment.CreatedAt,
	})
}

func (s *Server) handleListComments(c *gin.Context) {
	comments, err := s.posts.ListComments(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.abortWithError(c, err)
		return
	}

	out := make([]gin.H, 0, len(comments))
	for _, cm := range comments {
		out = append(out, gin.H{
			"id":        cm.ID,
			"content":   cm.Content,
			"createdAt": cm.CreatedAt,
			"author": gin.H{
				"username": cm.AuthorUsername,
				"image":    cm.AuthorImage,
			},
		})
	}
	c.JSON(http.StatusOK, gin.H{"comments": out})
}
