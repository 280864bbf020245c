package httpapi

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/secretspace/secretspace/internal/server/auth"
)

const identityKey = "identity"

func bearerToken(c *gin.Context) string {
	h := c.GetHeader("Authorization")
	if h == "" {
		return ""
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}

// requireAuth rejects requests without a valid session token.
func (s *Server) requireAuth() gin.HandlerFunc {
	secret := []byte(s.config.SecretKey)
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}
		identity, err := auth.IdentityFromToken(token, secret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}
		c.Set(identityKey, identity)
		c.Next()
	}
}

// optionalAuth attaches the identity when a valid token is present and lets
// anonymous requests straight through.
func (s *Server) optionalAuth() gin.HandlerFunc {
	secret := []byte(s.config.SecretKey)
	return func(c *gin.Context) {
		if token := bearerToken(c); token != "" {
			if identity, err := auth.IdentityFromToken(token, secret); err == nil {
				c.Set(identityKey, identity)
			}
		}
		c.Next()
	}
}

// callerIdentity returns the authenticated identity, or nil on open routes
// where no valid token was supplied.
func callerIdentity(c *gin.Context) *auth.Identity {
	v, ok := c.Get(identityKey)
	if !ok {
		return nil
	}
	identity, _ := v.(*auth.Identity)
	return identity
}
