package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/akulasagar/aura-backend/internal/auth"
)

const userIDKey = "userID"

// requireAuth validates the x-auth-token header and stores the caller's
// user ID in the request context.
func (s *Server) requireAuth(c *gin.Context) {
	token := c.GetHeader("x-auth-token")
	if token == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": "No token, authorization denied"})
		return
	}

	userID, err := auth.ParseToken(s.jwtSecret, token)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": "Token is not valid"})
		return
	}

	c.Set(userIDKey, userID)
	c.Next()
}

func currentUserID(c *gin.Context) uint {
	return c.GetUint(userIDKey)
}
