package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/layer-3/didauth/service"
)

const (
	contextKeyDID     = "did"
	contextKeySession = "session"
)

// AuthMiddleware creates middleware that verifies DID-Auth response tokens
func AuthMiddleware(challenger *service.Challenger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing authorization header"})
			return
		}

		response, err := challenger.VerifyResponseToken(c.Request.Context(), token)
		if err != nil {
			status, msg := errorStatus(err)
			if status < http.StatusInternalServerError {
				status = http.StatusUnauthorized
			}
			c.AbortWithStatusJSON(status, gin.H{"error": msg})
			return
		}

		// Set the caller DID in the context
		c.Set(contextKeyDID, response.Issuer())
		c.Set(contextKeySession, response.Session())

		c.Next()
	}
}

// bearerToken accepts "Bearer <token>" as well as the bare token
func bearerToken(c *gin.Context) string {
	auth := strings.TrimSpace(c.GetHeader("Authorization"))
	if len(auth) > 7 && strings.EqualFold(auth[:7], "Bearer ") {
		return strings.TrimSpace(auth[7:])
	}
	return auth
}
