package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/layer-3/didauth/core"
	"github.com/layer-3/didauth/service"
)

// AuthHandlers contains HTTP handlers for DID-Auth endpoints
type AuthHandlers struct {
	challenger *service.Challenger
}

// NewAuthHandlers creates new auth handlers
func NewAuthHandlers(challenger *service.Challenger) *AuthHandlers {
	return &AuthHandlers{
		challenger: challenger,
	}
}

// CreateRequestBody is the body of a request token creation call
type CreateRequestBody struct {
	AudienceDID string `json:"audienceDid" binding:"required"`
	ExpiresAt   int64  `json:"expiresAt,omitempty"` // ms epoch
}

// CreateRequestResponse carries a freshly issued request token
type CreateRequestResponse struct {
	RequestToken string `json:"requestToken"`
}

// CreateRequest issues a request token for the given audience
func (h *AuthHandlers) CreateRequest(c *gin.Context) {
	var req CreateRequestBody
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	var expiresAt time.Time
	if req.ExpiresAt > 0 {
		expiresAt = time.UnixMilli(req.ExpiresAt)
	}

	token, err := h.challenger.CreateRequestToken(c.Request.Context(), req.AudienceDID, expiresAt)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create request token"})
		return
	}

	c.JSON(http.StatusOK, CreateRequestResponse{RequestToken: token})
}

// Logout revokes the session of the presented response token
func (h *AuthHandlers) Logout(c *gin.Context) {
	token := bearerToken(c)
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Missing authorization header"})
		return
	}

	if _, err := h.challenger.Logout(c.Request.Context(), token); err != nil {
		// Logging out twice is not an error
		if errors.Is(err, core.ErrTokenRevoked) {
			c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
			return
		}
		status, msg := errorStatus(err)
		c.JSON(status, gin.H{"error": msg})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// Me returns the DID of the authenticated caller
func (h *AuthHandlers) Me(c *gin.Context) {
	// DID is set by the auth middleware
	did, exists := c.Get(contextKeyDID)
	if !exists {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "DID not found in context"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"did": did,
	})
}

// errorStatus maps DID-Auth errors to status codes and client messages
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, core.ErrDecode), errors.Is(err, core.ErrMissingRequestToken):
		return http.StatusBadRequest, "Malformed token"
	case errors.Is(err, core.ErrInvalidSignature):
		return http.StatusUnauthorized, "Invalid signature"
	case errors.Is(err, core.ErrIssuerMismatch):
		return http.StatusUnauthorized, "Token was not issued by this verifier"
	case errors.Is(err, core.ErrTokenRevoked):
		return http.StatusUnauthorized, "Token has been revoked"
	case errors.Is(err, core.ErrTokenExpiredOrInvalid):
		return http.StatusUnauthorized, "Token expired or invalid"
	case errors.Is(err, service.ErrRevocationDisabled):
		return http.StatusNotImplemented, "Logout is not supported"
	default:
		return http.StatusInternalServerError, "Authentication failed"
	}
}
