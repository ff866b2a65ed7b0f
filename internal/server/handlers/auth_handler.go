package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/shopledger/internal/auth"
)

const sessionKey = "session"

// AuthHandler serves console login and guards the API with bearer sessions.
type AuthHandler struct {
	sessions *auth.SessionManager
	logger   *zap.Logger
}

// NewAuthHandler constructs the handler.
func NewAuthHandler(sessions *auth.SessionManager, logger *zap.Logger) *AuthHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthHandler{sessions: sessions, logger: logger}
}

type loginRequest struct {
	Password string `json:"password" binding:"required"`
}

// Login exchanges the console password for a session token.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.logger, err)
		return
	}

	session, err := h.sessions.Login(req.Password)
	if err != nil {
		h.logger.Warn("console login rejected", zap.String("client_ip", c.ClientIP()))
		respondError(c, h.logger, err)
		return
	}

	h.logger.Info("console session opened", zap.Int("active", h.sessions.Active()))
	c.JSON(http.StatusOK, gin.H{
		"token":      session.ID,
		"expires_in": int(h.sessions.TTL().Seconds()),
	})
}

// Logout ends the caller's session.
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.sessions.Logout(bearerToken(c)); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// RequireSession rejects requests without a live bearer session.
func (h *AuthHandler) RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		session, err := h.sessions.Authenticate(bearerToken(c))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "login required"})
			return
		}
		c.Set(sessionKey, session)
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if token, ok := strings.CutPrefix(header, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}
