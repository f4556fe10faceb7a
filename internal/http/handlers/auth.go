package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/material-inventory-backend/internal/domain"
	"github.com/yungbote/material-inventory-backend/internal/pkg/logger"
	"github.com/yungbote/material-inventory-backend/internal/platform/apierr"
	"github.com/yungbote/material-inventory-backend/internal/services"
)

type AuthHandler struct {
	log         *logger.Logger
	authService services.AuthService
	sessionTTL  int
}

func NewAuthHandler(baseLog *logger.Logger, authService services.AuthService, sessionService services.SessionService) *AuthHandler {
	return &AuthHandler{
		log:         baseLog.With("handler", "AuthHandler"),
		authService: authService,
		sessionTTL:  int(sessionService.TTL().Seconds()),
	}
}

// userView is the safe subset of a user sent over the wire.
type userView struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	AvatarURL string    `json:"avatarUrl,omitempty"`
}

func newUserView(user *domain.User) userView {
	return userView{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.Name,
		Role:      user.Role,
		AvatarURL: user.AvatarURL,
	}
}

// POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, apierr.InvalidArgument("Please provide email and password"))
		return
	}

	user, token, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		RespondError(c, err)
		return
	}

	h.setSessionCookie(c, token, h.sessionTTL)
	RespondOK(c, gin.H{"success": true, "user": newUserView(user)})
}

// POST /api/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	token, _ := c.Cookie(services.SessionCookieName)
	if err := h.authService.Logout(c.Request.Context(), token); err != nil {
		RespondError(c, err)
		return
	}
	h.setSessionCookie(c, "", -1)
	RespondOK(c, gin.H{"success": true, "message": "Logged out successfully"})
}

// GET /api/auth/check
// Always answers 200; a broken or missing session is simply "not
// authenticated", never an error.
func (h *AuthHandler) Check(c *gin.Context) {
	token, _ := c.Cookie(services.SessionCookieName)
	user, err := h.authService.Check(c.Request.Context(), token)
	if err != nil {
		h.log.Warn("Auth check failed", "error", err)
		RespondOK(c, gin.H{"isAuthenticated": false})
		return
	}
	if user == nil {
		RespondOK(c, gin.H{"isAuthenticated": false})
		return
	}
	RespondOK(c, gin.H{"isAuthenticated": true, "user": newUserView(user)})
}

// POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Name     string `json:"name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, apierr.InvalidArgument("Please provide all required fields"))
		return
	}

	user, err := h.authService.Register(c.Request.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondCreated(c, gin.H{
		"success": true,
		"message": "User registered successfully",
		"user":    newUserView(user),
	})
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, token string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(services.SessionCookieName, token, maxAge, "/", "", false, true)
}
