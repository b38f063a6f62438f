package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/bizfin/backend/internal/application/identity"
	"github.com/bizfin/backend/internal/interfaces/http/middleware"
)

// AuthHandler exposes registration and session endpoints
type AuthHandler struct {
	BaseHandler
	authService    *identity.AuthService
	profileService *identity.ProfileService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *identity.AuthService, profileService *identity.ProfileService) *AuthHandler {
	return &AuthHandler{
		authService:    authService,
		profileService: profileService,
	}
}

// Register handles POST /auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var input identity.RegisterInput
	if !h.bindJSON(c, &input) {
		return
	}

	profile, err := h.authService.Register(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, profile)
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var input identity.LoginInput
	if !h.bindJSON(c, &input) {
		return
	}
	input.IP = c.ClientIP()

	result, err := h.authService.Login(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Refresh handles POST /auth/refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	var input identity.RefreshTokenInput
	if !h.bindJSON(c, &input) {
		return
	}

	result, err := h.authService.RefreshToken(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

type logoutRequest struct {
	AllSessions bool `json:"all_sessions"`
}

// Logout handles POST /auth/logout. The current access token is revoked;
// with all_sessions every token issued before now is cut off.
func (h *AuthHandler) Logout(c *gin.Context) {
	var req logoutRequest
	if c.Request.ContentLength > 0 && !h.bindJSON(c, &req) {
		return
	}

	claims := middleware.GetClaims(c)
	if claims == nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	userID, err := claims.GetUserUUID()
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	err = h.authService.Logout(c.Request.Context(), identity.LogoutInput{
		UserID:      userID,
		JTI:         claims.ID,
		TokenTTL:    claims.GetRemainingTTL(),
		AllSessions: req.AllSessions,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Me handles GET /auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	profile, err := h.authService.GetCurrentUser(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, profile)
}

// UpdateProfile handles PUT /auth/me
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	var input identity.UpdateProfileInput
	if !h.bindJSON(c, &input) {
		return
	}

	profile, err := h.profileService.UpdateProfile(c.Request.Context(), userID, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, profile)
}

// ChangePassword handles POST /auth/me/password
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	var input identity.ChangePasswordInput
	if !h.bindJSON(c, &input) {
		return
	}

	if err := h.profileService.ChangePassword(c.Request.Context(), userID, input); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// SetDefaultBusiness handles PUT /auth/me/default-business
func (h *AuthHandler) SetDefaultBusiness(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	var input identity.SetDefaultBusinessInput
	if !h.bindJSON(c, &input) {
		return
	}

	profile, err := h.profileService.SetDefaultBusiness(c.Request.Context(), userID, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, profile)
}
