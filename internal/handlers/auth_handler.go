package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jesusmusic/backend/internal/apperrors"
	"github.com/jesusmusic/backend/internal/middleware"
	"github.com/jesusmusic/backend/internal/services"
)

type AuthHandler struct {
	responder
	authService *services.AuthService
}

func NewAuthHandler(authService *services.AuthService, production bool) *AuthHandler {
	return &AuthHandler{
		responder:   responder{production: production},
		authService: authService,
	}
}

type registerRequest struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginRequest struct {
	Login    string `json:"login"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password" validate:"required"`
}

type tokenRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// Register handles user registration
//
//	@Summary	Register a new account
//	@Tags		Auth
//	@Accept		json
//	@Produce	json
//	@Param		body	body		registerRequest	true	"Account"
//	@Success	201		{object}	SuccessResponse
//	@Failure	400		{object}	ErrorResponse
//	@Router		/auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := bind(c, &req); err != nil {
		h.fail(c, "Failed to register", err)
		return
	}

	user, tokens, err := h.authService.Register(c.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		h.fail(c, "Failed to register", err)
		return
	}

	h.success(c, http.StatusCreated, gin.H{
		"user":         user,
		"token":        tokens.AccessToken,
		"refreshToken": tokens.RefreshToken,
	})
}

// Login accepts a username or an email with the password
//
//	@Summary	Log in
//	@Tags		Auth
//	@Accept		json
//	@Produce	json
//	@Param		body	body		loginRequest	true	"Credentials"
//	@Success	200		{object}	SuccessResponse
//	@Failure	401		{object}	ErrorResponse
//	@Router		/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := bind(c, &req); err != nil {
		h.fail(c, "Failed to log in", err)
		return
	}

	login := req.Login
	if login == "" {
		login = req.Username
	}
	if login == "" {
		login = req.Email
	}

	user, tokens, err := h.authService.Login(c.Request.Context(), login, req.Password)
	if err != nil {
		h.fail(c, "Failed to log in", err)
		return
	}

	h.success(c, http.StatusOK, gin.H{
		"user":         user,
		"token":        tokens.AccessToken,
		"refreshToken": tokens.RefreshToken,
	})
}

// Refresh issues a new access token
//
//	@Summary	Refresh the access token
//	@Tags		Auth
//	@Accept		json
//	@Produce	json
//	@Param		body	body		tokenRequest	true	"Refresh token"
//	@Success	200		{object}	SuccessResponse
//	@Failure	401		{object}	ErrorResponse
//	@Router		/auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req tokenRequest
	if err := bind(c, &req); err != nil {
		h.fail(c, "Failed to refresh token", err)
		return
	}
	if req.RefreshToken == "" {
		h.fail(c, "Failed to refresh token", apperrors.Authentication("refresh token is required"))
		return
	}

	token, err := h.authService.RefreshToken(c.Request.Context(), req.RefreshToken)
	if err != nil {
		h.fail(c, "Failed to refresh token", err)
		return
	}
	h.success(c, http.StatusOK, gin.H{"token": token})
}

// Logout revokes the current access token and, if sent, the refresh token
//
//	@Summary	Log out
//	@Tags		Auth
//	@Security	BearerAuth
//	@Produce	json
//	@Success	200	{object}	SuccessResponse
//	@Failure	401	{object}	ErrorResponse
//	@Router		/auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	claims, ok := middleware.GetClaims(c)
	if !ok {
		h.fail(c, "Failed to log out", apperrors.Authentication("not logged in"))
		return
	}

	// The body is optional.
	var req tokenRequest
	_ = c.ShouldBindJSON(&req)

	if err := h.authService.Logout(c.Request.Context(), claims, req.RefreshToken); err != nil {
		h.fail(c, "Failed to log out", err)
		return
	}
	h.success(c, http.StatusOK, gin.H{"message": "Logged out successfully"})
}

// Me returns the caller's account
//
//	@Summary	Current user
//	@Tags		Auth
//	@Security	BearerAuth
//	@Produce	json
//	@Success	200	{object}	SuccessResponse
//	@Failure	401	{object}	ErrorResponse
//	@Router		/auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	caller, ok := middleware.GetIdentity(c)
	if !ok {
		h.fail(c, "Failed to fetch user", apperrors.Authentication("not logged in"))
		return
	}

	user, err := h.authService.GetUserByID(c.Request.Context(), caller.UserID)
	if err != nil {
		h.fail(c, "Failed to fetch user", err)
		return
	}
	h.success(c, http.StatusOK, gin.H{"user": user})
}
