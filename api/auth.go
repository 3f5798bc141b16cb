package api

import (
	"strings"

	"invoicing/config"
	"invoicing/database"
	"invoicing/middleware"
	"invoicing/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// AuthHandler sign in, sign out and account endpoints
type AuthHandler struct {
	cfg *config.Config
}

// NewAuthHandler creates the auth handler
func NewAuthHandler(cfg *config.Config) *AuthHandler {
	return &AuthHandler{cfg: cfg}
}

// LoginRequest login body
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email" example:"nick@example.com"`
	Password string `json:"password" binding:"required" example:"password123"`
}

// LoginResponse login result
type LoginResponse struct {
	Token    string      `json:"token"`
	UserInfo models.User `json:"user_info"`
}

// Login signs a user in
// @Summary Sign in
// @Description Checks email and password, returns a JWT and sets it as the token cookie
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "credentials"
// @Success 200 {object} Response{data=LoginResponse} "signed in"
// @Failure 400 {object} Response "invalid request"
// @Failure 401 {object} Response "wrong email or password"
// @Failure 429 {object} Response "too many attempts"
// @Router /api/v1/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	var user models.User
	if err := database.DB.WithContext(c.Request.Context()).Where("email = ?", email).First(&user).Error; err != nil {
		Unauthorized(c, "wrong email or password")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		zap.L().Info("failed login", zap.String("email", email), zap.String("ip", c.ClientIP()))
		Unauthorized(c, "wrong email or password")
		return
	}

	token, err := middleware.GenerateToken(user.ID, user.Email, h.cfg.JWT.ExpireTime)
	if err != nil {
		InternalError(c, "could not create token")
		return
	}

	setTokenCookie(c, token, h.cfg.JWT.ExpireTime)
	Success(c, LoginResponse{
		Token:    token,
		UserInfo: user,
	})
}

// Logout signs the browser session out
// @Summary Sign out
// @Description Clears the token cookie
// @Tags auth
// @Produce json
// @Success 200 {object} Response "signed out"
// @Router /api/v1/auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	clearTokenCookie(c)
	SuccessWithMessage(c, "signed out", nil)
}

// GetProfile returns the signed in user
// @Summary Current user
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=models.User} "current user"
// @Failure 401 {object} Response "unauthorized"
// @Router /api/v1/auth/profile [get]
func (h *AuthHandler) GetProfile(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var user models.User
	if err := database.DB.WithContext(c.Request.Context()).First(&user, userID).Error; err != nil {
		NotFound(c, "user not found")
		return
	}

	Success(c, user)
}

// ChangePasswordRequest change password body
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required" example:"oldpassword123"`
	NewPassword string `json:"new_password" binding:"required,min=8,max=72" example:"newpassword123"`
}

// ChangePassword changes the signed in user's password
// @Summary Change password
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ChangePasswordRequest true "passwords"
// @Success 200 {object} Response "changed"
// @Failure 400 {object} Response "invalid request"
// @Failure 401 {object} Response "wrong current password"
// @Router /api/v1/auth/password [put]
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}

	var user models.User
	if err := database.DB.WithContext(c.Request.Context()).First(&user, userID).Error; err != nil {
		NotFound(c, "user not found")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.OldPassword)); err != nil {
		Unauthorized(c, "wrong current password")
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		InternalError(c, "could not hash password")
		return
	}

	if err := database.DB.WithContext(c.Request.Context()).Model(&user).Update("password", string(hashedPassword)).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "could not update password"))
		return
	}

	SuccessWithMessage(c, "password changed", nil)
}
