package handler

import (
	"net/http"
	"time"

	"eonestep.com/institutebackend/internal/dto"
	"eonestep.com/institutebackend/internal/service"
	"eonestep.com/institutebackend/pkg/apperror"
	"eonestep.com/institutebackend/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

type AuthHandler struct {
	authService service.AuthService
	rdb         *redis.Client
	loginLimit  time.Duration
}

func NewAuthHandler(authService service.AuthService, rdb *redis.Client, loginLimit time.Duration) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		rdb:         rdb,
		loginLimit:  loginLimit,
	}
}

func (h *AuthHandler) Login(c *gin.Context) {
	var input dto.LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}

	if !service.CheckAndSetRateLimit(c.Request.Context(), h.rdb, c.ClientIP(), "login", h.loginLimit) {
		response.Error(c, apperror.ErrRateLimitExceeded)
		return
	}

	res, err := h.authService.Login(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Send(c, http.StatusOK, "Login successful", res)
}

func (h *AuthHandler) Register(c *gin.Context) {
	var input dto.RegisterUserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}

	user, err := h.authService.Register(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Send(c, http.StatusCreated, "User created", gin.H{"user": user})
}

func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var input dto.ChangePasswordInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}

	caller, ok := actor(c)
	if !ok {
		return
	}

	if err := h.authService.ChangePassword(c.Request.Context(), caller.UserID, input); err != nil {
		response.Error(c, err)
		return
	}

	response.Send(c, http.StatusOK, "Password updated successfully", nil)
}

func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var input dto.ForgotPasswordInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}

	if !service.CheckAndSetRateLimit(c.Request.Context(), h.rdb, c.ClientIP(), "forgot_password", h.loginLimit) {
		response.Error(c, apperror.ErrRateLimitExceeded)
		return
	}

	emailed, err := h.authService.ForgotPassword(c.Request.Context(), input.Email)
	if err != nil {
		response.Error(c, err)
		return
	}

	if !emailed {
		response.Send(c, http.StatusOK, "Reset token created but the email could not be sent. Please contact support.", nil)
		return
	}

	response.Send(c, http.StatusOK, "Password reset link sent via email", nil)
}

// VerifyResetToken handles the GET leg of the reset flow. The token is
// single use: a successful check consumes it.
func (h *AuthHandler) VerifyResetToken(c *gin.Context) {
	email := c.Query("email")
	resetToken := c.Query("token")
	if email == "" || resetToken == "" {
		response.Error(c, apperror.New(http.StatusBadRequest, "Email and token are required", apperror.ErrBadRequest))
		return
	}

	if err := h.authService.VerifyResetToken(c.Request.Context(), email, resetToken); err != nil {
		response.Error(c, err)
		return
	}

	response.Send(c, http.StatusOK, "Reset token is valid", nil)
}

func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var input dto.ResetPasswordInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}

	if err := h.authService.ResetPassword(c.Request.Context(), input); err != nil {
		response.Error(c, err)
		return
	}

	response.Send(c, http.StatusOK, "Password reset successfully", nil)
}
