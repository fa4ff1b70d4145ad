// File: internal/auth/handler.go
package auth

import (
	"errors"

	"localpro_backend/internal/common"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// Handler struct holds dependencies for auth handlers.
type Handler struct {
	service Service
	logger  *zap.Logger
}

// NewHandler creates a new auth handler.
func NewHandler(service Service, logger *zap.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes sets up the routes for authentication operations.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup, authMiddleware gin.HandlerFunc) {
	authGroup := router.Group("/auth")
	{
		authGroup.POST("/register", h.register)
		authGroup.POST("/login", h.login)
		authGroup.POST("/verify-email", h.verifyEmail)
		authGroup.POST("/confirm-email-verification", h.confirmEmailVerification)
		authGroup.POST("/forgot-password", h.forgotPassword)
		authGroup.POST("/reset-password", h.resetPassword)
		authGroup.GET("", authMiddleware, h.currentUser)
	}
}

func (h *Handler) register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindError(c, "Register", err)
		return
	}

	created, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}

	common.RespondCreated(c, "Registration successful. Check your email for a verification code.", created)
}

func (h *Handler) login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindError(c, "Login", err)
		return
	}

	resp, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}

	common.RespondOK(c, "Login successful.", resp)
}

func (h *Handler) verifyEmail(c *gin.Context) {
	var req VerifyEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindError(c, "Verify email", err)
		return
	}

	if err := h.service.SendVerificationCode(c.Request.Context(), req.Email); err != nil {
		common.RespondWithError(c, err)
		return
	}

	common.RespondOK(c, "Verification code sent.", nil)
}

func (h *Handler) confirmEmailVerification(c *gin.Context) {
	var req ConfirmVerificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindError(c, "Confirm verification", err)
		return
	}

	if err := h.service.ConfirmEmailVerification(c.Request.Context(), req.Email, req.Code); err != nil {
		common.RespondWithError(c, err)
		return
	}

	common.RespondOK(c, "Email verified successfully.", nil)
}

func (h *Handler) forgotPassword(c *gin.Context) {
	var req ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindError(c, "Forgot password", err)
		return
	}

	if err := h.service.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		common.RespondWithError(c, err)
		return
	}

	common.RespondOK(c, "If the email is registered, a reset link has been sent.", nil)
}

func (h *Handler) resetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindError(c, "Reset password", err)
		return
	}

	if err := h.service.ResetPassword(c.Request.Context(), req.Token, req.NewPassword); err != nil {
		common.RespondWithError(c, err)
		return
	}

	common.RespondOK(c, "Password has been reset.", nil)
}

func (h *Handler) currentUser(c *gin.Context) {
	userID := common.GetUserIDFromContext(c)
	resp, err := h.service.GetCurrentUser(c.Request.Context(), userID)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "", resp)
}

func (h *Handler) bindError(c *gin.Context, op string, err error) {
	h.logger.Warn(op+": Invalid request body", zap.Error(err))
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(ve)))
		return
	}
	common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
}
