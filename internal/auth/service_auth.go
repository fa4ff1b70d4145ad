// File: internal/auth/service_auth.go
package auth

import (
	"context"
	"time"

	"localpro_backend/internal/activity"
	"localpro_backend/internal/common"
	"localpro_backend/internal/config"
	"localpro_backend/internal/mail"
	"localpro_backend/internal/platform/crypto"
	"localpro_backend/internal/shared"
	"localpro_backend/internal/user"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const verifyCodeDigits = 6

// Service defines the credential lifecycle business logic.
type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*user.UserResponse, error)
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
	SendVerificationCode(ctx context.Context, email string) error
	ConfirmEmailVerification(ctx context.Context, email, code string) error
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
	GetCurrentUser(ctx context.Context, userID uuid.UUID) (*user.UserResponse, error)
}

type serviceImpl struct {
	cfg        *config.Config
	users      user.Repository
	tokens     shared.TokenService
	mailer     mail.Sender
	versions   *CachedVersionChecker
	activities activity.Service
	logger     *zap.Logger
}

// NewService creates a new auth service.
func NewService(
	cfg *config.Config,
	users user.Repository,
	tokens shared.TokenService,
	mailer mail.Sender,
	versions *CachedVersionChecker,
	activities activity.Service,
	logger *zap.Logger,
) Service {
	return &serviceImpl{
		cfg:        cfg,
		users:      users,
		tokens:     tokens,
		mailer:     mailer,
		versions:   versions,
		activities: activities,
		logger:     logger.Named("auth_service"),
	}
}

// Register creates an unverified account and dispatches a verification code.
func (s *serviceImpl) Register(ctx context.Context, req RegisterRequest) (*user.UserResponse, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("Failed to hash password", zap.Error(err))
		return nil, common.ErrInternalServer
	}

	code, expiry, err := s.newVerifyCode()
	if err != nil {
		return nil, err
	}

	newUser := &user.User{
		Email:             req.Email,
		PasswordHash:      string(hash),
		Role:              req.Role,
		VerifyToken:       &code,
		VerifyTokenExpiry: &expiry,
	}

	// Duplicate emails are caught by the unique index, not a prior read.
	if err := s.users.Create(ctx, newUser); err != nil {
		return nil, err
	}

	if err := s.mailer.SendVerificationCode(ctx, newUser.Email, code); err != nil {
		s.logger.Warn("Verification email failed after registration",
			zap.String("email", newUser.Email), zap.Error(err))
	}

	s.logger.Info("User registered",
		zap.String("user_id", newUser.ID.String()),
		zap.String("role", newUser.Role),
	)

	resp := user.ToUserResponse(newUser)
	return &resp, nil
}

// Login checks credentials and issues an access token. Unverified accounts
// are rejected with a distinct error so clients can prompt for the code.
func (s *serviceImpl) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	usr, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		if apiErr, ok := common.IsAPIError(err); ok && apiErr.Code == common.ErrNotFound.Code {
			return nil, common.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(usr.PasswordHash), []byte(req.Password)); err != nil {
		return nil, common.ErrInvalidCredentials
	}

	if !usr.IsVerified {
		return nil, common.ErrAccountNotVerified
	}

	tokenString, _, err := s.tokens.GenerateAccessToken(usr)
	if err != nil {
		return nil, common.ErrInternalServer
	}

	return &LoginResponse{
		Token:          tokenString,
		Role:           usr.Role,
		ProfileUpdated: usr.ProfileUpdated,
	}, nil
}

// SendVerificationCode issues a fresh code for an unverified account.
func (s *serviceImpl) SendVerificationCode(ctx context.Context, email string) error {
	usr, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	if usr.IsVerified {
		return common.ErrBadRequest.WithDetails("Account is already verified.")
	}

	code, expiry, err := s.newVerifyCode()
	if err != nil {
		return err
	}

	usr.VerifyToken = &code
	usr.VerifyTokenExpiry = &expiry
	if err := s.users.Update(ctx, usr); err != nil {
		return err
	}

	if err := s.mailer.SendVerificationCode(ctx, usr.Email, code); err != nil {
		s.logger.Error("Failed to send verification code", zap.String("email", usr.Email), zap.Error(err))
		return common.ErrInternalServer.WithDetails("Could not send verification email.")
	}
	return nil
}

// ConfirmEmailVerification marks the account verified when the code matches
// and has not expired.
func (s *serviceImpl) ConfirmEmailVerification(ctx context.Context, email, code string) error {
	usr, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if apiErr, ok := common.IsAPIError(err); ok && apiErr.Code == common.ErrNotFound.Code {
			return common.ErrInvalidOrExpiredCode
		}
		return err
	}

	if usr.VerifyToken == nil || *usr.VerifyToken != code {
		return common.ErrInvalidOrExpiredCode
	}
	if usr.VerifyTokenExpiry == nil || time.Now().After(*usr.VerifyTokenExpiry) {
		return common.ErrInvalidOrExpiredCode
	}

	usr.IsVerified = true
	usr.VerifyToken = nil
	usr.VerifyTokenExpiry = nil
	if err := s.users.Update(ctx, usr); err != nil {
		return err
	}

	s.activities.Record(ctx, usr.ID, activity.AccountVerified, "Email address verified", nil, nil)
	s.logger.Info("Account verified", zap.String("user_id", usr.ID.String()))
	return nil
}

// ForgotPassword stores a reset token and mails it. Unknown emails get the
// same 200 as known ones so the endpoint cannot be used to enumerate users.
func (s *serviceImpl) ForgotPassword(ctx context.Context, email string) error {
	usr, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if apiErr, ok := common.IsAPIError(err); ok && apiErr.Code == common.ErrNotFound.Code {
			s.logger.Debug("Password reset requested for unknown email", zap.String("email", email))
			return nil
		}
		return err
	}

	token, err := crypto.GenerateSecureRandomString(32)
	if err != nil {
		s.logger.Error("Failed to generate reset token", zap.Error(err))
		return common.ErrInternalServer
	}
	expiry := time.Now().Add(s.cfg.ResetTokenTTL)

	usr.ResetToken = &token
	usr.ResetTokenExpiry = &expiry
	if err := s.users.Update(ctx, usr); err != nil {
		return err
	}

	if err := s.mailer.SendPasswordReset(ctx, usr.Email, token); err != nil {
		s.logger.Error("Failed to send reset email", zap.String("email", usr.Email), zap.Error(err))
	}
	return nil
}

// ResetPassword consumes a reset token, rehashes the password and bumps the
// token version so previously issued JWTs stop working.
func (s *serviceImpl) ResetPassword(ctx context.Context, token, newPassword string) error {
	usr, err := s.findByResetToken(ctx, token)
	if err != nil {
		return err
	}

	if usr.ResetTokenExpiry == nil || time.Now().After(*usr.ResetTokenExpiry) {
		return common.ErrInvalidOrExpiredToken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("Failed to hash password", zap.Error(err))
		return common.ErrInternalServer
	}

	usr.PasswordHash = string(hash)
	usr.ResetToken = nil
	usr.ResetTokenExpiry = nil
	usr.TokenVersion++
	if err := s.users.Update(ctx, usr); err != nil {
		return err
	}

	s.versions.Invalidate(usr.ID)
	s.logger.Info("Password reset completed", zap.String("user_id", usr.ID.String()))
	return nil
}

// GetCurrentUser returns the sanitized authenticated user.
func (s *serviceImpl) GetCurrentUser(ctx context.Context, userID uuid.UUID) (*user.UserResponse, error) {
	usr, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	resp := user.ToUserResponse(usr)
	return &resp, nil
}

func (s *serviceImpl) newVerifyCode() (string, time.Time, error) {
	code, err := crypto.GenerateNumericCode(verifyCodeDigits)
	if err != nil {
		s.logger.Error("Failed to generate verification code", zap.Error(err))
		return "", time.Time{}, common.ErrInternalServer
	}
	return code, time.Now().Add(s.cfg.VerifyCodeTTL), nil
}

func (s *serviceImpl) findByResetToken(ctx context.Context, token string) (*user.User, error) {
	usr, err := s.users.FindByResetToken(ctx, token)
	if err != nil {
		if apiErr, ok := common.IsAPIError(err); ok && apiErr.Code == common.ErrNotFound.Code {
			return nil, common.ErrInvalidOrExpiredToken
		}
		return nil, err
	}
	return usr, nil
}
