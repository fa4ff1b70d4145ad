// File: internal/auth/model.go
package auth

// RegisterRequest defines the structure for registration requests.
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6,max=72"`
	Role     string `json:"role" binding:"required,oneof=provider customer"`
}

// LoginRequest defines the structure for login requests.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse is the payload returned on successful login.
type LoginResponse struct {
	Token          string `json:"token"`
	Role           string `json:"role"`
	ProfileUpdated bool   `json:"profile_updated"`
}

// VerifyEmailRequest asks for a (new) verification code to be sent.
type VerifyEmailRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ConfirmVerificationRequest carries the emailed code back.
type ConfirmVerificationRequest struct {
	Email string `json:"email" binding:"required,email"`
	Code  string `json:"code" binding:"required,len=6"`
}

// ForgotPasswordRequest starts the password reset flow.
type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ResetPasswordRequest completes the password reset flow.
type ResetPasswordRequest struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=6,max=72"`
}
