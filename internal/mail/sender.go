// File: internal/mail/sender.go
package mail

import (
	"context"
	"fmt"
	"net/smtp"

	"localpro_backend/internal/config"

	"go.uber.org/zap"
)

// Sender delivers account emails. Failures are surfaced to callers so the
// auth flows can decide whether to fail the request.
type Sender interface {
	SendVerificationCode(ctx context.Context, to, code string) error
	SendPasswordReset(ctx context.Context, to, token string) error
}

// NewSender returns an SMTP-backed sender when MAIL_HOST is configured,
// otherwise a sender that only logs. The log sender keeps local development
// working without a mail relay.
func NewSender(cfg *config.Config, logger *zap.Logger) Sender {
	if cfg.MailHost == "" {
		logger.Info("MAIL_HOST not configured, emails will be logged instead of sent")
		return &logSender{logger: logger.Named("mail")}
	}
	return &smtpSender{cfg: cfg, logger: logger.Named("mail")}
}

type logSender struct {
	logger *zap.Logger
}

func (s *logSender) SendVerificationCode(ctx context.Context, to, code string) error {
	s.logger.Info("Verification code issued",
		zap.String("to", to),
		zap.String("code", code),
	)
	return nil
}

func (s *logSender) SendPasswordReset(ctx context.Context, to, token string) error {
	s.logger.Info("Password reset token issued",
		zap.String("to", to),
		zap.String("token", token),
	)
	return nil
}

type smtpSender struct {
	cfg    *config.Config
	logger *zap.Logger
}

func (s *smtpSender) SendVerificationCode(ctx context.Context, to, code string) error {
	subject := "Verify your email address"
	body := fmt.Sprintf("Your verification code is %s. It expires in %d minutes.",
		code, int(s.cfg.VerifyCodeTTL.Minutes()))
	return s.send(to, subject, body)
}

func (s *smtpSender) SendPasswordReset(ctx context.Context, to, token string) error {
	subject := "Reset your password"
	body := fmt.Sprintf("Use this token to reset your password: %s. It expires in %d minutes.",
		token, int(s.cfg.ResetTokenTTL.Minutes()))
	return s.send(to, subject, body)
}

func (s *smtpSender) send(to, subject, body string) error {
	addr := fmt.Sprintf("%s:%s", s.cfg.MailHost, s.cfg.MailPort)
	msg := []byte(fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n",
		s.cfg.MailFrom, to, subject, body))

	var auth smtp.Auth
	if s.cfg.MailUsername != "" {
		auth = smtp.PlainAuth("", s.cfg.MailUsername, s.cfg.MailPassword, s.cfg.MailHost)
	}

	if err := smtp.SendMail(addr, auth, s.cfg.MailFrom, []string{to}, msg); err != nil {
		s.logger.Error("Failed to send email", zap.String("to", to), zap.Error(err))
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}
