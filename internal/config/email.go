package config

import (
	"context"
	"fmt"

	"github.com/resend/resend-go/v2"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// EmailService delivers transactional mail through Resend. When no API key is
// configured (local development) it logs instead of sending, so the reset
// flow stays usable without credentials.
type EmailService struct {
	client *resend.Client
	from   string
	logger *zap.Logger
}

func NewEmailService(lc fx.Lifecycle, cfg *Config, logger *zap.Logger) *EmailService {
	service := &EmailService{from: cfg.FromEmail, logger: logger}
	if cfg.ResendAPIKey != "" {
		service.client = resend.NewClient(cfg.ResendAPIKey)
	}
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			logger.Info("email service initialized", zap.Bool("delivery", service.client != nil))
			return nil
		},
	})
	return service
}

// SendEmail sends a single HTML email.
func (e *EmailService) SendEmail(to, subject, html string) error {
	if e.client == nil {
		e.logger.Info("email delivery disabled, dropping message",
			zap.String("to", to), zap.String("subject", subject))
		return nil
	}

	params := &resend.SendEmailRequest{
		From:    e.from,
		To:      []string{to},
		Subject: subject,
		Html:    html,
	}
	if _, err := e.client.Emails.Send(params); err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	e.logger.Info("email sent", zap.String("to", to), zap.String("subject", subject))
	return nil
}
