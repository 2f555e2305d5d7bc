package services

import (
	"context"
	"fmt"
	"log"

	"eventhub/internal/domain"
)

type emailService struct {
	mailer   domain.Mailer
	renderer domain.EmailTemplateRenderer
}

// NewEmailService returns an EmailService that uses the given Mailer and template renderer.
func NewEmailService(mailer domain.Mailer, renderer domain.EmailTemplateRenderer) domain.EmailService {
	return &emailService{mailer: mailer, renderer: renderer}
}

// SendEventInvitation sends a private-event invitation using the "event_invitation" template.
func (s *emailService) SendEventInvitation(ctx context.Context, data *domain.EventInvitationEmailData) error {
	if data == nil {
		return fmt.Errorf("event invitation data is nil")
	}
	subject, htmlBody, textBody, err := s.renderer.Render("event_invitation", data)
	if err != nil {
		return fmt.Errorf("failed to render event_invitation template: %w", err)
	}
	if err := s.mailer.Send(data.Email, subject, htmlBody, textBody); err != nil {
		return fmt.Errorf("failed to send invitation email: %w", err)
	}
	log.Printf("[EMAIL] Invitation sent to %s", data.Email)
	return nil
}

// SendPasswordReset sends the password reset link email using the "password_reset" template.
func (s *emailService) SendPasswordReset(ctx context.Context, data *domain.PasswordResetEmailData) error {
	if data == nil {
		return fmt.Errorf("password reset data is nil")
	}
	subject, htmlBody, textBody, err := s.renderer.Render("password_reset", data)
	if err != nil {
		return fmt.Errorf("failed to render password_reset template: %w", err)
	}
	if err := s.mailer.Send(data.Email, subject, htmlBody, textBody); err != nil {
		return fmt.Errorf("failed to send password reset email: %w", err)
	}
	log.Printf("[EMAIL] Password reset sent to %s", data.Email)
	return nil
}
