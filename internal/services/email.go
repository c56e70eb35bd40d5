package services

import (
	"context"
	"fmt"

	"eventhubconnect/internal/domain"
)

type emailService struct {
	mailer   domain.Mailer
	renderer domain.EmailTemplateRenderer
}

// NewEmailService returns an EmailService that uses the given Mailer and template renderer.
func NewEmailService(mailer domain.Mailer, renderer domain.EmailTemplateRenderer) domain.EmailService {
	return &emailService{mailer: mailer, renderer: renderer}
}

// SendWelcomeMessage sends a welcome email using the "welcome" template and the given data.
func (s *emailService) SendWelcomeMessage(ctx context.Context, data *domain.WelcomeEmailData) error {
	if data == nil {
		return fmt.Errorf("welcome message data is nil")
	}
	subject, htmlBody, textBody, err := s.renderer.Render("welcome", data)
	if err != nil {
		return fmt.Errorf("failed to render welcome template: %w", err)
	}
	if err := s.mailer.Send(data.Email, subject, htmlBody, textBody); err != nil {
		return fmt.Errorf("failed to send welcome email: %w", err)
	}
	return nil
}

// SendPasswordReset sends the password reset email using the "password_reset" template.
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
	return nil
}

// SendCertificateIssued sends the certificate notification using the "certificate_issued" template.
func (s *emailService) SendCertificateIssued(ctx context.Context, data *domain.CertificateIssuedEmailData) error {
	if data == nil {
		return fmt.Errorf("certificate issued data is nil")
	}
	subject, htmlBody, textBody, err := s.renderer.Render("certificate_issued", data)
	if err != nil {
		return fmt.Errorf("failed to render certificate_issued template: %w", err)
	}
	if err := s.mailer.Send(data.Email, subject, htmlBody, textBody); err != nil {
		return fmt.Errorf("failed to send certificate email: %w", err)
	}
	return nil
}
