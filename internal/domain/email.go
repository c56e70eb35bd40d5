package domain

import "context"

// Mailer defines the contract for sending emails (infrastructure port).
type Mailer interface {
	Send(to, subject, html, text string) error
}

// EmailTemplateRenderer renders email content from a named template with the given data.
type EmailTemplateRenderer interface {
	Render(templateName string, data any) (subject, htmlBody, textBody string, err error)
}

// WelcomeEmailData holds data for the welcome email sent after signup.
type WelcomeEmailData struct {
	Email    string
	Name     string
	Username string
}

// PasswordResetEmailData holds data for the password reset email.
type PasswordResetEmailData struct {
	Email            string
	Name             string
	ResetURL         string
	ExpiresInMinutes int
}

// CertificateIssuedEmailData holds data for the certificate notification email.
type CertificateIssuedEmailData struct {
	Email        string
	Name         string
	EventTitle   string
	SerialNumber string
	DownloadURL  string
}

// EmailService defines the contract for sending domain-level emails.
type EmailService interface {
	SendWelcomeMessage(ctx context.Context, data *WelcomeEmailData) error
	SendPasswordReset(ctx context.Context, data *PasswordResetEmailData) error
	SendCertificateIssued(ctx context.Context, data *CertificateIssuedEmailData) error
}
