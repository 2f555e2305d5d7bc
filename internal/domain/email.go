package domain

import "context"

// Mailer sends a single email. Implementations are best-effort transports;
// callers decide whether a send failure matters.
type Mailer interface {
	Send(to, subject, html, text string) error
}

// EmailTemplateRenderer renders a named template into subject, html, and
// text bodies.
type EmailTemplateRenderer interface {
	Render(templateName string, data interface{}) (subject, htmlBody, textBody string, err error)
}

// EventInvitationEmailData is the data for the "event_invitation" template.
type EventInvitationEmailData struct {
	Email      string
	EventTitle string
	AcceptLink string
}

// PasswordResetEmailData is the data for the "password_reset" template.
type PasswordResetEmailData struct {
	Email     string
	ResetLink string
}

// EmailService renders and sends application emails. Delivery is
// fire-and-forget from the caller's point of view: failures are logged by
// callers and never fail the triggering operation.
type EmailService interface {
	SendEventInvitation(ctx context.Context, data *EventInvitationEmailData) error
	SendPasswordReset(ctx context.Context, data *PasswordResetEmailData) error
}
