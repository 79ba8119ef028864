package domain

import "context"

// Mailer defines the contract for sending emails (infrastructure port).
type Mailer interface {
	Send(ctx context.Context, to, subject, html, text string) error
}

// EmailTemplateRenderer renders email content from a named template with the given data.
type EmailTemplateRenderer interface {
	Render(templateName string, data any) (subject, htmlBody, textBody string, err error)
}

// WelcomeMessageEmailData holds data for the welcome email sent to a new console account.
type WelcomeMessageEmailData struct {
	Email     string
	FirstName string
	Role      string
}

// RegistrationEmailData holds data for the registration confirmation email.
type RegistrationEmailData struct {
	Email      string
	FirstName  string
	EventName  string
	EventCode  string
	TicketCode string
	StartsOn   string // YYYY-MM-DD, empty if the event has no date yet
	Venue      string
}

// ReminderEmailData holds data for the day-before event reminder.
type ReminderEmailData struct {
	Email      string
	FirstName  string
	EventName  string
	StartsOn   string
	Venue      string
	TicketCode string
	Program    Schedule // first day's program, may be empty
}

// EmailService defines the contract for sending domain-level emails.
type EmailService interface {
	SendWelcomeMessage(ctx context.Context, data *WelcomeMessageEmailData) error
	SendRegistrationConfirmation(ctx context.Context, data *RegistrationEmailData) error
	SendEventReminder(ctx context.Context, data *ReminderEmailData) error
}

// ReminderService sends reminders for upcoming events.
type ReminderService interface {
	// SendUpcomingReminders emails every registrant of events that start the day after now. Returns the number of emails sent.
	SendUpcomingReminders(ctx context.Context) (int, error)
}
