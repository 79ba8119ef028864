package domain

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrAlreadyCheckedIn is returned when a ticket that was already scanned is scanned again.
	ErrAlreadyCheckedIn = errors.New("already checked in")
	// ErrDuplicateRegistration is returned by the store when the user is already registered for the event.
	ErrDuplicateRegistration = errors.New("already registered")
)

// EventRegistration represents an attendee's registration for an event.
// TicketCode is the payload encoded in the attendee's QR code.
// swagger:model EventRegistration
type EventRegistration struct {
	ID          string     `json:"id"`
	EventID     string     `json:"event_id"`
	UserID      string     `json:"user_id"`
	TicketCode  string     `json:"ticket_code"`
	CheckedInAt *time.Time `json:"checked_in_at,omitempty"`
	CheckedInBy *string    `json:"checked_in_by,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// NewEventRegistration creates a new EventRegistration. ID is typically set by the repository on create.
func NewEventRegistration(eventID, userID, ticketCode string, createdAt, updatedAt time.Time) *EventRegistration {
	return &EventRegistration{
		EventID:    eventID,
		UserID:     userID,
		TicketCode: ticketCode,
		CreatedAt:  createdAt,
		UpdatedAt:  updatedAt,
	}
}

// EventRegistrationRepository defines storage operations for event registrations.
type EventRegistrationRepository interface {
	Create(ctx context.Context, reg *EventRegistration) error
	GetByEventAndUser(ctx context.Context, eventID, userID string) (*EventRegistration, error)
	GetByTicketCode(ctx context.Context, eventID, ticketCode string) (*EventRegistration, error)
	ListByUserID(ctx context.Context, userID string) ([]*EventRegistration, error)
	ListByEventID(ctx context.Context, eventID string) ([]*EventRegistration, error)
	ListAttendees(ctx context.Context, eventID string, page PaginationParams) ([]*Attendee, int, error)
	// MarkCheckedIn sets checked_in_at/by only if the registration is not yet checked in. Returns false if it already was.
	MarkCheckedIn(ctx context.Context, registrationID, scannerID string, at time.Time) (bool, error)
	CountByEventID(ctx context.Context, eventID string) (registered, checkedIn int, err error)
}

// EventRegistrationWithEvent bundles a registration with its related event.
type EventRegistrationWithEvent struct {
	Registration *EventRegistration `json:"registration"`
	Event        *Event             `json:"event"`
}

// Attendee is a registration joined with the registrant's profile, for the attendee table.
// swagger:model Attendee
type Attendee struct {
	Registration *EventRegistration `json:"registration"`
	Email        string             `json:"email"`
	Name         string             `json:"name"`
	LastName     string             `json:"last_name"`
}

// AttendanceSummary is the dashboard count of registrations and check-ins for an event.
// swagger:model AttendanceSummary
type AttendanceSummary struct {
	EventID    string `json:"event_id"`
	Registered int    `json:"registered"`
	CheckedIn  int    `json:"checked_in"`
}

// AttendeeService defines attendee-facing operations such as event registration and check-in.
type AttendeeService interface {
	// RegisterForEvent registers the user for the event. Returns (reg, created, err): created is true if a new registration was created, false if already registered.
	RegisterForEvent(ctx context.Context, eventID, userID string) (*EventRegistration, bool, error)
	// RegisterForEventByCode registers the user for the event identified by event_code. Returns (reg, created, err): created is true if a new registration was created, false if already registered.
	RegisterForEventByCode(ctx context.Context, eventCode, userID string) (*EventRegistration, bool, error)
	ListMyRegisteredEvents(ctx context.Context, userID string) ([]*EventRegistrationWithEvent, error)
	// CheckIn marks the registration behind ticketCode as attended. A repeated scan returns the registration with ErrAlreadyCheckedIn.
	CheckIn(ctx context.Context, eventID, scannerID, ticketCode string) (*EventRegistration, error)
	ListAttendees(ctx context.Context, eventID, ownerID string, page PaginationParams) ([]*Attendee, int, error)
	AttendanceSummary(ctx context.Context, eventID, ownerID string) (*AttendanceSummary, error)
}
