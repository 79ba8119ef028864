package domain

import (
	"context"
	"errors"
	"strings"
	"time"
)

// ErrDuplicateEventCode is returned when another event already uses the code.
var ErrDuplicateEventCode = errors.New("event code already in use")

// Event codes are short, case-insensitive and avoid look-alike characters (0/o, 1/l/i).
const (
	EventCodeLength   = 6
	EventCodeAlphabet = "abcdefghjkmnpqrstuvwxyz23456789"
)

// NormalizeEventCode trims and lowercases code and reports whether the result is a valid event code.
func NormalizeEventCode(code string) (string, bool) {
	code = strings.ToLower(strings.TrimSpace(code))
	if len(code) != EventCodeLength {
		return code, false
	}
	for _, r := range code {
		if !strings.ContainsRune(EventCodeAlphabet, r) {
			return code, false
		}
	}
	return code, true
}

// Event represents a church event (conference, retreat, service, ...).
// swagger:model Event
type Event struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	EventCode   string     `json:"event_code"`
	OwnerID     string     `json:"owner_id"`
	StartsOn    *time.Time `json:"starts_on,omitempty"`
	EndsOn      *time.Time `json:"ends_on,omitempty"`
	Description *string    `json:"description,omitempty"`
	Venue       *string    `json:"venue,omitempty"`
	LocationLat *float64   `json:"location_lat,omitempty"`
	LocationLng *float64   `json:"location_lng,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// NewEvent returns a new Event with the given fields. ID is typically set by the repository on create.
func NewEvent(name, eventCode, ownerID string, createdAt, updatedAt time.Time) *Event {
	return &Event{
		Name:      name,
		EventCode: eventCode,
		OwnerID:   ownerID,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}
}

// CoversDay reports whether day falls inside the event's date range. Open ends are unbounded.
func (e *Event) CoversDay(day time.Time) bool {
	if e.StartsOn != nil && day.Before(truncateDay(*e.StartsOn)) {
		return false
	}
	if e.EndsOn != nil && day.After(truncateDay(*e.EndsOn)) {
		return false
	}
	return true
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// EventUpdate holds the optional fields of a partial event update. Nil means unchanged.
type EventUpdate struct {
	Name        *string
	StartsOn    *time.Time
	EndsOn      *time.Time
	Description *string
	Venue       *string
	LocationLat *float64
	LocationLng *float64
}

// EventRepository defines the interface for event storage
type EventRepository interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id string) (*Event, error)
	GetByEventCode(ctx context.Context, eventCode string) (*Event, error)
	ListByOwnerID(ctx context.Context, ownerID string) ([]*Event, error)
	// ListStartingOn returns events whose starts_on date equals day.
	ListStartingOn(ctx context.Context, day time.Time) ([]*Event, error)
	Update(ctx context.Context, eventID string, upd EventUpdate) (*Event, error)
	Delete(ctx context.Context, id string) error
}

// EventDetails bundles an event with its day programs.
type EventDetails struct {
	Event    *Event        `json:"event"`
	Programs []*DayProgram `json:"programs"`
}

// EventService defines the business logic for managing events.
type EventService interface {
	CreateEvent(ctx context.Context, event *Event) error
	GetEventByID(ctx context.Context, eventID string) (*EventDetails, error)
	ListEventsByOwner(ctx context.Context, ownerID string) ([]*Event, error)
	UpdateEvent(ctx context.Context, eventID, ownerID string, upd EventUpdate) (*Event, error)
	DeleteEvent(ctx context.Context, eventID, ownerID string) error
}
