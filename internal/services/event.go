package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"churchevents/internal/domain"
)

type eventService struct {
	eventRepo      domain.EventRepository
	programRepo    domain.ProgramRepository
	contextTimeout time.Duration
}

func NewEventService(eventRepo domain.EventRepository, programRepo domain.ProgramRepository, timeout time.Duration) domain.EventService {
	return &eventService{
		eventRepo:      eventRepo,
		programRepo:    programRepo,
		contextTimeout: timeout,
	}
}

func (s *eventService) CreateEvent(ctx context.Context, event *domain.Event) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if event.OwnerID == "" {
		return fmt.Errorf("%w: event owner is required", domain.ErrInvalidInput)
	}
	event.Name = strings.TrimSpace(event.Name)
	if event.Name == "" {
		return fmt.Errorf("%w: event name is required", domain.ErrInvalidInput)
	}
	if err := checkDateRange(event.StartsOn, event.EndsOn); err != nil {
		return err
	}

	now := time.Now()
	event.CreatedAt = now
	event.UpdatedAt = now

	if event.EventCode != "" {
		code, ok := domain.NormalizeEventCode(event.EventCode)
		if !ok {
			return fmt.Errorf("%w: event_code must be %d characters from %q", domain.ErrInvalidInput, domain.EventCodeLength, domain.EventCodeAlphabet)
		}
		event.EventCode = code
		return s.eventRepo.Create(ctx, event)
	}

	// Generated codes can collide with an existing event; draw again a few times.
	for attempt := 1; ; attempt++ {
		code, err := generateEventCode()
		if err != nil {
			return fmt.Errorf("generate event code: %w", err)
		}
		event.EventCode = code
		err = s.eventRepo.Create(ctx, event)
		if !errors.Is(err, domain.ErrDuplicateEventCode) || attempt == maxEventCodeAttempts {
			return err
		}
	}
}

const maxEventCodeAttempts = 3

// generateEventCode returns a random code drawn from domain.EventCodeAlphabet.
func generateEventCode() (string, error) {
	b := make([]byte, domain.EventCodeLength)
	max := big.NewInt(int64(len(domain.EventCodeAlphabet)))
	for i := range b {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b[i] = domain.EventCodeAlphabet[n.Int64()]
	}
	return string(b), nil
}

func checkDateRange(startsOn, endsOn *time.Time) error {
	if startsOn != nil && endsOn != nil && endsOn.Before(*startsOn) {
		return fmt.Errorf("%w: ends_on is before starts_on", domain.ErrInvalidInput)
	}
	return nil
}

func (s *eventService) GetEventByID(ctx context.Context, eventID string) (*domain.EventDetails, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	programs, err := s.programRepo.ListByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list programs: %w", err)
	}
	if programs == nil {
		programs = []*domain.DayProgram{}
	}
	return &domain.EventDetails{Event: event, Programs: programs}, nil
}

func (s *eventService) ListEventsByOwner(ctx context.Context, ownerID string) ([]*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	events, err := s.eventRepo.ListByOwnerID(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	if events == nil {
		events = []*domain.Event{}
	}
	return events, nil
}

func (s *eventService) UpdateEvent(ctx context.Context, eventID, ownerID string, upd domain.EventUpdate) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.ownedEvent(ctx, eventID, ownerID)
	if err != nil {
		return nil, err
	}
	if upd.Name != nil {
		name := strings.TrimSpace(*upd.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: event name cannot be empty", domain.ErrInvalidInput)
		}
		upd.Name = &name
	}
	startsOn, endsOn := event.StartsOn, event.EndsOn
	if upd.StartsOn != nil {
		startsOn = upd.StartsOn
	}
	if upd.EndsOn != nil {
		endsOn = upd.EndsOn
	}
	if err := checkDateRange(startsOn, endsOn); err != nil {
		return nil, err
	}

	updated, err := s.eventRepo.Update(ctx, eventID, upd)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update event: %w", err)
	}
	return updated, nil
}

// DeleteEvent removes the event. Programs and registrations go with it through foreign key cascades.
func (s *eventService) DeleteEvent(ctx context.Context, eventID, ownerID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.ownedEvent(ctx, eventID, ownerID); err != nil {
		return err
	}
	if err := s.eventRepo.Delete(ctx, eventID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete event: %w", err)
	}
	return nil
}

func (s *eventService) ownedEvent(ctx context.Context, eventID, ownerID string) (*domain.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	if event.OwnerID != ownerID {
		return nil, domain.ErrForbidden
	}
	return event, nil
}
