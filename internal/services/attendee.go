package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"churchevents/internal/domain"

	"github.com/google/uuid"
)

type attendeeService struct {
	eventRepo        domain.EventRepository
	registrationRepo domain.EventRegistrationRepository
	userRepo         domain.UserRepository
	roleRepo         domain.RoleRepository
	emailService     domain.EmailService
	logger           *slog.Logger
	contextTimeout   time.Duration
	now              func() time.Time
	newTicketCode    func() string
}

// NewAttendeeService creates an AttendeeService with the given repositories.
func NewAttendeeService(
	eventRepo domain.EventRepository,
	registrationRepo domain.EventRegistrationRepository,
	userRepo domain.UserRepository,
	roleRepo domain.RoleRepository,
	emailService domain.EmailService,
	logger *slog.Logger,
	timeout time.Duration,
) domain.AttendeeService {
	return &attendeeService{
		eventRepo:        eventRepo,
		registrationRepo: registrationRepo,
		userRepo:         userRepo,
		roleRepo:         roleRepo,
		emailService:     emailService,
		logger:           logger,
		contextTimeout:   timeout,
		now:              time.Now,
		newTicketCode:    uuid.NewString,
	}
}

func (s *attendeeService) RegisterForEvent(ctx context.Context, eventID, userID string) (*domain.EventRegistration, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, false, domain.ErrNotFound
		}
		return nil, false, fmt.Errorf("get event: %w", err)
	}
	return s.register(ctx, event, userID)
}

func (s *attendeeService) RegisterForEventByCode(ctx context.Context, eventCode, userID string) (*domain.EventRegistration, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	code := strings.ToLower(strings.TrimSpace(eventCode))
	if code == "" {
		return nil, false, fmt.Errorf("%w: event code is required", domain.ErrInvalidInput)
	}
	event, err := s.eventRepo.GetByEventCode(ctx, code)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, false, domain.ErrNotFound
		}
		return nil, false, fmt.Errorf("get event by code: %w", err)
	}
	return s.register(ctx, event, userID)
}

// register is idempotent: an existing registration is returned with created=false.
func (s *attendeeService) register(ctx context.Context, event *domain.Event, userID string) (*domain.EventRegistration, bool, error) {
	existing, err := s.registrationRepo.GetByEventAndUser(ctx, event.ID, userID)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, false, fmt.Errorf("get event registration: %w", err)
	}

	now := s.now()
	reg := domain.NewEventRegistration(event.ID, userID, s.newTicketCode(), now, now)
	if err := s.registrationRepo.Create(ctx, reg); err != nil {
		if errors.Is(err, domain.ErrDuplicateRegistration) {
			// A concurrent request inserted the row between the lookup and the insert.
			if existing, gerr := s.registrationRepo.GetByEventAndUser(ctx, event.ID, userID); gerr == nil {
				return existing, false, nil
			}
		}
		return nil, false, fmt.Errorf("create event registration: %w", err)
	}
	s.sendConfirmation(ctx, event, reg)
	return reg, true, nil
}

// sendConfirmation mails the ticket code. Failures are logged; the registration stands.
func (s *attendeeService) sendConfirmation(ctx context.Context, event *domain.Event, reg *domain.EventRegistration) {
	if s.emailService == nil {
		return
	}
	user, err := s.userRepo.GetByID(ctx, reg.UserID)
	if err != nil {
		s.logger.WarnContext(ctx, "registration email skipped", "registration_id", reg.ID, "error", err)
		return
	}
	data := &domain.RegistrationEmailData{
		Email:      user.Email,
		FirstName:  user.Name,
		EventName:  event.Name,
		EventCode:  event.EventCode,
		TicketCode: reg.TicketCode,
	}
	if event.StartsOn != nil {
		data.StartsOn = event.StartsOn.Format(domain.DayLayout)
	}
	if event.Venue != nil {
		data.Venue = *event.Venue
	}
	if err := s.emailService.SendRegistrationConfirmation(ctx, data); err != nil {
		s.logger.ErrorContext(ctx, "registration email failed", "registration_id", reg.ID, "error", err)
	}
}

func (s *attendeeService) ListMyRegisteredEvents(ctx context.Context, userID string) ([]*domain.EventRegistrationWithEvent, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	regs, err := s.registrationRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}

	eventsByID := make(map[string]*domain.Event)
	result := make([]*domain.EventRegistrationWithEvent, 0, len(regs))
	for _, reg := range regs {
		ev, ok := eventsByID[reg.EventID]
		if !ok {
			ev, err = s.eventRepo.GetByID(ctx, reg.EventID)
			if err != nil {
				if errors.Is(err, domain.ErrNotFound) {
					continue
				}
				return nil, fmt.Errorf("get event for registration: %w", err)
			}
			eventsByID[reg.EventID] = ev
		}
		result = append(result, &domain.EventRegistrationWithEvent{
			Registration: reg,
			Event:        ev,
		})
	}
	return result, nil
}

// CheckIn is allowed for the event owner and for staff or admin accounts.
func (s *attendeeService) CheckIn(ctx context.Context, eventID, scannerID, ticketCode string) (*domain.EventRegistration, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	code := strings.TrimSpace(ticketCode)
	if code == "" {
		return nil, fmt.Errorf("%w: ticket code is required", domain.ErrInvalidInput)
	}
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	if event.OwnerID != scannerID {
		allowed, err := s.hasRole(ctx, scannerID, domain.RoleStaff, domain.RoleAdmin)
		if err != nil {
			return nil, err
		}
		if !allowed {
			return nil, domain.ErrForbidden
		}
	}

	reg, err := s.registrationRepo.GetByTicketCode(ctx, eventID, code)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get registration by ticket: %w", err)
	}
	now := s.now()
	marked, err := s.registrationRepo.MarkCheckedIn(ctx, reg.ID, scannerID, now)
	if err != nil {
		return nil, fmt.Errorf("mark checked in: %w", err)
	}
	if !marked {
		return reg, domain.ErrAlreadyCheckedIn
	}
	reg.CheckedInAt = &now
	reg.CheckedInBy = &scannerID
	reg.UpdatedAt = now
	return reg, nil
}

func (s *attendeeService) hasRole(ctx context.Context, userID string, codes ...string) (bool, error) {
	granted, err := s.roleRepo.CodesByUserID(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("list roles: %w", err)
	}
	claims := &domain.TokenClaims{UserID: userID, Roles: granted}
	return claims.HasRole(codes...), nil
}

func (s *attendeeService) ListAttendees(ctx context.Context, eventID, ownerID string, page domain.PaginationParams) ([]*domain.Attendee, int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := s.requireOwner(ctx, eventID, ownerID); err != nil {
		return nil, 0, err
	}
	attendees, total, err := s.registrationRepo.ListAttendees(ctx, eventID, page)
	if err != nil {
		return nil, 0, fmt.Errorf("list attendees: %w", err)
	}
	return attendees, total, nil
}

func (s *attendeeService) AttendanceSummary(ctx context.Context, eventID, ownerID string) (*domain.AttendanceSummary, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := s.requireOwner(ctx, eventID, ownerID); err != nil {
		return nil, err
	}
	registered, checkedIn, err := s.registrationRepo.CountByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("count registrations: %w", err)
	}
	return &domain.AttendanceSummary{EventID: eventID, Registered: registered, CheckedIn: checkedIn}, nil
}

func (s *attendeeService) requireOwner(ctx context.Context, eventID, ownerID string) error {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get event: %w", err)
	}
	if event.OwnerID != ownerID {
		return domain.ErrForbidden
	}
	return nil
}
