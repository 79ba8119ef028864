package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"churchevents/internal/domain"
)

type reminderService struct {
	eventRepo        domain.EventRepository
	registrationRepo domain.EventRegistrationRepository
	userRepo         domain.UserRepository
	programRepo      domain.ProgramRepository
	emailService     domain.EmailService
	loc              *time.Location
	logger           *slog.Logger
	now              func() time.Time
}

// NewReminderService returns a ReminderService. "Tomorrow" is computed in loc.
func NewReminderService(
	eventRepo domain.EventRepository,
	registrationRepo domain.EventRegistrationRepository,
	userRepo domain.UserRepository,
	programRepo domain.ProgramRepository,
	emailService domain.EmailService,
	loc *time.Location,
	logger *slog.Logger,
) domain.ReminderService {
	if loc == nil {
		loc = time.UTC
	}
	return &reminderService{
		eventRepo:        eventRepo,
		registrationRepo: registrationRepo,
		userRepo:         userRepo,
		programRepo:      programRepo,
		emailService:     emailService,
		loc:              loc,
		logger:           logger,
		now:              time.Now,
	}
}

// SendUpcomingReminders mails every registrant of the events that start tomorrow.
// A failed recipient is logged and skipped; the run only errors when events cannot be listed.
func (s *reminderService) SendUpcomingReminders(ctx context.Context) (int, error) {
	local := s.now().In(s.loc)
	tomorrow := time.Date(local.Year(), local.Month(), local.Day()+1, 0, 0, 0, 0, time.UTC)
	day := tomorrow.Format(domain.DayLayout)

	events, err := s.eventRepo.ListStartingOn(ctx, tomorrow)
	if err != nil {
		return 0, fmt.Errorf("list events starting %s: %w", day, err)
	}

	sent, failed, skipped := 0, 0, 0
	for _, event := range events {
		program, err := s.programRepo.GetDay(ctx, event.ID, day)
		if err != nil {
			s.logger.WarnContext(ctx, "reminder program unavailable", "event_id", event.ID, "error", err)
			program = &domain.DayProgram{Activities: domain.Schedule{}}
		}
		regs, err := s.registrationRepo.ListByEventID(ctx, event.ID)
		if err != nil {
			skipped++
			s.logger.ErrorContext(ctx, "reminder registrations unavailable", "event_id", event.ID, "error", err)
			continue
		}
		for _, reg := range regs {
			if err := s.remind(ctx, event, program, reg, day); err != nil {
				failed++
				s.logger.ErrorContext(ctx, "reminder failed", "event_id", event.ID, "registration_id", reg.ID, "error", err)
				continue
			}
			sent++
		}
	}
	s.logger.InfoContext(ctx, "reminders run finished", "day", day, "events", len(events), "sent", sent, "failed", failed, "skipped_events", skipped)
	return sent, nil
}

func (s *reminderService) remind(ctx context.Context, event *domain.Event, program *domain.DayProgram, reg *domain.EventRegistration, day string) error {
	user, err := s.userRepo.GetByID(ctx, reg.UserID)
	if err != nil {
		return fmt.Errorf("get user: %w", err)
	}
	data := &domain.ReminderEmailData{
		Email:      user.Email,
		FirstName:  user.Name,
		EventName:  event.Name,
		StartsOn:   day,
		TicketCode: reg.TicketCode,
		Program:    program.Activities,
	}
	if event.Venue != nil {
		data.Venue = *event.Venue
	}
	return s.emailService.SendEventReminder(ctx, data)
}
