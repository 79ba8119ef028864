package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"churchevents/internal/domain"
)

type programService struct {
	eventRepo      domain.EventRepository
	programRepo    domain.ProgramRepository
	feed           domain.ProgramFeed
	encoder        domain.ProgramCalendarEncoder
	logger         *slog.Logger
	contextTimeout time.Duration
	now            func() time.Time
}

func NewProgramService(
	eventRepo domain.EventRepository,
	programRepo domain.ProgramRepository,
	feed domain.ProgramFeed,
	encoder domain.ProgramCalendarEncoder,
	logger *slog.Logger,
	timeout time.Duration,
) domain.ProgramService {
	return &programService{
		eventRepo:      eventRepo,
		programRepo:    programRepo,
		feed:           feed,
		encoder:        encoder,
		logger:         logger,
		contextTimeout: timeout,
		now:            time.Now,
	}
}

// Preview runs the admission check without touching storage. The schedule comes from
// the client, so it is rebuilt first; a snapshot that is not a valid program is
// ErrInvalidInput rather than a rejection of the candidate.
func (s *programService) Preview(_ context.Context, schedule domain.Schedule, candidate domain.Activity, replaceIndex int) (domain.Schedule, error) {
	if err := schedule.Validate(); err != nil {
		return nil, fmt.Errorf("%w: schedule is not a valid program: %s", domain.ErrInvalidInput, err.Error())
	}
	return domain.TryAdmit(schedule, candidate, replaceIndex)
}

func (s *programService) getEvent(ctx context.Context, eventID string) (*domain.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return event, nil
}

func (s *programService) ownedEvent(ctx context.Context, eventID, ownerID string) (*domain.Event, error) {
	event, err := s.getEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event.OwnerID != ownerID {
		return nil, domain.ErrForbidden
	}
	return event, nil
}

// eventDay parses day and checks that it falls within the event's dates.
func eventDay(event *domain.Event, day string) (string, error) {
	t, err := domain.ParseDay(day)
	if err != nil {
		return "", err
	}
	if !event.CoversDay(t) {
		return "", fmt.Errorf("%w: %s is outside the event dates", domain.ErrInvalidInput, t.Format(domain.DayLayout))
	}
	return t.Format(domain.DayLayout), nil
}

func (s *programService) GetDayProgram(ctx context.Context, eventID, day string) (*domain.DayProgram, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	t, err := domain.ParseDay(day)
	if err != nil {
		return nil, err
	}
	if _, err := s.getEvent(ctx, eventID); err != nil {
		return nil, err
	}
	program, err := s.programRepo.GetDay(ctx, eventID, t.Format(domain.DayLayout))
	if err != nil {
		return nil, fmt.Errorf("get day program: %w", err)
	}
	return program, nil
}

func (s *programService) ListPrograms(ctx context.Context, eventID string) ([]*domain.DayProgram, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.getEvent(ctx, eventID); err != nil {
		return nil, err
	}
	programs, err := s.programRepo.ListByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list programs: %w", err)
	}
	if programs == nil {
		programs = []*domain.DayProgram{}
	}
	return programs, nil
}

// AdmitActivity adds candidate to the stored day program, or replaces the slot at replaceIndex.
// A *domain.Rejection is returned as is and nothing is written.
func (s *programService) AdmitActivity(ctx context.Context, eventID, ownerID, day string, candidate domain.Activity, replaceIndex int) (*domain.DayProgram, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.ownedEvent(ctx, eventID, ownerID)
	if err != nil {
		return nil, err
	}
	day, err = eventDay(event, day)
	if err != nil {
		return nil, err
	}
	program, err := s.programRepo.GetDay(ctx, eventID, day)
	if err != nil {
		return nil, fmt.Errorf("get day program: %w", err)
	}
	next, err := domain.TryAdmit(program.Activities, candidate, replaceIndex)
	if err != nil {
		return nil, err
	}
	return s.save(ctx, eventID, day, next)
}

func (s *programService) RemoveActivity(ctx context.Context, eventID, ownerID, day string, index int) (*domain.DayProgram, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.ownedEvent(ctx, eventID, ownerID)
	if err != nil {
		return nil, err
	}
	day, err = eventDay(event, day)
	if err != nil {
		return nil, err
	}
	program, err := s.programRepo.GetDay(ctx, eventID, day)
	if err != nil {
		return nil, fmt.Errorf("get day program: %w", err)
	}
	next, err := program.Activities.Remove(index)
	if err != nil {
		return nil, err
	}
	return s.save(ctx, eventID, day, next)
}

// ReplaceDayProgram validates activities as a whole and overwrites the stored day.
func (s *programService) ReplaceDayProgram(ctx context.Context, eventID, ownerID, day string, activities []domain.Activity) (*domain.DayProgram, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.ownedEvent(ctx, eventID, ownerID)
	if err != nil {
		return nil, err
	}
	day, err = eventDay(event, day)
	if err != nil {
		return nil, err
	}
	schedule, err := domain.BuildSchedule(activities)
	if err != nil {
		return nil, err
	}
	return s.save(ctx, eventID, day, schedule)
}

func (s *programService) DeleteDayProgram(ctx context.Context, eventID, ownerID, day string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.ownedEvent(ctx, eventID, ownerID); err != nil {
		return err
	}
	t, err := domain.ParseDay(day)
	if err != nil {
		return err
	}
	if err := s.programRepo.DeleteDay(ctx, eventID, t.Format(domain.DayLayout)); err != nil {
		return fmt.Errorf("delete day program: %w", err)
	}
	return nil
}

func (s *programService) save(ctx context.Context, eventID, day string, schedule domain.Schedule) (*domain.DayProgram, error) {
	program := &domain.DayProgram{
		EventID:    eventID,
		Day:        day,
		Activities: schedule,
		UpdatedAt:  s.now(),
	}
	if err := s.programRepo.ReplaceDay(ctx, program); err != nil {
		return nil, fmt.Errorf("save day program: %w", err)
	}
	return program, nil
}

// ImportSessionize replaces the programs of every day that has sessions in the Sessionize feed.
// All days are validated before the first write. Days without feed sessions are left as they are.
func (s *programService) ImportSessionize(ctx context.Context, eventID, ownerID, sessionizeID string) ([]*domain.DayProgram, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.ownedEvent(ctx, eventID, ownerID)
	if err != nil {
		return nil, err
	}
	feed, err := s.feed.Fetch(ctx, sessionizeID)
	if err != nil {
		return nil, fmt.Errorf("fetch sessionize feed: %w", err)
	}

	byDay, err := groupFeedByDay(feed)
	if err != nil {
		return nil, err
	}
	days := make([]string, 0, len(byDay))
	for day := range byDay {
		days = append(days, day)
	}
	slices.Sort(days)

	schedules := make(map[string]domain.Schedule, len(days))
	for _, day := range days {
		if _, err := eventDay(event, day); err != nil {
			return nil, err
		}
		schedule, err := domain.BuildSchedule(byDay[day])
		if err != nil {
			return nil, fmt.Errorf("day %s: %w", day, err)
		}
		schedules[day] = schedule
	}

	programs := make([]*domain.DayProgram, 0, len(days))
	for _, day := range days {
		program, err := s.save(ctx, eventID, day, schedules[day])
		if err != nil {
			return nil, err
		}
		programs = append(programs, program)
	}
	s.logger.InfoContext(ctx, "sessionize program imported",
		"event_id", eventID, "sessionize_id", sessionizeID, "days", len(programs), "sessions", len(feed.Sessions))
	return programs, nil
}

// groupFeedByDay turns scheduled feed sessions into activities keyed by YYYY-MM-DD.
// Sessions without a start time are not on the grid yet and are skipped.
func groupFeedByDay(feed domain.ProgramFeedResponse) (map[string][]domain.Activity, error) {
	speakers := make(map[string]string, len(feed.Speakers))
	for _, sp := range feed.Speakers {
		name := strings.TrimSpace(sp.FullName)
		if name == "" {
			name = strings.TrimSpace(sp.FirstName + " " + sp.LastName)
		}
		speakers[sp.ID] = name
	}

	byDay := make(map[string][]domain.Activity)
	for _, sess := range feed.Sessions {
		if sess.StartsAt == "" {
			continue
		}
		start, err := time.Parse(domain.FeedTimeLayout, sess.StartsAt)
		if err != nil {
			return nil, fmt.Errorf("%w: session %q has bad startsAt %q", domain.ErrInvalidInput, sess.Title, sess.StartsAt)
		}
		end, err := time.Parse(domain.FeedTimeLayout, sess.EndsAt)
		if err != nil {
			return nil, fmt.Errorf("%w: session %q has bad endsAt %q", domain.ErrInvalidInput, sess.Title, sess.EndsAt)
		}
		day := start.Format(domain.DayLayout)
		if end.Format(domain.DayLayout) != day {
			return nil, fmt.Errorf("%w: session %q crosses midnight", domain.ErrInvalidInput, sess.Title)
		}
		var names []string
		for _, id := range sess.Speakers {
			if n := speakers[id]; n != "" {
				names = append(names, n)
			}
		}
		byDay[day] = append(byDay[day], domain.Activity{
			Start:     start.Format("15:04"),
			End:       end.Format("15:04"),
			Label:     sess.Title,
			Presenter: strings.Join(names, ", "),
		})
	}
	return byDay, nil
}

func (s *programService) ExportCalendar(ctx context.Context, eventID string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.getEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	programs, err := s.programRepo.ListByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list programs: %w", err)
	}
	out, err := s.encoder.Encode(event, programs)
	if err != nil {
		return nil, fmt.Errorf("encode calendar: %w", err)
	}
	return out, nil
}
