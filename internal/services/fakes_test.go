package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"
	"time"

	"churchevents/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func ptr[T any](v T) *T { return &v }

func mustDay(s string) *time.Time {
	t, err := time.Parse(domain.DayLayout, s)
	if err != nil {
		panic(err)
	}
	return &t
}

// fakeEventRepo is an in-memory EventRepository for tests.
type fakeEventRepo struct {
	byID       map[string]*domain.Event
	nextID     int
	err        error // if set, Create returns this error
	collisions int   // Create reports this many code collisions before inserting
	creates    int
}

func newFakeEventRepo(events ...*domain.Event) *fakeEventRepo {
	f := &fakeEventRepo{byID: make(map[string]*domain.Event), nextID: 1}
	for _, e := range events {
		f.byID[e.ID] = e
	}
	return f
}

func (f *fakeEventRepo) Create(_ context.Context, e *domain.Event) error {
	f.creates++
	if f.err != nil {
		return f.err
	}
	if f.collisions > 0 {
		f.collisions--
		return domain.ErrDuplicateEventCode
	}
	for _, other := range f.byID {
		if other.EventCode != "" && other.EventCode == e.EventCode {
			return domain.ErrDuplicateEventCode
		}
	}
	e.ID = fmt.Sprintf("ev-%d", f.nextID)
	f.nextID++
	f.byID[e.ID] = e
	return nil
}

func (f *fakeEventRepo) GetByID(_ context.Context, id string) (*domain.Event, error) {
	if e, ok := f.byID[id]; ok {
		return e, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeEventRepo) GetByEventCode(_ context.Context, eventCode string) (*domain.Event, error) {
	code := strings.ToLower(strings.TrimSpace(eventCode))
	for _, e := range f.byID {
		if e.EventCode == code {
			return e, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeEventRepo) ListByOwnerID(_ context.Context, ownerID string) ([]*domain.Event, error) {
	var out []*domain.Event
	for _, e := range f.byID {
		if e.OwnerID == ownerID {
			out = append(out, e)
		}
	}
	slices.SortFunc(out, func(a, b *domain.Event) int { return b.CreatedAt.Compare(a.CreatedAt) })
	return out, nil
}

func (f *fakeEventRepo) ListStartingOn(_ context.Context, d time.Time) ([]*domain.Event, error) {
	var out []*domain.Event
	for _, e := range f.byID {
		if e.StartsOn != nil && e.StartsOn.Format(domain.DayLayout) == d.Format(domain.DayLayout) {
			out = append(out, e)
		}
	}
	slices.SortFunc(out, func(a, b *domain.Event) int { return strings.Compare(a.Name, b.Name) })
	return out, nil
}

func (f *fakeEventRepo) Update(_ context.Context, eventID string, upd domain.EventUpdate) (*domain.Event, error) {
	e, ok := f.byID[eventID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if upd.Name != nil {
		e.Name = *upd.Name
	}
	if upd.StartsOn != nil {
		e.StartsOn = upd.StartsOn
	}
	if upd.EndsOn != nil {
		e.EndsOn = upd.EndsOn
	}
	if upd.Description != nil {
		e.Description = upd.Description
	}
	if upd.Venue != nil {
		e.Venue = upd.Venue
	}
	if upd.LocationLat != nil {
		e.LocationLat = upd.LocationLat
	}
	if upd.LocationLng != nil {
		e.LocationLng = upd.LocationLng
	}
	return e, nil
}

func (f *fakeEventRepo) Delete(_ context.Context, id string) error {
	if _, ok := f.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

// fakeProgramRepo stores day programs keyed by event and day.
type fakeProgramRepo struct {
	days     map[string]domain.Schedule
	writes   int
	writeErr error
}

func newFakeProgramRepo() *fakeProgramRepo {
	return &fakeProgramRepo{days: make(map[string]domain.Schedule)}
}

func programKey(eventID, d string) string { return eventID + "/" + d }

func (f *fakeProgramRepo) GetDay(_ context.Context, eventID, d string) (*domain.DayProgram, error) {
	s := slices.Clone(f.days[programKey(eventID, d)])
	if s == nil {
		s = domain.Schedule{}
	}
	return &domain.DayProgram{EventID: eventID, Day: d, Activities: s}, nil
}

func (f *fakeProgramRepo) ListByEventID(_ context.Context, eventID string) ([]*domain.DayProgram, error) {
	var keys []string
	for k := range f.days {
		if strings.HasPrefix(k, eventID+"/") {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)
	out := make([]*domain.DayProgram, 0, len(keys))
	for _, k := range keys {
		out = append(out, &domain.DayProgram{EventID: eventID, Day: strings.TrimPrefix(k, eventID+"/"), Activities: f.days[k]})
	}
	return out, nil
}

func (f *fakeProgramRepo) ReplaceDay(_ context.Context, p *domain.DayProgram) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	f.writes++
	f.days[programKey(p.EventID, p.Day)] = slices.Clone(p.Activities)
	return nil
}

func (f *fakeProgramRepo) DeleteDay(_ context.Context, eventID, d string) error {
	delete(f.days, programKey(eventID, d))
	return nil
}

// fakeRegistrationRepo is an in-memory EventRegistrationRepository.
type fakeRegistrationRepo struct {
	regs   []*domain.EventRegistration
	nextID int
	// racer, when set, is stored by the next Create in place of its argument, as if another request won the insert.
	racer   *domain.EventRegistration
	listErr map[string]error // ListByEventID errors by event ID
}

func (f *fakeRegistrationRepo) Create(_ context.Context, reg *domain.EventRegistration) error {
	if f.racer != nil {
		f.regs = append(f.regs, f.racer)
		f.racer = nil
		return domain.ErrDuplicateRegistration
	}
	f.nextID++
	reg.ID = fmt.Sprintf("reg-%d", f.nextID)
	f.regs = append(f.regs, reg)
	return nil
}

func (f *fakeRegistrationRepo) GetByEventAndUser(_ context.Context, eventID, userID string) (*domain.EventRegistration, error) {
	for _, r := range f.regs {
		if r.EventID == eventID && r.UserID == userID {
			return r, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeRegistrationRepo) GetByTicketCode(_ context.Context, eventID, code string) (*domain.EventRegistration, error) {
	for _, r := range f.regs {
		if r.EventID == eventID && r.TicketCode == code {
			cp := *r
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeRegistrationRepo) ListByUserID(_ context.Context, userID string) ([]*domain.EventRegistration, error) {
	out := []*domain.EventRegistration{}
	for _, r := range f.regs {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRegistrationRepo) ListByEventID(_ context.Context, eventID string) ([]*domain.EventRegistration, error) {
	if err := f.listErr[eventID]; err != nil {
		return nil, err
	}
	out := []*domain.EventRegistration{}
	for _, r := range f.regs {
		if r.EventID == eventID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRegistrationRepo) ListAttendees(_ context.Context, eventID string, page domain.PaginationParams) ([]*domain.Attendee, int, error) {
	var all []*domain.Attendee
	for _, r := range f.regs {
		if r.EventID == eventID {
			all = append(all, &domain.Attendee{Registration: r})
		}
	}
	start := min(page.Offset(), len(all))
	end := min(start+page.Limit(), len(all))
	return all[start:end], len(all), nil
}

func (f *fakeRegistrationRepo) MarkCheckedIn(_ context.Context, id, scannerID string, at time.Time) (bool, error) {
	for _, r := range f.regs {
		if r.ID == id {
			if r.CheckedInAt != nil {
				return false, nil
			}
			r.CheckedInAt = &at
			r.CheckedInBy = &scannerID
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRegistrationRepo) CountByEventID(_ context.Context, eventID string) (int, int, error) {
	registered, checkedIn := 0, 0
	for _, r := range f.regs {
		if r.EventID != eventID {
			continue
		}
		registered++
		if r.CheckedInAt != nil {
			checkedIn++
		}
	}
	return registered, checkedIn, nil
}

// fakeUserRepo is an in-memory UserRepository. Role assignments are shared with fakeRoleRepo.
type fakeUserRepo struct {
	byID      map[string]*domain.User
	userRoles map[string][]string // user id -> role ids
	nextID    int
	getErr    error
}

func newFakeUserRepo(users ...*domain.User) *fakeUserRepo {
	f := &fakeUserRepo{byID: make(map[string]*domain.User), userRoles: make(map[string][]string)}
	for _, u := range users {
		f.byID[u.ID] = u
	}
	return f
}

func (f *fakeUserRepo) Create(_ context.Context, u *domain.User) error {
	for _, existing := range f.byID {
		if existing.Email == u.Email {
			return domain.ErrDuplicateEmail
		}
	}
	f.nextID++
	u.ID = fmt.Sprintf("user-%d", f.nextID)
	f.byID[u.ID] = u
	return nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range f.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if u, ok := f.byID[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, domain.ErrUserNotFound
}

func (f *fakeUserRepo) Update(_ context.Context, u *domain.User) error {
	for id, existing := range f.byID {
		if id != u.ID && existing.Email == u.Email {
			return domain.ErrDuplicateEmail
		}
	}
	if _, ok := f.byID[u.ID]; !ok {
		return domain.ErrUserNotFound
	}
	cp := *u
	f.byID[u.ID] = &cp
	return nil
}

func (f *fakeUserRepo) List(_ context.Context, page domain.PaginationParams) ([]*domain.User, int, error) {
	var all []*domain.User
	for _, u := range f.byID {
		all = append(all, u)
	}
	slices.SortFunc(all, func(a, b *domain.User) int { return strings.Compare(a.Email, b.Email) })
	start := min(page.Offset(), len(all))
	end := min(start+page.Limit(), len(all))
	return all[start:end], len(all), nil
}

func (f *fakeUserRepo) AssignRole(_ context.Context, userID, roleID string) error {
	if !slices.Contains(f.userRoles[userID], roleID) {
		f.userRoles[userID] = append(f.userRoles[userID], roleID)
	}
	return nil
}

// fakeRoleRepo resolves the three built-in roles; role id equals "role-" + code.
type fakeRoleRepo struct {
	users *fakeUserRepo
}

func (f *fakeRoleRepo) GetByCode(_ context.Context, code string) (*domain.Role, error) {
	if !domain.IsValidRoleCode(code) {
		return nil, domain.ErrNotFound
	}
	return domain.NewRole("role-"+code, code), nil
}

func (f *fakeRoleRepo) CodesByUserID(_ context.Context, userID string) ([]string, error) {
	out := []string{}
	for _, id := range f.users.userRoles[userID] {
		out = append(out, strings.TrimPrefix(id, "role-"))
	}
	slices.Sort(out)
	return out, nil
}

// fakeEmailService records what would have been sent.
type fakeEmailService struct {
	welcome      []*domain.WelcomeMessageEmailData
	registration []*domain.RegistrationEmailData
	reminders    []*domain.ReminderEmailData
	err          error
	failFor      string
}

func (f *fakeEmailService) fail(to string) error {
	if f.err != nil {
		return f.err
	}
	if f.failFor != "" && f.failFor == to {
		return fmt.Errorf("mailbox unavailable")
	}
	return nil
}

func (f *fakeEmailService) SendWelcomeMessage(_ context.Context, d *domain.WelcomeMessageEmailData) error {
	if err := f.fail(d.Email); err != nil {
		return err
	}
	f.welcome = append(f.welcome, d)
	return nil
}

func (f *fakeEmailService) SendRegistrationConfirmation(_ context.Context, d *domain.RegistrationEmailData) error {
	if err := f.fail(d.Email); err != nil {
		return err
	}
	f.registration = append(f.registration, d)
	return nil
}

func (f *fakeEmailService) SendEventReminder(_ context.Context, d *domain.ReminderEmailData) error {
	if err := f.fail(d.Email); err != nil {
		return err
	}
	f.reminders = append(f.reminders, d)
	return nil
}
