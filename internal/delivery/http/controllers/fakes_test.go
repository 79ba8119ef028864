package controllers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"churchevents/internal/delivery/http/helpers"
	"churchevents/internal/delivery/http/middleware"
	"churchevents/internal/domain"

	"github.com/stretchr/testify/require"
)

// testLogger is a no-op logger for controller tests so we don't assert on log output.
var testLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

const (
	testEventID = "6f1c2d3e-4a5b-4c6d-8e9f-0a1b2c3d4e5f"
	testUserID  = "0b6c7a52-1f2e-4d3c-9a8b-7c6d5e4f3a2b"
)

// newRequest builds a request with optional JSON body, path values and an authenticated user.
func newRequest(method, target, body string, userID string, pathValues map[string]string) *http.Request {
	var rdr io.Reader
	if body != "" {
		rdr = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, "http://test"+target, rdr)
	for k, v := range pathValues {
		req.SetPathValue(k, v)
	}
	if userID != "" {
		req = req.WithContext(middleware.SetClaims(req.Context(), &domain.TokenClaims{UserID: userID}))
	}
	return req
}

// decodeEnvelope decodes an APIResponse, decoding data into dest when dest is not nil.
func decodeEnvelope(t *testing.T, rr *httptest.ResponseRecorder, dest any) *helpers.APIError {
	t.Helper()
	var raw struct {
		Data  json.RawMessage   `json:"data"`
		Error *helpers.APIError `json:"error"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&raw))
	if dest != nil && len(raw.Data) > 0 && string(raw.Data) != "null" {
		require.NoError(t, json.Unmarshal(raw.Data, dest))
	}
	return raw.Error
}

// fakeEventService implements domain.EventService for handler tests.
type fakeEventService struct {
	err          error
	details      *domain.EventDetails
	events       []*domain.Event
	updated      *domain.Event
	lastCreate   *domain.Event
	lastEventID  string
	lastOwnerID  string
	lastUpdate   domain.EventUpdate
	createAssign string // ID assigned on create
}

func (f *fakeEventService) CreateEvent(_ context.Context, event *domain.Event) error {
	f.lastCreate = event
	if f.err != nil {
		return f.err
	}
	event.ID = f.createAssign
	if event.EventCode == "" {
		event.EventCode = "abc234"
	}
	return nil
}

func (f *fakeEventService) GetEventByID(_ context.Context, eventID string) (*domain.EventDetails, error) {
	f.lastEventID = eventID
	return f.details, f.err
}

func (f *fakeEventService) ListEventsByOwner(_ context.Context, ownerID string) ([]*domain.Event, error) {
	f.lastOwnerID = ownerID
	return f.events, f.err
}

func (f *fakeEventService) UpdateEvent(_ context.Context, eventID, ownerID string, upd domain.EventUpdate) (*domain.Event, error) {
	f.lastEventID, f.lastOwnerID, f.lastUpdate = eventID, ownerID, upd
	return f.updated, f.err
}

func (f *fakeEventService) DeleteEvent(_ context.Context, eventID, ownerID string) error {
	f.lastEventID, f.lastOwnerID = eventID, ownerID
	return f.err
}

// fakeProgramService implements domain.ProgramService. It runs the real admission rules for Preview and AdmitActivity.
type fakeProgramService struct {
	err          error
	program      *domain.DayProgram
	programs     []*domain.DayProgram
	calendar     []byte
	lastEventID  string
	lastOwnerID  string
	lastDay      string
	lastIndex    int
	lastReplace  int
	lastFeedID   string
	lastActivity domain.Activity
	lastList     []domain.Activity
}

func (f *fakeProgramService) Preview(_ context.Context, schedule domain.Schedule, candidate domain.Activity, replaceIndex int) (domain.Schedule, error) {
	f.lastReplace = replaceIndex
	if err := schedule.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidInput, err.Error())
	}
	return domain.TryAdmit(schedule, candidate, replaceIndex)
}

func (f *fakeProgramService) GetDayProgram(_ context.Context, eventID, day string) (*domain.DayProgram, error) {
	f.lastEventID, f.lastDay = eventID, day
	return f.program, f.err
}

func (f *fakeProgramService) ListPrograms(_ context.Context, eventID string) ([]*domain.DayProgram, error) {
	f.lastEventID = eventID
	return f.programs, f.err
}

func (f *fakeProgramService) AdmitActivity(_ context.Context, eventID, ownerID, day string, candidate domain.Activity, replaceIndex int) (*domain.DayProgram, error) {
	f.lastEventID, f.lastOwnerID, f.lastDay, f.lastActivity, f.lastReplace = eventID, ownerID, day, candidate, replaceIndex
	if f.err != nil {
		return nil, f.err
	}
	current := domain.Schedule{}
	if f.program != nil {
		current = f.program.Activities
	}
	next, err := domain.TryAdmit(current, candidate, replaceIndex)
	if err != nil {
		return nil, err
	}
	return &domain.DayProgram{EventID: eventID, Day: day, Activities: next}, nil
}

func (f *fakeProgramService) RemoveActivity(_ context.Context, eventID, ownerID, day string, index int) (*domain.DayProgram, error) {
	f.lastEventID, f.lastOwnerID, f.lastDay, f.lastIndex = eventID, ownerID, day, index
	return f.program, f.err
}

func (f *fakeProgramService) ReplaceDayProgram(_ context.Context, eventID, ownerID, day string, activities []domain.Activity) (*domain.DayProgram, error) {
	f.lastEventID, f.lastOwnerID, f.lastDay, f.lastList = eventID, ownerID, day, activities
	if f.err != nil {
		return nil, f.err
	}
	s, err := domain.BuildSchedule(activities)
	if err != nil {
		return nil, err
	}
	return &domain.DayProgram{EventID: eventID, Day: day, Activities: s}, nil
}

func (f *fakeProgramService) DeleteDayProgram(_ context.Context, eventID, ownerID, day string) error {
	f.lastEventID, f.lastOwnerID, f.lastDay = eventID, ownerID, day
	return f.err
}

func (f *fakeProgramService) ImportSessionize(_ context.Context, eventID, ownerID, sessionizeID string) ([]*domain.DayProgram, error) {
	f.lastEventID, f.lastOwnerID, f.lastFeedID = eventID, ownerID, sessionizeID
	return f.programs, f.err
}

func (f *fakeProgramService) ExportCalendar(_ context.Context, eventID string) ([]byte, error) {
	f.lastEventID = eventID
	return f.calendar, f.err
}

// fakeAttendeeService implements domain.AttendeeService for handler tests.
type fakeAttendeeService struct {
	err           error
	reg           *domain.EventRegistration
	created       bool
	registrations []*domain.EventRegistrationWithEvent
	attendees     []*domain.Attendee
	total         int
	summary       *domain.AttendanceSummary
	lastEventID   string
	lastEventCode string
	lastUserID    string
	lastTicket    string
	lastPage      domain.PaginationParams
}

func (f *fakeAttendeeService) RegisterForEvent(_ context.Context, eventID, userID string) (*domain.EventRegistration, bool, error) {
	f.lastEventID, f.lastUserID = eventID, userID
	return f.reg, f.created, f.err
}

func (f *fakeAttendeeService) RegisterForEventByCode(_ context.Context, eventCode, userID string) (*domain.EventRegistration, bool, error) {
	f.lastEventCode, f.lastUserID = eventCode, userID
	return f.reg, f.created, f.err
}

func (f *fakeAttendeeService) ListMyRegisteredEvents(_ context.Context, userID string) ([]*domain.EventRegistrationWithEvent, error) {
	f.lastUserID = userID
	return f.registrations, f.err
}

func (f *fakeAttendeeService) CheckIn(_ context.Context, eventID, scannerID, ticketCode string) (*domain.EventRegistration, error) {
	f.lastEventID, f.lastUserID, f.lastTicket = eventID, scannerID, ticketCode
	return f.reg, f.err
}

func (f *fakeAttendeeService) ListAttendees(_ context.Context, eventID, ownerID string, page domain.PaginationParams) ([]*domain.Attendee, int, error) {
	f.lastEventID, f.lastUserID, f.lastPage = eventID, ownerID, page
	return f.attendees, f.total, f.err
}

func (f *fakeAttendeeService) AttendanceSummary(_ context.Context, eventID, ownerID string) (*domain.AttendanceSummary, error) {
	f.lastEventID, f.lastUserID = eventID, ownerID
	return f.summary, f.err
}

// fakeUserService implements domain.UserService for handler tests.
type fakeUserService struct {
	err          error
	token        string
	user         *domain.User
	users        []*domain.User
	total        int
	lastEmail    string
	lastPassword string
	lastUpdate   *domain.User
	lastInput    domain.NewUserInput
	lastUserID   string
	lastRole     string
	lastPage     domain.PaginationParams
}

func (f *fakeUserService) SignIn(_ context.Context, email, password string) (string, *domain.User, error) {
	f.lastEmail, f.lastPassword = email, password
	if f.err != nil {
		return "", nil, f.err
	}
	return f.token, f.user, nil
}

func (f *fakeUserService) CreateUser(_ context.Context, in domain.NewUserInput) (*domain.User, error) {
	f.lastInput = in
	if f.err != nil {
		return nil, f.err
	}
	return f.user, nil
}

func (f *fakeUserService) GetByID(_ context.Context, id string) (*domain.User, error) {
	f.lastUserID = id
	if f.err != nil {
		return nil, f.err
	}
	return f.user, nil
}

func (f *fakeUserService) Update(_ context.Context, user *domain.User) error {
	f.lastUpdate = &domain.User{ID: user.ID, Name: user.Name, LastName: user.LastName, Email: user.Email}
	if f.err != nil {
		return f.err
	}
	if f.user != nil {
		*user = *f.user
	}
	return nil
}

func (f *fakeUserService) ListUsers(_ context.Context, page domain.PaginationParams) ([]*domain.User, int, error) {
	f.lastPage = page
	return f.users, f.total, f.err
}

func (f *fakeUserService) AssignRole(_ context.Context, userID, roleCode string) error {
	f.lastUserID, f.lastRole = userID, roleCode
	return f.err
}
