package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"churchevents/internal/delivery/http/helpers"
	"churchevents/internal/domain"
)

type AttendeeController struct {
	Logger  *slog.Logger
	Service domain.AttendeeService
}

func NewAttendeeController(logger *slog.Logger, svc domain.AttendeeService) *AttendeeController {
	return &AttendeeController{
		Logger:  logger,
		Service: svc,
	}
}

// RegisterForEventSuccessResponse is the success response envelope for POST /events/{eventID}/register and POST /events/register-by-code (200 or 201).
type RegisterForEventSuccessResponse struct {
	Data  *domain.EventRegistration `json:"data"`
	Error *helpers.APIError         `json:"error"`
}

// RegisterForEvent godoc
// @Summary Register the current user for an event
// @Description Idempotent: returns 201 when a new registration is created, 200 when already registered. The registration carries the QR ticket code.
// @Tags attendee
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} controllers.RegisterForEventSuccessResponse "Already registered"
// @Success 201 {object} controllers.RegisterForEventSuccessResponse "New registration created"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/register [post]
func (c *AttendeeController) RegisterForEvent(w http.ResponseWriter, r *http.Request) {
	eventID, ok := pathUUID(w, r, "eventID")
	if !ok {
		return
	}
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	reg, created, err := c.Service.RegisterForEvent(r.Context(), eventID, userID)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	if created {
		helpers.WriteJSONSuccess(w, http.StatusCreated, reg)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, reg)
}

// RegisterForEventByCodeRequest is the request body for POST /events/register-by-code.
type RegisterForEventByCodeRequest struct {
	EventCode string `json:"event_code"`
}

// Validate implements helpers.Validator.
func (r *RegisterForEventByCodeRequest) Validate() []string {
	code := strings.ToLower(strings.TrimSpace(r.EventCode))
	if code == "" {
		return []string{"event_code is required"}
	}
	for _, c := range code {
		if (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') {
			continue
		}
		return []string{"event_code must contain only letters and digits"}
	}
	r.EventCode = code
	return nil
}

// RegisterForEventByCode godoc
// @Summary Register for an event by event code
// @Description Registers the authenticated user for the event with the given event_code. Idempotent like RegisterForEvent.
// @Tags attendee
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body controllers.RegisterForEventByCodeRequest true "Event code"
// @Success 200 {object} controllers.RegisterForEventSuccessResponse "Already registered"
// @Success 201 {object} controllers.RegisterForEventSuccessResponse "New registration created"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/register-by-code [post]
func (c *AttendeeController) RegisterForEventByCode(w http.ResponseWriter, r *http.Request) {
	var req RegisterForEventByCodeRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	reg, created, err := c.Service.RegisterForEventByCode(r.Context(), req.EventCode, userID)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	if created {
		helpers.WriteJSONSuccess(w, http.StatusCreated, reg)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, reg)
}

// ListMyRegisteredEventsSuccessResponse is the success response envelope for GET /attendee/events (200).
type ListMyRegisteredEventsSuccessResponse struct {
	Data  []*domain.EventRegistrationWithEvent `json:"data"`
	Error *helpers.APIError                    `json:"error"`
}

// ListMyRegisteredEvents godoc
// @Summary List my registrations
// @Description Returns the events the authenticated user registered for, each with its registration.
// @Tags attendee
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.ListMyRegisteredEventsSuccessResponse "data contains registrations with events"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /attendee/events [get]
func (c *AttendeeController) ListMyRegisteredEvents(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	list, err := c.Service.ListMyRegisteredEvents(r.Context(), userID)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, list)
}

// CheckInRequest is the request body for POST /events/{eventID}/check-in. TicketCode is the scanned QR payload.
type CheckInRequest struct {
	TicketCode string `json:"ticket_code"`
}

// Validate implements helpers.Validator.
func (r CheckInRequest) Validate() []string {
	if strings.TrimSpace(r.TicketCode) == "" {
		return []string{"ticket_code is required"}
	}
	return nil
}

// CheckInResponse is the data payload for POST /events/{eventID}/check-in.
// AlreadyCheckedIn is true when the ticket had been scanned before; the registration keeps the first scan.
type CheckInResponse struct {
	Registration     *domain.EventRegistration `json:"registration"`
	AlreadyCheckedIn bool                      `json:"already_checked_in"`
}

// CheckInSuccessResponse is the success response envelope for POST /events/{eventID}/check-in (200).
type CheckInSuccessResponse struct {
	Data  CheckInResponse   `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// CheckIn godoc
// @Summary Check in a ticket
// @Description Marks the registration behind the scanned ticket code as attended. Allowed for the event owner and staff or admin accounts.
// @Tags attendee
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param body body controllers.CheckInRequest true "Scanned ticket"
// @Success 200 {object} controllers.CheckInSuccessResponse "data contains the registration and whether it was already checked in"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found (unknown ticket)"
// @Router /events/{eventID}/check-in [post]
func (c *AttendeeController) CheckIn(w http.ResponseWriter, r *http.Request) {
	eventID, ok := pathUUID(w, r, "eventID")
	if !ok {
		return
	}
	var req CheckInRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	scannerID, ok := requireUser(w, r)
	if !ok {
		return
	}
	reg, err := c.Service.CheckIn(r.Context(), eventID, scannerID, req.TicketCode)
	if err != nil && !errors.Is(err, domain.ErrAlreadyCheckedIn) {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "event or ticket not found")
			return
		}
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, CheckInResponse{
		Registration:     reg,
		AlreadyCheckedIn: errors.Is(err, domain.ErrAlreadyCheckedIn),
	})
}

// ListAttendeesResponse is the data payload for GET /events/{eventID}/attendees.
type ListAttendeesResponse struct {
	Attendees  []*domain.Attendee     `json:"attendees"`
	Pagination helpers.PaginationMeta `json:"pagination"`
}

// ListAttendeesSuccessResponse is the success response envelope for GET /events/{eventID}/attendees (200).
type ListAttendeesSuccessResponse struct {
	Data  ListAttendeesResponse `json:"data"`
	Error *helpers.APIError     `json:"error"`
}

// ListAttendees godoc
// @Summary List an event's attendees
// @Description Paginated attendee table with check-in state. Owner only.
// @Tags attendee
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param page query int false "Page (default 1)"
// @Param page_size query int false "Page size (default 20, max 100)"
// @Success 200 {object} controllers.ListAttendeesSuccessResponse "data contains attendees and pagination"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (not owner)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /events/{eventID}/attendees [get]
func (c *AttendeeController) ListAttendees(w http.ResponseWriter, r *http.Request) {
	eventID, ok := pathUUID(w, r, "eventID")
	if !ok {
		return
	}
	ownerID, ok := requireUser(w, r)
	if !ok {
		return
	}
	page, err := helpers.ParsePagination(r)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	attendees, total, err := c.Service.ListAttendees(r.Context(), eventID, ownerID, page)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, ListAttendeesResponse{
		Attendees:  attendees,
		Pagination: helpers.NewPaginationMeta(page, total),
	})
}

// DashboardSuccessResponse is the success response envelope for GET /events/{eventID}/dashboard (200).
type DashboardSuccessResponse struct {
	Data  *domain.AttendanceSummary `json:"data"`
	Error *helpers.APIError         `json:"error"`
}

// Dashboard godoc
// @Summary Attendance dashboard
// @Description Registered and checked-in counts for the event. Owner only.
// @Tags attendee
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} controllers.DashboardSuccessResponse "data contains the counts"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (not owner)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /events/{eventID}/dashboard [get]
func (c *AttendeeController) Dashboard(w http.ResponseWriter, r *http.Request) {
	eventID, ok := pathUUID(w, r, "eventID")
	if !ok {
		return
	}
	ownerID, ok := requireUser(w, r)
	if !ok {
		return
	}
	summary, err := c.Service.AttendanceSummary(r.Context(), eventID, ownerID)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, summary)
}
