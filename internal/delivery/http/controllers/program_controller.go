package controllers

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"churchevents/internal/delivery/http/helpers"
	"churchevents/internal/domain"
)

// ActivityRequest is one activity in a request body. Times are HH:MM.
type ActivityRequest struct {
	Start     string `json:"start"`
	End       string `json:"end"`
	Label     string `json:"label"`
	Presenter string `json:"presenter"`
}

func (a ActivityRequest) activity() domain.Activity {
	return domain.Activity{Start: a.Start, End: a.End, Label: a.Label, Presenter: a.Presenter}
}

// ValidateActivityRequest is the request body for POST /programs/validate.
// It checks a candidate against a schedule held by the client without storing anything.
type ValidateActivityRequest struct {
	Schedule     []ActivityRequest `json:"schedule"`
	Candidate    ActivityRequest   `json:"candidate"`
	ReplaceIndex *int              `json:"replace_index"`
}

// AdmitActivityRequest is the request body for POST /events/{eventID}/programs/{day}/activities.
// With replace_index set the activity edits that slot instead of being appended.
type AdmitActivityRequest struct {
	ActivityRequest
	ReplaceIndex *int `json:"replace_index"`
}

// ReplaceDayProgramRequest is the request body for PUT /events/{eventID}/programs/{day}.
type ReplaceDayProgramRequest struct {
	Activities []ActivityRequest `json:"activities"`
}

func replaceIndex(p *int) int {
	if p == nil {
		return domain.NoReplace
	}
	return *p
}

func toActivities(in []ActivityRequest) []domain.Activity {
	out := make([]domain.Activity, 0, len(in))
	for _, a := range in {
		out = append(out, a.activity())
	}
	return out
}

// ScheduleSuccessResponse is the success response envelope for POST /programs/validate (200).
type ScheduleSuccessResponse struct {
	Data  domain.Schedule   `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// DayProgramSuccessResponse is the success response envelope for a single day program (200).
type DayProgramSuccessResponse struct {
	Data  *domain.DayProgram `json:"data"`
	Error *helpers.APIError  `json:"error"`
}

// ListProgramsSuccessResponse is the success response envelope for a list of day programs (200).
type ListProgramsSuccessResponse struct {
	Data  []*domain.DayProgram `json:"data"`
	Error *helpers.APIError    `json:"error"`
}

// ProgramController serves day programs: validation, editing, Sessionize import and calendar export.
type ProgramController struct {
	Logger  *slog.Logger
	Service domain.ProgramService
}

func NewProgramController(logger *slog.Logger, svc domain.ProgramService) *ProgramController {
	return &ProgramController{
		Logger:  logger,
		Service: svc,
	}
}

// ValidateActivity godoc
// @Summary Check an activity against a schedule
// @Description Runs the admission checks for candidate against schedule and returns the resulting sorted schedule. Nothing is stored.
// @Tags programs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body ValidateActivityRequest true "Schedule and candidate"
// @Success 200 {object} controllers.ScheduleSuccessResponse "data contains the schedule with the candidate admitted"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 422 {object} helpers.APIResponse "error.code: missing_fields, inverted_range or overlap_detected"
// @Router /programs/validate [post]
func (c *ProgramController) ValidateActivity(w http.ResponseWriter, r *http.Request) {
	var req ValidateActivityRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	schedule, err := c.Service.Preview(r.Context(), domain.Schedule(toActivities(req.Schedule)), req.Candidate.activity(), replaceIndex(req.ReplaceIndex))
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, schedule)
}

// ListPrograms godoc
// @Summary List an event's day programs
// @Description Returns every stored day program of the event, ordered by day.
// @Tags programs
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} controllers.ListProgramsSuccessResponse "data contains the day programs"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /events/{eventID}/programs [get]
func (c *ProgramController) ListPrograms(w http.ResponseWriter, r *http.Request) {
	eventID, ok := pathUUID(w, r, "eventID")
	if !ok {
		return
	}
	programs, err := c.Service.ListPrograms(r.Context(), eventID)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, programs)
}

// GetDayProgram godoc
// @Summary Get one day's program
// @Description Returns the program of a day. A day without activities is returned with an empty list.
// @Tags programs
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param day path string true "Day (YYYY-MM-DD)"
// @Success 200 {object} controllers.DayProgramSuccessResponse "data contains the day program"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /events/{eventID}/programs/{day} [get]
func (c *ProgramController) GetDayProgram(w http.ResponseWriter, r *http.Request) {
	eventID, ok := pathUUID(w, r, "eventID")
	if !ok {
		return
	}
	program, err := c.Service.GetDayProgram(r.Context(), eventID, r.PathValue("day"))
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, program)
}

// ReplaceDayProgram godoc
// @Summary Replace one day's program
// @Description Rebuilds the day from the given activities. The first rejected activity aborts the write. Owner only.
// @Tags programs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param day path string true "Day (YYYY-MM-DD)"
// @Param body body ReplaceDayProgramRequest true "Activities"
// @Success 200 {object} controllers.DayProgramSuccessResponse "data contains the stored day program"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (not owner)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 422 {object} helpers.APIResponse "error.code: missing_fields, inverted_range or overlap_detected"
// @Router /events/{eventID}/programs/{day} [put]
func (c *ProgramController) ReplaceDayProgram(w http.ResponseWriter, r *http.Request) {
	eventID, ok := pathUUID(w, r, "eventID")
	if !ok {
		return
	}
	var req ReplaceDayProgramRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	ownerID, ok := requireUser(w, r)
	if !ok {
		return
	}
	program, err := c.Service.ReplaceDayProgram(r.Context(), eventID, ownerID, r.PathValue("day"), toActivities(req.Activities))
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, program)
}

// DeleteDayProgram godoc
// @Summary Delete one day's program
// @Tags programs
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param day path string true "Day (YYYY-MM-DD)"
// @Success 200 {object} controllers.DeleteEventSuccessResponse "data contains status"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (not owner)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /events/{eventID}/programs/{day} [delete]
func (c *ProgramController) DeleteDayProgram(w http.ResponseWriter, r *http.Request) {
	eventID, ok := pathUUID(w, r, "eventID")
	if !ok {
		return
	}
	ownerID, ok := requireUser(w, r)
	if !ok {
		return
	}
	if err := c.Service.DeleteDayProgram(r.Context(), eventID, ownerID, r.PathValue("day")); err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, DeleteEventResponse{Status: "deleted"})
}

// AdmitActivity godoc
// @Summary Add or edit an activity
// @Description Admits the activity into the stored day program. With replace_index the activity replaces that slot. Owner only.
// @Tags programs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param day path string true "Day (YYYY-MM-DD)"
// @Param body body AdmitActivityRequest true "Activity"
// @Success 200 {object} controllers.DayProgramSuccessResponse "data contains the updated day program"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (not owner)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 422 {object} helpers.APIResponse "error.code: missing_fields, inverted_range or overlap_detected"
// @Router /events/{eventID}/programs/{day}/activities [post]
func (c *ProgramController) AdmitActivity(w http.ResponseWriter, r *http.Request) {
	eventID, ok := pathUUID(w, r, "eventID")
	if !ok {
		return
	}
	var req AdmitActivityRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	ownerID, ok := requireUser(w, r)
	if !ok {
		return
	}
	program, err := c.Service.AdmitActivity(r.Context(), eventID, ownerID, r.PathValue("day"), req.activity(), replaceIndex(req.ReplaceIndex))
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, program)
}

// RemoveActivity godoc
// @Summary Remove an activity
// @Tags programs
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param day path string true "Day (YYYY-MM-DD)"
// @Param index path int true "Activity position in the day"
// @Success 200 {object} controllers.DayProgramSuccessResponse "data contains the updated day program"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (not owner)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /events/{eventID}/programs/{day}/activities/{index} [delete]
func (c *ProgramController) RemoveActivity(w http.ResponseWriter, r *http.Request) {
	eventID, ok := pathUUID(w, r, "eventID")
	if !ok {
		return
	}
	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid index")
		return
	}
	ownerID, ok := requireUser(w, r)
	if !ok {
		return
	}
	program, err := c.Service.RemoveActivity(r.Context(), eventID, ownerID, r.PathValue("day"), index)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, program)
}

// ImportSessionize godoc
// @Summary Import day programs from Sessionize
// @Description Fetches the Sessionize schedule and replaces every day it covers. Nothing is written when any day is rejected. Owner only.
// @Tags programs
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param sessionizeID path string true "Sessionize ID"
// @Success 200 {object} controllers.ListProgramsSuccessResponse "data contains the imported day programs"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (not owner)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 422 {object} helpers.APIResponse "error.code: missing_fields, inverted_range or overlap_detected"
// @Router /events/{eventID}/programs/import/sessionize/{sessionizeID} [post]
func (c *ProgramController) ImportSessionize(w http.ResponseWriter, r *http.Request) {
	eventID, ok := pathUUID(w, r, "eventID")
	if !ok {
		return
	}
	sessionizeID := r.PathValue("sessionizeID")
	if sessionizeID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing sessionizeID")
		return
	}
	ownerID, ok := requireUser(w, r)
	if !ok {
		return
	}
	programs, err := c.Service.ImportSessionize(r.Context(), eventID, ownerID, sessionizeID)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, programs)
}

// ExportCalendar godoc
// @Summary Download the event program as iCalendar
// @Description Returns every activity of the event as a VEVENT. Public, so calendar apps can subscribe.
// @Tags programs
// @Produce text/calendar
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {string} string "iCalendar document"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /events/{eventID}/calendar.ics [get]
func (c *ProgramController) ExportCalendar(w http.ResponseWriter, r *http.Request) {
	eventID, ok := pathUUID(w, r, "eventID")
	if !ok {
		return
	}
	body, err := c.Service.ExportCalendar(r.Context(), eventID)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", eventID+".ics"))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}
