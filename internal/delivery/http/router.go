package http

import (
	"log/slog"
	"net/http"

	"churchevents/internal/delivery/http/controllers"
	"churchevents/internal/delivery/http/middleware"
	"churchevents/internal/domain"

	httpSwagger "github.com/swaggo/http-swagger"
)

// Controllers groups the handlers the router mounts.
type Controllers struct {
	Auth     *controllers.AuthController
	User     *controllers.UserController
	Event    *controllers.EventController
	Program  *controllers.ProgramController
	Attendee *controllers.AttendeeController
}

// NewRouter initializes the HTTP router with all application routes
func NewRouter(c Controllers, verifier domain.TokenVerifier, logger *slog.Logger) *http.ServeMux {
	mux := http.NewServeMux()
	auth := middleware.RequireAuth(verifier, logger)
	admin := func(next http.HandlerFunc) http.HandlerFunc {
		return auth(middleware.RequireRole(domain.RoleAdmin)(next))
	}

	// Auth
	mux.HandleFunc("POST /auth/login", c.Auth.Login)

	// Users
	mux.HandleFunc("GET /users/me", auth(c.User.GetMe))
	mux.HandleFunc("PATCH /users/me", auth(c.User.UpdateMe))
	mux.HandleFunc("GET /admin/users", admin(c.User.ListUsers))
	mux.HandleFunc("POST /admin/users", admin(c.User.CreateUser))
	mux.HandleFunc("PUT /admin/users/{userID}/roles/{roleCode}", admin(c.User.AssignRole))

	// Events
	mux.HandleFunc("POST /events", auth(c.Event.CreateEvent))
	mux.HandleFunc("GET /events/me", auth(c.Event.ListMyEvents))
	mux.HandleFunc("GET /events/{eventID}", auth(c.Event.GetEventByID))
	mux.HandleFunc("PATCH /events/{eventID}", auth(c.Event.UpdateEvent))
	mux.HandleFunc("DELETE /events/{eventID}", auth(c.Event.DeleteEvent))

	// Programs
	mux.HandleFunc("POST /programs/validate", auth(c.Program.ValidateActivity))
	mux.HandleFunc("GET /events/{eventID}/programs", auth(c.Program.ListPrograms))
	mux.HandleFunc("GET /events/{eventID}/programs/{day}", auth(c.Program.GetDayProgram))
	mux.HandleFunc("PUT /events/{eventID}/programs/{day}", auth(c.Program.ReplaceDayProgram))
	mux.HandleFunc("DELETE /events/{eventID}/programs/{day}", auth(c.Program.DeleteDayProgram))
	mux.HandleFunc("POST /events/{eventID}/programs/{day}/activities", auth(c.Program.AdmitActivity))
	mux.HandleFunc("DELETE /events/{eventID}/programs/{day}/activities/{index}", auth(c.Program.RemoveActivity))
	mux.HandleFunc("POST /events/{eventID}/programs/import/sessionize/{sessionizeID}", auth(c.Program.ImportSessionize))
	mux.HandleFunc("GET /events/{eventID}/calendar.ics", c.Program.ExportCalendar)

	// Attendees
	mux.HandleFunc("POST /events/{eventID}/register", auth(c.Attendee.RegisterForEvent))
	mux.HandleFunc("POST /events/register-by-code", auth(c.Attendee.RegisterForEventByCode))
	mux.HandleFunc("GET /attendee/events", auth(c.Attendee.ListMyRegisteredEvents))
	mux.HandleFunc("POST /events/{eventID}/check-in", auth(c.Attendee.CheckIn))
	mux.HandleFunc("GET /events/{eventID}/attendees", auth(c.Attendee.ListAttendees))
	mux.HandleFunc("GET /events/{eventID}/dashboard", auth(c.Attendee.Dashboard))

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
