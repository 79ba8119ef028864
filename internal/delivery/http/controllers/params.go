package controllers

import (
	"net/http"
	"strings"
	"time"

	"churchevents/internal/delivery/http/helpers"
	"churchevents/internal/delivery/http/middleware"
	"churchevents/internal/domain"

	"github.com/google/uuid"
)

// pathUUID reads a UUID path value. On a missing or malformed value it writes 400 and returns false.
func pathUUID(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	v := r.PathValue(name)
	if v == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing "+name)
		return "", false
	}
	if _, err := uuid.Parse(v); err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid "+name)
		return "", false
	}
	return v, true
}

// requireUser returns the authenticated user ID or writes 401.
func requireUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
	}
	return userID, ok
}

// parseOptionalDay parses a YYYY-MM-DD body field. A nil or blank value yields nil.
func parseOptionalDay(field string, v *string, errs *[]string) *time.Time {
	if v == nil || strings.TrimSpace(*v) == "" {
		return nil
	}
	t, err := domain.ParseDay(*v)
	if err != nil {
		*errs = append(*errs, field+" must be YYYY-MM-DD")
		return nil
	}
	return &t
}
