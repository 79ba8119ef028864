package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"churchevents/internal/delivery/http/helpers"
	"churchevents/internal/domain"
)

// LoginRequest is the request body for POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (l LoginRequest) Validate() []string {
	errs := validateEmail(l.Email, nil)
	if l.Password == "" {
		errs = append(errs, "password is required")
	}
	return errs
}

// LoginResponse carries a bearer token for the console. ExpiresIn is in seconds.
type LoginResponse struct {
	Token     string       `json:"token"`
	TokenType string       `json:"token_type"`
	ExpiresIn int64        `json:"expires_in"`
	User      *domain.User `json:"user"`
}

// LoginSuccessResponse is the success response envelope for POST /auth/login (200).
type LoginSuccessResponse struct {
	Data  LoginResponse     `json:"data"`
	Error *helpers.APIError `json:"error"`
}

type AuthController struct {
	Logger   *slog.Logger
	Service  domain.UserService
	TokenTTL time.Duration
}

func NewAuthController(logger *slog.Logger, svc domain.UserService, tokenTTL time.Duration) *AuthController {
	return &AuthController{Logger: logger, Service: svc, TokenTTL: tokenTTL}
}

// Login godoc
// @Summary Log in
// @Description Authenticate with email and password. Returns a JWT carrying the user id, email and roles.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body LoginRequest true "Login credentials"
// @Success 200 {object} controllers.LoginSuccessResponse "data contains token, token_type, expires_in and user"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /auth/login [post]
func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	token, user, err := c.Service.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			c.Logger.InfoContext(r.Context(), "sign-in rejected", "remote_addr", r.RemoteAddr)
		}
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, LoginResponse{
		Token:     token,
		TokenType: "Bearer",
		ExpiresIn: int64(c.TokenTTL / time.Second),
		User:      user,
	})
}
