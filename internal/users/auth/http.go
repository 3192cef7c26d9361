// Copyright (c) 2026 Stockify. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/stockify/internal/platform/middleware"
	requestutil "github.com/taibuivan/stockify/internal/platform/request"
	"github.com/taibuivan/stockify/internal/platform/respond"
	"github.com/taibuivan/stockify/internal/platform/sec"
)

// # Definitions & Constructors

// Handler implements the /api/auth endpoints.
//
// # Scope
//
// Registration, login, logout, identity lookup and the password reset
// callbacks. It expects [middleware.Authenticate] to run before it.
type Handler struct {
	authService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{authService: service}
}

// Routes returns a [chi.Router] configured with authentication routes.
//
// # Endpoints
//   - POST /register        : Creates an account.
//   - POST /login           : Verifies credentials and returns a token.
//   - POST /logout          : Discards the session record. Always 200.
//   - GET  /me              : Current account (requires a token).
//   - POST /forgot-password : Starts the reset flow. Same answer for every email.
//   - POST /reset-password  : Completes the reset flow.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/register", handler.register)
	router.Post("/login", handler.login)
	router.Post("/logout", handler.logout)
	router.Post("/forgot-password", handler.forgotPassword)
	router.Post("/reset-password", handler.resetPassword)

	router.With(middleware.RequireAuth).Get("/me", handler.me)

	return router
}

// # Payloads

type registerRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

type resetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"newPassword"`
}

type profileResponse struct {
	ID        int64  `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

type loginResponse struct {
	Message   string          `json:"message"`
	Token     string          `json:"token"`
	ExpiresAt time.Time       `json:"expiresAt"`
	User      profileResponse `json:"user"`
}

type meUser struct {
	profileResponse
	IsVerified bool      `json:"isVerified"`
	CreatedAt  time.Time `json:"createdAt"`
}

type meResponse struct {
	User meUser `json:"user"`
}

func toProfile(user *User) profileResponse {
	return profileResponse{
		ID:        user.ID,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
	}
}

/*
POST /api/auth/register

Response:
  - 201: {message}
  - 400: Missing fields, bad email, short password
  - 409: Email already registered
*/
func (handler *Handler) register(writer http.ResponseWriter, request *http.Request) {
	var input registerRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	_, err := handler.authService.Register(request.Context(), RegisterInput{
		Email:     input.Email,
		Password:  input.Password,
		FirstName: input.FirstName,
		LastName:  input.LastName,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Message(writer, http.StatusCreated, MsgRegistered)
}

/*
POST /api/auth/login

Response:
  - 200: {message, token, expiresAt, user}
  - 400: Missing fields
  - 401: Invalid credentials
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input loginRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	result, err := handler.authService.Login(request.Context(), LoginInput{
		Email:    input.Email,
		Password: input.Password,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, loginResponse{
		Message:   MsgLoggedIn,
		Token:     result.Token,
		ExpiresAt: result.ExpiresAt,
		User:      toProfile(result.User),
	})
}

/*
POST /api/auth/logout

Response:
  - 200: {message} in every case
*/
func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	handler.authService.Logout(request.Context(), sec.TokenFromRequest(request))
	respond.Message(writer, http.StatusOK, MsgLoggedOut)
}

/*
GET /api/auth/me

Response:
  - 200: {user}
  - 401: No token provided / Invalid or expired token
  - 404: User not found
*/
func (handler *Handler) me(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.authService.Me(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, meResponse{User: meUser{
		profileResponse: toProfile(user),
		IsVerified:      user.IsVerified,
		CreatedAt:       user.CreatedAt,
	}})
}

/*
POST /api/auth/forgot-password

Response:
  - 200: {message}, byte-identical for known and unknown emails
  - 400: Missing email
*/
func (handler *Handler) forgotPassword(writer http.ResponseWriter, request *http.Request) {
	var input forgotPasswordRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.authService.ForgotPassword(request.Context(), input.Email); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Message(writer, http.StatusOK, MsgResetRequested)
}

/*
POST /api/auth/reset-password

Response:
  - 200: {message}
  - 400: Missing fields, short password, invalid or expired reset token
*/
func (handler *Handler) resetPassword(writer http.ResponseWriter, request *http.Request) {
	var input resetPasswordRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.authService.ResetPassword(request.Context(), input.Token, input.NewPassword); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Message(writer, http.StatusOK, MsgResetDone)
}
