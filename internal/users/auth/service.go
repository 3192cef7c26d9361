// Copyright (c) 2026 Stockify. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/taibuivan/stockify/internal/platform/ctxutil"
	"github.com/taibuivan/stockify/internal/platform/sec"
	"github.com/taibuivan/stockify/internal/platform/validate"
	"github.com/taibuivan/stockify/pkg/normalize"
)

// # Contracts & Types

// TokenIssuer issues and verifies session tokens. [sec.TokenService] satisfies it.
type TokenIssuer interface {
	Issue(identity sec.Identity) (string, time.Time, error)
	VerifyToken(token string) (*sec.AuthClaims, error)
}

// PasswordHasher hashes and compares passwords. [sec.PasswordHasher] satisfies it.
type PasswordHasher interface {
	Hash(plainTextPassword string) (string, error)
	Compare(plainTextPassword, existingHash string) bool
	CompareDummy(plainTextPassword string)
}

// Observer receives authentication events for metrics.
type Observer interface {
	ObserveAuth(event, outcome string)
}

// Service implements the credential and session use cases.
//
// # Review Process
//
// This service is critical for security. Any changes to hashing, login or
// reset logic must keep the anti-enumeration behavior intact.
type Service struct {
	userRepository    UserRepository
	sessionRepository SessionRepository
	resetRepository   ResetTokenRepository
	tokenIssuer       TokenIssuer
	passwordHasher    PasswordHasher
	resetNotifier     ResetNotifier
	sessionRevoker    SessionRevoker
	resetThrottle     ResetThrottle
	observer          Observer
	now               func() time.Time
}

// Option customizes a [Service].
type Option func(*Service)

// WithRevoker enables the revocation list for logout and password reset.
func WithRevoker(revoker SessionRevoker) Option {
	return func(service *Service) { service.sessionRevoker = revoker }
}

// WithResetThrottle limits how often one email can receive reset links.
func WithResetThrottle(throttle ResetThrottle) Option {
	return func(service *Service) { service.resetThrottle = throttle }
}

// WithObserver reports authentication events.
func WithObserver(observer Observer) Option {
	return func(service *Service) { service.observer = observer }
}

// WithClock replaces the wall clock, for tests.
func WithClock(now func() time.Time) Option {
	return func(service *Service) { service.now = now }
}

// NewService constructs a new [Service] with necessary dependencies.
func NewService(
	userRepo UserRepository,
	sessionRepo SessionRepository,
	resetRepo ResetTokenRepository,
	tokens TokenIssuer,
	hasher PasswordHasher,
	notifier ResetNotifier,
	options ...Option,
) *Service {
	service := &Service{
		userRepository:    userRepo,
		sessionRepository: sessionRepo,
		resetRepository:   resetRepo,
		tokenIssuer:       tokens,
		passwordHasher:    hasher,
		resetNotifier:     notifier,
		now:               time.Now,
	}
	for _, option := range options {
		option(service)
	}
	return service
}

func (service *Service) observe(event, outcome string) {
	if service.observer != nil {
		service.observer.ObserveAuth(event, outcome)
	}
}

// # Registration Flow

// RegisterInput holds the data required to create an account.
type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

/*
Register validates, hashes and persists a new account.

Description: Accounts are created verified; there is no email verification
step. Concurrent registrations of one email are settled by the unique index.

Returns:
  - *User: Created entity
  - error: Validation, [ErrEmailTaken] or storage errors
*/
func (service *Service) Register(context context.Context, input RegisterInput) (*User, error) {
	input.Email = normalize.Email(input.Email)
	input.FirstName = normalize.Text(input.FirstName)
	input.LastName = normalize.Text(input.LastName)

	validator := &validate.Validator{}
	validator.Required(FieldEmail, input.Email).
		Required(FieldPassword, input.Password).
		Required(FieldFirstName, input.FirstName).
		Required(FieldLastName, input.LastName)

	if !validator.HasErrors() {
		validator.Email(FieldEmail, input.Email).
			MinLen(FieldPassword, input.Password, MinPasswordLength)
	}

	if err := validator.Err(); err != nil {
		return nil, err
	}

	hashedPassword, err := service.passwordHasher.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	user := &User{
		Email:        input.Email,
		PasswordHash: hashedPassword,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		IsVerified:   true,
	}

	if err := service.userRepository.Create(context, user); err != nil {
		if errors.Is(err, ErrEmailTaken) {
			service.observe("register", "conflict")
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("auth_service_register_failed: %w", err)
	}

	service.observe("register", "success")
	return user, nil
}

// # Authentication Flow

// LoginInput holds the credentials of a login attempt.
type LoginInput struct {
	Email    string
	Password string
}

// LoginResult is a successfully established session.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      *User
}

/*
Login verifies credentials and issues a session token.

Description: Unknown emails and wrong passwords fail identically, and an
unknown email still pays for one bcrypt comparison. The session record is
best-effort: a storage failure is logged and the login still succeeds.

Returns:
  - *LoginResult: Token, expiry and account
  - error: Validation, [ErrInvalidCredentials] or internal failures
*/
func (service *Service) Login(context context.Context, input LoginInput) (*LoginResult, error) {
	input.Email = normalize.Email(input.Email)

	validator := &validate.Validator{}
	validator.Required(FieldEmail, input.Email).
		Required(FieldPassword, input.Password)

	if err := validator.Err(); err != nil {
		return nil, err
	}

	user, err := service.userRepository.FindByEmail(context, input.Email)
	if err != nil {
		if !errors.Is(err, ErrUserNotFound) {
			return nil, fmt.Errorf("auth_service_login_lookup_failed: %w", err)
		}
		service.passwordHasher.CompareDummy(input.Password)
		service.observe("login", "failure")
		return nil, ErrInvalidCredentials
	}

	if !service.passwordHasher.Compare(input.Password, user.PasswordHash) {
		service.observe("login", "failure")
		return nil, ErrInvalidCredentials
	}

	token, expiresAt, err := service.tokenIssuer.Issue(user.Identity())
	if err != nil {
		return nil, fmt.Errorf("auth_service_token_generation_failed: %w", err)
	}

	session := &Session{
		UserID:    user.ID,
		TokenHash: sec.HashToken(token),
		ExpiresAt: expiresAt,
	}
	if err := service.sessionRepository.Create(context, session); err != nil {
		ctxutil.GetLogger(context).WarnContext(context, "session_record_failed",
			slog.Int64("user_id", user.ID),
			slog.Any("error", err),
		)
	}

	service.observe("login", "success")
	return &LoginResult{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

/*
Logout discards the session record of token.

Description: Always succeeds from the caller's point of view. Missing or
invalid tokens are ignored, and storage failures are only logged.
*/
func (service *Service) Logout(context context.Context, token string) {
	if token == "" {
		return
	}

	claims, err := service.tokenIssuer.VerifyToken(token)
	if err != nil {
		return
	}

	logger := ctxutil.GetLogger(context)

	if err := service.sessionRepository.DeleteByToken(context, claims.UserID, sec.HashToken(token)); err != nil {
		logger.WarnContext(context, "session_delete_failed", slog.Any("error", err))
	}

	if service.sessionRevoker != nil && claims.ExpiresAt != nil {
		if err := service.sessionRevoker.Revoke(context, token, claims.ExpiresAt.Time); err != nil {
			logger.WarnContext(context, "session_revoke_failed", slog.Any("error", err))
		}
	}

	service.observe("logout", "success")
}

/*
Me returns the current account.

Returns:
  - error: [ErrUserNotFound] when the account was deleted after the token was issued
*/
func (service *Service) Me(context context.Context, userID int64) (*User, error) {
	user, err := service.userRepository.FindByID(context, userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("auth_service_me_failed: %w", err)
	}
	return user, nil
}

// # Password Recovery

/*
ForgotPassword starts the reset flow for email.

Description: Returns nil whether or not the email exists so the caller can
answer identically. Only an existing account gets a grant and a notification.
Throttled requests are dropped silently; a throttle outage lets requests through.

Returns:
  - error: Validation or storage failures only
*/
func (service *Service) ForgotPassword(context context.Context, email string) error {
	email = normalize.Email(email)

	if err := (&validate.Validator{}).Required(FieldEmail, email).Err(); err != nil {
		return err
	}

	if !service.allowReset(context, email) {
		service.observe("forgot_password", "throttled")
		return nil
	}

	user, err := service.userRepository.FindByEmail(context, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil
		}
		return fmt.Errorf("auth_service_forgot_lookup_failed: %w", err)
	}

	token, err := sec.GenerateSecureToken(ResetTokenLength)
	if err != nil {
		return fmt.Errorf("auth_service_generate_reset_token_failed: %w", err)
	}

	reset := &PasswordReset{
		Email:     user.Email,
		TokenHash: sec.HashToken(token),
		ExpiresAt: service.now().Add(ResetTokenTTL),
	}
	if err := service.resetRepository.Create(context, reset); err != nil {
		return fmt.Errorf("auth_service_save_reset_token_failed: %w", err)
	}

	if err := service.resetNotifier.NotifyPasswordReset(context, user.Email, token); err != nil {
		ctxutil.GetLogger(context).WarnContext(context, "reset_notification_failed", slog.Any("error", err))
	}

	service.observe("forgot_password", "issued")
	return nil
}

func (service *Service) allowReset(context context.Context, email string) bool {
	if service.resetThrottle == nil {
		return true
	}

	allowed, err := service.resetThrottle.AllowReset(context, email)
	if err != nil {
		ctxutil.GetLogger(context).WarnContext(context, "reset_throttle_unavailable", slog.Any("error", err))
		return true
	}
	return allowed
}

/*
ResetPassword completes the reset flow.

Description: The grant is consumed, the password replaced and every session
record deleted in one transaction. With revocation enabled, tokens issued
before the reset also stop working.

Returns:
  - error: Validation, [ErrInvalidResetToken] or storage failures
*/
func (service *Service) ResetPassword(context context.Context, token, newPassword string) error {
	validator := &validate.Validator{}
	validator.Required(FieldToken, token).
		Required(FieldNewPassword, newPassword)
	if !validator.HasErrors() {
		validator.MinLen(FieldNewPassword, newPassword, MinPasswordLength)
	}
	if err := validator.Err(); err != nil {
		return err
	}

	hashedPassword, err := service.passwordHasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("auth_service_reset_password_hash_failed: %w", err)
	}

	now := service.now()
	userID, err := service.resetRepository.Consume(context, sec.HashToken(token), hashedPassword, now)
	if err != nil {
		if errors.Is(err, ErrInvalidResetToken) {
			service.observe("reset_password", "invalid")
			return ErrInvalidResetToken
		}
		return fmt.Errorf("auth_service_reset_password_failed: %w", err)
	}

	if service.sessionRevoker != nil {
		if err := service.sessionRevoker.RevokeAllBefore(context, userID, now); err != nil {
			ctxutil.GetLogger(context).WarnContext(context, "session_revoke_all_failed",
				slog.Int64("user_id", userID),
				slog.Any("error", err),
			)
		}
	}

	service.observe("reset_password", "success")
	return nil
}
