// Copyright (c) 2026 Stockify. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth implements the credential store and the session lifecycle.

It covers registration, login, logout, identity lookup and the password
reset flow. Tokens are issued by [sec.TokenService]; session records and
reset tokens live in PostgreSQL, and the optional revocation list in Redis.

# Architecture

  - Entities: [User], [Session], [PasswordReset].
  - Repositories: contracts in store.go, PostgreSQL and Redis implementations.
  - Service: business rules and validation.
  - Handler: JSON transport under /api/auth.
*/
package auth

import (
	"time"

	"github.com/taibuivan/stockify/internal/platform/apperr"
	"github.com/taibuivan/stockify/internal/platform/sec"
)

// # Domain Entities

// User is a registered account.
type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	Address      string    `json:"address,omitempty"`
	IsVerified   bool      `json:"isVerified"`
	RoleID       *int64    `json:"roleId"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Identity returns the token payload for the user.
func (user *User) Identity() sec.Identity {
	return sec.Identity{
		UserID:    user.ID,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
	}
}

// Session is the server-side record of an issued token.
// Only the SHA-256 digest of the token is stored.
type Session struct {
	ID        int64
	UserID    int64
	TokenHash string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// PasswordReset is a single-use reset grant for an email address.
type PasswordReset struct {
	Email     string
	TokenHash string
	ExpiresAt time.Time
}

// # Constraints

const (
	// MinPasswordLength applies to registration, reset and admin-created accounts.
	MinPasswordLength = 6

	// ResetTokenTTL is how long a reset link stays usable.
	ResetTokenTTL = 1 * time.Hour

	// ResetTokenLength is the number of random bytes in a reset token (hex-encoded for clients).
	ResetTokenLength = 32

	// ResetRequestLimit caps reset grants per email within ResetRequestWindow.
	ResetRequestLimit  = 3
	ResetRequestWindow = 1 * time.Hour
)

// # Client Messages

const (
	MsgRegistered     = "User registered successfully"
	MsgLoggedIn       = "Login successful"
	MsgLoggedOut      = "Logout successful"
	MsgResetRequested = "If the email exists, a reset link has been sent"
	MsgResetDone      = "Password has been reset successfully"
)

// # Domain Errors

var (
	// ErrEmailTaken is returned when the unique email index rejects an insert.
	ErrEmailTaken = apperr.Conflict("Email already registered")

	// ErrInvalidCredentials covers both unknown emails and wrong passwords.
	ErrInvalidCredentials = apperr.Unauthorized("Invalid credentials")

	// ErrUserNotFound is returned by identity lookups.
	ErrUserNotFound = apperr.NotFound("User")

	// ErrInvalidResetToken covers unknown, expired and already used reset tokens.
	ErrInvalidResetToken = apperr.ValidationError("Invalid or expired reset token")
)

// # Field Identifiers

const (
	FieldEmail       = "email"
	FieldPassword    = "password"
	FieldFirstName   = "firstName"
	FieldLastName    = "lastName"
	FieldToken       = "token"
	FieldNewPassword = "newPassword"
)
