// Copyright (c) 2026 Stockify. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"time"
)

// # User Data Access

// UserRepository defines the data access contract for credentials.
type UserRepository interface {

	/*
		FindByID returns the account with the given ID.

		Returns:
		  - error: [ErrUserNotFound] or database failures
	*/
	FindByID(context context.Context, id int64) (*User, error)

	/*
		FindByEmail returns the account with the given email.

		Returns:
		  - error: [ErrUserNotFound] or database failures
	*/
	FindByEmail(context context.Context, email string) (*User, error)

	/*
		Create persists a new account and fills in its ID and timestamps.

		Returns:
		  - error: [ErrEmailTaken] when the email is already registered
	*/
	Create(context context.Context, user *User) error
}

// # Session Data Access

// SessionRepository defines the data access contract for session records.
type SessionRepository interface {

	// Create persists a session record.
	Create(context context.Context, session *Session) error

	// DeleteByToken removes the record matching userID and tokenHash, if any.
	DeleteByToken(context context.Context, userID int64, tokenHash string) error
}

// # Password Reset Data Access

// ResetTokenRepository defines the data access contract for reset grants.
type ResetTokenRepository interface {

	// Create persists a reset grant.
	Create(context context.Context, reset *PasswordReset) error

	/*
		Consume redeems a reset grant in one transaction.

		Description: Deletes the grant matching tokenHash if it is still valid
		at now, stores passwordHash on the owning account and deletes every
		session record of that account. Nothing changes on failure.

		Returns:
		  - int64: ID of the account whose password changed
		  - error: [ErrInvalidResetToken] or database failures
	*/
	Consume(context context.Context, tokenHash, passwordHash string, now time.Time) (int64, error)
}

// # Revocation

// SessionRevoker records token revocations that must outlive session rows.
// It is optional; without it, tokens stay valid until they expire.
type SessionRevoker interface {

	// Revoke blocks a single token until expiresAt.
	Revoke(context context.Context, token string, expiresAt time.Time) error

	// RevokeAllBefore blocks every token of userID issued at or before at.
	RevokeAllBefore(context context.Context, userID int64, at time.Time) error
}

// # Notification

// ResetNotifier delivers the raw reset token to the account owner.
type ResetNotifier interface {
	NotifyPasswordReset(context context.Context, email, token string) error
}

// ResetThrottle counts reset requests per email. It is optional.
type ResetThrottle interface {

	// AllowReset records one request for email and reports whether it is
	// still within the limit.
	AllowReset(context context.Context, email string) (bool, error)
}
