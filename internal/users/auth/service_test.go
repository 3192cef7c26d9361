// Copyright (c) 2026 Stockify. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/stockify/internal/platform/apperr"
	"github.com/taibuivan/stockify/internal/users/auth"
)

func TestRegister_Validation(t *testing.T) {
	h := newHarness(t)

	tests := []struct {
		name  string
		input auth.RegisterInput
		field string
	}{
		{"missing email", auth.RegisterInput{Password: "secret1", FirstName: "A", LastName: "B"}, auth.FieldEmail},
		{"missing last name", auth.RegisterInput{Email: "a@b.io", Password: "secret1", FirstName: "A"}, auth.FieldLastName},
		{"malformed email", auth.RegisterInput{Email: "a@b", Password: "secret1", FirstName: "A", LastName: "B"}, auth.FieldEmail},
		{"short password", auth.RegisterInput{Email: "a@b.io", Password: "12345", FirstName: "A", LastName: "B"}, auth.FieldPassword},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := h.service.Register(context.Background(), tt.input)

			appErr := apperr.As(err)
			require.NotNil(t, appErr)
			assert.Equal(t, apperr.CodeValidation, appErr.Code)
			require.NotEmpty(t, appErr.Details)
			assert.Equal(t, tt.field, appErr.Details[0].Field)
		})
	}
}

func TestRegister_StoresHashAndNormalizesEmail(t *testing.T) {
	h := newHarness(t)

	user := h.register(t, "  Alice@Example.COM ", "secret1")

	assert.Equal(t, "alice@example.com", user.Email)
	assert.True(t, user.IsVerified)
	assert.NotEqual(t, "secret1", user.PasswordHash)
	assert.Positive(t, user.ID)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	h := newHarness(t)
	h.register(t, "alice@example.com", "secret1")

	_, err := h.service.Register(context.Background(), auth.RegisterInput{
		Email:     "ALICE@example.com",
		Password:  "another1",
		FirstName: "Alice",
		LastName:  "Again",
	})

	assert.ErrorIs(t, err, auth.ErrEmailTaken)
}

func TestLogin_FailuresAreIndistinguishable(t *testing.T) {
	h := newHarness(t)
	h.register(t, "alice@example.com", "secret1")

	_, wrongPassword := h.service.Login(context.Background(), auth.LoginInput{Email: "alice@example.com", Password: "wrong-one"})
	_, unknownEmail := h.service.Login(context.Background(), auth.LoginInput{Email: "nobody@example.com", Password: "secret1"})

	assert.ErrorIs(t, wrongPassword, auth.ErrInvalidCredentials)
	assert.ErrorIs(t, unknownEmail, auth.ErrInvalidCredentials)
	assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())
}

func TestLogin_IssuesVerifiableTokenAndSession(t *testing.T) {
	h := newHarness(t)
	user := h.register(t, "alice@example.com", "secret1")

	result, err := h.service.Login(context.Background(), auth.LoginInput{Email: "Alice@Example.com", Password: "secret1"})
	require.NoError(t, err)

	claims, err := h.tokens.VerifyToken(result.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "alice@example.com", claims.Email)
	assert.Equal(t, 1, h.db.sessionsOf(user.ID))
}

func TestLogin_SessionFailureDoesNotBlockLogin(t *testing.T) {
	h := newHarness(t, withSessionError())
	user := h.register(t, "alice@example.com", "secret1")

	result, err := h.service.Login(context.Background(), auth.LoginInput{Email: "alice@example.com", Password: "secret1"})

	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.Zero(t, h.db.sessionsOf(user.ID))
}

func TestLogout_RemovesSessionAndRevokesToken(t *testing.T) {
	h := newHarness(t)
	user := h.register(t, "alice@example.com", "secret1")

	result, err := h.service.Login(context.Background(), auth.LoginInput{Email: "alice@example.com", Password: "secret1"})
	require.NoError(t, err)

	h.service.Logout(context.Background(), result.Token)

	assert.Zero(t, h.db.sessionsOf(user.ID))
	assert.Equal(t, []string{result.Token}, h.revoker.revoked)
}

func TestLogout_IgnoresUnusableTokens(t *testing.T) {
	h := newHarness(t)

	h.service.Logout(context.Background(), "")
	h.service.Logout(context.Background(), "not-a-token")

	assert.Empty(t, h.revoker.revoked)
}

func TestForgotPassword_OnlyKnownEmailsGetAGrant(t *testing.T) {
	h := newHarness(t)
	h.register(t, "alice@example.com", "secret1")

	require.NoError(t, h.service.ForgotPassword(context.Background(), "nobody@example.com"))
	assert.Zero(t, h.db.resetCount())

	require.NoError(t, h.service.ForgotPassword(context.Background(), "alice@example.com"))
	assert.Equal(t, 1, h.db.resetCount())
	assert.NotEmpty(t, h.notifier.tokenFor("alice@example.com"))
}

type countingThrottle struct {
	limit int
	seen  map[string]int
	err   error
}

func (throttle *countingThrottle) AllowReset(_ context.Context, email string) (bool, error) {
	if throttle.err != nil {
		return false, throttle.err
	}
	if throttle.seen == nil {
		throttle.seen = map[string]int{}
	}
	throttle.seen[email]++
	return throttle.seen[email] <= throttle.limit, nil
}

func TestForgotPassword_Throttled(t *testing.T) {
	throttle := &countingThrottle{limit: 2}
	h := newHarness(t, withResetThrottle(throttle))
	h.register(t, "alice@example.com", "secret1")

	for range 4 {
		require.NoError(t, h.service.ForgotPassword(context.Background(), "Alice@Example.com"))
	}

	assert.Equal(t, 2, h.db.resetCount(), "requests past the limit issue no grant")
	assert.Equal(t, 4, throttle.seen["alice@example.com"], "the throttle sees the normalized email")
}

func TestForgotPassword_ThrottleOutageLetsRequestsThrough(t *testing.T) {
	h := newHarness(t, withResetThrottle(&countingThrottle{err: errors.New("redis down")}))
	h.register(t, "alice@example.com", "secret1")

	require.NoError(t, h.service.ForgotPassword(context.Background(), "alice@example.com"))

	assert.Equal(t, 1, h.db.resetCount())
}

func TestResetPassword_SingleUse(t *testing.T) {
	h := newHarness(t)
	user := h.register(t, "alice@example.com", "secret1")

	_, err := h.service.Login(context.Background(), auth.LoginInput{Email: "alice@example.com", Password: "secret1"})
	require.NoError(t, err)
	require.Equal(t, 1, h.db.sessionsOf(user.ID))

	require.NoError(t, h.service.ForgotPassword(context.Background(), "alice@example.com"))
	token := h.notifier.tokenFor("alice@example.com")

	require.NoError(t, h.service.ResetPassword(context.Background(), token, "brand-new"))

	assert.Zero(t, h.db.sessionsOf(user.ID), "sessions must be purged by a reset")
	assert.Equal(t, h.clock, h.revoker.before[user.ID])

	_, err = h.service.Login(context.Background(), auth.LoginInput{Email: "alice@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)

	_, err = h.service.Login(context.Background(), auth.LoginInput{Email: "alice@example.com", Password: "brand-new"})
	assert.NoError(t, err)

	err = h.service.ResetPassword(context.Background(), token, "third-one")
	assert.ErrorIs(t, err, auth.ErrInvalidResetToken)
}

func TestResetPassword_ExpiredGrant(t *testing.T) {
	h := newHarness(t)
	h.register(t, "alice@example.com", "secret1")

	require.NoError(t, h.service.ForgotPassword(context.Background(), "alice@example.com"))
	token := h.notifier.tokenFor("alice@example.com")

	h.clock = h.clock.Add(auth.ResetTokenTTL + time.Second)

	err := h.service.ResetPassword(context.Background(), token, "brand-new")
	assert.ErrorIs(t, err, auth.ErrInvalidResetToken)
}

func TestResetPassword_Validation(t *testing.T) {
	h := newHarness(t)

	err := h.service.ResetPassword(context.Background(), "some-token", "123")

	appErr := apperr.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, apperr.CodeValidation, appErr.Code)
	assert.Equal(t, auth.FieldNewPassword, appErr.Details[0].Field)
}

func TestMe_DeletedAccount(t *testing.T) {
	h := newHarness(t)

	_, err := h.service.Me(context.Background(), 404)

	assert.ErrorIs(t, err, auth.ErrUserNotFound)
}
