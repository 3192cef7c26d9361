// Copyright (c) 2026 Stockify. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/taibuivan/stockify/internal/platform/apperr"
	"github.com/taibuivan/stockify/internal/platform/ctxutil"
	"github.com/taibuivan/stockify/internal/platform/metrics"
	"github.com/taibuivan/stockify/internal/platform/respond"
	"github.com/taibuivan/stockify/internal/platform/sec"
)

// Messages returned by the API-level identity checks.
const (
	MsgNoToken           = "No token provided"
	MsgInvalidToken      = "Invalid or expired token"
	MsgForbidden         = "Insufficient permissions"
	MsgPermissionFailure = "Unable to resolve permissions"
)

// TokenVerifier defines the interface needed to verify tokens in middleware.
//
// [sec.TokenService] satisfies it; tests pass fakes.
type TokenVerifier interface {
	VerifyToken(tokenStr string) (*sec.AuthClaims, error)
}

// RevocationChecker reports whether an otherwise valid token was revoked
// before its expiry (logout or password reset).
type RevocationChecker interface {
	IsRevoked(context context.Context, token string, claims *sec.AuthClaims) (bool, error)
}

// PermissionChecker resolves a user's flag for one module and action.
type PermissionChecker interface {
	Can(context context.Context, userID int64, module sec.Module, action sec.Action) (bool, error)
}

// Authenticate verifies the session token carried by the request, if any.
//
// # Flow
//  1. Extract the token ("Authorization: Bearer" first, then the auth cookie).
//  2. Absent or invalid tokens leave the request anonymous; rejection is the
//     job of [RequireAuth] so that public routes such as logout still run.
//  3. Valid tokens put [*sec.AuthClaims] into the request context.
//
// revocations may be nil when revocation checks are disabled.
func Authenticate(verifier TokenVerifier, revocations RevocationChecker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			claims, _ := verifyRequest(request, verifier, revocations)
			if claims == nil {
				next.ServeHTTP(writer, request)
				return
			}

			ctx := ctxutil.WithAuthUser(request.Context(), claims)
			reportIdentity(ctx, claims.UserID)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// RequireAuth blocks requests that are not authenticated.
//
// # Usage
//
// Must be registered in the router AFTER [Authenticate]. The 401 message tells
// a missing token apart from a rejected one.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if err := authenticated(request); err != nil {
			respond.Error(writer, request, err)
			return
		}
		next.ServeHTTP(writer, request)
	})
}

// RequirePermission blocks requests whose user lacks the flag for module and action.
//
// It implies [RequireAuth]. Users without a role, or whose role has no row for
// module, are refused.
func RequirePermission(checker PermissionChecker, module sec.Module, action sec.Action) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {

			// ── 1. Authentication Check ───────────────────────────────────────
			if err := authenticated(request); err != nil {
				respond.Error(writer, request, err)
				return
			}

			// ── 2. Authorization Check ────────────────────────────────────────
			userID, _ := ctxutil.GetUserID(request.Context())
			allowed, err := checker.Can(request.Context(), userID, module, action)
			if err != nil {
				ctxutil.GetLogger(request.Context()).WarnContext(request.Context(), "permission_check_failed",
					slog.String("module", string(module)),
					slog.String("action", string(action)),
					slog.Any("error", err),
				)
				respond.Error(writer, request, apperr.Internal(err))
				return
			}

			if !allowed {
				respond.Error(writer, request, apperr.Forbidden(MsgForbidden))
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}

// authenticated returns the 401 for requests without verified claims.
func authenticated(request *http.Request) error {
	if ctxutil.GetAuthUser(request.Context()) != nil {
		return nil
	}
	if sec.TokenFromRequest(request) == "" {
		return apperr.Unauthorized(MsgNoToken)
	}
	return apperr.Unauthorized(MsgInvalidToken)
}

// verifyRequest runs extraction, signature verification and the optional
// revocation lookup. The returned outcome is a [metrics] guard label.
func verifyRequest(request *http.Request, verifier TokenVerifier, revocations RevocationChecker) (*sec.AuthClaims, string) {
	token := sec.TokenFromRequest(request)
	if token == "" {
		return nil, metrics.GuardRedirectMissing
	}

	claims, err := verifier.VerifyToken(token)
	if err != nil {
		return nil, metrics.GuardRedirectInvalid
	}

	if revocations != nil {
		revoked, err := revocations.IsRevoked(request.Context(), token, claims)
		if err != nil {
			// Fail closed: an unreachable revocation list must not resurrect logged-out sessions.
			ctxutil.GetLogger(request.Context()).ErrorContext(request.Context(), "revocation_check_failed",
				slog.Any("error", err),
			)
			return nil, metrics.GuardRedirectRevoked
		}
		if revoked {
			return nil, metrics.GuardRedirectRevoked
		}
	}

	return claims, metrics.GuardAllowed
}
