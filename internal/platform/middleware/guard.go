// Copyright (c) 2026 Stockify. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"net/http"
	"path"
	"strconv"
	"strings"

	"github.com/taibuivan/stockify/internal/platform/constants"
	"github.com/taibuivan/stockify/internal/platform/ctxutil"
)

// GuardObserver receives one outcome per guarded request.
type GuardObserver interface {
	ObserveGuard(outcome string)
}

// GuardConfig configures the dashboard edge gate.
type GuardConfig struct {
	// Verifier checks session tokens. Required.
	Verifier TokenVerifier

	// ProtectedPrefixes lists the path areas that require a valid session.
	// A path is protected when it equals a prefix or continues it with "/".
	ProtectedPrefixes []string

	// EntryPath is where unauthenticated visitors are redirected. Defaults to "/".
	EntryPath string

	// Revocations is consulted after signature checks. Optional.
	Revocations RevocationChecker

	// Metrics records decisions. Optional.
	Metrics GuardObserver
}

// Guard returns the global edge gate for the dashboard area.
//
// # Flow
//  1. Paths outside the protected prefixes pass through untouched.
//  2. A missing, invalid, expired or revoked token redirects (302) to the entry path.
//  3. A valid token forwards the request with X-User-Id and X-User-Email set
//     from the claims and the claims attached to the context.
//
// Client-supplied identity headers never survive the gate, on any path.
// The returned middleware holds only immutable configuration.
func Guard(cfg GuardConfig) func(http.Handler) http.Handler {
	prefixes := make([]string, 0, len(cfg.ProtectedPrefixes))
	for _, prefix := range cfg.ProtectedPrefixes {
		prefix = strings.TrimRight(strings.TrimSpace(prefix), "/")
		if prefix != "" {
			prefixes = append(prefixes, prefix)
		}
	}

	entryPath := cfg.EntryPath
	if entryPath == "" {
		entryPath = "/"
	}

	observe := func(outcome string) {
		if cfg.Metrics != nil {
			cfg.Metrics.ObserveGuard(outcome)
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			request.Header.Del(constants.HeaderXUserID)
			request.Header.Del(constants.HeaderXUserEmail)

			if !isProtected(request.URL.Path, prefixes) || path.Clean(request.URL.Path) == entryPath {
				next.ServeHTTP(writer, request)
				return
			}

			claims, outcome := verifyRequest(request, cfg.Verifier, cfg.Revocations)
			observe(outcome)

			if claims == nil {
				http.Redirect(writer, request, entryPath, http.StatusFound)
				return
			}

			ctx := ctxutil.WithAuthUser(request.Context(), claims)
			reportIdentity(ctx, claims.UserID)

			forwarded := request.WithContext(ctx)
			forwarded.Header = request.Header.Clone()
			forwarded.Header.Set(constants.HeaderXUserID, strconv.FormatInt(claims.UserID, 10))
			forwarded.Header.Set(constants.HeaderXUserEmail, claims.Email)

			next.ServeHTTP(writer, forwarded)
		})
	}
}

// isProtected matches requestPath against prefixes on a segment boundary:
// "/dashboard" and "/dashboard/x" match "/dashboard", "/dashboards" does not.
func isProtected(requestPath string, prefixes []string) bool {
	cleaned := path.Clean("/" + requestPath)
	for _, prefix := range prefixes {
		if cleaned == prefix || strings.HasPrefix(cleaned, prefix+"/") {
			return true
		}
	}
	return false
}
