// Copyright (c) 2026 Stockify. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package sec provides cryptographic primitives and token management.
//
// # Architecture
//
// This package isolates security-sensitive code (hashing, JWT signing, random
// tokens) from the domain logic. The [TokenService] is injected into the auth
// service for issuance and into the middleware chain for verification.
package sec

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is the only error returned by [TokenService.VerifyToken].
//
// Malformed, tampered, expired and wrongly-signed tokens all collapse into it so
// that callers cannot leak which check failed.
var ErrInvalidToken = errors.New("sec: invalid or expired token")

// DefaultTokenTTL is the session token lifetime when none is configured.
const DefaultTokenTTL = 7 * 24 * time.Hour

// Identity is the caller identity embedded in a session token.
type Identity struct {
	UserID    int64  `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// AuthClaims represents the payload embedded inside a session token.
//
// Identity fields travel in the token so the guard and middleware can rebuild
// the caller WITHOUT querying the database on every request.
type AuthClaims struct {
	jwt.RegisteredClaims

	UserID    int64  `json:"userId"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// Identity returns the identity portion of the claims.
func (claims *AuthClaims) Identity() Identity {
	return Identity{
		UserID:    claims.UserID,
		Email:     claims.Email,
		FirstName: claims.FirstName,
		LastName:  claims.LastName,
	}
}

// TokenService issues and verifies HS256 session tokens.
//
// It holds no mutable state after construction and is safe for concurrent use.
type TokenService struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenService creates a new TokenService.
//
// An empty secret is a fatal configuration error and is reported at startup,
// never at request time.
func NewTokenService(secret, issuer string, ttl time.Duration) (*TokenService, error) {
	if secret == "" {
		return nil, errors.New("sec: token signing secret is not configured")
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}

	return &TokenService{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

// WithClock returns a copy of the service that reads time from now.
func (service *TokenService) WithClock(now func() time.Time) *TokenService {
	clone := *service
	clone.now = now
	return &clone
}

// TTL is the lifetime applied by [TokenService.Issue].
func (service *TokenService) TTL() time.Duration {
	return service.ttl
}

// Issue signs a token for identity using the configured lifetime.
func (service *TokenService) Issue(identity Identity) (string, time.Time, error) {
	return service.IssueWithTTL(identity, service.ttl)
}

// IssueWithTTL signs a token for identity that expires ttl after the current time.
func (service *TokenService) IssueWithTTL(identity Identity, ttl time.Duration) (string, time.Time, error) {
	issuedAt := service.now()
	expiresAt := issuedAt.Add(ttl)

	claims := AuthClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprintf("%d", identity.UserID),
			Issuer:    service.issuer,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		UserID:    identity.UserID,
		Email:     identity.Email,
		FirstName: identity.FirstName,
		LastName:  identity.LastName,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(service.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sec: failed to sign token: %w", err)
	}

	return signedToken, expiresAt, nil
}

// VerifyToken checks the signature and validity window of a token string.
//
// Any failure returns [ErrInvalidToken] and nil claims.
func (service *TokenService) VerifyToken(tokenString string) (*AuthClaims, error) {
	claims := &AuthClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(token *jwt.Token) (interface{}, error) {
			return service.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(service.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(service.now),
	)

	if err != nil || !token.Valid || claims.UserID <= 0 {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
