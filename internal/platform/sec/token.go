// Copyright (c) 2026 Stockify. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"strings"

	"github.com/taibuivan/stockify/internal/platform/constants"
)

// # Opaque Tokens

// GenerateSecureToken returns length random bytes, hex-encoded.
func GenerateSecureToken(length int) (string, error) {
	buffer := make([]byte, length)
	if _, err := rand.Read(buffer); err != nil {
		return "", fmt.Errorf("sec: failed to read random bytes: %w", err)
	}
	return hex.EncodeToString(buffer), nil
}

// HashToken returns the hex SHA-256 digest of token.
// Only digests are persisted; raw tokens stay with the client.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// # Transport

// TokenFromRequest extracts the session token carried by request.
//
// An "Authorization: Bearer <token>" header wins over the auth cookie. An
// empty result means no token was presented, which is not an error.
func TokenFromRequest(request *http.Request) string {
	if header := request.Header.Get(constants.HeaderAuthorization); header != "" {
		scheme, token, found := strings.Cut(header, " ")
		token = strings.TrimSpace(token)
		if found && strings.EqualFold(scheme, constants.BearerScheme) && token != "" {
			return token
		}
	}

	if cookie, err := request.Cookie(constants.AuthTokenCookieName); err == nil {
		return strings.TrimSpace(cookie.Value)
	}

	return ""
}
