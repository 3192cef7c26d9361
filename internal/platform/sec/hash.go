// Copyright (c) 2026 Stockify. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// DefaultBcryptCost is the work factor for stored password hashes.
const DefaultBcryptCost = 12

// PasswordHasher hashes and verifies passwords with bcrypt.
type PasswordHasher struct {
	cost      int
	dummyHash []byte
}

// NewPasswordHasher returns a hasher clamped to bcrypt's accepted cost range.
//
// It also prepares a throwaway hash so that lookups for unknown accounts can
// spend the same time as a real comparison (see [PasswordHasher.CompareDummy]).
func NewPasswordHasher(cost int) (*PasswordHasher, error) {
	if cost <= 0 {
		cost = DefaultBcryptCost
	}
	cost = max(bcrypt.MinCost, min(cost, bcrypt.MaxCost))

	dummy, err := bcrypt.GenerateFromPassword([]byte("stockify-timing-equalizer"), cost)
	if err != nil {
		return nil, fmt.Errorf("sec: failed to prepare password hasher: %w", err)
	}

	return &PasswordHasher{cost: cost, dummyHash: dummy}, nil
}

// Cost reports the bcrypt work factor in use.
func (hasher *PasswordHasher) Cost() int {
	return hasher.cost
}

// Hash hashes a plain-text password.
func (hasher *PasswordHasher) Hash(plainTextPassword string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(plainTextPassword), hasher.cost)
	if err != nil {
		return "", fmt.Errorf("sec: failed to hash password: %w", err)
	}
	return string(hashedBytes), nil
}

// Compare reports whether plainTextPassword matches existingHash.
// bcrypt compares in constant time.
func (hasher *PasswordHasher) Compare(plainTextPassword, existingHash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(existingHash), []byte(plainTextPassword))
	return err == nil
}

// CompareDummy burns one comparison against a hash that never matches.
func (hasher *PasswordHasher) CompareDummy(plainTextPassword string) {
	_ = bcrypt.CompareHashAndPassword(hasher.dummyHash, []byte(plainTextPassword))
}
