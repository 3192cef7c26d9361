// Copyright (c) 2026 Stockify. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// UserPasswordResetTable represents the 'users.passwordreset' table
type UserPasswordResetTable struct {
	Table     string
	ID        string
	Email     string
	TokenHash string
	ExpiresAt string
	CreatedAt string
}

// UserPasswordReset is the schema definition for users.passwordreset
var UserPasswordReset = UserPasswordResetTable{
	Table:     "users.passwordreset",
	ID:        "id",
	Email:     "email",
	TokenHash: "tokenhash",
	ExpiresAt: "expiresat",
	CreatedAt: "createdat",
}
