// Copyright (c) 2026 Stockify. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// UserAccountTable represents the 'users.account' table
type UserAccountTable struct {
	Table      string
	ID         string
	Email      string
	Password   string
	FirstName  string
	LastName   string
	Address    string
	IsVerified string
	RoleID     string
	CreatedAt  string
	UpdatedAt  string
}

// UserAccount is the schema definition for users.account
var UserAccount = UserAccountTable{
	Table:      "users.account",
	ID:         "id",
	Email:      "email",
	Password:   "passwordhash",
	FirstName:  "firstname",
	LastName:   "lastname",
	Address:    "address",
	IsVerified: "isverified",
	RoleID:     "roleid",
	CreatedAt:  "createdat",
	UpdatedAt:  "updatedat",
}

// Columns returns all standard column names
func (t UserAccountTable) Columns() []string {
	return []string{
		t.ID, t.Email, t.Password, t.FirstName, t.LastName, t.Address,
		t.IsVerified, t.RoleID, t.CreatedAt, t.UpdatedAt,
	}
}
