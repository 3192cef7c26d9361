// Copyright (c) 2026 Stockify. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// UserRoleTable represents the 'users.role' table
type UserRoleTable struct {
	Table       string
	ID          string
	Name        string
	Description string
	CreatedAt   string
	UpdatedAt   string
}

// UserRole is the schema definition for users.role
var UserRole = UserRoleTable{
	Table:       "users.role",
	ID:          "id",
	Name:        "name",
	Description: "description",
	CreatedAt:   "createdat",
	UpdatedAt:   "updatedat",
}

// Columns returns all standard column names
func (t UserRoleTable) Columns() []string {
	return []string{t.ID, t.Name, t.Description, t.CreatedAt, t.UpdatedAt}
}

// UserRolePermissionTable represents the 'users.rolepermission' table
type UserRolePermissionTable struct {
	Table      string
	RoleID     string
	ModuleName string
	CanCreate  string
	CanRead    string
	CanUpdate  string
	CanDelete  string
	UpdatedAt  string
}

// UserRolePermission is the schema definition for users.rolepermission
var UserRolePermission = UserRolePermissionTable{
	Table:      "users.rolepermission",
	RoleID:     "roleid",
	ModuleName: "modulename",
	CanCreate:  "cancreate",
	CanRead:    "canread",
	CanUpdate:  "canupdate",
	CanDelete:  "candelete",
	UpdatedAt:  "updatedat",
}

// Columns returns all standard column names
func (t UserRolePermissionTable) Columns() []string {
	return []string{t.RoleID, t.ModuleName, t.CanCreate, t.CanRead, t.CanUpdate, t.CanDelete}
}
