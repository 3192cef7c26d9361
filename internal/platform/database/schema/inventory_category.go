// Copyright (c) 2026 Stockify. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// InventoryCategoryTable represents the 'inventory.category' table
type InventoryCategoryTable struct {
	Table     string
	ID        string
	Name      string
	Code      string
	Status    string
	CreatedAt string
	UpdatedAt string
}

// InventoryCategory is the schema definition for inventory.category
var InventoryCategory = InventoryCategoryTable{
	Table:     "inventory.category",
	ID:        "id",
	Name:      "name",
	Code:      "code",
	Status:    "status",
	CreatedAt: "createdat",
	UpdatedAt: "updatedat",
}

// Columns returns all standard column names
func (t InventoryCategoryTable) Columns() []string {
	return []string{t.ID, t.Name, t.Code, t.Status, t.CreatedAt, t.UpdatedAt}
}
