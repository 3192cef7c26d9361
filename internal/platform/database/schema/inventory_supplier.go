// Copyright (c) 2026 Stockify. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// InventorySupplierTable represents the 'inventory.supplier' table
type InventorySupplierTable struct {
	Table     string
	ID        string
	Name      string
	Email     string
	Phone     string
	Street    string
	City      string
	State     string
	Zip       string
	Country   string
	GSTIN     string
	Category  string
	Website   string
	Status    string
	CreatedAt string
	UpdatedAt string
}

// InventorySupplier is the schema definition for inventory.supplier
var InventorySupplier = InventorySupplierTable{
	Table:     "inventory.supplier",
	ID:        "id",
	Name:      "name",
	Email:     "email",
	Phone:     "phone",
	Street:    "street",
	City:      "city",
	State:     "state",
	Zip:       "zip",
	Country:   "country",
	GSTIN:     "gstin",
	Category:  "category",
	Website:   "website",
	Status:    "status",
	CreatedAt: "createdat",
	UpdatedAt: "updatedat",
}

// Columns returns all standard column names
func (t InventorySupplierTable) Columns() []string {
	return []string{
		t.ID, t.Name, t.Email, t.Phone, t.Street, t.City, t.State, t.Zip, t.Country,
		t.GSTIN, t.Category, t.Website, t.Status, t.CreatedAt, t.UpdatedAt,
	}
}
