// Copyright (c) 2026 Stockify. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// InventoryStockTable represents the 'inventory.stock' table
type InventoryStockTable struct {
	Table             string
	ID                string
	SKU               string
	ProductName       string
	Category          string
	QuantityAvailable string
	MinimumStockLevel string
	MaximumStockLevel string
	Status            string
	UnitCost          string
	Supplier          string
	CreatedAt         string
	UpdatedAt         string
}

// InventoryStock is the schema definition for inventory.stock
var InventoryStock = InventoryStockTable{
	Table:             "inventory.stock",
	ID:                "id",
	SKU:               "sku",
	ProductName:       "productname",
	Category:          "category",
	QuantityAvailable: "quantityavailable",
	MinimumStockLevel: "minimumstocklevel",
	MaximumStockLevel: "maximumstocklevel",
	Status:            "status",
	UnitCost:          "unitcost",
	Supplier:          "supplier",
	CreatedAt:         "createdat",
	UpdatedAt:         "updatedat",
}

// Columns returns all standard column names
func (t InventoryStockTable) Columns() []string {
	return []string{
		t.ID, t.SKU, t.ProductName, t.Category, t.QuantityAvailable, t.MinimumStockLevel,
		t.MaximumStockLevel, t.Status, t.UnitCost, t.Supplier, t.CreatedAt, t.UpdatedAt,
	}
}
