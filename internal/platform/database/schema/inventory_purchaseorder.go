// Copyright (c) 2026 Stockify. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// InventoryPurchaseOrderTable represents the 'inventory.purchaseorder' table
type InventoryPurchaseOrderTable struct {
	Table                string
	ID                   string
	OrderDate            string
	Name                 string
	SKU                  string
	Supplier             string
	Category             string
	NumberOfItems        string
	Status               string
	ExpectedDeliveryDate string
	TotalAmount          string
	CreatedAt            string
	UpdatedAt            string
}

// InventoryPurchaseOrder is the schema definition for inventory.purchaseorder
var InventoryPurchaseOrder = InventoryPurchaseOrderTable{
	Table:                "inventory.purchaseorder",
	ID:                   "id",
	OrderDate:            "orderdate",
	Name:                 "name",
	SKU:                  "sku",
	Supplier:             "supplier",
	Category:             "category",
	NumberOfItems:        "numberofitems",
	Status:               "status",
	ExpectedDeliveryDate: "expecteddeliverydate",
	TotalAmount:          "totalamount",
	CreatedAt:            "createdat",
	UpdatedAt:            "updatedat",
}

// Columns returns all standard column names
func (t InventoryPurchaseOrderTable) Columns() []string {
	return []string{
		t.ID, t.OrderDate, t.Name, t.SKU, t.Supplier, t.Category, t.NumberOfItems,
		t.Status, t.ExpectedDeliveryDate, t.TotalAmount, t.CreatedAt, t.UpdatedAt,
	}
}
