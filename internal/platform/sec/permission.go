// Copyright (c) 2026 Stockify. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import "slices"

// # Permission Modules

// Module names a functional area of the dashboard that carries its own CRUD flags.
type Module string

const (
	ModuleDashboard  Module = "dashboard"
	ModuleProducts   Module = "products"
	ModuleUsers      Module = "users"
	ModuleOrders     Module = "orders"
	ModuleStocks     Module = "stocks"
	ModuleSales      Module = "sales"
	ModuleReports    Module = "reports"
	ModuleSuppliers  Module = "suppliers"
	ModuleCategories Module = "categories"
)

// modules is the fixed enumeration. Every role stores exactly one permission row per entry.
var modules = []Module{
	ModuleDashboard,
	ModuleProducts,
	ModuleUsers,
	ModuleOrders,
	ModuleStocks,
	ModuleSales,
	ModuleReports,
	ModuleSuppliers,
	ModuleCategories,
}

// Modules returns a copy of the fixed module enumeration in display order.
func Modules() []Module {
	return slices.Clone(modules)
}

// IsValid reports whether m belongs to the fixed enumeration.
func (m Module) IsValid() bool {
	return slices.Contains(modules, m)
}

// # Actions

// Action is one of the four flags stored per module.
type Action string

const (
	ActionCreate Action = "create"
	ActionRead   Action = "read"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// IsValid reports whether a is a known action.
func (a Action) IsValid() bool {
	switch a {
	case ActionCreate, ActionRead, ActionUpdate, ActionDelete:
		return true
	default:
		return false
	}
}
