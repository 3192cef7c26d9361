// Copyright (c) 2026 Stockify. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package supplier manages the vendors purchase orders are placed with.
//
// Every supplier has a unique contact email and a full company address.
package supplier

import (
	"context"
	"time"

	"github.com/taibuivan/stockify/internal/platform/apperr"
)

// # Domain Entities

// Location is a supplier's company address.
type Location struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	Zip     string `json:"zip"`
	Country string `json:"country"`
}

// Supplier is a vendor record.
type Supplier struct {
	ID              int64     `json:"id"`
	Name            string    `json:"name"`
	Email           string    `json:"email"`
	Phone           string    `json:"phone"`
	CompanyLocation Location  `json:"companyLocation"`
	GSTIN           *string   `json:"gstin"`
	Category        string    `json:"category"`
	Website         *string   `json:"website"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// Filter narrows supplier listings.
type Filter struct {
	// Query matches name or email, case-insensitively.
	Query string

	// Status keeps only suppliers in this status when set.
	Status string
}

const (
	StatusActive   = "active"
	StatusInactive = "inactive"

	// DefaultCategory applies when a supplier is saved without one.
	DefaultCategory = "Other"
)

// # Field Identifiers

const (
	FieldName     = "name"
	FieldEmail    = "email"
	FieldPhone    = "phone"
	FieldStreet   = "companyLocation.street"
	FieldCity     = "companyLocation.city"
	FieldState    = "companyLocation.state"
	FieldZip      = "companyLocation.zip"
	FieldCountry  = "companyLocation.country"
	FieldStatus   = "status"
	FieldWebsite  = "website"
	FieldCategory = "category"
)

const (
	maxNameLength  = 200
	maxPhoneLength = 30
	maxFieldLength = 200
)

// # Domain Errors

var (
	ErrSupplierNotFound = apperr.NotFound("Supplier")
	ErrEmailTaken       = apperr.Conflict("Supplier with this email already exists")
)

// # Repository Contracts

// Repository defines the persistence contract for suppliers.
type Repository interface {
	// List returns one page of suppliers, newest first, with the total count.
	List(ctx context.Context, filter Filter, limit, offset int) ([]*Supplier, int, error)

	// Get returns one supplier or [ErrSupplierNotFound].
	Get(ctx context.Context, id int64) (*Supplier, error)

	// Create inserts a supplier. Returns [ErrEmailTaken].
	Create(ctx context.Context, supplier *Supplier) error

	// Update rewrites a supplier. Returns [ErrSupplierNotFound] or [ErrEmailTaken].
	Update(ctx context.Context, supplier *Supplier) error

	// Delete removes a supplier or returns [ErrSupplierNotFound].
	Delete(ctx context.Context, id int64) error
}
