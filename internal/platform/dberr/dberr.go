// Copyright (c) 2026 Stockify. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package dberr provides a bridge between low-level database errors and
// higher-level application errors.
//
// # Mapping
//
//   - pgx.ErrNoRows                -> 404 NOT_FOUND
//   - SQLSTATE 23505 (unique)      -> 409 CONFLICT
//   - SQLSTATE 23503 (foreign key) -> 400 VALIDATION_ERROR
//   - anything else                -> 500 INTERNAL_ERROR (cause kept for logs)
package dberr

import (
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/taibuivan/stockify/internal/platform/apperr"
)

// Wrap inspects a database error and converts it into an [apperr.AppError].
// resource names the entity for client-facing messages (e.g. "Supplier").
// Errors that are already AppErrors pass through untouched.
func Wrap(err error, resource string) error {
	if err == nil {
		return nil
	}

	if apperr.As(err) != nil {
		return err
	}

	// 1. Not Found mapping
	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.NotFound(resource).WithCause(err)
	}

	// 2. Constraint violations
	var pgError *pgconn.PgError
	if errors.As(err, &pgError) {
		switch pgError.Code {
		case pgerrcode.UniqueViolation:
			return apperr.Conflict(resource + " already exists").WithCause(err)
		case pgerrcode.ForeignKeyViolation:
			return apperr.ValidationError("Referenced record does not exist").WithCause(err)
		}
	}

	// 3. Unknown query errors become Internal Server Errors
	return apperr.Internal(err)
}

// IsUniqueViolation reports whether err is a Postgres unique_violation (23505).
func IsUniqueViolation(err error) bool {
	return hasCode(err, pgerrcode.UniqueViolation)
}

// IsForeignKeyViolation reports whether err is a Postgres foreign_key_violation (23503).
func IsForeignKeyViolation(err error) bool {
	return hasCode(err, pgerrcode.ForeignKeyViolation)
}

// IsNotFound reports whether err is pgx.ErrNoRows.
func IsNotFound(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

func hasCode(err error, code string) bool {
	var pgError *pgconn.PgError
	return errors.As(err, &pgError) && pgError.Code == code
}
