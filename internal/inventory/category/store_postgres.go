// Copyright (c) 2026 Stockify. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package category

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/stockify/internal/platform/database/schema"
	"github.com/taibuivan/stockify/internal/platform/dberr"
	"github.com/taibuivan/stockify/internal/platform/postgres"
)

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL implementation of the Repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

var categoryColumns = schema.List(schema.InventoryCategory.Columns())

func scanCategory(row pgx.Row) (*Category, error) {
	category := &Category{}
	err := row.Scan(
		&category.ID,
		&category.Name,
		&category.Code,
		&category.Status,
		&category.CreatedAt,
		&category.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return category, nil
}

// List returns every category ordered by name.
func (repository *PostgresRepository) List(context context.Context) ([]*Category, error) {
	table := schema.InventoryCategory
	query := fmt.Sprintf(`SELECT %s FROM %s ORDER BY %s`, categoryColumns, table.Table, table.Name)

	rows, err := repository.pool.Query(context, query)
	if err != nil {
		return nil, fmt.Errorf("postgres_category_repo_list_failed: %w", err)
	}
	defer rows.Close()

	categories := make([]*Category, 0)
	for rows.Next() {
		category, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("postgres_category_repo_scan_failed: %w", err)
		}
		categories = append(categories, category)
	}

	return categories, rows.Err()
}

// Get returns one category.
func (repository *PostgresRepository) Get(context context.Context, id int64) (*Category, error) {
	table := schema.InventoryCategory
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`, categoryColumns, table.Table, table.ID)

	category, err := scanCategory(repository.pool.QueryRow(context, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("postgres_category_repo_get_failed: %w", err)
	}

	return category, nil
}

/*
Create inserts a category.

Description: Name and code are checked inside the insert transaction. The
unique indexes still arbitrate when two transactions race.
*/
func (repository *PostgresRepository) Create(context context.Context, category *Category) error {
	table := schema.InventoryCategory

	return postgres.WithTx(context, repository.pool, func(tx pgx.Tx) error {
		if err := ensureUnique(context, tx, category); err != nil {
			return err
		}

		query := fmt.Sprintf(`
			INSERT INTO %s (%s, %s, %s)
			VALUES ($1, $2, $3)
			RETURNING %s, %s, %s`,
			table.Table, table.Name, table.Code, table.Status,
			table.ID, table.CreatedAt, table.UpdatedAt,
		)

		err := tx.QueryRow(context, query, category.Name, category.Code, category.Status).
			Scan(&category.ID, &category.CreatedAt, &category.UpdatedAt)
		if err != nil {
			return uniqueError(err, "postgres_category_repo_create_failed")
		}
		return nil
	})
}

// Update rewrites name, code and status.
func (repository *PostgresRepository) Update(context context.Context, category *Category) error {
	table := schema.InventoryCategory

	return postgres.WithTx(context, repository.pool, func(tx pgx.Tx) error {
		if err := ensureUnique(context, tx, category); err != nil {
			return err
		}

		query := fmt.Sprintf(`
			UPDATE %s SET %s = $2, %s = $3, %s = $4, %s = NOW()
			WHERE %s = $1
			RETURNING %s, %s`,
			table.Table, table.Name, table.Code, table.Status, table.UpdatedAt,
			table.ID,
			table.CreatedAt, table.UpdatedAt,
		)

		err := tx.QueryRow(context, query, category.ID, category.Name, category.Code, category.Status).
			Scan(&category.CreatedAt, &category.UpdatedAt)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrCategoryNotFound
			}
			return uniqueError(err, "postgres_category_repo_update_failed")
		}
		return nil
	})
}

// Delete removes a category.
func (repository *PostgresRepository) Delete(context context.Context, id int64) error {
	table := schema.InventoryCategory
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, table.Table, table.ID)

	tag, err := repository.pool.Exec(context, query, id)
	if err != nil {
		return fmt.Errorf("postgres_category_repo_delete_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrCategoryNotFound
	}

	return nil
}

// ensureUnique reports the first of name or code already used by another row.
func ensureUnique(context context.Context, db postgres.DBTX, category *Category) error {
	table := schema.InventoryCategory
	checks := []struct {
		column string
		value  string
		taken  error
	}{
		{table.Name, category.Name, ErrNameTaken},
		{table.Code, category.Code, ErrCodeTaken},
	}

	for _, check := range checks {
		query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1 AND %s <> $2)`,
			table.Table, check.column, table.ID)

		var exists bool
		if err := db.QueryRow(context, query, check.value, category.ID).Scan(&exists); err != nil {
			return fmt.Errorf("postgres_category_repo_unique_check_failed: %w", err)
		}
		if exists {
			return check.taken
		}
	}

	return nil
}

// uniqueError maps a lost race on either unique index to its domain error.
func uniqueError(err error, operation string) error {
	if !dberr.IsUniqueViolation(err) {
		return fmt.Errorf("%s: %w", operation, err)
	}

	var pgError *pgconn.PgError
	if errors.As(err, &pgError) && pgError.ConstraintName == "category_code_key" {
		return ErrCodeTaken
	}
	return ErrNameTaken
}
